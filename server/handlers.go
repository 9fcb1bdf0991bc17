package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/c360studio/streamdoc/analytics"
	"github.com/c360studio/streamdoc/autofix"
	"github.com/c360studio/streamdoc/events"
	"github.com/c360studio/streamdoc/validate"
)

// lintRequest is the body of /api/lint and /api/fix.
type lintRequest struct {
	Config string `json:"config"`
}

// chatRequest is the body of /api/chat.
type chatRequest struct {
	Question string `json:"question"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"chunks": s.index.Len(),
	})
}

func (s *Server) handleLint(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req lintRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Config == "" {
		writeError(w, http.StatusBadRequest, "config is required")
		return
	}

	result := validate.Config(req.Config)
	if s.extval.Enabled() {
		result = s.extval.Merge(r.Context(), req.Config, result)
	}

	lintResults.WithLabelValues(strconv.FormatBool(result.Valid)).Inc()
	s.record(analytics.Event{
		Operation:    "lint",
		Source:       "http",
		DurationMS:   time.Since(start).Milliseconds(),
		Success:      true,
		ErrorCount:   len(result.Errors),
		WarningCount: len(result.Warnings),
	})
	s.events.Publish(events.SubjectLint, events.LintEvent{
		Valid:    result.Valid,
		Errors:   len(result.Errors),
		Warnings: len(result.Warnings),
		Source:   "http",
		At:       time.Now(),
	})

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleFix(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req lintRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Config == "" {
		writeError(w, http.StatusBadRequest, "config is required")
		return
	}

	result := autofix.Apply(req.Config)

	fixesApplied.Add(float64(len(result.AppliedFixes)))
	s.record(analytics.Event{
		Operation:    "fix",
		Source:       "http",
		DurationMS:   time.Since(start).Milliseconds(),
		Success:      true,
		AppliedFixes: len(result.AppliedFixes),
	})
	s.events.Publish(events.SubjectFix, events.FixEvent{
		Applied:   len(result.AppliedFixes),
		Suggested: len(result.SuggestedFixes),
		Source:    "http",
		At:        time.Now(),
	})

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.asker == nil {
		writeError(w, http.StatusServiceUnavailable, "chat is not configured")
		return
	}

	var req chatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := s.asker.Ask(r.Context(), req.Question)
	if err != nil {
		s.logger.Error("Chat failed", "error", err)
		s.record(analytics.Event{
			Operation:  "chat",
			Source:     "http",
			DurationMS: time.Since(start).Milliseconds(),
			Success:    false,
			Detail:     err.Error(),
		})
		writeError(w, http.StatusBadGateway, "answer generation failed")
		return
	}

	s.record(analytics.Event{
		Operation:  "chat",
		Source:     "http",
		DurationMS: time.Since(start).Milliseconds(),
		Success:    true,
	})
	s.events.Publish(events.SubjectChat, events.ChatEvent{
		Question:   req.Question,
		Sources:    len(answer.Sources),
		DurationMS: time.Since(start).Milliseconds(),
		At:         time.Now(),
	})

	writeJSON(w, http.StatusOK, answer)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "q parameter is required")
		return
	}

	k := 10
	if kStr := r.URL.Query().Get("k"); kStr != "" {
		parsed, err := strconv.Atoi(kStr)
		if err != nil || parsed <= 0 || parsed > 50 {
			writeError(w, http.StatusBadRequest, "k must be between 1 and 50")
			return
		}
		k = parsed
	}

	hits, err := s.index.Search(r.Context(), query, k)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	s.record(analytics.Event{Operation: "search", Source: "http", Success: true})
	writeJSON(w, http.StatusOK, map[string]any{"hits": hits})
}

// decode reads a JSON body with the configured size cap.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// record stores an analytics event when analytics is enabled.
func (s *Server) record(event analytics.Event) {
	if s.analytics != nil {
		s.analytics.Record(event)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
