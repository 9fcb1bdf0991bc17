// Package server exposes the lint, fix, search and chat operations over
// HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/c360studio/streamdoc/analytics"
	"github.com/c360studio/streamdoc/chat"
	"github.com/c360studio/streamdoc/events"
	"github.com/c360studio/streamdoc/extval"
	"github.com/c360studio/streamdoc/retrieval"
)

// Asker answers documentation questions.
type Asker interface {
	Ask(ctx context.Context, question string) (*chat.Answer, error)
}

// Server holds the HTTP surface and its collaborators. Analytics, events
// and the external validator are optional; nil disables each.
type Server struct {
	index     *retrieval.Index
	asker     Asker
	extval    *extval.Client
	analytics *analytics.Store
	events    *events.Publisher
	logger    *slog.Logger

	addr            string
	maxBodyBytes    int64
	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithAsker enables the chat endpoint.
func WithAsker(a Asker) Option {
	return func(s *Server) { s.asker = a }
}

// WithExternalValidator merges authoritative findings into lint responses.
func WithExternalValidator(c *extval.Client) Option {
	return func(s *Server) { s.extval = c }
}

// WithAnalytics records usage events.
func WithAnalytics(store *analytics.Store) Option {
	return func(s *Server) { s.analytics = store }
}

// WithEvents publishes usage events.
func WithEvents(p *events.Publisher) Option {
	return func(s *Server) { s.events = p }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithMaxBodyBytes caps request body sizes.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBodyBytes = n }
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) { s.shutdownTimeout = d }
}

// New creates a server listening on addr.
func New(addr string, index *retrieval.Index, opts ...Option) *Server {
	s := &Server{
		index:           index,
		logger:          slog.Default(),
		addr:            addr,
		maxBodyBytes:    1 << 20,
		shutdownTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with all endpoints mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/lint", s.instrument("lint", s.handleLint))
		r.Post("/fix", s.instrument("fix", s.handleFix))
		r.Post("/chat", s.instrument("chat", s.handleChat))
		r.Get("/search", s.instrument("search", s.handleSearch))
	})

	return r
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", slog.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return srv.Shutdown(shutdownCtx)
}

// logRequests logs each request with its assigned request ID.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("Request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// instrument wraps a handler with prometheus counters and latency.
func (s *Server) instrument(endpoint string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		h(ww, r)
		requestsTotal.WithLabelValues(endpoint, statusLabel(ww.Status())).Inc()
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}
}

func statusLabel(code int) string {
	if code == 0 {
		code = http.StatusOK
	}
	switch {
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
