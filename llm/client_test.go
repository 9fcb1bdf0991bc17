package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts:       3,
		BackoffBase:       time.Millisecond,
		BackoffMultiplier: 1.0,
		MaxBackoff:        time.Millisecond,
	}
}

func completionBody(content string) string {
	resp := chatResponse{Model: "test-model"}
	resp.Choices = append(resp.Choices, struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	}{Message: Message{Role: "assistant", Content: content}, FinishReason: "stop"})
	resp.Usage = TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
	b, _ := json.Marshal(resp)
	return string(b)
}

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer token")
		}
		if r.Header.Get("X-Request-Id") == "" {
			t.Error("missing request id")
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %s", req.Model)
		}
		w.Write([]byte(completionBody("hello")))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", WithAPIKey("secret"), WithRetryConfig(fastRetry()))

	resp, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "hello" {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.Usage.TotalTokens != 15 {
		t.Errorf("tokens = %d", resp.Usage.TotalTokens)
	}
	if resp.RequestID == "" {
		t.Error("response has no request id")
	}
}

func TestCompleteRequiresMessages(t *testing.T) {
	client := NewClient("http://localhost:0", "m")
	if _, err := client.Complete(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty messages")
	}
}

func TestCompleteRetriesTransient(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(completionBody("recovered")))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", WithRetryConfig(fastRetry()))

	resp, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if resp.Content != "recovered" {
		t.Errorf("content = %q", resp.Content)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestCompleteFatalNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", WithRetryConfig(fastRetry()))

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsFatal(err) {
		t.Errorf("expected fatal error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestCompleteExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model", WithRetryConfig(fastRetry()))

	_, err := client.Complete(context.Background(), []Message{{Role: "user", Content: "hi"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsTransient(err) {
		t.Errorf("expected transient error, got %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		// Return vectors out of order; the client must restore input order.
		resp := embeddingResponse{}
		resp.Data = append(resp.Data, struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}{Index: 1, Embedding: []float32{0.2, 0.2}})
		resp.Data = append(resp.Data, struct {
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}{Index: 0, Embedding: []float32{0.1, 0.1}})
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-model",
		WithEmbeddingModel("embed-model"),
		WithRetryConfig(fastRetry()))

	vecs, err := client.Embed(context.Background(), []string{"first", "second"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vecs) != 2 {
		t.Fatalf("got %d vectors", len(vecs))
	}
	if vecs[0][0] != 0.1 || vecs[1][0] != 0.2 {
		t.Errorf("vectors not in input order: %v", vecs)
	}
}

func TestEmbedEmptyInput(t *testing.T) {
	client := NewClient("http://localhost:0", "m", WithEmbeddingModel("e"))
	vecs, err := client.Embed(context.Background(), nil)
	if err != nil || vecs != nil {
		t.Errorf("empty input should be a no-op, got %v, %v", vecs, err)
	}
}

func TestEmbedWithoutModelConfigured(t *testing.T) {
	client := NewClient("http://localhost:0", "m")
	if _, err := client.Embed(context.Background(), []string{"x"}); !IsFatal(err) {
		t.Errorf("expected fatal error, got %v", err)
	}
}

func TestBackoffCapped(t *testing.T) {
	client := NewClient("http://localhost:0", "m", WithRetryConfig(RetryConfig{
		MaxAttempts:       5,
		BackoffBase:       time.Second,
		BackoffMultiplier: 10,
		MaxBackoff:        2 * time.Second,
	}))

	// Jitter is +/- 25%.
	got := client.calculateBackoff(4)
	if got > 2*time.Second+2*time.Second/4 {
		t.Errorf("backoff %s exceeds cap with jitter", got)
	}
}
