package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/c360studio/streamdoc/chat"
	"github.com/c360studio/streamdoc/retrieval"
	"github.com/c360studio/streamdoc/validate"
)

type stubAsker struct {
	answer *chat.Answer
	err    error
}

func (s *stubAsker) Ask(_ context.Context, _ string) (*chat.Answer, error) {
	return s.answer, s.err
}

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	idx := retrieval.NewIndex()
	if err := idx.AddDocument(context.Background(), "docs/kafka.md", "# Kafka\n\nkafka input topics"); err != nil {
		t.Fatal(err)
	}
	srv := New("127.0.0.1:0", idx, opts...)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestLintEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/lint", `{"config":"input:\n  kafaka: {}\noutput:\n  stdout: {}\n"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var result validate.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Valid {
		t.Error("kafaka config should be invalid")
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0].Suggestion, "kafka") {
		t.Errorf("errors = %+v", result.Errors)
	}
}

func TestLintEndpointRejectsEmptyBody(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/lint", `{"config":""}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}

	resp = postJSON(t, ts.URL+"/api/lint", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestFixEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/fix", `{"config":"input:\n  kafaka: {}\noutput:\n  stdout: {}\n"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var result struct {
		CorrectedText string   `json:"corrected_text"`
		AppliedFixes  []string `json:"applied_fixes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result.CorrectedText, "kafka:") {
		t.Errorf("corrected = %q", result.CorrectedText)
	}
	if len(result.AppliedFixes) != 1 {
		t.Errorf("applied = %v", result.AppliedFixes)
	}
}

func TestChatEndpoint(t *testing.T) {
	ts := newTestServer(t, WithAsker(&stubAsker{answer: &chat.Answer{
		Text:    "Use the kafka input.",
		Sources: []string{"docs/kafka.md > Kafka"},
	}}))

	resp := postJSON(t, ts.URL+"/api/chat", `{"question":"how do I consume kafka?"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var answer chat.Answer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		t.Fatal(err)
	}
	if answer.Text != "Use the kafka input." {
		t.Errorf("text = %q", answer.Text)
	}
}

func TestChatEndpointUnconfigured(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/chat", `{"question":"hi"}`)
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d", resp.StatusCode)
	}
}

func TestSearchEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/search?q=kafka")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var result struct {
		Hits []retrieval.Hit `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Hits) == 0 {
		t.Error("expected hits")
	}

	resp2, err := http.Get(ts.URL + "/api/search")
	if err != nil {
		t.Fatal(err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusBadRequest {
		t.Errorf("missing q should 400, got %d", resp2.StatusCode)
	}

	resp3, err := http.Get(ts.URL + "/api/search?q=kafka&k=999")
	if err != nil {
		t.Fatal(err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusBadRequest {
		t.Errorf("oversized k should 400, got %d", resp3.StatusCode)
	}
}

func TestBodySizeCap(t *testing.T) {
	ts := newTestServer(t, WithMaxBodyBytes(64))

	big := `{"config":"` + strings.Repeat("x", 200) + `"}`
	resp := postJSON(t, ts.URL+"/api/lint", big)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("oversized body should 400, got %d", resp.StatusCode)
	}
}
