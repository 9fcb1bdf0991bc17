package extval

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/c360studio/streamdoc/validate"
)

func localResult() validate.Result {
	return validate.Result{
		Valid: true,
	}
}

func TestMergeAppendsRemoteFindings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"path":"input.kafka.topics","message":"topic does not exist"}],"warnings":[{"path":"output.stdout","message":"stdout is not for production"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil)
	merged := client.Merge(context.Background(), "input: {}", localResult())

	if merged.Valid {
		t.Error("remote error should invalidate the result")
	}
	if len(merged.Errors) != 1 || merged.Errors[0].Path != "input.kafka.topics" {
		t.Errorf("errors = %+v", merged.Errors)
	}
	if len(merged.Warnings) != 1 || merged.Warnings[0] != "output.stdout: stdout is not for production" {
		t.Errorf("warnings = %+v", merged.Warnings)
	}
}

func TestMergeFlattensPathlessWarnings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[],"warnings":[{"message":"validator catalog is stale"}]}`))
	}))
	defer srv.Close()

	merged := NewClient(srv.URL, time.Second, nil).Merge(context.Background(), "input: {}", localResult())
	if !merged.Valid {
		t.Errorf("warnings alone must not invalidate: %+v", merged)
	}
	if len(merged.Warnings) != 1 || merged.Warnings[0] != "validator catalog is stale" {
		t.Errorf("warnings = %+v", merged.Warnings)
	}
}

func TestMergeFailsOpenOnUnreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond, nil)
	merged := client.Merge(context.Background(), "input: {}", localResult())

	if !merged.Valid || len(merged.Errors) != 0 {
		t.Errorf("unreachable collaborator must contribute nothing: %+v", merged)
	}
}

func TestMergeFailsOpenOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	merged := NewClient(srv.URL, time.Second, nil).Merge(context.Background(), "x", localResult())
	if !merged.Valid {
		t.Errorf("server error must fail open: %+v", merged)
	}
}

func TestMergeFailsOpenOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	merged := NewClient(srv.URL, time.Second, nil).Merge(context.Background(), "x", localResult())
	if !merged.Valid {
		t.Errorf("malformed response must fail open: %+v", merged)
	}
}

func TestMergeFailsOpenOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte(`{"errors":[]}`))
	}))
	defer srv.Close()

	start := time.Now()
	merged := NewClient(srv.URL, 50*time.Millisecond, nil).Merge(context.Background(), "x", localResult())
	if !merged.Valid {
		t.Errorf("timeout must fail open: %+v", merged)
	}
	if time.Since(start) > time.Second {
		t.Error("merge did not respect timeout bound")
	}
}

func TestDisabledClientPassesThrough(t *testing.T) {
	local := localResult()
	local.Errors = append(local.Errors, validate.Issue{Path: "root", Message: "x"})
	local.Valid = false

	merged := NewClient("", time.Second, nil).Merge(context.Background(), "x", local)
	if len(merged.Errors) != 1 {
		t.Errorf("disabled client must not alter the local result: %+v", merged)
	}

	var nilClient *Client
	if nilClient.Enabled() {
		t.Error("nil client must report disabled")
	}
}
