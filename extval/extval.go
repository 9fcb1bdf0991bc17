// Package extval calls an external authoritative pipeline linter and merges
// its findings with local validation. The collaborator is advisory: any
// failure to reach or parse it contributes nothing and is logged, never
// surfaced to the caller.
package extval

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/c360studio/streamdoc/validate"
)

// maxResponseSize caps the collaborator response body.
const maxResponseSize = 1 << 20

// Client posts raw configuration text to an authoritative lint endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// remoteResult is the collaborator's wire format.
type remoteResult struct {
	Errors   []validate.Issue `json:"errors"`
	Warnings []validate.Issue `json:"warnings"`
}

// NewClient creates a client for the given endpoint. A zero timeout
// defaults to three seconds.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.endpoint != ""
}

// Merge augments a local validation result with the collaborator's
// findings. On any failure the local result is returned unchanged.
func (c *Client) Merge(ctx context.Context, configText string, local validate.Result) validate.Result {
	if !c.Enabled() {
		return local
	}

	remote, ok := c.check(ctx, configText)
	if !ok {
		return local
	}

	local.Errors = append(local.Errors, remote.Errors...)
	for _, warning := range remote.Warnings {
		local.Warnings = append(local.Warnings, warningString(warning))
	}
	local.Valid = len(local.Errors) == 0
	return local
}

func warningString(issue validate.Issue) string {
	if issue.Path == "" {
		return issue.Message
	}
	return issue.Path + ": " + issue.Message
}

// check performs one call. The bool result is false whenever the
// collaborator could not produce a usable answer.
func (c *Client) check(ctx context.Context, configText string) (remoteResult, bool) {
	var result remoteResult

	body, err := json.Marshal(map[string]string{"config": configText})
	if err != nil {
		c.logger.Warn("External validator request marshal failed", slog.String("error", err.Error()))
		return result, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		c.logger.Warn("External validator request build failed", slog.String("error", err.Error()))
		return result, false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("External validator unreachable", slog.String("error", err.Error()))
		return result, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("External validator returned non-OK status", slog.Int("status", resp.StatusCode))
		return result, false
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		c.logger.Warn("External validator response read failed", slog.String("error", err.Error()))
		return result, false
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		c.logger.Warn("External validator response malformed", slog.String("error", err.Error()))
		return result, false
	}

	return result, true
}
