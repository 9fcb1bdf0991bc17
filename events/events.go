// Package events publishes usage events to NATS. Publishing is optional
// and fail-open: a nil publisher or a broken connection never affects the
// operation being reported.
package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects published under the configured prefix.
const (
	SubjectLint = "lint"
	SubjectFix  = "fix"
	SubjectChat = "chat"
)

// LintEvent reports one lint run.
type LintEvent struct {
	Valid    bool      `json:"valid"`
	Errors   int       `json:"errors"`
	Warnings int       `json:"warnings"`
	Source   string    `json:"source"`
	At       time.Time `json:"at"`
}

// FixEvent reports one auto-fix run.
type FixEvent struct {
	Applied   int       `json:"applied"`
	Suggested int       `json:"suggested"`
	Source    string    `json:"source"`
	At        time.Time `json:"at"`
}

// ChatEvent reports one answered question.
type ChatEvent struct {
	Question   string    `json:"question"`
	Sources    int       `json:"sources"`
	DurationMS int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}

// Publisher sends JSON events to NATS subjects.
type Publisher struct {
	conn   *nats.Conn
	prefix string
	logger *slog.Logger
}

// Connect dials the NATS server. An empty URL returns a nil publisher,
// which is a valid no-op.
func Connect(url, prefix string, logger *slog.Logger) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	if prefix == "" {
		prefix = "streamdoc"
	}

	conn, err := nats.Connect(url,
		nats.Name("streamdoc"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &Publisher{conn: conn, prefix: prefix, logger: logger}, nil
}

// Publish sends one event on prefix.subject. Failures are logged and
// swallowed.
func (p *Publisher) Publish(subject string, event any) {
	if p == nil || p.conn == nil {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("Event marshal failed", slog.String("subject", subject), slog.String("error", err.Error()))
		return
	}

	full := p.prefix + "." + subject
	if err := p.conn.Publish(full, payload); err != nil {
		p.logger.Warn("Event publish failed", slog.String("subject", full), slog.String("error", err.Error()))
	}
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.logger.Warn("NATS drain failed", slog.String("error", err.Error()))
	}
}
