// Package analytics records usage events (lint, fix, chat, search) in a
// local SQLite database. Recording is non-blocking and best-effort: a full
// buffer drops events rather than slowing the caller.
package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Event is one recorded operation.
type Event struct {
	ID        string
	Timestamp time.Time

	// Operation is "lint", "fix", "chat" or "search".
	Operation string

	// Source is the surface the request came from: "http", "mcp" or "cli".
	Source string

	DurationMS int64
	Success    bool

	// ErrorCount and WarningCount describe the result for lint operations;
	// AppliedFixes counts rewrites for fix operations.
	ErrorCount   int
	WarningCount int
	AppliedFixes int

	// Detail carries free-form context such as an error message.
	Detail string
}

// Config configures the store.
type Config struct {
	// BatchSize is the number of events written per transaction.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration

	// BufferSize is the in-memory event buffer capacity.
	BufferSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:     64,
		FlushInterval: 5 * time.Second,
		BufferSize:    256,
	}
}

// Store is a buffered, batched SQLite event store.
type Store struct {
	db     *sql.DB
	buffer chan Event
	done   chan struct{}
	wg     sync.WaitGroup

	batchSize     int
	flushInterval time.Duration
}

// Open creates or opens the database at path and starts the background
// flusher.
func Open(path string, cfg Config) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open analytics db: %w", err)
	}
	store, err := NewStore(db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wraps an existing database handle.
func NewStore(db *sql.DB, cfg Config) (*Store, error) {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 64
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 256
	}

	s := &Store{
		db:            db,
		buffer:        make(chan Event, cfg.BufferSize),
		done:          make(chan struct{}),
		batchSize:     cfg.BatchSize,
		flushInterval: cfg.FlushInterval,
	}

	if err := s.createTable(); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.flusher()

	return s, nil
}

func (s *Store) createTable() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS usage_events (
			id TEXT PRIMARY KEY,
			timestamp TEXT NOT NULL,
			operation TEXT NOT NULL,
			source TEXT NOT NULL,
			duration_ms INTEGER NOT NULL,
			success INTEGER NOT NULL,
			error_count INTEGER DEFAULT 0,
			warning_count INTEGER DEFAULT 0,
			applied_fixes INTEGER DEFAULT 0,
			detail TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_usage_timestamp ON usage_events(timestamp);
		CREATE INDEX IF NOT EXISTS idx_usage_operation ON usage_events(operation);
	`)
	if err != nil {
		return fmt.Errorf("create analytics table: %w", err)
	}
	return nil
}

// Record stores an event without blocking. Events are dropped when the
// buffer is full.
func (s *Store) Record(event Event) {
	select {
	case s.buffer <- event:
	default:
	}
}

// Flush forces pending events to be written.
func (s *Store) Flush(ctx context.Context) error {
	return s.write(ctx, s.drain())
}

// Close flushes remaining events and stops the flusher.
func (s *Store) Close() error {
	close(s.done)
	s.wg.Wait()
	return s.db.Close()
}

func (s *Store) drain() []Event {
	var events []Event
	for {
		select {
		case e := <-s.buffer:
			events = append(events, e)
		default:
			return events
		}
	}
}

func (s *Store) flusher() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.flushInterval)
	defer ticker.Stop()

	var batch []Event

	for {
		select {
		case <-s.done:
			s.write(context.Background(), append(batch, s.drain()...))
			return

		case e := <-s.buffer:
			batch = append(batch, e)
			if len(batch) >= s.batchSize {
				s.write(context.Background(), batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				s.write(context.Background(), batch)
				batch = nil
			}
		}
	}
}

func (s *Store) write(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO usage_events (
			id, timestamp, operation, source, duration_ms,
			success, error_count, warning_count, applied_fixes, detail
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range events {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now()
		}

		successInt := 0
		if e.Success {
			successInt = 1
		}

		if _, err := stmt.ExecContext(ctx,
			e.ID, e.Timestamp.Format(time.RFC3339Nano),
			e.Operation, e.Source, e.DurationMS,
			successInt, e.ErrorCount, e.WarningCount, e.AppliedFixes, e.Detail,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// OperationCount is one row of a usage summary.
type OperationCount struct {
	Operation string
	Count     int
	Failures  int
}

// Summary aggregates stored events per operation, ordered by operation
// name.
func (s *Store) Summary(ctx context.Context) ([]OperationCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT operation, COUNT(*), SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END)
		FROM usage_events GROUP BY operation ORDER BY operation
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []OperationCount
	for rows.Next() {
		var oc OperationCount
		if err := rows.Scan(&oc.Operation, &oc.Count, &oc.Failures); err != nil {
			return nil, err
		}
		counts = append(counts, oc)
	}
	return counts, rows.Err()
}
