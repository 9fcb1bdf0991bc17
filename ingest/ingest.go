package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/streamdoc/retrieval"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "streamdoc/1.0"
	defaultMaxBytes  = 5 * 1024 * 1024
)

// Ingester fetches documentation pages and adds them to the index under a
// "web/" path prefix.
type Ingester struct {
	fetcher   *Fetcher
	converter *Converter
	index     *retrieval.Index
	logger    *slog.Logger
}

// NewIngester creates an ingester writing into idx.
func NewIngester(idx *retrieval.Index, logger *slog.Logger) *Ingester {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingester{
		fetcher:   NewFetcher(defaultTimeout, defaultUserAgent, defaultMaxBytes),
		converter: NewConverter(),
		index:     idx,
		logger:    logger,
	}
}

// FetchPage fetches one page and converts it to markdown without indexing
// it. The returned markdown includes the extracted title as a heading.
func FetchPage(ctx context.Context, pageURL string) (*ConvertResult, error) {
	fetched, err := NewFetcher(defaultTimeout, defaultUserAgent, defaultMaxBytes).Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	converted, err := NewConverter().Convert(fetched.Body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", pageURL, err)
	}
	if converted.Title != "" {
		converted.Markdown = "# " + converted.Title + "\n\n" + converted.Markdown
	}
	return converted, nil
}

// IngestURL fetches one page, converts it to markdown and indexes it.
// It returns the index path the page was stored under.
func (ing *Ingester) IngestURL(ctx context.Context, pageURL string) (string, error) {
	fetched, err := ing.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, err)
	}

	converted, err := ing.converter.Convert(fetched.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("convert %s: %w", pageURL, err)
	}

	content := converted.Markdown
	if converted.Title != "" {
		content = "# " + converted.Title + "\n\n" + content
	}

	path := "web/" + Slug(pageURL) + ".md"
	if err := ing.index.AddDocument(ctx, path, content); err != nil {
		return "", fmt.Errorf("index %s: %w", pageURL, err)
	}

	ing.logger.Info("Ingested page",
		slog.String("url", pageURL),
		slog.String("path", path),
		slog.String("title", converted.Title))
	return path, nil
}
