package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover expands doublestar glob patterns into a sorted, deduplicated
// list of file paths.
func Discover(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			seen[m] = struct{}{}
		}
	}

	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths, nil
}

// IndexGlobs discovers documentation files matching the patterns and adds
// each to the index. Unreadable files are skipped with a warning; the count
// of indexed files is returned.
func IndexGlobs(ctx context.Context, idx *Index, patterns []string, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}

	paths, err := Discover(patterns)
	if err != nil {
		return 0, err
	}

	indexed := 0
	for _, path := range paths {
		if ctx.Err() != nil {
			return indexed, ctx.Err()
		}
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Skipping unreadable doc", slog.String("path", path), slog.String("error", err.Error()))
			continue
		}
		if err := idx.AddDocument(ctx, path, string(data)); err != nil {
			return indexed, fmt.Errorf("index %s: %w", path, err)
		}
		indexed++
	}

	logger.Info("Documentation indexed", slog.Int("files", indexed), slog.Int("chunks", idx.Len()))
	return indexed, nil
}
