package retrieval

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay batches rapid editor write bursts into one reindex.
const debounceDelay = 500 * time.Millisecond

// Watcher reindexes documentation files when they change on disk.
type Watcher struct {
	index   *Index
	watcher *fsnotify.Watcher
	logger  *slog.Logger
}

// NewWatcher creates a watcher over the directories containing the given
// files.
func NewWatcher(idx *Index, paths []string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			logger.Warn("Cannot watch directory", slog.String("dir", dir), slog.String("error", err.Error()))
		}
	}

	return &Watcher{index: idx, watcher: fsw, logger: logger}, nil
}

// Run processes filesystem events until the context is cancelled. Changed
// markdown files are reindexed after a debounce window; removed files leave
// the index.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	dirty := make(map[string]struct{})
	timer := time.NewTimer(debounceDelay)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, ".md") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			dirty[event.Name] = struct{}{}
			timer.Reset(debounceDelay)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watcher error", slog.String("error", err.Error()))

		case <-timer.C:
			for path := range dirty {
				w.reindex(ctx, path)
			}
			dirty = make(map[string]struct{})
		}
	}
}

func (w *Watcher) reindex(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			w.index.RemoveDocument(path)
			w.logger.Info("Removed doc from index", slog.String("path", path))
			return
		}
		w.logger.Warn("Cannot reread changed doc", slog.String("path", path), slog.String("error", err.Error()))
		return
	}

	if err := w.index.AddDocument(ctx, path, string(data)); err != nil {
		w.logger.Warn("Reindex failed", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	w.logger.Info("Reindexed doc", slog.String("path", path))
}
