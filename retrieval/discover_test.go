package retrieval

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverAndIndexGlobs(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("guides/inputs.md", "# Inputs\n\nkafka and file inputs.")
	write("guides/nested/outputs.md", "# Outputs\n\nstdout output.")
	write("guides/ignore.txt", "not markdown")

	pattern := filepath.Join(dir, "**", "*.md")

	paths, err := Discover([]string{pattern, pattern})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}
	// Duplicated patterns must not duplicate results, and order is sorted.
	if paths[0] > paths[1] {
		t.Errorf("unsorted: %v", paths)
	}

	idx := NewIndex()
	n, err := IndexGlobs(context.Background(), idx, []string{pattern}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("indexed %d files, want 2", n)
	}
	if idx.Len() == 0 {
		t.Error("index is empty")
	}
}

func TestDiscoverBadPattern(t *testing.T) {
	if _, err := Discover([]string{"[\\"}); err == nil {
		t.Error("expected error for malformed glob")
	}
}
