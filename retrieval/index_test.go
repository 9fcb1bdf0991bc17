package retrieval

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// stubEmbedder returns fixed vectors keyed by substring.
type stubEmbedder struct {
	fail bool
}

func (s *stubEmbedder) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	if s.fail {
		return nil, fmt.Errorf("embedder down")
	}
	out := make([][]float32, len(inputs))
	for i, text := range inputs {
		switch {
		case strings.Contains(strings.ToLower(text), "kafka"):
			out[i] = []float32{1, 0}
		default:
			out[i] = []float32{0, 1}
		}
	}
	return out, nil
}

func TestKeywordSearch(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	must(t, idx.AddDocument(ctx, "docs/kafka.md", "# Kafka input\n\nThe kafka input consumes from kafka topics with a consumer group."))
	must(t, idx.AddDocument(ctx, "docs/file.md", "# File input\n\nReads lines from files on disk."))

	hits, err := idx.Search(ctx, "kafka consumer group", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 {
		t.Fatal("expected hits")
	}
	if hits[0].Chunk.Path != "docs/kafka.md" {
		t.Errorf("top hit = %s", hits[0].Chunk.Path)
	}
}

func TestHybridSearchPrefersVectorMatch(t *testing.T) {
	idx := NewIndex(WithEmbedder(&stubEmbedder{}))
	ctx := context.Background()

	must(t, idx.AddDocument(ctx, "docs/kafka.md", "# Kafka\n\nBroker addresses and topics."))
	must(t, idx.AddDocument(ctx, "docs/other.md", "# Other\n\nNothing relevant here."))

	hits, err := idx.Search(ctx, "kafka brokers", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) == 0 || hits[0].Chunk.Path != "docs/kafka.md" {
		t.Fatalf("unexpected hits: %+v", hits)
	}
}

func TestEmbedderFailureFallsBackToKeywords(t *testing.T) {
	idx := NewIndex(WithEmbedder(&stubEmbedder{fail: true}))
	ctx := context.Background()

	must(t, idx.AddDocument(ctx, "docs/kafka.md", "kafka topics and consumer groups"))

	hits, err := idx.Search(ctx, "kafka", 3)
	if err != nil {
		t.Fatalf("search must fail open, got %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected one keyword hit, got %d", len(hits))
	}
}

func TestSearchDeterministicOrder(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	// Identical content forces identical scores; ties break by path.
	must(t, idx.AddDocument(ctx, "docs/b.md", "mapping expressions"))
	must(t, idx.AddDocument(ctx, "docs/a.md", "mapping expressions"))

	for i := 0; i < 5; i++ {
		hits, err := idx.Search(ctx, "mapping", 5)
		if err != nil {
			t.Fatal(err)
		}
		if len(hits) != 2 || hits[0].Chunk.Path != "docs/a.md" || hits[1].Chunk.Path != "docs/b.md" {
			t.Fatalf("nondeterministic order: %+v", hits)
		}
	}
}

func TestSearchCapsResults(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		must(t, idx.AddDocument(ctx, fmt.Sprintf("docs/%d.md", i), "processors and pipelines"))
	}

	hits, err := idx.Search(ctx, "processors", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 3 {
		t.Errorf("got %d hits, want 3", len(hits))
	}

	if _, err := idx.Search(ctx, "processors", 0); err == nil {
		t.Error("k=0 should error")
	}
}

func TestAddDocumentReplaces(t *testing.T) {
	idx := NewIndex()
	ctx := context.Background()

	must(t, idx.AddDocument(ctx, "docs/a.md", "first version about kafka"))
	must(t, idx.AddDocument(ctx, "docs/a.md", "second version about files"))

	hits, err := idx.Search(ctx, "kafka", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 0 {
		t.Errorf("stale chunks survived replacement: %+v", hits)
	}

	idx.RemoveDocument("docs/a.md")
	if idx.Len() != 0 {
		t.Errorf("index not empty after removal: %d", idx.Len())
	}
}

func TestEmptyQuery(t *testing.T) {
	idx := NewIndex()
	hits, err := idx.Search(context.Background(), "  !? ", 5)
	if err != nil || hits != nil {
		t.Errorf("empty query should return nothing, got %v, %v", hits, err)
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
