package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Embedder produces one embedding vector per input text.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Scoring weights for the hybrid blend. With no vectors available the
// keyword score carries the full weight.
const (
	vectorWeight  = 0.7
	keywordWeight = 0.3
)

// Index is an in-memory hybrid documentation index. Lookups blend embedding
// cosine similarity with keyword overlap; ordering is deterministic.
type Index struct {
	mu       sync.RWMutex
	byPath   map[string][]Chunk
	embedder Embedder
	chunker  *Chunker
	logger   *slog.Logger
}

// IndexOption configures an Index.
type IndexOption func(*Index)

// WithEmbedder enables vector scoring using the given embedder.
func WithEmbedder(e Embedder) IndexOption {
	return func(idx *Index) {
		idx.embedder = e
	}
}

// WithChunker sets a custom chunker.
func WithChunker(c *Chunker) IndexOption {
	return func(idx *Index) {
		idx.chunker = c
	}
}

// WithIndexLogger sets the logger.
func WithIndexLogger(logger *slog.Logger) IndexOption {
	return func(idx *Index) {
		idx.logger = logger
	}
}

// NewIndex creates an empty index.
func NewIndex(opts ...IndexOption) *Index {
	idx := &Index{
		byPath:  make(map[string][]Chunk),
		chunker: NewDefaultChunker(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// AddDocument chunks, optionally embeds, and stores one document, replacing
// any previous chunks for the same path.
func (idx *Index) AddDocument(ctx context.Context, path, content string) error {
	chunks := idx.chunker.Chunk(path, content)

	if idx.embedder != nil && len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, c := range chunks {
			texts[i] = c.Content
		}
		vectors, err := idx.embedder.Embed(ctx, texts)
		if err != nil {
			// Keyword scoring still works without vectors.
			idx.logger.Warn("Embedding failed, indexing without vectors",
				slog.String("path", path), slog.String("error", err.Error()))
		} else {
			for i := range chunks {
				chunks[i].Vector = vectors[i]
			}
		}
	}

	idx.mu.Lock()
	idx.byPath[path] = chunks
	idx.mu.Unlock()

	idx.logger.Debug("Indexed document", slog.String("path", path), slog.Int("chunks", len(chunks)))
	return nil
}

// RemoveDocument drops all chunks for a path.
func (idx *Index) RemoveDocument(path string) {
	idx.mu.Lock()
	delete(idx.byPath, path)
	idx.mu.Unlock()
}

// Len returns the total number of indexed chunks.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	n := 0
	for _, chunks := range idx.byPath {
		n += len(chunks)
	}
	return n
}

// Paths returns the indexed document paths in sorted order.
func (idx *Index) Paths() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	paths := make([]string, 0, len(idx.byPath))
	for p := range idx.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Search returns up to k hits ordered by score descending, then path and
// chunk index ascending.
func (idx *Index) Search(ctx context.Context, query string, k int) ([]Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}
	terms := tokenize(query)
	if len(terms) == 0 {
		return nil, nil
	}

	var queryVec []float32
	if idx.embedder != nil {
		vectors, err := idx.embedder.Embed(ctx, []string{query})
		if err != nil {
			idx.logger.Warn("Query embedding failed, using keyword scoring only",
				slog.String("error", err.Error()))
		} else if len(vectors) == 1 {
			queryVec = vectors[0]
		}
	}

	idx.mu.RLock()
	var hits []Hit
	for _, path := range sortedPaths(idx.byPath) {
		for _, chunk := range idx.byPath[path] {
			score := scoreChunk(chunk, terms, queryVec)
			if score > 0 {
				hits = append(hits, Hit{Chunk: chunk, Score: score})
			}
		}
	}
	idx.mu.RUnlock()

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		if hits[i].Chunk.Path != hits[j].Chunk.Path {
			return hits[i].Chunk.Path < hits[j].Chunk.Path
		}
		return hits[i].Chunk.Index < hits[j].Chunk.Index
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// scoreChunk blends vector similarity and keyword overlap.
func scoreChunk(chunk Chunk, terms []string, queryVec []float32) float64 {
	keyword := keywordScore(chunk.Content, terms)

	if queryVec == nil || chunk.Vector == nil {
		return keyword
	}
	return vectorWeight*cosine(queryVec, chunk.Vector) + keywordWeight*keyword
}

// keywordScore is the fraction of query terms present, weighted by log
// frequency so repeated mentions count a little more.
func keywordScore(content string, terms []string) float64 {
	lower := strings.ToLower(content)
	var total float64
	for _, term := range terms {
		count := strings.Count(lower, term)
		if count > 0 {
			total += 1 + math.Log(float64(count))
		}
	}
	return total / float64(len(terms)*3)
}

// cosine computes cosine similarity, clamped to [0, 1].
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if sim < 0 {
		return 0
	}
	return sim
}

var termPattern = regexp.MustCompile(`[a-z0-9_]+`)

// tokenize lowercases and extracts word terms, dropping single characters.
func tokenize(query string) []string {
	var terms []string
	for _, term := range termPattern.FindAllString(strings.ToLower(query), -1) {
		if len(term) > 1 {
			terms = append(terms, term)
		}
	}
	return terms
}

func sortedPaths(m map[string][]Chunk) []string {
	paths := make([]string, 0, len(m))
	for p := range m {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
