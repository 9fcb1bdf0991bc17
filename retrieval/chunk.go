// Package retrieval maintains the searchable documentation index: markdown
// discovery, chunking, embedding and hybrid scoring.
package retrieval

// Chunk is one indexed piece of a documentation file.
type Chunk struct {
	// Path is the source file the chunk came from.
	Path string `json:"path"`

	// Section is the nearest markdown heading above the chunk.
	Section string `json:"section,omitempty"`

	// Index is the chunk's position within its file.
	Index int `json:"index"`

	// Content is the chunk text.
	Content string `json:"content"`

	// TokenCount is the estimated token length of Content.
	TokenCount int `json:"token_count"`

	// Vector is the chunk embedding, nil when embeddings are disabled.
	Vector []float32 `json:"-"`
}

// Hit is one search result.
type Hit struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}
