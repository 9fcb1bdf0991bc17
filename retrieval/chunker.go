package retrieval

import (
	"fmt"
	"strings"
)

// charsPerToken is the approximate average characters per token for GPT tokenizers.
const charsPerToken = 4

// ChunkerConfig holds chunking configuration.
type ChunkerConfig struct {
	// TargetTokens is the ideal chunk size in tokens.
	TargetTokens int

	// MaxTokens is the maximum chunk size.
	MaxTokens int

	// MinTokens is the minimum chunk size (smaller chunks are merged forward).
	MinTokens int
}

// DefaultChunkerConfig returns sensible chunking defaults.
func DefaultChunkerConfig() ChunkerConfig {
	return ChunkerConfig{
		TargetTokens: 600,
		MaxTokens:    900,
		MinTokens:    80,
	}
}

// Validate checks if the configuration is valid.
func (c ChunkerConfig) Validate() error {
	if c.MinTokens <= 0 || c.TargetTokens <= 0 || c.MaxTokens <= 0 {
		return fmt.Errorf("chunk sizes must be positive")
	}
	if c.MinTokens >= c.TargetTokens {
		return fmt.Errorf("MinTokens (%d) must be less than TargetTokens (%d)", c.MinTokens, c.TargetTokens)
	}
	if c.TargetTokens > c.MaxTokens {
		return fmt.Errorf("TargetTokens (%d) must not exceed MaxTokens (%d)", c.TargetTokens, c.MaxTokens)
	}
	return nil
}

// Chunker splits markdown documents into section-aware chunks.
type Chunker struct {
	config ChunkerConfig
}

// NewChunker creates a Chunker, falling back to defaults for a zero config.
func NewChunker(cfg ChunkerConfig) (*Chunker, error) {
	if cfg.TargetTokens == 0 {
		cfg = DefaultChunkerConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Chunker{config: cfg}, nil
}

// NewDefaultChunker creates a Chunker with default configuration.
func NewDefaultChunker() *Chunker {
	c, err := NewChunker(DefaultChunkerConfig())
	if err != nil {
		panic(err)
	}
	return c
}

// Chunk splits a document into chunks. Sections are packed greedily up to
// the target size; oversized sections split by paragraph, then by character
// as a last resort. Code fences are never split mid-block at the paragraph
// level.
func (c *Chunker) Chunk(path, content string) []Chunk {
	var chunks []Chunk
	current := Chunk{Path: path}

	flush := func() {
		if strings.TrimSpace(current.Content) != "" {
			current.Index = len(chunks)
			current.TokenCount = estimateTokens(current.Content)
			chunks = append(chunks, current)
		}
		current = Chunk{Path: path}
	}

	for _, sec := range parseSections(content) {
		secTokens := estimateTokens(sec.content)

		if secTokens > c.config.MaxTokens {
			flush()
			chunks = c.splitLargeSection(chunks, path, sec)
			continue
		}

		if current.Content != "" && estimateTokens(current.Content)+secTokens > c.config.TargetTokens {
			flush()
		}
		if current.Section == "" {
			current.Section = sec.heading
		}
		if current.Content != "" {
			current.Content += "\n\n"
		}
		current.Content += sec.content
	}
	flush()

	return c.mergeSmall(chunks)
}

// splitLargeSection appends chunks for a section exceeding MaxTokens.
func (c *Chunker) splitLargeSection(chunks []Chunk, path string, sec section) []Chunk {
	current := Chunk{Path: path, Section: sec.heading}

	flush := func() {
		if strings.TrimSpace(current.Content) != "" {
			current.Index = len(chunks)
			current.TokenCount = estimateTokens(current.Content)
			chunks = append(chunks, current)
		}
		current = Chunk{Path: path, Section: sec.heading}
	}

	for _, para := range splitParagraphs(sec.content) {
		paraTokens := estimateTokens(para)

		if paraTokens > c.config.MaxTokens {
			flush()
			for _, piece := range hardSplit(para, c.config.MaxTokens*charsPerToken) {
				chunks = append(chunks, Chunk{
					Path:       path,
					Section:    sec.heading,
					Index:      len(chunks),
					Content:    piece,
					TokenCount: estimateTokens(piece),
				})
			}
			continue
		}

		if current.Content != "" && estimateTokens(current.Content)+paraTokens > c.config.TargetTokens {
			flush()
		}
		if current.Content != "" {
			current.Content += "\n\n"
		}
		current.Content += para
	}
	flush()

	return chunks
}

// mergeSmall folds undersized chunks into their successor when the result
// stays within MaxTokens.
func (c *Chunker) mergeSmall(chunks []Chunk) []Chunk {
	if len(chunks) <= 1 {
		return chunks
	}

	var result []Chunk
	for i := 0; i < len(chunks); i++ {
		chunk := chunks[i]
		if chunk.TokenCount < c.config.MinTokens && i < len(chunks)-1 {
			combined := chunk.Content + "\n\n" + chunks[i+1].Content
			if estimateTokens(combined) <= c.config.MaxTokens {
				chunks[i+1].Content = combined
				chunks[i+1].Section = chunk.Section
				chunks[i+1].TokenCount = estimateTokens(combined)
				continue
			}
		}
		result = append(result, chunk)
	}

	for i := range result {
		result[i].Index = i
	}
	return result
}

// section is a markdown heading plus the content under it.
type section struct {
	heading string
	content string
}

// parseSections splits markdown on headings, ignoring heading-like lines
// inside code fences.
func parseSections(content string) []section {
	var sections []section
	var current section
	inFence := false

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}

		if !inFence && strings.HasPrefix(trimmed, "#") {
			if strings.TrimSpace(current.content) != "" {
				sections = append(sections, current)
			}
			current = section{
				heading: strings.TrimSpace(strings.TrimLeft(trimmed, "#")),
				content: line,
			}
			continue
		}

		if current.content != "" {
			current.content += "\n"
		}
		current.content += line
	}

	if strings.TrimSpace(current.content) != "" {
		sections = append(sections, current)
	}
	return sections
}

// splitParagraphs splits on blank lines, keeping code fences whole.
func splitParagraphs(content string) []string {
	var paragraphs []string
	var current strings.Builder
	inFence := false

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}

		if !inFence && trimmed == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, strings.TrimSpace(current.String()))
				current.Reset()
			}
			continue
		}

		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}

	if current.Len() > 0 {
		paragraphs = append(paragraphs, strings.TrimSpace(current.String()))
	}
	return paragraphs
}

// hardSplit cuts text at rune boundaries when no natural break exists.
func hardSplit(text string, maxChars int) []string {
	var pieces []string
	runes := []rune(text)
	for i := 0; i < len(runes); i += maxChars {
		end := i + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		pieces = append(pieces, string(runes[i:end]))
	}
	return pieces
}

// estimateTokens estimates token count using the chars/token heuristic.
func estimateTokens(content string) int {
	if content == "" {
		return 0
	}
	return (len(content) + charsPerToken - 1) / charsPerToken
}
