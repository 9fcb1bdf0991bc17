// Package chat answers documentation questions with retrieval-augmented
// generation. Config blocks found in a question are validated and
// auto-fixed so the answer can include a corrected snippet.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/c360studio/streamdoc/autofix"
	"github.com/c360studio/streamdoc/llm"
	"github.com/c360studio/streamdoc/retrieval"
	"github.com/c360studio/streamdoc/validate"
)

// Completer is the chat-completion surface of the model client.
type Completer interface {
	Complete(ctx context.Context, messages []llm.Message) (*llm.Response, error)
}

// Searcher is the retrieval surface of the documentation index.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]retrieval.Hit, error)
}

// Answer is one answered question.
type Answer struct {
	// Text is the model's answer.
	Text string `json:"text"`

	// Sources lists the documentation locations the answer drew from.
	Sources []string `json:"sources,omitempty"`

	// Validation holds lint findings for a config block found in the
	// question, nil when the question had none.
	Validation *validate.Result `json:"validation,omitempty"`

	// Fix holds the auto-fix outcome for that block.
	Fix *autofix.Result `json:"fix,omitempty"`
}

// Answerer wires retrieval, local validation and the model together.
type Answerer struct {
	completer Completer
	searcher  Searcher
	topK      int
	logger    *slog.Logger
}

// NewAnswerer creates an answerer. topK bounds retrieved context chunks.
func NewAnswerer(completer Completer, searcher Searcher, topK int, logger *slog.Logger) *Answerer {
	if topK <= 0 {
		topK = 6
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Answerer{completer: completer, searcher: searcher, topK: topK, logger: logger}
}

// fencePattern matches a fenced code block, optionally tagged yaml/yml.
var fencePattern = regexp.MustCompile("(?s)```(?:ya?ml)?\\s*\\n(.*?)```")

// Ask answers one question.
func (a *Answerer) Ask(ctx context.Context, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is empty")
	}

	answer := &Answer{}

	// Validate and auto-fix any config block the user pasted.
	if block, ok := extractConfigBlock(question); ok {
		result := validate.Config(block)
		answer.Validation = &result
		fix := autofix.Apply(block)
		answer.Fix = &fix
	}

	hits, err := a.searcher.Search(ctx, question, a.topK)
	if err != nil {
		a.logger.Warn("Retrieval failed, answering without context", slog.String("error", err.Error()))
	}

	messages := a.buildMessages(question, hits, answer.Validation)
	resp, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	answer.Text = resp.Content
	answer.Sources = sourceRefs(hits)
	return answer, nil
}

// buildMessages assembles the system and user prompts.
func (a *Answerer) buildMessages(question string, hits []retrieval.Hit, validation *validate.Result) []llm.Message {
	var user strings.Builder

	if len(hits) > 0 {
		user.WriteString(contextHeader)
		for _, hit := range hits {
			user.WriteString(fmt.Sprintf("--- %s", hit.Chunk.Path))
			if hit.Chunk.Section != "" {
				user.WriteString(" > " + hit.Chunk.Section)
			}
			user.WriteString(" ---\n")
			user.WriteString(hit.Chunk.Content)
			user.WriteString("\n\n")
		}
	}

	if validation != nil && !validation.Valid {
		user.WriteString(lintHeader)
		for _, issue := range validation.Errors {
			user.WriteString(fmt.Sprintf("- %s: %s", issue.Path, issue.Message))
			if issue.Suggestion != "" {
				user.WriteString(" (" + issue.Suggestion + ")")
			}
			user.WriteString("\n")
		}
		user.WriteString("\n")
	}

	user.WriteString("Question: ")
	user.WriteString(question)

	return []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user.String()},
	}
}

// extractConfigBlock returns the first fenced block in the question that
// looks like a pipeline config.
func extractConfigBlock(question string) (string, bool) {
	for _, match := range fencePattern.FindAllStringSubmatch(question, -1) {
		block := match[1]
		if pipelineShaped(block) {
			return block, true
		}
	}
	return "", false
}

var sectionPattern = regexp.MustCompile(`(?m)^(input|output|pipeline)\s*:`)

// pipelineShaped reports whether text declares a top-level pipeline section.
func pipelineShaped(text string) bool {
	return sectionPattern.MatchString(text)
}

// sourceRefs renders deduplicated "path > section" references.
func sourceRefs(hits []retrieval.Hit) []string {
	var refs []string
	seen := make(map[string]struct{})
	for _, hit := range hits {
		ref := hit.Chunk.Path
		if hit.Chunk.Section != "" {
			ref += " > " + hit.Chunk.Section
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		refs = append(refs, ref)
	}
	return refs
}
