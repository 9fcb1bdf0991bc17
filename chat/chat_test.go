package chat

import (
	"context"
	"strings"
	"testing"

	"github.com/c360studio/streamdoc/llm"
	"github.com/c360studio/streamdoc/retrieval"
)

type fakeCompleter struct {
	lastMessages []llm.Message
	reply        string
}

func (f *fakeCompleter) Complete(_ context.Context, messages []llm.Message) (*llm.Response, error) {
	f.lastMessages = messages
	return &llm.Response{Content: f.reply}, nil
}

type fakeSearcher struct {
	hits []retrieval.Hit
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int) ([]retrieval.Hit, error) {
	return f.hits, nil
}

func TestAskIncludesRetrievedContext(t *testing.T) {
	completer := &fakeCompleter{reply: "Use the kafka input."}
	searcher := &fakeSearcher{hits: []retrieval.Hit{
		{Chunk: retrieval.Chunk{Path: "docs/kafka.md", Section: "Kafka input", Content: "kafka consumes from topics"}, Score: 0.9},
	}}

	answer, err := NewAnswerer(completer, searcher, 5, nil).Ask(context.Background(), "how do I read from kafka?")
	if err != nil {
		t.Fatal(err)
	}

	if answer.Text != "Use the kafka input." {
		t.Errorf("text = %q", answer.Text)
	}
	if len(answer.Sources) != 1 || answer.Sources[0] != "docs/kafka.md > Kafka input" {
		t.Errorf("sources = %v", answer.Sources)
	}

	if len(completer.lastMessages) != 2 || completer.lastMessages[0].Role != "system" {
		t.Fatalf("messages = %+v", completer.lastMessages)
	}
	user := completer.lastMessages[1].Content
	if !strings.Contains(user, "kafka consumes from topics") {
		t.Error("retrieved chunk missing from prompt")
	}
	if !strings.Contains(user, "how do I read from kafka?") {
		t.Error("question missing from prompt")
	}
}

func TestAskValidatesPastedConfig(t *testing.T) {
	completer := &fakeCompleter{reply: "fix the name"}
	question := "why does this fail?\n```yaml\ninput:\n  kafaka:\n    topics: [\"x\"]\noutput:\n  stdout: {}\n```"

	answer, err := NewAnswerer(completer, &fakeSearcher{}, 5, nil).Ask(context.Background(), question)
	if err != nil {
		t.Fatal(err)
	}

	if answer.Validation == nil {
		t.Fatal("expected validation of the pasted config")
	}
	if answer.Validation.Valid {
		t.Error("kafaka config should be invalid")
	}
	if answer.Fix == nil || !strings.Contains(answer.Fix.CorrectedText, "kafka:") {
		t.Errorf("fix = %+v", answer.Fix)
	}

	user := completer.lastMessages[1].Content
	if !strings.Contains(user, "findings") {
		t.Error("lint findings missing from prompt")
	}
}

func TestAskIgnoresNonConfigBlocks(t *testing.T) {
	completer := &fakeCompleter{reply: "ok"}
	question := "what does this mean?\n```\nroot = this.parse_json()\n```"

	answer, err := NewAnswerer(completer, &fakeSearcher{}, 5, nil).Ask(context.Background(), question)
	if err != nil {
		t.Fatal(err)
	}
	if answer.Validation != nil {
		t.Error("expression-only block should not be validated as a config")
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	if _, err := NewAnswerer(&fakeCompleter{}, &fakeSearcher{}, 5, nil).Ask(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty question")
	}
}

func TestExtractConfigBlock(t *testing.T) {
	q := "first a snippet\n```\nsome: thing\n```\nthen a config\n```yaml\ninput:\n  stdin: {}\n```"
	block, ok := extractConfigBlock(q)
	if !ok {
		t.Fatal("expected a config block")
	}
	if !strings.Contains(block, "input:") {
		t.Errorf("block = %q", block)
	}
}
