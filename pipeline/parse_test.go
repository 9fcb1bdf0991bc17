package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicConfig = `
input:
  kafka:
    addresses: ["localhost:9092"]
    topics: ["orders"]
    consumer_group: "my_group"

pipeline:
  processors:
    - mapping: |
        root = this
        root.id = uuid_v4()

output:
  stdout: {}
`

func TestParseBasicConfig(t *testing.T) {
	tree, err := Parse(basicConfig)
	require.NoError(t, err)

	input, ok := tree["input"].(map[string]any)
	require.True(t, ok, "input should be a mapping")
	kafka, ok := input["kafka"].(map[string]any)
	require.True(t, ok, "kafka should be a mapping")

	assert.Equal(t, []any{"localhost:9092"}, kafka["addresses"])
	assert.Equal(t, "my_group", kafka["consumer_group"])

	pl, ok := tree["pipeline"].(map[string]any)
	require.True(t, ok)
	procs, ok := pl["processors"].([]any)
	require.True(t, ok)
	require.Len(t, procs, 1)

	first, ok := procs[0].(map[string]any)
	require.True(t, ok)
	expr, ok := first["mapping"].(string)
	require.True(t, ok, "mapping value should be the block scalar text")
	assert.Contains(t, expr, "root = this")
	assert.Contains(t, expr, "uuid_v4()")
}

func TestParseJSONFastPath(t *testing.T) {
	tree, err := Parse(`{"input": {"stdin": {}}, "output": {"stdout": {}}}`)
	require.NoError(t, err)
	_, ok := tree["input"].(map[string]any)
	assert.True(t, ok)
}

func TestParseLenientFallback(t *testing.T) {
	// Tab indentation is rejected by strict YAML but accepted by the
	// line scanner.
	text := "input:\n\tkafka:\n\t\tconsumer_group: cg\noutput:\n\tstdout: {}\n"
	tree, err := Parse(text)
	require.NoError(t, err)

	input, ok := tree["input"].(map[string]any)
	require.True(t, ok)
	kafka, ok := input["kafka"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "cg", kafka["consumer_group"])
}

func TestParseScalarCoercion(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{`"quoted"`, "quoted"},
		{`'single'`, "single"},
		{"true", true},
		{"yes", true},
		{"on", true},
		{"false", false},
		{"no", false},
		{"off", false},
		{"null", nil},
		{"~", nil},
		{"42", 42},
		{"3.5", 3.5},
		{"plain text", "plain text"},
		{"1s", "1s"},
	}

	for _, tt := range tests {
		if got := parseScalar(tt.in); got != tt.want {
			t.Errorf("parseScalar(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestParseFlowSequences(t *testing.T) {
	got := parseScalar(`[1, "two", three]`)
	assert.Equal(t, []any{1, "two", "three"}, got)

	nested := parseScalar(`[[1, 2], [3]]`)
	assert.Equal(t, []any{[]any{1, 2}, []any{3}}, nested)
}

func TestParseFlowMap(t *testing.T) {
	got := parseScalar(`{codec: lines, max_buffer: 4096}`)
	m, ok := got.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "lines", m["codec"])
	assert.Equal(t, 4096, m["max_buffer"])

	assert.Equal(t, map[string]any{}, parseScalar(`{}`))
}

func TestParseListOfScalars(t *testing.T) {
	text := "input:\n  kafka:\n    addresses:\n      - localhost:9092\n      - broker-2:9092\n    consumer_group: cg\n"
	tree, err := Parse(text)
	require.NoError(t, err)

	kafka := tree["input"].(map[string]any)["kafka"].(map[string]any)
	assert.Equal(t, []any{"localhost:9092", "broker-2:9092"}, kafka["addresses"])
}

func TestParseMultipleDocumentsRejected(t *testing.T) {
	text := "input:\n  stdin: {}\noutput:\n  stdout: {}\n---\ninput:\n  stdin: {}\noutput:\n  stdout: {}\n"
	_, err := Parse(text)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMultipleDocuments))
}

func TestParseSeparatorWithoutSecondPipelineAllowed(t *testing.T) {
	// A separator followed by non-pipeline content is not a multi-doc
	// failure.
	text := "input:\n  stdin: {}\noutput:\n  stdout: {}\n---\n# trailing notes\n"
	_, err := Parse(text)
	assert.NoError(t, err)
}

func TestParseGarbageFails(t *testing.T) {
	_, err := Parse("((((( this is not even close\n>>>>>")
	require.Error(t, err)
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestParseCommentsIgnored(t *testing.T) {
	text := "# top comment\ninput:\n  stdin: {} # inline\n"
	tree, err := Parse(text)
	require.NoError(t, err)
	_, ok := tree["input"].(map[string]any)
	assert.True(t, ok)
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		v    any
		want string
	}{
		{nil, "null"},
		{"x", "string"},
		{true, "boolean"},
		{1, "number"},
		{1.5, "number"},
		{[]any{}, "array"},
		{map[string]any{}, "object"},
	}
	for _, tt := range tests {
		if got := Describe(tt.v); got != tt.want {
			t.Errorf("Describe(%#v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
