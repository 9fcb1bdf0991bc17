package validate

import (
	"strings"
	"testing"
)

const validConfig = `
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

func TestValidConfig(t *testing.T) {
	res := Config(validConfig)
	if !res.Valid {
		t.Fatalf("expected valid, got errors: %+v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Errorf("valid result must have no errors, got %d", len(res.Errors))
	}
}

func TestValidFlagMatchesErrors(t *testing.T) {
	res := Config("input:\n  stdin: {}\n")
	if res.Valid {
		t.Error("missing output must not be valid")
	}
	if (len(res.Errors) == 0) != res.Valid {
		t.Error("Valid must be true exactly when Errors is empty")
	}
}

func TestMissingOutputSection(t *testing.T) {
	res := Config("input:\n  stdin: {}\n")
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %+v", res.Errors)
	}
	e := res.Errors[0]
	if e.Path != "root" {
		t.Errorf("path = %q, want root", e.Path)
	}
	if !strings.Contains(e.Message, `"output"`) {
		t.Errorf("message should name the output section: %q", e.Message)
	}
}

func TestMissingInputSection(t *testing.T) {
	res := Config("output:\n  stdout: {}\n")
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %+v", res.Errors)
	}
	if res.Errors[0].Path != "root" || !strings.Contains(res.Errors[0].Message, `"input"`) {
		t.Errorf("unexpected error: %+v", res.Errors[0])
	}
}

func TestUnknownComponentWithSuggestion(t *testing.T) {
	text := "input:\n  kafaka:\n    addresses: [\"localhost:9092\"]\noutput:\n  stdout: {}\n"
	res := Config(text)
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one error, got %+v", res.Errors)
	}
	e := res.Errors[0]
	if e.Path != "input.kafaka" {
		t.Errorf("path = %q, want input.kafaka", e.Path)
	}
	if !strings.Contains(e.Suggestion, `"kafka"`) {
		t.Errorf("suggestion should name kafka: %q", e.Suggestion)
	}
}

func TestForeignKeysFlagged(t *testing.T) {
	text := `apiVersion: v1
kind: Deployment
input:
  stdin: {}
output:
  stdout: {}
`
	res := Config(text)
	if res.Valid {
		t.Fatal("expected foreign keys to be flagged")
	}
	var paths []string
	for _, e := range res.Errors {
		paths = append(paths, e.Path)
	}
	for _, want := range []string{"apiVersion", "kind"} {
		found := false
		for _, p := range paths {
			if p == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected an error at %q, got %v", want, paths)
		}
	}
	// The hint is structural, not field-level.
	for _, e := range res.Errors {
		if e.Path == "apiVersion" && !strings.Contains(e.Suggestion, "input, pipeline and output") {
			t.Errorf("expected structural hint, got %q", e.Suggestion)
		}
	}
}

func TestMissingRequiredFieldSuggestsExample(t *testing.T) {
	text := "input:\n  kafka:\n    addresses: [\"localhost:9092\"]\n    topics: [\"orders\"]\noutput:\n  stdout: {}\n"
	res := Config(text)
	var found *Issue
	for i := range res.Errors {
		if res.Errors[i].Path == "input.kafka.consumer_group" {
			found = &res.Errors[i]
		}
	}
	if found == nil {
		t.Fatalf("expected missing consumer_group error, got %+v", res.Errors)
	}
	if !strings.Contains(found.Suggestion, "consumer_group:") {
		t.Errorf("suggestion should show the literal to add: %q", found.Suggestion)
	}
}

func TestUnknownFieldNearestName(t *testing.T) {
	text := "input:\n  kafka:\n    adresses: [\"localhost:9092\"]\n    topics: [\"orders\"]\n    consumer_group: cg\noutput:\n  stdout: {}\n"
	res := Config(text)
	var found *Issue
	for i := range res.Errors {
		if res.Errors[i].Path == "input.kafka.adresses" {
			found = &res.Errors[i]
		}
	}
	if found == nil {
		t.Fatalf("expected unknown field error, got %+v", res.Errors)
	}
	if !strings.Contains(found.Suggestion, `"addresses"`) {
		t.Errorf("suggestion = %q, want addresses", found.Suggestion)
	}
}

func TestFieldTypeChecks(t *testing.T) {
	text := `input:
  kafka:
    addresses: ["localhost:9092"]
    topics: ["orders"]
    consumer_group: cg
    checkpoint_limit: not_a_number
    start_from_oldest: maybe
    commit_period: fast
output:
  stdout: {}
`
	res := Config(text)
	wantPaths := []string{
		"input.kafka.checkpoint_limit",
		"input.kafka.start_from_oldest",
		"input.kafka.commit_period",
	}
	for _, want := range wantPaths {
		found := false
		for _, e := range res.Errors {
			if e.Path == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected error at %q, got %+v", want, res.Errors)
		}
	}
}

func TestStringEncodedScalarsAccepted(t *testing.T) {
	text := `input:
  kafka:
    addresses: ["localhost:9092"]
    topics: ["orders"]
    consumer_group: cg
    checkpoint_limit: "2048"
    start_from_oldest: "true"
output:
  stdout: {}
`
	res := Config(text)
	if !res.Valid {
		t.Errorf("string-encoded numbers and booleans are accepted, got %+v", res.Errors)
	}
}

func TestDurationGrammar(t *testing.T) {
	ok := []string{"1s", "500ms", "1.5h", "10us", "3m"}
	bad := []string{"fast", "1 s", "s1", "१س"}

	for _, d := range ok {
		if !durationPattern.MatchString(d) {
			t.Errorf("%q should be a valid duration", d)
		}
	}
	for _, d := range bad {
		if durationPattern.MatchString(d) {
			t.Errorf("%q should not be a valid duration", d)
		}
	}
}

func TestEnumViolation(t *testing.T) {
	text := `input:
  file:
    paths: ["./in.jsonl"]
    codec: sideways
output:
  stdout: {}
`
	res := Config(text)
	var found *Issue
	for i := range res.Errors {
		if res.Errors[i].Path == "input.file.codec" {
			found = &res.Errors[i]
		}
	}
	if found == nil {
		t.Fatalf("expected enum error, got %+v", res.Errors)
	}
	if !strings.Contains(found.Suggestion, "lines") {
		t.Errorf("suggestion should list allowed values: %q", found.Suggestion)
	}
}

func TestWrapperAcceptedAndRecursed(t *testing.T) {
	text := `input:
  broker:
    inputs:
      - stdin: {}
      - kafaka:
          topics: ["x"]
output:
  stdout: {}
`
	res := Config(text)
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly one error from the nested component, got %+v", res.Errors)
	}
	if res.Errors[0].Path != "input.broker.inputs.1.kafaka" {
		t.Errorf("path = %q", res.Errors[0].Path)
	}
}

func TestExpressionProcessorLinted(t *testing.T) {
	text := `input:
  stdin: {}
pipeline:
  processors:
    - mapping: |
        root = JSON.parse(this.body)
output:
  stdout: {}
`
	res := Config(text)
	if res.Valid {
		t.Fatal("expected lint findings")
	}
	found := false
	for _, e := range res.Errors {
		if e.Path == "pipeline.processors.0.mapping" && strings.Contains(e.Suggestion, "parse_json") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected mapping lint error, got %+v", res.Errors)
	}
}

func TestExpressionFieldLinted(t *testing.T) {
	text := `input:
  generate:
    mapping: "root = uuid()"
    interval: 1s
output:
  stdout: {}
`
	res := Config(text)
	found := false
	for _, e := range res.Errors {
		if e.Path == "input.generate.mapping" && strings.Contains(e.Message, "uuid") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected expression field lint error, got %+v", res.Errors)
	}
}

func TestMultipleDocumentsSingleError(t *testing.T) {
	text := "input:\n  stdin: {}\noutput:\n  stdout: {}\n---\ninput:\n  stdin: {}\noutput:\n  stdout: {}\n"
	res := Config(text)
	if len(res.Errors) != 1 {
		t.Fatalf("expected a single error, got %+v", res.Errors)
	}
	if res.Errors[0].Path != "root" || !strings.Contains(res.Errors[0].Message, "multiple") {
		t.Errorf("unexpected error: %+v", res.Errors[0])
	}
}

func TestProcessorsMustBeList(t *testing.T) {
	text := "input:\n  stdin: {}\npipeline:\n  processors: mapping\noutput:\n  stdout: {}\n"
	res := Config(text)
	found := false
	for _, e := range res.Errors {
		if e.Path == "pipeline.processors" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected processors list error, got %+v", res.Errors)
	}
}

func TestInterpolationMarkerChecked(t *testing.T) {
	text := `input:
  stdin: {}
output:
  kafka:
    addresses: ["localhost:9092"]
    topic: "orders-${ count }"
`
	res := Config(text)
	found := false
	for _, e := range res.Errors {
		if e.Path == "output.kafka.topic" && strings.Contains(e.Suggestion, "${!") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected interpolation error, got %+v", res.Errors)
	}
}

func TestNeverPanicsOnHostileTrees(t *testing.T) {
	inputs := []string{
		"",
		"input:",
		"input: 42\noutput: []\n",
		"input:\n  - a\n  - b\noutput:\n  stdout: {}\n",
		"pipeline:\n  processors:\n    - 17\n",
	}
	for _, text := range inputs {
		_ = Config(text) // must not panic
	}
}
