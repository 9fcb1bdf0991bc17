// Package pipeline decodes pipeline configuration text into a generic tree.
//
// The grammar is a lenient subset of YAML: block mappings, block sequences,
// inline flow sequences, literal block scalars and scalar coercion. Strict
// documents take a fast path through yaml.v3; anything it rejects falls back
// to a line-oriented scanner that tracks an indentation stack without
// enforcing strict indentation rules. Anchors and folded scalars are not
// supported; pipeline documents do not use them.
package pipeline

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMultipleDocuments is returned when the text contains more than one
// pipeline-shaped document separated by a document marker. Segments are
// never parsed independently.
var ErrMultipleDocuments = errors.New("multiple pipeline documents found; provide a single document per request")

// ParseError reports text that cannot be decomposed into the grammar at all.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

// sectionMarker recognises a top-level pipeline section key, used to decide
// whether a document segment is pipeline-shaped.
var sectionMarker = regexp.MustCompile(`(?m)^(input|output|pipeline)\s*:`)

// docSeparator matches a YAML document separator line.
var docSeparator = regexp.MustCompile(`^---\s*$`)

// Parse decodes raw configuration text into a tree of maps, slices and
// scalars. It returns ErrMultipleDocuments when the text holds several
// pipeline documents, or a *ParseError when no line can be interpreted.
func Parse(text string) (map[string]any, error) {
	if err := checkSingleDocument(text); err != nil {
		return nil, err
	}

	// Fast path: strict parse. yaml.v3 also accepts JSON documents.
	var doc map[string]any
	if err := yaml.Unmarshal([]byte(text), &doc); err == nil && doc != nil {
		return doc, nil
	}

	return scan(text)
}

// checkSingleDocument splits on document separators and fails when more
// than one segment looks like a pipeline document.
func checkSingleDocument(text string) error {
	var segments []string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if docSeparator.MatchString(line) {
			segments = append(segments, strings.Join(current, "\n"))
			current = current[:0]
			continue
		}
		current = append(current, line)
	}
	segments = append(segments, strings.Join(current, "\n"))

	shaped := 0
	for _, seg := range segments {
		if sectionMarker.MatchString(seg) {
			shaped++
		}
	}
	if shaped > 1 {
		return ErrMultipleDocuments
	}
	return nil
}

// keyLine matches "key:" and "key: value" lines.
var keyLine = regexp.MustCompile(`^([A-Za-z0-9_][A-Za-z0-9_.\-]*)\s*:(?:\s+(.*))?$`)

// frame is one level of the indentation stack: either a mapping or a
// sequence under construction.
type frame struct {
	indent  int
	mapping map[string]any
	list    *[]any
}

// pendingKey is a mapping key whose value may turn out to be a nested
// mapping or sequence on the following lines.
type pendingKey struct {
	owner  map[string]any
	key    string
	indent int
}

func scan(text string) (map[string]any, error) {
	lines := strings.Split(text, "\n")
	root := map[string]any{}
	stack := []*frame{{indent: -1, mapping: root}}
	var pending *pendingKey

	parsed := 0
	content := false

	top := func() *frame { return stack[len(stack)-1] }
	push := func(f *frame) { stack = append(stack, f) }

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		content = true
		indent := indentOf(lines[i])
		isItem := trimmed == "-" || strings.HasPrefix(trimmed, "- ")

		// Settle a pending key against this line: deeper content becomes
		// its nested container, anything else leaves an empty mapping.
		if pending != nil {
			switch {
			case isItem && indent >= pending.indent:
				list := &[]any{}
				pending.owner[pending.key] = list
				push(&frame{indent: indent, list: list})
			case indent > pending.indent:
				child := map[string]any{}
				pending.owner[pending.key] = child
				push(&frame{indent: pending.indent, mapping: child})
			default:
				pending.owner[pending.key] = map[string]any{}
			}
			pending = nil
		}

		if isItem {
			// Pop nested mapping frames and deeper lists until the list
			// this item belongs to is on top.
			for len(stack) > 1 {
				t := top()
				if t.list != nil && t.indent <= indent {
					break
				}
				if t.indent < indent {
					break
				}
				stack = stack[:len(stack)-1]
			}
			t := top()
			if t.list == nil {
				// A dash with no sequence context; tolerated and skipped.
				continue
			}

			rest := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
			if rest == "" {
				item := map[string]any{}
				*t.list = append(*t.list, item)
				push(&frame{indent: indent, mapping: item})
				parsed++
				continue
			}

			if m := keyLine.FindStringSubmatch(rest); m != nil {
				item := map[string]any{}
				*t.list = append(*t.list, item)
				push(&frame{indent: indent, mapping: item})
				keyIndent := indent + 2 // column of the key after "- "
				i = assignKey(lines, i, item, m[1], m[2], keyIndent, &pending)
				parsed++
				continue
			}

			*t.list = append(*t.list, parseScalar(rest))
			parsed++
			continue
		}

		m := keyLine.FindStringSubmatch(trimmed)
		if m == nil {
			// Unclassifiable line; the scanner is lenient and moves on.
			continue
		}

		for len(stack) > 1 && top().indent >= indent {
			stack = stack[:len(stack)-1]
		}
		t := top()
		owner := t.mapping
		if owner == nil {
			continue
		}
		i = assignKey(lines, i, owner, m[1], m[2], indent, &pending)
		parsed++
	}

	if pending != nil {
		pending.owner[pending.key] = map[string]any{}
	}

	if parsed == 0 && content {
		return nil, &ParseError{Msg: "unable to interpret document as a pipeline configuration"}
	}

	return normalizeMap(root), nil
}

// assignKey stores a "key: value" pair on owner. Empty values become a
// pending key; block scalar markers trigger collection of the indented
// block. It returns the (possibly advanced) line index.
func assignKey(lines []string, i int, owner map[string]any, key, value string, keyIndent int, pending **pendingKey) int {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		*pending = &pendingKey{owner: owner, key: key, indent: keyIndent}
	case value == "|" || value == "|-" || value == "|+" || value == ">" || value == ">-":
		block, next := collectBlock(lines, i+1, keyIndent)
		owner[key] = block
		return next - 1
	default:
		owner[key] = parseScalar(value)
	}
	return i
}

// collectBlock gathers the literal block scalar lines that are indented
// deeper than the key, dedents them by their common indentation, and
// returns the joined text plus the index of the first line after the block.
func collectBlock(lines []string, start, keyIndent int) (string, int) {
	var collected []string
	end := start
	for ; end < len(lines); end++ {
		trimmed := strings.TrimSpace(lines[end])
		if trimmed == "" {
			collected = append(collected, "")
			continue
		}
		if indentOf(lines[end]) <= keyIndent {
			break
		}
		collected = append(collected, lines[end])
	}

	// Drop trailing blank lines, then dedent.
	for len(collected) > 0 && collected[len(collected)-1] == "" {
		collected = collected[:len(collected)-1]
	}
	minIndent := -1
	for _, line := range collected {
		if line == "" {
			continue
		}
		if ind := indentOf(line); minIndent == -1 || ind < minIndent {
			minIndent = ind
		}
	}
	if minIndent > 0 {
		for idx, line := range collected {
			if len(line) >= minIndent {
				collected[idx] = line[minIndent:]
			}
		}
	}
	return strings.Join(collected, "\n"), end
}

// indentOf counts leading whitespace; a tab counts as two columns.
func indentOf(line string) int {
	indent := 0
	for _, r := range line {
		switch r {
		case ' ':
			indent++
		case '\t':
			indent += 2
		default:
			return indent
		}
	}
	return indent
}

// parseScalar coerces an inline scalar: quoted strings, flow sequences and
// mappings, booleans (including yes/no/on/off), numbers and null.
func parseScalar(s string) any {
	s = strings.TrimSpace(stripTrailingComment(s))
	if s == "" {
		return ""
	}

	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			inner := s[1 : len(s)-1]
			if s[0] == '"' {
				inner = strings.ReplaceAll(inner, `\"`, `"`)
			}
			return inner
		}
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		return parseFlowSeq(s[1 : len(s)-1])
	}
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") {
		return parseFlowMap(s[1 : len(s)-1])
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	case "null", "~":
		return nil
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}

	return s
}

// parseFlowSeq parses the inside of an inline [a, b, c] sequence.
func parseFlowSeq(inner string) []any {
	items := []any{}
	for _, part := range splitTopLevel(inner) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		items = append(items, parseScalar(part))
	}
	return items
}

// parseFlowMap parses the inside of an inline {k: v, ...} mapping.
// Entries without a colon are ignored.
func parseFlowMap(inner string) map[string]any {
	m := map[string]any{}
	for _, part := range splitTopLevel(inner) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		m[strings.TrimSpace(trimScalarQuotes(k))] = parseScalar(v)
	}
	return m
}

// splitTopLevel splits on commas that are outside quotes, brackets and
// braces.
func splitTopLevel(s string) []string {
	var parts []string
	depth := 0
	var quote rune
	start := 0
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[' || r == '{':
			depth++
		case r == ']' || r == '}':
			depth--
		case r == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func trimScalarQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// stripTrailingComment removes a " #" comment that is outside quotes.
func stripTrailingComment(s string) string {
	var quote rune
	for i, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '#' && i > 0 && (s[i-1] == ' ' || s[i-1] == '\t'):
			return s[:i]
		}
	}
	return s
}

// normalizeMap converts internal *[]any sequence nodes into plain slices.
func normalizeMap(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case *[]any:
		out := make([]any, len(*t))
		for i, item := range *t {
			out[i] = normalizeValue(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalizeValue(item)
		}
		return t
	case map[string]any:
		return normalizeMap(t)
	default:
		return v
	}
}

// Describe returns a short human name for a tree value's type, used in
// validation messages.
func Describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, float64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
