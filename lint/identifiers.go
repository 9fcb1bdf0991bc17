package lint

import (
	"fmt"
	"regexp"

	"github.com/c360studio/streamdoc/dsl"
)

// Call shapes. A method call is receiver.name( and a function call is
// name( at an expression boundary (start of expression, after whitespace,
// or after an operator or opening delimiter).
var (
	methodCall   = regexp.MustCompile(`\.([A-Za-z_]\w*)\s*\(`)
	functionCall = regexp.MustCompile(`(^|[\s=+\-*/%!|&,(\[{:>])([A-Za-z_]\w*)\s*\(`)
)

// callVerdict is the outcome of classifying an unrecognised identifier.
type callVerdict int

const (
	verdictKnown callVerdict = iota
	verdictMisnamed
	verdictIgnore
)

// identifierLayer detects call shapes and validates their identifiers
// against the function and method registries. Each offending identifier is
// reported once per field.
func identifierLayer(path, expr string) []Diagnostic {
	var diags []Diagnostic
	reported := make(map[string]struct{})

	for _, m := range methodCall.FindAllStringSubmatch(expr, -1) {
		name := m[1]
		if _, done := reported[name]; done {
			continue
		}
		verdict := classifyMethod(name)
		if verdict == verdictMisnamed {
			reported[name] = struct{}{}
			diags = append(diags, methodDiagnostic(path, name))
		}
	}

	for _, m := range functionCall.FindAllStringSubmatch(expr, -1) {
		name := m[2]
		if _, done := reported[name]; done {
			continue
		}
		verdict := classifyFunction(name)
		if verdict == verdictMisnamed {
			reported[name] = struct{}{}
			diags = append(diags, functionDiagnostic(path, name))
		}
	}

	return diags
}

// classifyMethod decides whether an unrecognised method name plausibly
// looks like an intended call. Arbitrary identifiers that merely precede a
// parenthesis are ignored to avoid false positives.
func classifyMethod(name string) callVerdict {
	if dsl.IsMethod(name) {
		return verdictKnown
	}
	return plausibility(name, dsl.MethodMisspellings())
}

func classifyFunction(name string) callVerdict {
	if dsl.IsFunction(name) {
		return verdictKnown
	}
	// Method names used without a receiver still look like intended calls.
	if dsl.IsMethod(name) {
		return verdictMisnamed
	}
	return plausibility(name, dsl.FunctionMisspellings())
}

func plausibility(name string, misspellings map[string]string) callVerdict {
	if _, known := misspellings[name]; known {
		return verdictMisnamed
	}
	if dsl.IsMixedCase(name) {
		return verdictMisnamed
	}
	if dsl.HasCallPrefix(name) {
		return verdictMisnamed
	}
	return verdictIgnore
}

func methodDiagnostic(path, name string) Diagnostic {
	d := Diagnostic{
		Path:    path,
		Message: fmt.Sprintf("unknown method %q", name),
	}
	if canonical, ok := dsl.ResolveMethod(name); ok {
		d.Suggestion = fmt.Sprintf("did you mean .%s()?", canonical)
	}
	return d
}

func functionDiagnostic(path, name string) Diagnostic {
	d := Diagnostic{
		Path:    path,
		Message: fmt.Sprintf("unknown function %q", name),
	}
	if canonical, ok := dsl.ResolveFunction(name); ok {
		d.Suggestion = fmt.Sprintf("did you mean %s()?", canonical)
	} else if canonical, ok := dsl.ResolveMethod(name); ok {
		d.Suggestion = fmt.Sprintf("did you mean the method .%s()?", canonical)
	}
	return d
}
