package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/streamdoc/fuzzy"
	"github.com/c360studio/streamdoc/lint"
	"github.com/c360studio/streamdoc/pipeline"
	"github.com/c360studio/streamdoc/schema"
)

// foreignKeys are top-level keys from unrelated configuration families.
// Each maps to a structural correction hint.
var foreignKeys = map[string]string{
	"apiVersion": "this is a Kubernetes manifest key; pipeline configs declare input, pipeline and output sections instead",
	"kind":       "this is a Kubernetes manifest key; pipeline configs declare input, pipeline and output sections instead",
	"metadata":   "this is a Kubernetes manifest key; pipeline configs have no metadata block",
	"spec":       "this is a Kubernetes manifest key; component config goes directly under input, pipeline and output",
	"services":   "this is a Docker Compose key; each pipeline config describes a single stream, not a service set",
	"image":      "this is a Docker Compose key; pipeline configs do not reference container images",
	"jobs":       "this is a CI workflow key; pipeline processing steps go under pipeline.processors",
	"steps":      "this is a CI workflow key; pipeline processing steps go under pipeline.processors",
	"stages":     "this is a CI workflow key; pipeline processing steps go under pipeline.processors",
	"workflows":  "this is a CI workflow key; pipeline processing steps go under pipeline.processors",
	"components": "there is no components section; declare input, pipeline.processors and output",
	"tasks":      "there is no tasks section; processing steps go under pipeline.processors",
	"sources":    "there is no sources section; a pipeline has exactly one input (use a broker to combine several)",
	"sinks":      "there is no sinks section; a pipeline has exactly one output (use a broker to fan out)",
	"plugins":    "there is no plugins section; components are declared by name under their section",
}

// sectionMetadataKeys may appear beside the component-type key inside a
// section without being a component name.
var sectionMetadataKeys = map[string]struct{}{
	"label":      {},
	"processors": {},
	"batching":   {},
}

// Config parses and validates raw configuration text. Parse failures and
// multi-document input produce a single root-level error.
func Config(text string) Result {
	var res Result
	tree, err := pipeline.Parse(text)
	if err != nil {
		res.addError("root", err.Error(), "")
		return res.finish()
	}
	return Tree(tree)
}

// Tree validates an already parsed configuration tree.
func Tree(tree map[string]any) Result {
	var res Result
	reg := schema.Default()

	for _, key := range sortedKeys(tree) {
		if hint, foreign := foreignKeys[key]; foreign {
			res.addError(key, fmt.Sprintf("%q is not a pipeline configuration key", key), hint)
		}
	}

	for _, section := range []string{"input", "output"} {
		if _, ok := tree[section]; !ok {
			res.addError("root", fmt.Sprintf("missing required section %q", section), fmt.Sprintf("add a top-level %s section", section))
		}
	}

	if node, ok := tree["input"]; ok {
		validateComponent(&res, reg, "input", schema.CategoryInput, node)
	}
	if node, ok := tree["output"]; ok {
		validateComponent(&res, reg, "output", schema.CategoryOutput, node)
	}

	if node, ok := tree["pipeline"]; ok {
		validatePipelineSection(&res, reg, node)
	}

	if node, ok := tree["buffer"]; ok {
		validateComponent(&res, reg, "buffer", schema.CategoryBuffer, node)
	}

	if node, ok := tree["cache_resources"]; ok {
		if entries, isList := node.([]any); isList {
			for i, entry := range entries {
				validateComponent(&res, reg, fmt.Sprintf("cache_resources.%d", i), schema.CategoryCache, entry)
			}
		} else {
			res.addError("cache_resources", "cache_resources must be a list of cache resources", "")
		}
	}

	return res.finish()
}

func validatePipelineSection(res *Result, reg *schema.Registry, node any) {
	section, ok := node.(map[string]any)
	if !ok {
		res.addError("pipeline", "pipeline section must be a mapping with a processors list", "")
		return
	}
	procs, ok := section["processors"]
	if !ok {
		return
	}
	entries, ok := procs.([]any)
	if !ok {
		res.addError("pipeline.processors", "processors must be a list", "introduce each processor with a - entry")
		return
	}
	for i, entry := range entries {
		validateComponent(res, reg, fmt.Sprintf("pipeline.processors.%d", i), schema.CategoryProcessor, entry)
	}
}

// validateComponent resolves the component-type key of a section or list
// entry and validates its configuration.
func validateComponent(res *Result, reg *schema.Registry, path string, category schema.Category, node any) {
	m, ok := node.(map[string]any)
	if !ok || len(m) == 0 {
		res.addError(path, fmt.Sprintf("no %s component declared", category), fmt.Sprintf("declare a component by name, e.g. one of: %s", strings.Join(head(reg.Names(category), 5), ", ")))
		return
	}

	name := componentKey(m)
	if name == "" {
		res.addError(path, fmt.Sprintf("no %s component declared", category), "")
		return
	}
	cfg := m[name]
	compPath := path + "." + name

	// Processors attached at section level beside the component.
	if procs, hasProcs := m["processors"].([]any); hasProcs {
		for i, entry := range procs {
			validateComponent(res, reg, fmt.Sprintf("%s.processors.%d", path, i), schema.CategoryProcessor, entry)
		}
	}

	if schema.IsWrapper(name) {
		validateWrapper(res, reg, compPath, category, cfg)
		return
	}

	cs, known := reg.Lookup(category, name)
	if !known {
		suggestUnknownComponent(res, reg, compPath, category, name)
		return
	}

	if cs.ValueIsExpression {
		expr, isString := cfg.(string)
		if !isString {
			res.addError(compPath, fmt.Sprintf("%s expects a mapping expression as its value", name), fmt.Sprintf("write %s: |\n  root = this", name))
			return
		}
		mergeLint(res, lint.Expression(compPath, expr))
		return
	}

	fields, _ := cfg.(map[string]any)
	validateFields(res, compPath, cs, fields)
}

// validateWrapper accepts wrapper components without field validation but
// recurses into the components they contain.
func validateWrapper(res *Result, reg *schema.Registry, path string, category schema.Category, cfg any) {
	m, ok := cfg.(map[string]any)
	if !ok {
		return
	}
	for _, listKey := range []string{"inputs", "outputs"} {
		entries, isList := m[listKey].([]any)
		if !isList {
			continue
		}
		for i, entry := range entries {
			validateComponent(res, reg, fmt.Sprintf("%s.%s.%d", path, listKey, i), category, entry)
		}
	}
}

// suggestUnknownComponent reports an unknown component-type name with up to
// three ranked suggestions.
func suggestUnknownComponent(res *Result, reg *schema.Registry, path string, category schema.Category, name string) {
	matches := fuzzy.NearestNames(name, reg.Names(category), schema.ComponentMisspellings())
	msg := fmt.Sprintf("unknown %s component %q", category, name)
	if len(matches) == 0 {
		res.addError(path, msg, "")
		return
	}
	suggestion := fmt.Sprintf("did you mean %q?", matches[0])
	if len(matches) > 1 {
		suggestion = fmt.Sprintf("did you mean %q? (other candidates: %s)", matches[0], strings.Join(matches[1:], ", "))
	}
	res.addError(path, msg, suggestion)
}

// componentKey returns the first non-metadata key of a section in sorted
// order, which is the component-type name.
func componentKey(m map[string]any) string {
	for _, key := range sortedKeys(m) {
		if _, meta := sectionMetadataKeys[key]; !meta {
			return key
		}
	}
	return ""
}

func mergeLint(res *Result, diags []lint.Diagnostic) {
	for _, d := range diags {
		res.addError(d.Path, d.Message, d.Suggestion)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
