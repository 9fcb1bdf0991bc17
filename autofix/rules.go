package autofix

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/c360studio/streamdoc/dsl"
	"github.com/c360studio/streamdoc/schema"
)

// rewriteRule is one high-confidence entry of the ordered rewrite table.
// Every rule is anchored to a structural position (a key introducer or a
// call shape) so unrelated string content is never touched.
type rewriteRule struct {
	re      *regexp.Regexp
	replace string
	applied string
}

// suggestRule detects an ambiguous bare alias that must never be rewritten,
// only surfaced with its curated confidence tier.
type suggestRule struct {
	re       *regexp.Regexp
	original string
	alias    schema.AmbiguousAlias
}

// topLevelOnlyKeys are key synonyms that are only safe to rewrite at the
// document root; the same spelling is legitimate nested inside wrapper
// components (e.g. broker inputs).
var topLevelOnlyKeys = map[string]struct{}{
	"inputs":  {},
	"outputs": {},
	"buffers": {},
}

// rewriteRules and suggestRules are built once from the shared registries,
// so the auto-fixer and the validators cannot disagree about canonical
// names.
var (
	rewriteRules = buildRewriteRules()
	suggestRules = buildSuggestRules()
)

func buildRewriteRules() []rewriteRule {
	var rules []rewriteRule

	// Component-name renames with exactly one canonical target, anchored
	// to the key position (optionally behind a list dash).
	for _, wrong := range sortedStringKeys(schema.ComponentMisspellings()) {
		canonical := schema.ComponentMisspellings()[wrong]
		rules = append(rules, rewriteRule{
			re:      regexp.MustCompile(`(?m)^([ \t]*(?:- )?)` + regexp.QuoteMeta(wrong) + `([ \t]*):`),
			replace: "${1}" + canonical + "${2}:",
			applied: fmt.Sprintf("Component: %q -> %q", wrong, canonical),
		})
	}

	// Structural key synonyms.
	for _, wrong := range sortedStringKeys(schema.KeySynonyms()) {
		canonical := schema.KeySynonyms()[wrong]
		anchor := `(?m)^([ \t]*(?:- )?)`
		if _, rootOnly := topLevelOnlyKeys[wrong]; rootOnly {
			anchor = `(?m)^()`
		}
		rules = append(rules, rewriteRule{
			re:      regexp.MustCompile(anchor + regexp.QuoteMeta(wrong) + `([ \t]*):`),
			replace: "${1}" + canonical + "${2}:",
			applied: fmt.Sprintf("Key: %q -> %q", wrong, canonical),
		})
	}

	// Method renames, anchored to the receiver call shape.
	for _, wrong := range sortedStringKeys(dsl.MethodMisspellings()) {
		canonical := dsl.MethodMisspellings()[wrong]
		rules = append(rules, rewriteRule{
			re:      regexp.MustCompile(`\.` + regexp.QuoteMeta(wrong) + `([ \t]*)\(`),
			replace: "." + canonical + "${1}(",
			applied: fmt.Sprintf("Method: %q -> %q", wrong, canonical),
		})
	}

	// Function renames, anchored to a receiverless call shape.
	for _, wrong := range sortedStringKeys(dsl.FunctionMisspellings()) {
		canonical := dsl.FunctionMisspellings()[wrong]
		rules = append(rules, rewriteRule{
			re:      regexp.MustCompile(`(^|[^.\w])` + regexp.QuoteMeta(wrong) + `([ \t]*)\(`),
			replace: "${1}" + canonical + "${2}(",
			applied: fmt.Sprintf("Function: %q -> %q", wrong, canonical),
		})
	}

	return rules
}

func buildSuggestRules() []suggestRule {
	aliases := schema.AmbiguousAliases()
	var rules []suggestRule
	for _, name := range sortedAliasKeys(aliases) {
		alias := aliases[name]
		var re *regexp.Regexp
		if alias.Tier == schema.ConfidenceMedium {
			// Direction-ambiguous names are only flagged when they sit
			// directly under an input or output section, where the right
			// target depends on the direction.
			re = regexp.MustCompile(`(?m)^(?:input|output)[ \t]*:[ \t]*\n[ \t]+` + regexp.QuoteMeta(name) + `[ \t]*:`)
		} else {
			re = regexp.MustCompile(`(?m)^([ \t]*(?:- )?)` + regexp.QuoteMeta(name) + `[ \t]*:`)
		}
		rules = append(rules, suggestRule{re: re, original: name, alias: alias})
	}
	return rules
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedAliasKeys(m map[string]schema.AmbiguousAlias) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
