// Package autofix deterministically rewrites high-confidence mistakes in
// raw pipeline configuration text and surfaces ambiguous ones.
//
// The engine never mutates its input and is idempotent: applying it to its
// own output produces identical text and no applied fixes. It shares its
// canonical name registries with the validators, so a name is either fixed
// silently, suggested, or left alone consistently across the system.
package autofix

import "github.com/c360studio/streamdoc/schema"

// maxPasses bounds the fixed-point iteration. The rule table is applied in
// order until a full pass changes nothing.
const maxPasses = 10

// Suggestion is an ambiguous correction that was surfaced but not applied.
type Suggestion struct {
	// Original is the text that looks wrong.
	Original string `json:"original"`

	// Confidence is the curated tier, always medium or low.
	Confidence schema.Confidence `json:"confidence"`

	// Targets lists the canonical names the original may have meant.
	Targets []string `json:"targets,omitempty"`
}

// Result is the outcome of one auto-fix run.
type Result struct {
	CorrectedText  string       `json:"corrected_text"`
	AppliedFixes   []string     `json:"applied_fixes"`
	SuggestedFixes []Suggestion `json:"suggested_fixes"`
}

// Apply rewrites text using the high-confidence rule table and reports
// medium/low-confidence findings as suggestions. The input string is never
// modified.
func Apply(text string) Result {
	result := Result{AppliedFixes: []string{}, SuggestedFixes: []Suggestion{}}

	applied := make(map[string]struct{})
	current := text
	for pass := 0; pass < maxPasses; pass++ {
		next := current
		for _, rule := range rewriteRules {
			if !rule.re.MatchString(next) {
				continue
			}
			next = rule.re.ReplaceAllString(next, rule.replace)
			if _, dup := applied[rule.applied]; !dup {
				applied[rule.applied] = struct{}{}
				result.AppliedFixes = append(result.AppliedFixes, rule.applied)
			}
		}
		if next == current {
			break
		}
		current = next
	}
	result.CorrectedText = current

	for _, rule := range suggestRules {
		if rule.re.MatchString(current) {
			result.SuggestedFixes = append(result.SuggestedFixes, Suggestion{
				Original:   rule.original,
				Confidence: rule.alias.Tier,
				Targets:    rule.alias.Targets,
			})
		}
	}

	return result
}
