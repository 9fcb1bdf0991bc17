// Package lint checks embedded mapping expressions for syntax borrowed from
// unrelated host languages and for unknown function or method identifiers.
//
// Checks run on two independent layers: an ordered anti-pattern rule table,
// and a call-shape scanner that validates identifiers against the dsl
// registries. Both layers collect diagnostics; nothing is thrown.
package lint

// Diagnostic is a single expression-level finding keyed to the field path
// the expression came from.
type Diagnostic struct {
	Path       string `json:"path"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Expression scans the raw text of one expression-bearing field and returns
// all findings. path is the dotted location of the field in the document.
func Expression(path, expr string) []Diagnostic {
	var diags []Diagnostic
	diags = append(diags, antiPatternLayer(path, expr)...)
	diags = append(diags, identifierLayer(path, expr)...)
	return diags
}
