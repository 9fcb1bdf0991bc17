// Package validate checks parsed pipeline configuration trees against the
// component schema catalog and merges in expression lint findings.
//
// Validation never fails: malformed documents produce a Result whose error
// list describes every problem found. Only a document that cannot be parsed
// at all short-circuits, and even then the outcome is a single-error Result
// rather than a Go error.
package validate

// Issue is one validation finding at a dotted document path.
type Issue struct {
	Path       string `json:"path"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Result is the outcome of validating one document.
// Valid is true exactly when Errors is empty.
type Result struct {
	Valid    bool     `json:"valid"`
	Errors   []Issue  `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *Result) addError(path, message, suggestion string) {
	r.Errors = append(r.Errors, Issue{Path: path, Message: message, Suggestion: suggestion})
}

func (r *Result) finish() Result {
	r.Valid = len(r.Errors) == 0
	return *r
}
