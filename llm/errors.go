package llm

import "errors"

// errKind classifies a request failure for retry purposes.
type errKind int

const (
	kindTransient errKind = iota // may succeed on retry
	kindFatal                    // retrying cannot help
)

// requestError wraps a failure with its retry classification.
type requestError struct {
	kind errKind
	err  error
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

// NewTransientError wraps an error as transient (retryable).
func NewTransientError(err error) error {
	return &requestError{kind: kindTransient, err: err}
}

// NewFatalError wraps an error as fatal (non-retryable).
func NewFatalError(err error) error {
	return &requestError{kind: kindFatal, err: err}
}

// IsTransient returns true if the error should be retried.
func IsTransient(err error) bool {
	var re *requestError
	return errors.As(err, &re) && re.kind == kindTransient
}

// IsFatal returns true if the error should not be retried.
func IsFatal(err error) bool {
	var re *requestError
	return errors.As(err, &re) && re.kind == kindFatal
}
