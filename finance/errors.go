package finance

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTerms    = errors.New("invalid loan terms")
	ErrInvalidAnalysis = errors.New("invalid analysis")
)

// ValidationError names the offending field. errors.Is matches it against
// ErrInvalidTerms or ErrInvalidAnalysis.
type ValidationError struct {
	Field  string
	Reason string
	kind   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.kind, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.kind
}

func invalidTerms(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason, kind: ErrInvalidTerms}
}

func invalidAnalysis(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason, kind: ErrInvalidAnalysis}
}
