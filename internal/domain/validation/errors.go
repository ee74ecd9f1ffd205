package validation

import (
	"errors"
	"strings"

	"subscription-tracker/internal/domain"
)

// Kind classifies a validation failure.
type Kind string

const (
	// KindFieldConstraint: one or more fields violate a static rule.
	KindFieldConstraint Kind = "field_constraint"
	// KindCrossFieldTemporal: start date in the future, or renewal date not after start date.
	KindCrossFieldTemporal Kind = "cross_field_temporal"
	// KindUnsupportedFrequency: renewal date derivation needs a known frequency.
	KindUnsupportedFrequency Kind = "unsupported_frequency"
)

// Violation is a single field-attributed failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the violations found before validation stopped, in
// detection order.
type ValidationError struct {
	Kind       Kind        `json:"kind"`
	Violations []Violation `json:"violations"`
}

func newError(kind Kind, vs ...Violation) *ValidationError {
	return &ValidationError{Kind: kind, Violations: vs}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets callers match any validation failure with domain.ErrInvalidArgument.
func (e *ValidationError) Unwrap() error { return domain.ErrInvalidArgument }

// Fields returns the violating field names in order.
func (e *ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.Field)
	}
	return out
}

// AsValidationError extracts a *ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
