// Package validation collects field-level validation failures so callers can
// report every offending field at once instead of failing on the first.
package validation

import (
	"errors"
	"strings"
)

// ErrInvalid is matched by errors.Is for any FieldErrors value.
var ErrInvalid = errors.New("validation failed")

// FieldError describes one invalid field.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors is an ordered list of field failures. It implements error.
type FieldErrors []FieldError

// Add records a failure for field.
func (e *FieldErrors) Add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Required records a "is required" failure when value is blank after trimming.
func (e *FieldErrors) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		e.Add(field, field+" is required")
		return false
	}
	return true
}

// Has reports whether field already failed.
func (e FieldErrors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Map returns the first message recorded for each field.
func (e FieldErrors) Map() map[string]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string]string, len(e))
	for _, fe := range e {
		if _, exists := out[fe.Field]; !exists {
			out[fe.Field] = fe.Message
		}
	}
	return out
}

// Err returns e as an error, or nil when no failures were recorded.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e FieldErrors) Error() string {
	if len(e) == 0 {
		return ErrInvalid.Error()
	}
	msgs := make([]string, 0, len(e))
	for _, fe := range e {
		msgs = append(msgs, fe.Message)
	}
	return ErrInvalid.Error() + ": " + strings.Join(msgs, "; ")
}

func (e FieldErrors) Unwrap() error {
	return ErrInvalid
}

// Field reports cause as a failure of a single field while keeping cause
// reachable through errors.Is.
func Field(field string, cause error) error {
	if cause == nil {
		return nil
	}
	return fieldFailure{errs: FieldErrors{{Field: field, Message: cause.Error()}}, cause: cause}
}

type fieldFailure struct {
	errs  FieldErrors
	cause error
}

func (f fieldFailure) Error() string { return f.cause.Error() }

func (f fieldFailure) Unwrap() []error { return []error{f.errs, f.cause} }

// Fields extracts the field map from err when it carries FieldErrors.
func Fields(err error) (map[string]string, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe.Map(), true
	}
	return nil, false
}
