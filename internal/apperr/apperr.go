// Package apperr defines the error taxonomy shared by the service and API
// layers. Handlers translate these into HTTP status codes; everything else
// is treated as an internal failure.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound covers both unknown ids and ids owned by another
	// account. Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned for every credential failure,
	// whether the account is unknown or the password is wrong.
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
)

// ValidationError carries field-keyed messages for malformed input.
type ValidationError struct {
	Fields map[string]string
}

// Invalid creates a ValidationError for a single field.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records a message for a field and returns the error for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
	return e
}

// Empty reports whether no field has been flagged yet.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidation unwraps err into a ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
