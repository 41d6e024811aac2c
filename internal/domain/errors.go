package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database, or when a batch selection is empty.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. missing required field, unknown difficulty, non-positive length).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrInvalidField is returned when a query names a trail attribute that does
// not exist (e.g. ?sortBy=colour). Handlers should map this to HTTP 400.
var ErrInvalidField = errors.New("invalid field")

// ErrUnauthorized is returned when the admin token is missing or wrong.
// Handlers should map this to HTTP 403.
var ErrUnauthorized = errors.New("not authorized")

// InvalidEnumValueError reports a free-text value that has no canonical form.
// Accepted lists the case-insensitive spellings the field understands.
type InvalidEnumValueError struct {
	Field    string
	Value    string
	Accepted []string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("invalid %s %q: allowed values: %s", e.Field, e.Value, strings.Join(e.Accepted, ", "))
}

// Unwrap lets callers match the error with errors.Is(err, ErrValidation).
func (e *InvalidEnumValueError) Unwrap() error { return ErrValidation }

// TypeMismatchError reports a request value of the wrong JSON type,
// e.g. a number where a string was expected, or null for a required field.
type TypeMismatchError struct {
	Field    string
	Expected string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s must be %s", e.Field, e.Expected)
}

// Unwrap lets callers match the error with errors.Is(err, ErrValidation).
func (e *TypeMismatchError) Unwrap() error { return ErrValidation }
