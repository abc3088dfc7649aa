package settings

import (
	"errors"
	"fmt"
)

// Errors returned by record operations.
var (
	// ErrInvalidMode indicates a full-screen mode outside the known set.
	ErrInvalidMode = errors.New("invalid full-screen mode")

	// ErrTypeMismatch indicates a persisted value of the wrong type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrOutOfRange indicates a numeric value outside its bounds.
	ErrOutOfRange = errors.New("value out of range")

	// ErrUnknownField indicates a field name that is not part of the record.
	ErrUnknownField = errors.New("unknown field")
)

// FieldError describes a problem with a single record field.
type FieldError struct {
	// Field is the persisted field name.
	Field string
	// Value is the offending value.
	Value any
	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v (got %v)", e.Field, e.Err, e.Value)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// FieldErrors extracts every *FieldError from err, which may be a joined
// error as returned by LoadWithDefaults.
func FieldErrors(err error) []*FieldError {
	switch e := err.(type) {
	case nil:
		return nil
	case *FieldError:
		return []*FieldError{e}
	case interface{ Unwrap() []error }:
		var result []*FieldError
		for _, inner := range e.Unwrap() {
			result = append(result, FieldErrors(inner)...)
		}
		return result
	}

	var fe *FieldError
	if errors.As(err, &fe) {
		return []*FieldError{fe}
	}
	return nil
}
