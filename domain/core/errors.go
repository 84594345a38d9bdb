package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrMissingColumn    = errors.New("required column missing")
	ErrInvalidValue     = errors.New("invalid cell value")
	ErrInsufficientData = errors.New("insufficient data")
	ErrLengthMismatch   = errors.New("length mismatch")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// NewMissingColumnError reports columns absent from a dataset header
func NewMissingColumnError(source string, columns []string) error {
	return fmt.Errorf("%w in %s: %v", ErrMissingColumn, source, columns)
}

// NewInvalidValueError reports a cell that could not be parsed
func NewInvalidValueError(column string, row int, value string) error {
	return fmt.Errorf("%w: column %s row %d: %q", ErrInvalidValue, column, row, value)
}

func NewLengthMismatchError(what string, want, got int) error {
	return fmt.Errorf("%w: %s: expected %d, got %d", ErrLengthMismatch, what, want, got)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidConfig, field, reason)
}

// IsSchemaError reports whether err stems from a malformed dataset
func IsSchemaError(err error) bool {
	return errors.Is(err, ErrMissingColumn) || errors.Is(err, ErrInvalidValue)
}
