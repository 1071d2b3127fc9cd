package sink

import (
	"errors"
	"strings"
)

var (
	ErrClientRequired = errors.New("client is required")
	ErrClosed         = errors.New("sink: writer is closed")
)

// ValidationError is reported when a buffered record misses a required field.
// The whole batch containing the record is dropped.
type ValidationError struct {
	Field string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + " is required"
}

// IsValidationError returns a boolean indicating whether the error is a validation error.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	var e *ValidationError
	return errors.As(err, &e)
}

// BulkItemError is reported when the bulk call succeeded but some items failed.
// Reasons holds the distinct error types in the order they were first seen.
type BulkItemError struct {
	Reasons []string
}

// Error implements the error interface.
func (e *BulkItemError) Error() string {
	return strings.Join(e.Reasons, ",")
}

// IsBulkItemError returns a boolean indicating whether the error is a bulk item error.
func IsBulkItemError(err error) bool {
	if err == nil {
		return false
	}
	var e *BulkItemError
	return errors.As(err, &e)
}
