package utils

import (
	"errors"
	"fmt"
)

// Shared error taxonomy. Handlers translate these to HTTP statuses;
// model functions wrap them with %w and never panic on bad input.

var ErrorRecordNotFound = errors.New("record not found")
var ErrorLimitExceeded = errors.New("limit exceeded")
var ErrorNotConfigured = errors.New("not configured")
var ErrorLastGrid = errors.New("cannot delete the last size grid")
var ErrorEmptyQuantity = errors.New("quantity is empty")

// ValidationError marks malformed user input on a specific field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func NewValidationError(field string, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// ConflictError marks a uniqueness violation on a specific field.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return "duplicate " + e.Field
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflictError(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
