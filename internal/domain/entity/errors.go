package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks lookups of content that does not exist or was
	// soft-deleted.
	ErrNotFound = errors.New("entity not found")

	// ErrValidationFailed matches every *ValidationError via errors.Is.
	ErrValidationFailed = errors.New("validation failed")
)

// ValidationError names the offending form field. Message is written for
// the end user and is returned to the client as is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
