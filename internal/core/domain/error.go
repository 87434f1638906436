package domain

import (
	"errors"
	"strings"
)

var (
	ErrDriverNotFound = errors.New("driver not found")
	ErrPersistence    = errors.New("driver location rejected by store")
)

// ValidationError carries the ordered, human-readable messages returned to clients.
type ValidationError struct {
	Errors []string
}

func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Errors: msgs}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}
