package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing shop, item or inventory record.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidInput signals a malformed request shape or value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrEmptyQuery signals a search query that is blank after trimming.
	ErrEmptyQuery = fmt.Errorf("%w: query is empty", ErrInvalidInput)
	// ErrInvalidLocation signals coordinates outside the valid range.
	ErrInvalidLocation = errors.New("invalid location")
	// ErrInvalidRadius signals a non-positive search radius.
	ErrInvalidRadius = errors.New("invalid radius")
	// ErrInvalidQuantity signals an inventory change that would make quantity negative.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrUnauthorized signals a missing or invalid identity.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals an identity that may not act on the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)

// ValidationError wraps ErrInvalidInput with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidInput.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError creates a validation error for a field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
