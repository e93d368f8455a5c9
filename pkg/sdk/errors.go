package nearby

import "github.com/kailas-cloud/nearby/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound        = domain.ErrNotFound
	ErrAlreadyExists   = domain.ErrAlreadyExists
	ErrInvalidInput    = domain.ErrInvalidInput
	ErrEmptyQuery      = domain.ErrEmptyQuery
	ErrInvalidLocation = domain.ErrInvalidLocation
	ErrInvalidRadius   = domain.ErrInvalidRadius
	ErrInvalidQuantity = domain.ErrInvalidQuantity
	ErrForbidden       = domain.ErrForbidden
)
