package shop

import (
	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
)

// Patch is a partial shop update. Nil fields are unchanged.
type Patch struct {
	Name        *string
	FullName    *string
	Address     *string
	Contact     *string
	Description *string
	Note        *string
	Category    *string
	City        *string
	Location    *geo.Point
}

// Validate requires at least one field.
func (p Patch) Validate() error {
	if p.Name == nil && p.FullName == nil && p.Address == nil && p.Contact == nil &&
		p.Description == nil && p.Note == nil && p.Category == nil && p.City == nil && p.Location == nil {
		return domain.NewValidationError("patch", "must set at least one field")
	}
	return nil
}

// AffectsProjection reports whether the patch changes what is indexed for search.
func (p Patch) AffectsProjection() bool {
	return p.Name != nil || p.Address != nil || p.Location != nil
}

// Filter narrows shop listing. Zero values match everything; Limit 0 is unbounded.
type Filter struct {
	Category string
	City     string
	OpenOnly bool
	Limit    int
	Offset   int
}
