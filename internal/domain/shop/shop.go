package shop

import (
	"strings"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
)

// Max lengths of free-text shop fields.
const (
	MaxNameLength    = 200
	MaxAddressLength = 500
	MaxTextLength    = 2000
)

// Profile holds the vendor-editable fields of a shop.
type Profile struct {
	Name        string
	FullName    string
	Address     string
	Contact     string
	Description string
	Note        string
	Category    string
	City        string
	Location    *geo.Point
}

// Shop is the shop aggregate (immutable value object).
type Shop struct {
	id        string
	ownerID   string
	profile   Profile
	isOpen    bool
	createdAt int64
	updatedAt int64
}

// New validates a profile and creates an open shop. Empty category and city are derived.
func New(id, ownerID string, p Profile, now int64) (Shop, error) {
	if id == "" {
		return Shop{}, domain.NewValidationError("shop_id", "is required")
	}
	if ownerID == "" {
		return Shop{}, domain.NewValidationError("owner_id", "is required")
	}
	p = normalize(p)
	if err := validate(p); err != nil {
		return Shop{}, err
	}
	return Shop{
		id:        id,
		ownerID:   ownerID,
		profile:   p,
		isOpen:    true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct creates a Shop without validation (storage hydration).
func Reconstruct(id, ownerID string, p Profile, isOpen bool, createdAt, updatedAt int64) Shop {
	return Shop{
		id:        id,
		ownerID:   ownerID,
		profile:   p,
		isOpen:    isOpen,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// ID returns the shop identifier.
func (s *Shop) ID() string { return s.id }

// OwnerID returns the vendor account that owns the shop.
func (s *Shop) OwnerID() string { return s.ownerID }

// Profile returns the editable fields.
func (s *Shop) Profile() Profile { return s.profile }

// Name returns the shop display name.
func (s *Shop) Name() string { return s.profile.Name }

// Address returns the street address.
func (s *Shop) Address() string { return s.profile.Address }

// Location returns the coordinates, or nil if the shop has none.
func (s *Shop) Location() *geo.Point { return s.profile.Location }

// IsOpen reports whether the shop is active.
func (s *Shop) IsOpen() bool { return s.isOpen }

// CreatedAt returns the creation time in epoch seconds.
func (s *Shop) CreatedAt() int64 { return s.createdAt }

// UpdatedAt returns the last update time in epoch seconds.
func (s *Shop) UpdatedAt() int64 { return s.updatedAt }

// Searchable reports whether the shop belongs in the search projection.
func (s *Shop) Searchable() bool { return s.isOpen && s.profile.Location != nil }

// WithOpen returns a copy with the open flag set.
func (s *Shop) WithOpen(open bool, now int64) Shop {
	out := *s
	out.isOpen = open
	out.updatedAt = now
	return out
}

// Apply returns a copy with the patch applied and validated.
func (s *Shop) Apply(p Patch, now int64) (Shop, error) {
	next := s.profile
	if p.Name != nil {
		next.Name = *p.Name
	}
	if p.FullName != nil {
		next.FullName = *p.FullName
	}
	if p.Address != nil {
		next.Address = *p.Address
		if p.City == nil {
			next.City = ""
		}
	}
	if p.Contact != nil {
		next.Contact = *p.Contact
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Note != nil {
		next.Note = *p.Note
	}
	if p.Category != nil {
		next.Category = *p.Category
	}
	if p.City != nil {
		next.City = *p.City
	}
	if p.Location != nil {
		loc := *p.Location
		next.Location = &loc
	}

	next = normalize(next)
	if err := validate(next); err != nil {
		return Shop{}, err
	}

	out := *s
	out.profile = next
	out.updatedAt = now
	return out, nil
}

func normalize(p Profile) Profile {
	p.Name = strings.TrimSpace(p.Name)
	p.FullName = strings.TrimSpace(p.FullName)
	p.Address = strings.TrimSpace(p.Address)
	p.Contact = strings.TrimSpace(p.Contact)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	p.City = strings.TrimSpace(p.City)
	if p.Category == "" {
		p.Category = Categorize(p.Name, p.Description)
	}
	if p.City == "" {
		p.City = ExtractCity(p.Address)
	}
	return p
}

func validate(p Profile) error {
	switch {
	case p.Name == "":
		return domain.NewValidationError("shopName", "is required")
	case len(p.Name) > MaxNameLength:
		return domain.NewValidationError("shopName", "is too long")
	case p.FullName == "":
		return domain.NewValidationError("fullName", "is required")
	case len(p.FullName) > MaxNameLength:
		return domain.NewValidationError("fullName", "is too long")
	case p.Address == "":
		return domain.NewValidationError("address", "is required")
	case len(p.Address) > MaxAddressLength:
		return domain.NewValidationError("address", "is too long")
	case len(p.Description) > MaxTextLength, len(p.Note) > MaxTextLength:
		return domain.NewValidationError("description", "is too long")
	case !IsCategory(p.Category):
		return domain.NewValidationError("category", "is unknown")
	}
	if p.Location != nil && !p.Location.Valid() {
		return domain.ErrInvalidLocation
	}
	return nil
}
