package inventory

import (
	"fmt"

	"github.com/kailas-cloud/nearby/internal/domain"
)

// Thresholds are the optional quantity bounds of a record.
type Thresholds struct {
	Min *int
	Max *int
}

// Validate checks non-negative bounds and min <= max when both are set.
func (t Thresholds) Validate() error {
	if t.Min != nil && *t.Min < 0 {
		return domain.NewValidationError("min_quantity", "must be >= 0")
	}
	if t.Max != nil && *t.Max < 0 {
		return domain.NewValidationError("max_quantity", "must be >= 0")
	}
	if t.Min != nil && t.Max != nil && *t.Min > *t.Max {
		return domain.NewValidationError("min_quantity", "must not exceed max_quantity")
	}
	return nil
}

// Record is a per (shop, item) inventory count. Status is always recomputed
// from quantity and thresholds by the constructors and mutators.
type Record struct {
	id         string
	shopID     string
	itemID     string
	quantity   int
	thresholds Thresholds
	status     Status
	updatedAt  int64
}

// New validates and creates a Record.
func New(id, shopID, itemID string, quantity int, thresholds Thresholds, now int64) (Record, error) {
	if id == "" || shopID == "" || itemID == "" {
		return Record{}, domain.NewValidationError("id", "is required")
	}
	if quantity < 0 {
		return Record{}, fmt.Errorf("%w: quantity %d is negative", domain.ErrInvalidQuantity, quantity)
	}
	if err := thresholds.Validate(); err != nil {
		return Record{}, err
	}
	t := cloneThresholds(thresholds)
	return Record{
		id:         id,
		shopID:     shopID,
		itemID:     itemID,
		quantity:   quantity,
		thresholds: t,
		status:     DeriveStatus(quantity, t.Min),
		updatedAt:  now,
	}, nil
}

// Reconstruct hydrates a Record from storage. The status is recomputed, a stored
// value that disagrees with quantity is never trusted.
func Reconstruct(id, shopID, itemID string, quantity int, thresholds Thresholds, updatedAt int64) Record {
	return Record{
		id:         id,
		shopID:     shopID,
		itemID:     itemID,
		quantity:   quantity,
		thresholds: thresholds,
		status:     DeriveStatus(quantity, thresholds.Min),
		updatedAt:  updatedAt,
	}
}

// ID returns the inventory record identifier.
func (r *Record) ID() string { return r.id }

// ShopID returns the owning shop.
func (r *Record) ShopID() string { return r.shopID }

// ItemID returns the stocked item.
func (r *Record) ItemID() string { return r.itemID }

// Quantity returns the current count.
func (r *Record) Quantity() int { return r.quantity }

// Thresholds returns a copy of the configured bounds.
func (r *Record) Thresholds() Thresholds { return cloneThresholds(r.thresholds) }

// Status returns the derived stock status.
func (r *Record) Status() Status { return r.status }

// UpdatedAt returns the last mutation time in epoch seconds.
func (r *Record) UpdatedAt() int64 { return r.updatedAt }

// UpdateQuantity applies the change and returns the updated record.
// The receiver is never modified; a negative result fails with ErrInvalidQuantity.
func (r *Record) UpdateQuantity(c Change, now int64) (Record, error) {
	next := c.apply(r.quantity)
	if next < 0 {
		return Record{}, fmt.Errorf("%w: resulting quantity %d is negative", domain.ErrInvalidQuantity, next)
	}
	out := *r
	out.thresholds = cloneThresholds(r.thresholds)
	out.quantity = next
	out.status = DeriveStatus(next, out.thresholds.Min)
	out.updatedAt = now
	return out, nil
}

// SetThresholds replaces the bounds and recomputes status.
func (r *Record) SetThresholds(t Thresholds, now int64) (Record, error) {
	if err := t.Validate(); err != nil {
		return Record{}, err
	}
	out := *r
	out.thresholds = cloneThresholds(t)
	out.status = DeriveStatus(out.quantity, out.thresholds.Min)
	out.updatedAt = now
	return out, nil
}

// CheckClaimedStatus rejects a caller-supplied status that contradicts the derived one.
func CheckClaimedStatus(claimed *string, derived Status) error {
	if claimed == nil {
		return nil
	}
	s, err := ParseStatus(*claimed)
	if err != nil {
		return domain.NewValidationError("status", err.Error())
	}
	if s != derived {
		return domain.NewValidationError("status",
			fmt.Sprintf("is derived from quantity: expected %s, got %s", derived, s))
	}
	return nil
}

func cloneThresholds(t Thresholds) Thresholds {
	var out Thresholds
	if t.Min != nil {
		v := *t.Min
		out.Min = &v
	}
	if t.Max != nil {
		v := *t.Max
		out.Max = &v
	}
	return out
}
