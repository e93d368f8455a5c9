package item

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/nearby/internal/domain"
)

// MaxNameLength is the maximum item name length in bytes.
const MaxNameLength = 200

// Item is a catalog entry of a shop (immutable value object).
type Item struct {
	id          string
	shopID      string
	name        string
	price       decimal.Decimal
	description string
	note        string
	createdAt   int64
	updatedAt   int64
}

// New validates and creates an Item. Price must be positive.
func New(id, shopID, name string, price decimal.Decimal, description, note string, now int64) (Item, error) {
	name = strings.TrimSpace(name)
	switch {
	case id == "":
		return Item{}, domain.NewValidationError("id", "is required")
	case shopID == "":
		return Item{}, domain.NewValidationError("shop_id", "is required")
	case name == "":
		return Item{}, domain.NewValidationError("itemName", "is required")
	case len(name) > MaxNameLength:
		return Item{}, domain.NewValidationError("itemName", "is too long")
	case !price.IsPositive():
		return Item{}, domain.NewValidationError("price", "must be > 0")
	}
	return Item{
		id:          id,
		shopID:      shopID,
		name:        name,
		price:       price,
		description: description,
		note:        note,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct creates an Item without validation (storage hydration).
func Reconstruct(
	id, shopID, name string, price decimal.Decimal, description, note string, createdAt, updatedAt int64,
) Item {
	return Item{
		id: id, shopID: shopID, name: name, price: price,
		description: description, note: note, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the item identifier.
func (i *Item) ID() string { return i.id }

// ShopID returns the owning shop.
func (i *Item) ShopID() string { return i.shopID }

// Name returns the item name, which is also its search term.
func (i *Item) Name() string { return i.name }

// Price returns the unit price.
func (i *Item) Price() decimal.Decimal { return i.price }

// Description returns the optional description.
func (i *Item) Description() string { return i.description }

// Note returns the optional vendor note.
func (i *Item) Note() string { return i.note }

// CreatedAt returns the creation time in epoch seconds.
func (i *Item) CreatedAt() int64 { return i.createdAt }

// UpdatedAt returns the last update time in epoch seconds.
func (i *Item) UpdatedAt() int64 { return i.updatedAt }

// Patch is a partial item update. Identity fields are immutable.
type Patch struct {
	Price       *decimal.Decimal
	Description *string
	Note        *string
}

// Apply returns a copy with the patch applied.
func (i *Item) Apply(p Patch, now int64) (Item, error) {
	if p.Price == nil && p.Description == nil && p.Note == nil {
		return Item{}, domain.NewValidationError("patch", "must set at least one field")
	}
	out := *i
	if p.Price != nil {
		if !p.Price.IsPositive() {
			return Item{}, domain.NewValidationError("price", "must be > 0")
		}
		out.price = *p.Price
	}
	if p.Description != nil {
		out.description = *p.Description
	}
	if p.Note != nil {
		out.note = *p.Note
	}
	out.updatedAt = now
	return out, nil
}
