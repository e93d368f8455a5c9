package projection

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/inventory"
	"github.com/kailas-cloud/nearby/internal/domain/item"
	"github.com/kailas-cloud/nearby/internal/domain/shop"
)

// Entry is the per-shop search read model.
type Entry struct {
	shopID    string
	shopName  string
	address   string
	location  geo.Point
	terms     []string
	updatedAt int64
}

// Build derives the entry of a searchable shop. Terms are the distinct names of
// items whose inventory is not out of stock; items with no record are not stocked.
// The second return is false when the shop must not be indexed.
func Build(s *shop.Shop, items []item.Item, records []inventory.Record) (Entry, bool) {
	if !s.Searchable() {
		return Entry{}, false
	}

	stocked := make(map[string]bool, len(records))
	for i := range records {
		r := &records[i]
		if r.ShopID() == s.ID() && r.Status().Searchable() {
			stocked[r.ItemID()] = true
		}
	}

	names := make([]string, 0, len(stocked))
	for i := range items {
		it := &items[i]
		if it.ShopID() == s.ID() && stocked[it.ID()] {
			names = append(names, it.Name())
		}
	}

	// Entry time follows the newest source, so identical inputs build identical entries.
	updated := s.UpdatedAt()
	for i := range items {
		if items[i].ShopID() == s.ID() && items[i].UpdatedAt() > updated {
			updated = items[i].UpdatedAt()
		}
	}
	for i := range records {
		if records[i].ShopID() == s.ID() && records[i].UpdatedAt() > updated {
			updated = records[i].UpdatedAt()
		}
	}

	return Entry{
		shopID:    s.ID(),
		shopName:  s.Name(),
		address:   s.Address(),
		location:  *s.Location(),
		terms:     NormalizeTerms(names),
		updatedAt: updated,
	}, true
}

// Reconstruct creates an Entry from storage.
func Reconstruct(shopID, shopName, address string, location geo.Point, terms []string, updatedAt int64) Entry {
	return Entry{
		shopID: shopID, shopName: shopName, address: address,
		location: location, terms: terms, updatedAt: updatedAt,
	}
}

// ShopID returns the shop identifier.
func (e *Entry) ShopID() string { return e.shopID }

// ShopName returns the shop display name.
func (e *Entry) ShopName() string { return e.shopName }

// Address returns the shop address.
func (e *Entry) Address() string { return e.address }

// Location returns the shop coordinates.
func (e *Entry) Location() geo.Point { return e.location }

// Terms returns the sorted, distinct in-stock item names.
func (e *Entry) Terms() []string { return e.terms }

// UpdatedAt returns the newest source timestamp in epoch seconds.
func (e *Entry) UpdatedAt() int64 { return e.updatedAt }

// NormalizeTerms trims, drops empties and the tag separator, dedupes
// case-insensitively (first spelling wins after sort) and sorts.
func NormalizeTerms(names []string) []string {
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.Join(strings.Fields(strings.ReplaceAll(n, TermSeparator, " ")), " ")
		if n != "" {
			cleaned = append(cleaned, n)
		}
	}
	sort.Slice(cleaned, func(i, j int) bool {
		li, lj := strings.ToLower(cleaned[i]), strings.ToLower(cleaned[j])
		if li != lj {
			return li < lj
		}
		return cleaned[i] < cleaned[j]
	})

	out := make([]string, 0, len(cleaned))
	var prev string
	for i, n := range cleaned {
		l := strings.ToLower(n)
		if i > 0 && l == prev {
			continue
		}
		prev = l
		out = append(out, n)
	}
	return out
}

// TermSeparator joins terms in the stored entry.
const TermSeparator = "|"
