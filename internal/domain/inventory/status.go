package inventory

import "fmt"

// Status is the stock status derived from quantity and thresholds.
type Status string

const (
	// InStock means quantity is above the low-stock threshold.
	InStock Status = "IN_STOCK"
	// LowStock means 0 < quantity <= low-stock threshold.
	LowStock Status = "LOW_STOCK"
	// OutOfStock means quantity is zero.
	OutOfStock Status = "OUT_OF_STOCK"
)

// DefaultLowStockThreshold applies when a record has no min_quantity.
const DefaultLowStockThreshold = 5

// DeriveStatus maps quantity and an optional min_quantity to a status.
func DeriveStatus(quantity int, minQuantity *int) Status {
	threshold := DefaultLowStockThreshold
	if minQuantity != nil {
		threshold = *minQuantity
	}
	switch {
	case quantity == 0:
		return OutOfStock
	case quantity <= threshold:
		return LowStock
	default:
		return InStock
	}
}

// ParseStatus converts a wire value into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case InStock, LowStock, OutOfStock:
		return Status(s), nil
	default:
		return "", fmt.Errorf("unknown stock status %q", s)
	}
}

// Searchable reports whether items with this status surface in search.
func (s Status) Searchable() bool { return s != OutOfStock }
