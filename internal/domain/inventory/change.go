package inventory

import "github.com/kailas-cloud/nearby/internal/domain"

// Change is a quantity mutation: either a relative delta or an absolute value.
type Change struct {
	value    int
	absolute bool
}

// Delta returns a relative change (restock > 0, sale < 0).
func Delta(n int) Change { return Change{value: n} }

// Absolute returns a change that sets the quantity outright.
func Absolute(n int) Change { return Change{value: n, absolute: true} }

// NewChange builds a Change from optional wire fields; exactly one must be set.
func NewChange(delta, quantity *int) (Change, error) {
	switch {
	case delta != nil && quantity != nil:
		return Change{}, domain.NewValidationError("delta", "and quantity are mutually exclusive")
	case delta != nil:
		return Delta(*delta), nil
	case quantity != nil:
		return Absolute(*quantity), nil
	default:
		return Change{}, domain.NewValidationError("delta", "or quantity is required")
	}
}

// IsAbsolute reports whether the change sets the quantity outright.
func (c Change) IsAbsolute() bool { return c.absolute }

// Value returns the delta or the absolute quantity.
func (c Change) Value() int { return c.value }

func (c Change) apply(current int) int {
	if c.absolute {
		return c.value
	}
	return current + c.value
}
