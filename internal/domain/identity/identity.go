// Package identity describes the authenticated caller of vendor operations.
package identity

import "github.com/kailas-cloud/nearby/internal/domain"

// Role is the caller's account type.
type Role string

// Roles.
const (
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleVendor, RoleAdmin, RoleCustomer:
		return r, nil
	}
	return "", domain.NewValidationError("role", "unknown role "+s)
}

// Identity is the caller established by the transport.
type Identity struct {
	OwnerID string
	Role    Role
}

// CanVend reports whether the caller may own and manage a shop.
func (id Identity) CanVend() bool {
	return id.OwnerID != "" && (id.Role == RoleVendor || id.Role == RoleAdmin)
}

// Authorize checks that the caller may act on a shop owned by ownerID.
// Admins may act on any shop.
func (id Identity) Authorize(ownerID string) error {
	if !id.CanVend() {
		return domain.ErrForbidden
	}
	if id.Role == RoleAdmin || id.OwnerID == ownerID {
		return nil
	}
	return domain.ErrForbidden
}
