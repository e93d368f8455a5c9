package shop

import (
	"context"

	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
)

// Repository defines the storage contract for shops.
type Repository interface {
	Create(ctx context.Context, s domshop.Shop) error
	Get(ctx context.Context, id string) (domshop.Shop, error)
	GetByOwner(ctx context.Context, ownerID string) (domshop.Shop, error)
	Update(ctx context.Context, s domshop.Shop) error
	List(ctx context.Context, f domshop.Filter) ([]domshop.Shop, error)
	CountByCategory(ctx context.Context) (map[string]int, error)
}

// Reprojector refreshes a shop's search entry after a committed change.
type Reprojector interface {
	ReprojectLogged(ctx context.Context, shopID string)
}
