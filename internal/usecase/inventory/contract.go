package inventory

import (
	"context"

	dominv "github.com/kailas-cloud/nearby/internal/domain/inventory"
	domitem "github.com/kailas-cloud/nearby/internal/domain/item"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
)

// Repository defines the storage contract for inventory records.
type Repository interface {
	Create(ctx context.Context, rec dominv.Record) error
	Get(ctx context.Context, id string) (dominv.Record, error)
	GetByItem(ctx context.Context, shopID, itemID string) (dominv.Record, error)
	// Modify applies change to the current record atomically.
	Modify(ctx context.Context, id string, change func(dominv.Record) (dominv.Record, error)) (dominv.Record, error)
	ListByShop(ctx context.Context, shopID string) ([]dominv.Record, error)
}

// ShopReader reads shops for ownership checks.
type ShopReader interface {
	Get(ctx context.Context, id string) (domshop.Shop, error)
}

// ItemReader reads items to check they belong to the shop.
type ItemReader interface {
	Get(ctx context.Context, id string) (domitem.Item, error)
}

// Reprojector refreshes a shop's search entry after a committed change.
type Reprojector interface {
	ReprojectLogged(ctx context.Context, shopID string)
}
