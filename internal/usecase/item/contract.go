package item

import (
	"context"

	domitem "github.com/kailas-cloud/nearby/internal/domain/item"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
)

// Repository defines the storage contract for items.
type Repository interface {
	Create(ctx context.Context, it domitem.Item) error
	Get(ctx context.Context, id string) (domitem.Item, error)
	Update(ctx context.Context, it domitem.Item) error
	ListByShop(ctx context.Context, shopID string) ([]domitem.Item, error)
}

// ShopReader reads shops for ownership checks.
type ShopReader interface {
	Get(ctx context.Context, id string) (domshop.Shop, error)
}

// Reprojector refreshes a shop's search entry after a committed change.
type Reprojector interface {
	ReprojectLogged(ctx context.Context, shopID string)
}
