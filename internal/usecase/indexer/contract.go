package indexer

import (
	"context"

	"github.com/kailas-cloud/nearby/internal/domain/inventory"
	"github.com/kailas-cloud/nearby/internal/domain/item"
	"github.com/kailas-cloud/nearby/internal/domain/projection"
	"github.com/kailas-cloud/nearby/internal/domain/shop"
)

// ShopReader loads shops from the catalog.
type ShopReader interface {
	Get(ctx context.Context, id string) (shop.Shop, error)
	ListIDs(ctx context.Context) ([]string, error)
}

// ItemLister lists a shop's items.
type ItemLister interface {
	ListByShop(ctx context.Context, shopID string) ([]item.Item, error)
}

// InventoryLister lists a shop's inventory records.
type InventoryLister interface {
	ListByShop(ctx context.Context, shopID string) ([]inventory.Record, error)
}

// Projection writes the search read model.
type Projection interface {
	EnsureIndex(ctx context.Context) error
	Upsert(ctx context.Context, e projection.Entry) error
	Delete(ctx context.Context, shopID string) error
	ListShopIDs(ctx context.Context) ([]string, error)
}
