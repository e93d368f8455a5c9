package nearby

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
	dominv "github.com/kailas-cloud/nearby/internal/domain/inventory"
	"github.com/kailas-cloud/nearby/internal/domain/search/request"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
	inventoryuc "github.com/kailas-cloud/nearby/internal/usecase/inventory"
	itemuc "github.com/kailas-cloud/nearby/internal/usecase/item"
)

// SearchService runs nearby searches.
type SearchService struct {
	svc searchUseCase
	obs *observer
}

// Nearby finds open shops within radiusKm that stock something matching query.
// Results are ordered by score, then distance.
func (s *SearchService) Nearby(
	ctx context.Context, query string, lat, lon, radiusKm float64,
) (hits []Hit, err error) {
	return s.NearbyN(ctx, query, lat, lon, radiusKm, 0)
}

// NearbyN is Nearby with a result cap; limit 0 means no cap.
func (s *SearchService) NearbyN(
	ctx context.Context, query string, lat, lon, radiusKm float64, limit int,
) (hits []Hit, err error) {
	start := time.Now()
	defer func() { s.obs.observe("search", start, err) }()

	req, err := request.New(query, geo.Point{Lat: lat, Lon: lon}, radiusKm, limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	results, err := s.svc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	hits = make([]Hit, len(results))
	for i := range results {
		hits[i] = fromResult(&results[i])
	}
	return hits, nil
}

// Suggest returns up to limit distinct in-stock item names near a point.
func (s *SearchService) Suggest(
	ctx context.Context, lat, lon, radiusKm float64, limit int,
) (terms []string, err error) {
	start := time.Now()
	defer func() { s.obs.observe("suggest", start, err) }()

	req, err := request.NewSuggest(geo.Point{Lat: lat, Lon: lon}, radiusKm, limit)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	terms, err = s.svc.Suggest(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return terms, nil
}

// ShopService manages shops.
type ShopService struct {
	svc shopUseCase
	obs *observer
}

// Create registers the caller's shop. An owner may have one shop.
func (s *ShopService) Create(ctx context.Context, caller Caller, in ShopInput) (shop Shop, err error) {
	start := time.Now()
	defer func() { s.obs.observe("shop_create", start, err) }()

	created, err := s.svc.Create(ctx, caller.identity(), domshop.Profile{
		Name:        in.Name,
		FullName:    in.FullName,
		Address:     in.Address,
		Contact:     in.Contact,
		Description: in.Description,
		Category:    in.Category,
		City:        in.City,
		Location:    toPoint(in.Location),
	})
	if err != nil {
		return Shop{}, fmt.Errorf("create shop: %w", err)
	}
	return fromShop(&created), nil
}

// Get returns a shop by ID.
func (s *ShopService) Get(ctx context.Context, id string) (Shop, error) {
	sh, err := s.svc.Get(ctx, id)
	if err != nil {
		return Shop{}, fmt.Errorf("get shop: %w", err)
	}
	return fromShop(&sh), nil
}

// SetOpen opens or closes a shop. Closed shops drop out of search.
func (s *ShopService) SetOpen(ctx context.Context, caller Caller, id string, open bool) (shop Shop, err error) {
	start := time.Now()
	defer func() { s.obs.observe("shop_set_open", start, err) }()

	sh, err := s.svc.SetOpen(ctx, caller.identity(), id, open)
	if err != nil {
		return Shop{}, fmt.Errorf("set open: %w", err)
	}
	return fromShop(&sh), nil
}

// List returns shops matching the filter.
func (s *ShopService) List(ctx context.Context, f ShopFilter) ([]Shop, error) {
	shops, err := s.svc.List(ctx, domshop.Filter{
		Category: f.Category, City: f.City, OpenOnly: f.OpenOnly, Limit: f.Limit, Offset: f.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	out := make([]Shop, len(shops))
	for i := range shops {
		out[i] = fromShop(&shops[i])
	}
	return out, nil
}

// ItemService manages catalog items.
type ItemService struct {
	svc itemUseCase
	obs *observer
}

// Create adds an item to the caller's shop.
func (s *ItemService) Create(ctx context.Context, caller Caller, shopID string, in ItemInput) (item Item, err error) {
	start := time.Now()
	defer func() { s.obs.observe("item_create", start, err) }()

	it, err := s.svc.Create(ctx, caller.identity(), shopID, itemuc.Input{
		Name: in.Name, Price: in.Price, Description: in.Description, Note: in.Note,
	})
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	return fromItem(&it), nil
}

// Get returns an item by ID.
func (s *ItemService) Get(ctx context.Context, itemID string) (Item, error) {
	it, err := s.svc.Get(ctx, itemID)
	if err != nil {
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	return fromItem(&it), nil
}

// List returns a shop's items.
func (s *ItemService) List(ctx context.Context, shopID string) ([]Item, error) {
	items, err := s.svc.ListByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	out := make([]Item, len(items))
	for i := range items {
		out[i] = fromItem(&items[i])
	}
	return out, nil
}

// InventoryService manages stock levels.
type InventoryService struct {
	svc inventoryUseCase
	obs *observer
}

// Add starts tracking stock for an item.
func (s *InventoryService) Add(
	ctx context.Context, caller Caller, shopID, itemID string, quantity int,
) (st Stock, err error) {
	start := time.Now()
	defer func() { s.obs.observe("inventory_add", start, err) }()

	rec, err := s.svc.Add(ctx, caller.identity(), shopID, inventoryuc.AddInput{ItemID: itemID, Quantity: quantity})
	if err != nil {
		return Stock{}, fmt.Errorf("add inventory: %w", err)
	}
	return fromRecord(&rec), nil
}

// Status returns the stock of an item in a shop.
func (s *InventoryService) Status(ctx context.Context, shopID, itemID string) (Stock, error) {
	rec, err := s.svc.GetByItem(ctx, shopID, itemID)
	if err != nil {
		return Stock{}, fmt.Errorf("inventory status: %w", err)
	}
	return fromRecord(&rec), nil
}

// Adjust applies a relative change (restock > 0, sale < 0).
func (s *InventoryService) Adjust(ctx context.Context, caller Caller, inventoryID string, delta int) (Stock, error) {
	return s.update(ctx, caller, inventoryID, dominv.Delta(delta))
}

// Set replaces the quantity outright.
func (s *InventoryService) Set(ctx context.Context, caller Caller, inventoryID string, quantity int) (Stock, error) {
	return s.update(ctx, caller, inventoryID, dominv.Absolute(quantity))
}

func (s *InventoryService) update(
	ctx context.Context, caller Caller, inventoryID string, c dominv.Change,
) (st Stock, err error) {
	start := time.Now()
	defer func() { s.obs.observe("inventory_update", start, err) }()

	rec, err := s.svc.UpdateQuantity(ctx, caller.identity(), inventoryID, c, nil)
	if err != nil {
		return Stock{}, fmt.Errorf("update quantity: %w", err)
	}
	return fromRecord(&rec), nil
}
