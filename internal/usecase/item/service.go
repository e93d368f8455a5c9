package item

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/nearby/internal/domain/identity"
	domitem "github.com/kailas-cloud/nearby/internal/domain/item"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
)

// Input describes a new item.
type Input struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Note        string
}

// Service handles shop catalog items.
type Service struct {
	repo  Repository
	shops ShopReader
	proj  Reprojector
	now   func() int64
}

// New creates an item service.
func New(repo Repository, shops ShopReader, proj Reprojector) *Service {
	return &Service{
		repo:  repo,
		shops: shops,
		proj:  proj,
		now:   func() int64 { return time.Now().Unix() },
	}
}

// WithClock overrides the time source (epoch seconds).
func (s *Service) WithClock(now func() int64) *Service {
	s.now = now
	return s
}

// Create adds an item to a shop the caller owns. Names are unique per shop.
func (s *Service) Create(ctx context.Context, id identity.Identity, shopID string, in Input) (domitem.Item, error) {
	if _, err := s.ownedShop(ctx, id, shopID); err != nil {
		return domitem.Item{}, err
	}

	it, err := domitem.New(uuid.NewString(), shopID, in.Name, in.Price, in.Description, in.Note, s.now())
	if err != nil {
		return domitem.Item{}, err //nolint:wrapcheck // domain validation error
	}
	if err := s.repo.Create(ctx, it); err != nil {
		return domitem.Item{}, fmt.Errorf("create item %q: %w", it.Name(), err)
	}

	s.proj.ReprojectLogged(ctx, shopID)
	return it, nil
}

// Update patches price, description or note of an item the caller owns.
func (s *Service) Update(ctx context.Context, id identity.Identity, itemID string, p domitem.Patch) (domitem.Item, error) {
	it, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return domitem.Item{}, fmt.Errorf("get item: %w", err)
	}
	if _, err := s.ownedShop(ctx, id, it.ShopID()); err != nil {
		return domitem.Item{}, err
	}

	updated, err := it.Apply(p, s.now())
	if err != nil {
		return domitem.Item{}, err //nolint:wrapcheck // domain validation error
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return domitem.Item{}, fmt.Errorf("update item: %w", err)
	}

	s.proj.ReprojectLogged(ctx, it.ShopID())
	return updated, nil
}

// Get returns an item by ID.
func (s *Service) Get(ctx context.Context, itemID string) (domitem.Item, error) {
	it, err := s.repo.Get(ctx, itemID)
	if err != nil {
		return domitem.Item{}, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// ListByShop returns a shop's items ordered by name.
func (s *Service) ListByShop(ctx context.Context, shopID string) ([]domitem.Item, error) {
	if _, err := s.shops.Get(ctx, shopID); err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	items, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []domitem.Item{}
	}
	return items, nil
}

func (s *Service) ownedShop(ctx context.Context, id identity.Identity, shopID string) (domshop.Shop, error) {
	sh, err := s.shops.Get(ctx, shopID)
	if err != nil {
		return domshop.Shop{}, fmt.Errorf("get shop: %w", err)
	}
	if err := id.Authorize(sh.OwnerID()); err != nil {
		return domshop.Shop{}, err //nolint:wrapcheck // domain sentinel
	}
	return sh, nil
}
