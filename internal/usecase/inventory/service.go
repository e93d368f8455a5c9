package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/identity"
	dominv "github.com/kailas-cloud/nearby/internal/domain/inventory"
)

// AddInput describes a new inventory record. Status, when given, must match
// the value derived from quantity and thresholds.
type AddInput struct {
	ItemID     string
	Quantity   int
	Thresholds dominv.Thresholds
	Status     *string
}

// Service handles stock levels.
type Service struct {
	repo  Repository
	shops ShopReader
	items ItemReader
	proj  Reprojector
	now   func() int64
}

// New creates an inventory service.
func New(repo Repository, shops ShopReader, items ItemReader, proj Reprojector) *Service {
	return &Service{
		repo:  repo,
		shops: shops,
		items: items,
		proj:  proj,
		now:   func() int64 { return time.Now().Unix() },
	}
}

// WithClock overrides the time source (epoch seconds).
func (s *Service) WithClock(now func() int64) *Service {
	s.now = now
	return s
}

// Add starts tracking an item of a shop the caller owns. One record per (shop, item).
func (s *Service) Add(ctx context.Context, id identity.Identity, shopID string, in AddInput) (dominv.Record, error) {
	if err := s.authorize(ctx, id, shopID); err != nil {
		return dominv.Record{}, err
	}

	it, err := s.items.Get(ctx, in.ItemID)
	if err != nil {
		return dominv.Record{}, fmt.Errorf("get item: %w", err)
	}
	if it.ShopID() != shopID {
		return dominv.Record{}, domain.NewValidationError("item_id", "does not belong to the shop")
	}

	_, err = s.repo.GetByItem(ctx, shopID, in.ItemID)
	switch {
	case err == nil:
		return dominv.Record{}, fmt.Errorf("inventory for item %s: %w", in.ItemID, domain.ErrAlreadyExists)
	case !errors.Is(err, domain.ErrNotFound):
		return dominv.Record{}, fmt.Errorf("get inventory: %w", err)
	}

	rec, err := dominv.New(uuid.NewString(), shopID, in.ItemID, in.Quantity, in.Thresholds, s.now())
	if err != nil {
		return dominv.Record{}, err //nolint:wrapcheck // domain validation error
	}
	if err := dominv.CheckClaimedStatus(in.Status, rec.Status()); err != nil {
		return dominv.Record{}, err //nolint:wrapcheck // domain validation error
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return dominv.Record{}, fmt.Errorf("create inventory: %w", err)
	}

	s.proj.ReprojectLogged(ctx, shopID)
	return rec, nil
}

// UpdateQuantity applies a delta or an absolute quantity to the stored
// quantity at commit time. A negative result fails with ErrInvalidQuantity
// and nothing is stored.
func (s *Service) UpdateQuantity(
	ctx context.Context, id identity.Identity, inventoryID string, c dominv.Change, claimed *string,
) (dominv.Record, error) {
	return s.modify(ctx, id, inventoryID, func(rec dominv.Record) (dominv.Record, error) {
		updated, err := rec.UpdateQuantity(c, s.now())
		if err != nil {
			return dominv.Record{}, err //nolint:wrapcheck // domain error
		}
		if err := dominv.CheckClaimedStatus(claimed, updated.Status()); err != nil {
			return dominv.Record{}, err //nolint:wrapcheck // domain validation error
		}
		return updated, nil
	})
}

// SetThresholds replaces min/max bounds and recomputes status against the
// current quantity.
func (s *Service) SetThresholds(
	ctx context.Context, id identity.Identity, inventoryID string, t dominv.Thresholds,
) (dominv.Record, error) {
	return s.modify(ctx, id, inventoryID, func(rec dominv.Record) (dominv.Record, error) {
		return rec.SetThresholds(t, s.now()) //nolint:wrapcheck // domain validation error
	})
}

// Get returns a record by ID.
func (s *Service) Get(ctx context.Context, inventoryID string) (dominv.Record, error) {
	rec, err := s.repo.Get(ctx, inventoryID)
	if err != nil {
		return dominv.Record{}, fmt.Errorf("get inventory: %w", err)
	}
	return rec, nil
}

// GetByItem returns the stock record of an item in a shop.
func (s *Service) GetByItem(ctx context.Context, shopID, itemID string) (dominv.Record, error) {
	rec, err := s.repo.GetByItem(ctx, shopID, itemID)
	if err != nil {
		return dominv.Record{}, fmt.Errorf("get inventory for item %s: %w", itemID, err)
	}
	return rec, nil
}

// ListByShop returns every record of a shop.
func (s *Service) ListByShop(ctx context.Context, shopID string) ([]dominv.Record, error) {
	if _, err := s.shops.Get(ctx, shopID); err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	recs, err := s.repo.ListByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	if recs == nil {
		recs = []dominv.Record{}
	}
	return recs, nil
}

// modify authorizes against the record's shop, then applies change inside
// the repository transaction. Shop ownership of a record never changes.
func (s *Service) modify(
	ctx context.Context, id identity.Identity, inventoryID string,
	change func(dominv.Record) (dominv.Record, error),
) (dominv.Record, error) {
	if _, err := s.owned(ctx, id, inventoryID); err != nil {
		return dominv.Record{}, err
	}
	rec, err := s.repo.Modify(ctx, inventoryID, change)
	if err != nil {
		return dominv.Record{}, fmt.Errorf("update inventory: %w", err)
	}
	s.proj.ReprojectLogged(ctx, rec.ShopID())
	return rec, nil
}

func (s *Service) owned(ctx context.Context, id identity.Identity, inventoryID string) (dominv.Record, error) {
	rec, err := s.repo.Get(ctx, inventoryID)
	if err != nil {
		return dominv.Record{}, fmt.Errorf("get inventory: %w", err)
	}
	if err := s.authorize(ctx, id, rec.ShopID()); err != nil {
		return dominv.Record{}, err
	}
	return rec, nil
}

func (s *Service) authorize(ctx context.Context, id identity.Identity, shopID string) error {
	sh, err := s.shops.Get(ctx, shopID)
	if err != nil {
		return fmt.Errorf("get shop: %w", err)
	}
	return id.Authorize(sh.OwnerID()) //nolint:wrapcheck // domain sentinel
}
