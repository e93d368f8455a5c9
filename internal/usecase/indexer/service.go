// Package indexer keeps the search projection in step with the catalog.
package indexer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/projection"
)

// Stats summarizes a full rebuild.
type Stats struct {
	Indexed int `json:"indexed"`
	Removed int `json:"removed"`
	Skipped int `json:"skipped"`
}

// Service re-projects shops into the search index.
type Service struct {
	shops  ShopReader
	items  ItemLister
	inv    InventoryLister
	proj   Projection
	locks  *stripes
	logger *zap.Logger
}

// New creates an indexer.
func New(shops ShopReader, items ItemLister, inv InventoryLister, proj Projection, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		shops:  shops,
		items:  items,
		inv:    inv,
		proj:   proj,
		locks:  newStripes(defaultStripes),
		logger: logger,
	}
}

// Reproject rebuilds one shop's entry from the catalog. A closed, unlocated
// or missing shop has its entry removed. Calls for the same shop are serialized.
func (s *Service) Reproject(ctx context.Context, shopID string) error {
	_, err := s.reproject(ctx, shopID)
	return err
}

func (s *Service) reproject(ctx context.Context, shopID string) (bool, error) {
	unlock := s.locks.lock(shopID)
	defer unlock()

	sh, err := s.shops.Get(ctx, shopID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, s.remove(ctx, shopID)
	}
	if err != nil {
		return false, fmt.Errorf("load shop: %w", err)
	}

	if !sh.Searchable() {
		return false, s.remove(ctx, shopID)
	}

	items, err := s.items.ListByShop(ctx, shopID)
	if err != nil {
		return false, fmt.Errorf("load items: %w", err)
	}
	records, err := s.inv.ListByShop(ctx, shopID)
	if err != nil {
		return false, fmt.Errorf("load inventory: %w", err)
	}

	entry, ok := projection.Build(&sh, items, records)
	if !ok {
		return false, s.remove(ctx, shopID)
	}
	if err := s.proj.Upsert(ctx, entry); err != nil {
		return false, fmt.Errorf("upsert projection: %w", err)
	}
	return true, nil
}

func (s *Service) remove(ctx context.Context, shopID string) error {
	if err := s.proj.Delete(ctx, shopID); err != nil {
		return fmt.Errorf("delete projection: %w", err)
	}
	return nil
}

// EnsureIndex creates the search index if it does not exist.
func (s *Service) EnsureIndex(ctx context.Context) error {
	if err := s.proj.EnsureIndex(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}
	return nil
}

// Rebuild ensures the index, re-projects every shop and drops entries of
// shops the catalog no longer has. Per-shop failures do not stop the run.
func (s *Service) Rebuild(ctx context.Context) (Stats, error) {
	var st Stats

	if err := s.EnsureIndex(ctx); err != nil {
		return st, err
	}

	ids, err := s.shops.ListIDs(ctx)
	if err != nil {
		return st, fmt.Errorf("list shops: %w", err)
	}

	var errs []error
	known := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		known[id] = struct{}{}
		indexed, err := s.reproject(ctx, id)
		switch {
		case err != nil:
			s.logger.Warn("Reproject failed", zap.String("shop_id", id), zap.Error(err))
			errs = append(errs, fmt.Errorf("shop %s: %w", id, err))
		case indexed:
			st.Indexed++
		default:
			st.Skipped++
		}
	}

	projected, err := s.proj.ListShopIDs(ctx)
	if err != nil {
		return st, errors.Join(append(errs, fmt.Errorf("list projected: %w", err))...)
	}
	for _, id := range projected {
		if _, ok := known[id]; ok {
			continue
		}
		if err := s.remove(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("stale %s: %w", id, err))
			continue
		}
		st.Removed++
	}

	s.logger.Info("Projection rebuilt",
		zap.Int("indexed", st.Indexed),
		zap.Int("removed", st.Removed),
		zap.Int("skipped", st.Skipped),
		zap.Int("failed", len(errs)),
	)
	return st, errors.Join(errs...)
}

// ReprojectLogged re-projects after a committed catalog mutation. Failures are
// logged and swallowed; the next mutation or a rebuild repairs the entry.
func (s *Service) ReprojectLogged(ctx context.Context, shopID string) {
	if err := s.Reproject(ctx, shopID); err != nil {
		s.logger.Warn("Projection stale after mutation",
			zap.String("shop_id", shopID),
			zap.Error(err),
		)
	}
}
