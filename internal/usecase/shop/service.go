package shop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/identity"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
)

// CategoryCount is a category with its number of shops.
type CategoryCount struct {
	domshop.CategoryInfo
	Count int
}

// Service handles shop profiles and listing.
type Service struct {
	repo            Repository
	proj            Reprojector
	now             func() int64
	defaultPageSize int
	maxPageSize     int
}

// New creates a shop service.
func New(repo Repository, proj Reprojector) *Service {
	return &Service{
		repo:            repo,
		proj:            proj,
		now:             func() int64 { return time.Now().Unix() },
		defaultPageSize: DefaultPageSize,
		maxPageSize:     MaxPageSize,
	}
}

// WithClock overrides the time source (epoch seconds).
func (s *Service) WithClock(now func() int64) *Service {
	s.now = now
	return s
}

// Create registers the caller's shop. Each owner may have one shop.
func (s *Service) Create(ctx context.Context, id identity.Identity, p domshop.Profile) (domshop.Shop, error) {
	if !id.CanVend() {
		return domshop.Shop{}, domain.ErrForbidden
	}

	_, err := s.repo.GetByOwner(ctx, id.OwnerID)
	switch {
	case err == nil:
		return domshop.Shop{}, fmt.Errorf("owner %s already has a shop: %w", id.OwnerID, domain.ErrAlreadyExists)
	case !errors.Is(err, domain.ErrNotFound):
		return domshop.Shop{}, fmt.Errorf("get shop by owner: %w", err)
	}

	sh, err := domshop.New(uuid.NewString(), id.OwnerID, p, s.now())
	if err != nil {
		return domshop.Shop{}, err //nolint:wrapcheck // domain validation error
	}
	if err := s.repo.Create(ctx, sh); err != nil {
		return domshop.Shop{}, fmt.Errorf("create shop: %w", err)
	}

	s.proj.ReprojectLogged(ctx, sh.ID())
	return sh, nil
}

// Get returns a shop by ID.
func (s *Service) Get(ctx context.Context, shopID string) (domshop.Shop, error) {
	sh, err := s.repo.Get(ctx, shopID)
	if err != nil {
		return domshop.Shop{}, fmt.Errorf("get shop: %w", err)
	}
	return sh, nil
}

// GetMine returns the caller's shop.
func (s *Service) GetMine(ctx context.Context, id identity.Identity) (domshop.Shop, error) {
	if !id.CanVend() {
		return domshop.Shop{}, domain.ErrForbidden
	}
	sh, err := s.repo.GetByOwner(ctx, id.OwnerID)
	if err != nil {
		return domshop.Shop{}, fmt.Errorf("get own shop: %w", err)
	}
	return sh, nil
}

// Patch applies a partial profile update to a shop the caller owns.
func (s *Service) Patch(ctx context.Context, id identity.Identity, shopID string, p domshop.Patch) (domshop.Shop, error) {
	if err := p.Validate(); err != nil {
		return domshop.Shop{}, err //nolint:wrapcheck // domain validation error
	}
	sh, err := s.owned(ctx, id, shopID)
	if err != nil {
		return domshop.Shop{}, err
	}

	updated, err := sh.Apply(p, s.now())
	if err != nil {
		return domshop.Shop{}, err //nolint:wrapcheck // domain validation error
	}
	if err := s.repo.Update(ctx, updated); err != nil {
		return domshop.Shop{}, fmt.Errorf("update shop: %w", err)
	}

	if p.AffectsProjection() {
		s.proj.ReprojectLogged(ctx, shopID)
	}
	return updated, nil
}

// SetOpen opens or closes a shop. A closed shop leaves the search index.
func (s *Service) SetOpen(ctx context.Context, id identity.Identity, shopID string, open bool) (domshop.Shop, error) {
	sh, err := s.owned(ctx, id, shopID)
	if err != nil {
		return domshop.Shop{}, err
	}

	updated := sh.WithOpen(open, s.now())
	if err := s.repo.Update(ctx, updated); err != nil {
		return domshop.Shop{}, fmt.Errorf("update shop: %w", err)
	}

	s.proj.ReprojectLogged(ctx, shopID)
	return updated, nil
}

// Shop listing page sizes.
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// List returns shops matching the filter. Limit 0 selects the default page size.
func (s *Service) List(ctx context.Context, f domshop.Filter) ([]domshop.Shop, error) {
	if f.Limit == 0 {
		f.Limit = s.defaultPageSize
	}
	if f.Limit < 1 || f.Limit > s.maxPageSize {
		return nil, domain.NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", s.maxPageSize))
	}
	if f.Offset < 0 {
		return nil, domain.NewValidationError("offset", "must be >= 0")
	}
	if f.Category != "" && !domshop.IsCategory(f.Category) {
		return nil, domain.NewValidationError("category", "is unknown")
	}

	shops, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	if shops == nil {
		shops = []domshop.Shop{}
	}
	return shops, nil
}

// Categories returns every category with its shop count, in display order.
func (s *Service) Categories(ctx context.Context) ([]CategoryCount, error) {
	counts, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}
	cats := domshop.Categories()
	out := make([]CategoryCount, len(cats))
	for i, c := range cats {
		out[i] = CategoryCount{CategoryInfo: c, Count: counts[c.ID]}
	}
	return out, nil
}

func (s *Service) owned(ctx context.Context, id identity.Identity, shopID string) (domshop.Shop, error) {
	sh, err := s.repo.Get(ctx, shopID)
	if err != nil {
		return domshop.Shop{}, fmt.Errorf("get shop: %w", err)
	}
	if err := id.Authorize(sh.OwnerID()); err != nil {
		return domshop.Shop{}, err //nolint:wrapcheck // domain sentinel
	}
	return sh, nil
}
