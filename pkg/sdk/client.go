package nearby

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/app"
	"github.com/kailas-cloud/nearby/internal/config"
	"github.com/kailas-cloud/nearby/internal/db"
	"github.com/kailas-cloud/nearby/internal/db/sqldb"
	"github.com/kailas-cloud/nearby/internal/domain/identity"
	dominv "github.com/kailas-cloud/nearby/internal/domain/inventory"
	domitem "github.com/kailas-cloud/nearby/internal/domain/item"
	"github.com/kailas-cloud/nearby/internal/domain/search/request"
	"github.com/kailas-cloud/nearby/internal/domain/search/result"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
	indexeruc "github.com/kailas-cloud/nearby/internal/usecase/indexer"
	inventoryuc "github.com/kailas-cloud/nearby/internal/usecase/inventory"
	itemuc "github.com/kailas-cloud/nearby/internal/usecase/item"
)

const defaultReadinessTimeout = 10 * time.Second

// Use-case seams, swapped for fakes in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
	Suggest(ctx context.Context, req *request.Suggest) ([]string, error)
}

type shopUseCase interface {
	Create(ctx context.Context, id identity.Identity, p domshop.Profile) (domshop.Shop, error)
	Get(ctx context.Context, shopID string) (domshop.Shop, error)
	SetOpen(ctx context.Context, id identity.Identity, shopID string, open bool) (domshop.Shop, error)
	List(ctx context.Context, f domshop.Filter) ([]domshop.Shop, error)
}

type itemUseCase interface {
	Create(ctx context.Context, id identity.Identity, shopID string, in itemuc.Input) (domitem.Item, error)
	Get(ctx context.Context, itemID string) (domitem.Item, error)
	ListByShop(ctx context.Context, shopID string) ([]domitem.Item, error)
}

type inventoryUseCase interface {
	Add(ctx context.Context, id identity.Identity, shopID string, in inventoryuc.AddInput) (dominv.Record, error)
	UpdateQuantity(
		ctx context.Context, id identity.Identity, inventoryID string, c dominv.Change, claimed *string,
	) (dominv.Record, error)
	GetByItem(ctx context.Context, shopID, itemID string) (dominv.Record, error)
}

type rebuilder interface {
	Rebuild(ctx context.Context) (indexeruc.Stats, error)
}

// Client is the nearby SDK entry point.
type Client struct {
	store     db.Store
	catalog   *sqldb.DB
	searchSvc searchUseCase
	shopSvc   shopUseCase
	itemSvc   itemUseCase
	invSvc    inventoryUseCase
	indexer   rebuilder
	healthSvc healthUseCase
	obs       *observer
}

// New opens the stores, applies the catalog schema and rebuilds the projection.
// The provided context bounds the readiness check and the initial rebuild.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()
	for _, o := range opts {
		o.apply(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	appCfg := config.Config{
		Database: config.DatabaseConfig{
			Driver:           cfg.indexDriver,
			Addrs:            cfg.addrs,
			Password:         cfg.password,
			ReadinessTimeout: int(defaultReadinessTimeout / time.Second),
		},
		Catalog: config.CatalogConfig{Driver: cfg.catalogDriver, DSN: cfg.dsn},
		Search:  config.SearchConfig{CandidateLimit: cfg.candidateLimit},
		Storage: config.StorageConfig{KeyPrefix: cfg.keyPrefix},
	}
	appCfg.ApplyDefaults()

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, &appCfg, zap.NewNop())
	if err != nil {
		return nil, fmt.Errorf("nearby: %w", err)
	}
	if _, err := a.Indexer.Rebuild(ctx); err != nil {
		obs.observe("rebuild", time.Now(), err)
	}

	return &Client{
		store:     a.Store,
		catalog:   a.Catalog,
		searchSvc: a.Search,
		shopSvc:   a.Shops,
		itemSvc:   a.Items,
		invSvc:    a.Inventory,
		indexer:   a.Indexer,
		healthSvc: a.Health,
		obs:       obs,
	}, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
	if c.catalog != nil {
		_ = c.catalog.Close()
	}
}

// Ping checks projection store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Rebuild re-projects every shop from the catalog.
func (c *Client) Rebuild(ctx context.Context) (st RebuildStats, err error) {
	start := time.Now()
	defer func() { c.obs.observe("rebuild", start, err) }()

	s, err := c.indexer.Rebuild(ctx)
	st = RebuildStats{Indexed: s.Indexed, Removed: s.Removed, Skipped: s.Skipped}
	if err != nil {
		return st, fmt.Errorf("rebuild: %w", err)
	}
	return st, nil
}

// Search returns the nearby search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, obs: c.obs}
}

// Shops returns the shop service.
func (c *Client) Shops() *ShopService {
	return &ShopService{svc: c.shopSvc, obs: c.obs}
}

// Items returns the item service.
func (c *Client) Items() *ItemService {
	return &ItemService{svc: c.itemSvc, obs: c.obs}
}

// Inventory returns the stock service.
func (c *Client) Inventory() *InventoryService {
	return &InventoryService{svc: c.invSvc, obs: c.obs}
}
