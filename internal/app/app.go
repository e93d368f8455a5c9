// Package app is the composition root shared by the API server and the reindex command.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/config"
	"github.com/kailas-cloud/nearby/internal/db"
	"github.com/kailas-cloud/nearby/internal/db/memory"
	dbRedis "github.com/kailas-cloud/nearby/internal/db/redis"
	"github.com/kailas-cloud/nearby/internal/db/sqldb"
	"github.com/kailas-cloud/nearby/internal/metrics"
	inventoryrepo "github.com/kailas-cloud/nearby/internal/repository/inventory"
	itemrepo "github.com/kailas-cloud/nearby/internal/repository/item"
	projectionrepo "github.com/kailas-cloud/nearby/internal/repository/projection"
	shoprepo "github.com/kailas-cloud/nearby/internal/repository/shop"
	healthuc "github.com/kailas-cloud/nearby/internal/usecase/health"
	indexeruc "github.com/kailas-cloud/nearby/internal/usecase/indexer"
	inventoryuc "github.com/kailas-cloud/nearby/internal/usecase/inventory"
	itemuc "github.com/kailas-cloud/nearby/internal/usecase/item"
	searchuc "github.com/kailas-cloud/nearby/internal/usecase/search"
	shopuc "github.com/kailas-cloud/nearby/internal/usecase/shop"
)

// App holds the wired stores and services.
type App struct {
	Store   db.Store
	Catalog *sqldb.DB

	Indexer   *indexeruc.Service
	Search    *searchuc.Service
	Shops     *shopuc.Service
	Items     *itemuc.Service
	Inventory *inventoryuc.Service
	Health    *healthuc.Service
}

// New opens the index store and the catalog, applies the schema and wires services.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	store, err := openStore(cfg.Database)
	if err != nil {
		return nil, err
	}
	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		store.Close()
		return nil, fmt.Errorf("index store not ready: %w", err)
	}

	catalog, err := sqldb.Open(sqldb.Dialect(cfg.Catalog.Driver), cfg.Catalog.DSN)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := sqldb.EnsureSchema(catalog); err != nil {
		store.Close()
		_ = catalog.Close()
		return nil, fmt.Errorf("catalog schema: %w", err)
	}

	a := Wire(store, catalog, cfg, logger)
	if err := a.Indexer.EnsureIndex(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// Wire builds repositories and services over already-open stores.
func Wire(store db.Store, catalog *sqldb.DB, cfg *config.Config, logger *zap.Logger) *App {
	metrics.Register()

	shops := shoprepo.New(catalog)
	items := itemrepo.New(catalog)
	inventory := inventoryrepo.New(catalog)
	proj := projectionrepo.New(store, cfg.Storage.KeyPrefix)

	indexer := indexeruc.New(shops, items, inventory, indexeruc.NewInstrumentedProjection(proj, logger), logger)

	return &App{
		Store:   store,
		Catalog: catalog,
		Indexer: indexer,
		Search: searchuc.New(proj,
			searchuc.WithCandidateLimit(cfg.Search.CandidateLimit),
			searchuc.WithRecorder(metrics.SearchRecorder{}),
		),
		Shops:     shopuc.New(shops, indexer),
		Items:     itemuc.New(items, shops, indexer),
		Inventory: inventoryuc.New(inventory, shops, items, indexer),
		Health:    healthuc.New(store, catalog),
	}
}

// Close releases both stores.
func (a *App) Close() error {
	a.Store.Close()
	if err := a.Catalog.Close(); err != nil {
		return fmt.Errorf("close catalog: %w", err)
	}
	return nil
}

func openStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("create redis store: %w", err)
		}
		return s, nil
	default:
		return nil, errors.New("unknown database driver " + cfg.Driver)
	}
}
