// Package projection stores per-shop search entries as hashes under one GEO index.
package projection

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kailas-cloud/nearby/internal/db"
	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/projection"
)

// DefaultKeyPrefix namespaces all projection keys.
const DefaultKeyPrefix = "nearby:"

// store is the consumer interface for projections (ISP).
//
//nolint:interfacebloat // projection repo needs hash + index + geo operations
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchGeo(ctx context.Context, q *db.GeoQuery) (*db.SearchResult, error)
}

// Repo implements the projection repositories of the search and indexer usecases.
type Repo struct {
	store  store
	prefix string
}

// New creates a projection repository. An empty prefix uses DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// IndexName returns the FT index name.
func (r *Repo) IndexName() string { return r.prefix + "shops:idx" }

func (r *Repo) keyPrefix() string { return r.prefix + "shop:" }

func (r *Repo) key(shopID string) string { return r.keyPrefix() + shopID }

// EnsureIndex creates the shops index unless it already exists.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, r.IndexName())
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	if exists {
		return nil
	}

	def, err := db.NewIndex(r.IndexName()).
		Prefix(r.keyPrefix()).
		Geo(fieldLocation).
		Tags(fieldTerms, projection.TermSeparator).
		Text(fieldShopName).
		Numeric(fieldUpdatedAt).
		Build()
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Upsert writes the entry's full field set in a single HSET.
func (r *Repo) Upsert(ctx context.Context, e projection.Entry) error {
	if err := r.store.HSet(ctx, r.key(e.ShopID()), entryToHash(e)); err != nil {
		return fmt.Errorf("hset shop %s: %w", e.ShopID(), err)
	}
	return nil
}

// Delete removes a shop's entry. Missing entries are not an error.
func (r *Repo) Delete(ctx context.Context, shopID string) error {
	if err := r.store.Del(ctx, r.key(shopID)); err != nil {
		return fmt.Errorf("del shop %s: %w", shopID, err)
	}
	return nil
}

// Get returns one entry or domain.ErrNotFound.
func (r *Repo) Get(ctx context.Context, shopID string) (projection.Entry, error) {
	m, err := r.store.HGetAll(ctx, r.key(shopID))
	if errors.Is(err, db.ErrKeyNotFound) || (err == nil && len(m) == 0) {
		return projection.Entry{}, domain.ErrNotFound
	}
	if err != nil {
		return projection.Entry{}, fmt.Errorf("hgetall shop %s: %w", shopID, err)
	}
	return entryFromHash(m)
}

// ListShopIDs returns the IDs of every projected shop.
func (r *Repo) ListShopIDs(ctx context.Context) ([]string, error) {
	keys, err := r.store.Scan(ctx, r.keyPrefix()+"*")
	if err != nil {
		return nil, fmt.Errorf("scan shops: %w", err)
	}
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, r.keyPrefix()))
	}
	return ids, nil
}

// WithinRadius returns every entry the index places within radiusKm of
// origin, fetched pageSize at a time. Distances are approximate; callers
// re-check them.
func (r *Repo) WithinRadius(
	ctx context.Context, origin geo.Point, radiusKm float64, pageSize int,
) ([]projection.Entry, error) {
	var entries []projection.Entry
	seen := make(map[string]struct{})
	for offset := 0; ; {
		res, err := r.store.SearchGeo(ctx, &db.GeoQuery{
			IndexName:    r.IndexName(),
			Field:        fieldLocation,
			Lat:          origin.Lat,
			Lon:          origin.Lon,
			RadiusKm:     radiusKm,
			Offset:       offset,
			Limit:        pageSize,
			ReturnFields: returnFields,
		})
		if errors.Is(err, db.ErrIndexNotFound) {
			// Nothing projected yet.
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("geo search: %w", err)
		}

		for _, hit := range res.Entries {
			e, err := entryFromHash(hit.Fields)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", hit.Key, err)
			}
			// a shop moved between pages can show up twice
			if _, dup := seen[e.ShopID()]; dup {
				continue
			}
			seen[e.ShopID()] = struct{}{}
			entries = append(entries, e)
		}

		offset += len(res.Entries)
		if len(res.Entries) == 0 || offset >= res.Total {
			return entries, nil
		}
	}
}
