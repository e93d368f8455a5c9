// Package db is the storage seam of the search projection: one hash per
// projected shop, covered by a full-text index with a GEO field.
// Implementations live in db/redis (rueidis) and db/memory.
package db

import (
	"context"
	"time"
)

// Store combines everything the projection needs from a backend.
//
//nolint:interfacebloat // facade; consumers declare narrow interfaces
type Store interface {
	Pinger
	HashStore
	IndexManager
	GeoSearcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks backend connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashStore reads and writes field maps by key.
type HashStore interface {
	// HSet sets the given fields; fields not listed keep their value.
	HSet(ctx context.Context, key string, fields map[string]string) error
	// HGetAll returns ErrKeyNotFound for a missing key.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	// Scan returns every key matching a glob pattern.
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// IndexManager creates and probes indexes.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// GeoSearcher runs radius queries over a GEO field.
type GeoSearcher interface {
	SearchGeo(ctx context.Context, q *GeoQuery) (*SearchResult, error)
}
