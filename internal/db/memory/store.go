// Package memory is an in-process db.Store for tests and single-node runs.
// GEO fields are indexed in geohash cells so radius queries avoid full scans.
package memory

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kailas-cloud/nearby/internal/db"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

var errClosed = errors.New("memory store closed")

// Store keeps hashes and FT index definitions in process memory.
type Store struct {
	mu      sync.RWMutex
	hashes  map[string]map[string]string
	indexes map[string]*index
	closed  bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		hashes:  make(map[string]map[string]string),
		indexes: make(map[string]*index),
	}
}

// Ping reports an error once the store is closed.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}

// Close marks the store unusable. Data is kept for inspection in tests.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

// WaitForReady is immediate for an open store.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	if err := s.Ping(ctx); err != nil {
		return fmt.Errorf("timeout waiting for memory store: %w", err)
	}
	return nil
}

// HSet merges fields into a hash, like Redis HSET.
func (s *Store) HSet(_ context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("key %s: no fields", key)}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpHSet, Err: errClosed}
	}
	h, ok := s.hashes[key]
	if !ok {
		h = make(map[string]string, len(fields))
		s.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	for _, idx := range s.indexes {
		idx.put(key, h)
	}
	return nil
}

// HGetAll returns a copy of the hash or db.ErrKeyNotFound.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpHGetAll, Err: errClosed}
	}
	h, ok := s.hashes[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return copyFields(h, nil), nil
}

// Del removes a key and its index entries.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpDel, Err: errClosed}
	}
	delete(s.hashes, key)
	for _, idx := range s.indexes {
		idx.remove(key)
	}
	return nil
}

// Scan returns keys matching a glob pattern, sorted.
func (s *Store) Scan(_ context.Context, pattern string) ([]string, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, &db.Error{Op: db.OpScan, Err: err}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpScan, Err: errClosed}
	}
	var keys []string
	for k := range s.hashes {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// CreateIndex registers the definition and indexes existing matching hashes.
func (s *Store) CreateIndex(_ context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("index %s: %w", def.Name, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpCreateIndex, Err: errClosed}
	}
	if _, ok := s.indexes[def.Name]; ok {
		return db.ErrIndexExists
	}
	idx := newIndex(def)
	for k, h := range s.hashes {
		idx.put(k, h)
	}
	s.indexes[def.Name] = idx
	return nil
}

// IndexExists reports whether the named index is registered.
func (s *Store) IndexExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, &db.Error{Op: db.OpIndexInfo, Err: errClosed}
	}
	_, ok := s.indexes[name]
	return ok, nil
}

// SearchGeo returns hashes within the radius ordered by distance, then key.
func (s *Store) SearchGeo(_ context.Context, q *db.GeoQuery) (*db.SearchResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpSearch, Err: errClosed}
	}
	idx, ok := s.indexes[q.IndexName]
	if !ok {
		return nil, db.ErrIndexNotFound
	}
	cells, ok := idx.geo[q.Field]
	if !ok {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("field %q is not a GEO field", q.Field)}
	}

	origin := geo.Point{Lat: q.Lat, Lon: q.Lon}
	type hit struct {
		key  string
		dist float64
	}
	var hits []hit
	for _, key := range cells.candidates(origin, q.RadiusKm) {
		if d := geo.Distance(origin, cells.points[key]); d <= q.RadiusKm {
			hits = append(hits, hit{key: key, dist: d})
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].dist != hits[j].dist {
			return hits[i].dist < hits[j].dist
		}
		return hits[i].key < hits[j].key
	})

	res := &db.SearchResult{Total: len(hits)}
	hits = hits[min(q.Offset, len(hits)):]
	if len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}
	res.Entries = make([]db.SearchEntry, 0, len(hits))
	for _, h := range hits {
		res.Entries = append(res.Entries, db.SearchEntry{
			Key:    h.key,
			Fields: copyFields(s.hashes[h.key], q.ReturnFields),
		})
	}
	return res, nil
}

func copyFields(h map[string]string, only []string) map[string]string {
	if len(only) == 0 {
		out := make(map[string]string, len(h))
		for k, v := range h {
			out[k] = v
		}
		return out
	}
	out := make(map[string]string, len(only))
	for _, k := range only {
		if v, ok := h[k]; ok {
			out[k] = v
		}
	}
	return out
}

// index mirrors one FT index: which keys it covers and their GEO cells.
type index struct {
	def *db.IndexDefinition
	geo map[string]*cellIndex // GEO field name -> cells
}

func newIndex(def *db.IndexDefinition) *index {
	idx := &index{def: def, geo: make(map[string]*cellIndex)}
	for i := range def.Fields {
		f := &def.Fields[i]
		if f.Type == db.IndexFieldGeo {
			idx.geo[f.Name] = newCellIndex(f.Name)
		}
	}
	return idx
}

func (idx *index) covers(key string) bool {
	if len(idx.def.Prefixes) == 0 {
		return true
	}
	for _, p := range idx.def.Prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

func (idx *index) put(key string, h map[string]string) {
	if !idx.covers(key) {
		return
	}
	for _, c := range idx.geo {
		c.remove(key)
		if p, ok := geo.ParseLonLat(h[c.field]); ok {
			c.add(key, p)
		}
	}
}

func (idx *index) remove(key string) {
	for _, c := range idx.geo {
		c.remove(key)
	}
}
