package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/projection"
	"github.com/kailas-cloud/nearby/internal/domain/search/request"
	"github.com/kailas-cloud/nearby/internal/domain/search/result"
)

const (
	// DefaultCandidateLimit is the page size of geo index queries. A search
	// keeps paging until it has seen every shop in the radius.
	DefaultCandidateLimit = 10000

	// radiusPadding widens the index query so the exact distance check decides the boundary.
	radiusPadding = 1.01

	opSearch  = "search"
	opSuggest = "suggest"
)

// Service answers nearby searches and suggestions from the projection.
type Service struct {
	repo           Repository
	rec            Recorder
	candidateLimit int
}

// Option configures the service.
type Option func(*Service)

// WithCandidateLimit overrides DefaultCandidateLimit.
func WithCandidateLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.candidateLimit = n
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.rec = r }
}

// New creates a search service.
func New(repo Repository, opts ...Option) *Service {
	s := &Service{repo: repo, candidateLimit: DefaultCandidateLimit}
	for _, o := range opts {
		o(s)
	}
	return s
}

type candidate struct {
	entry    projection.Entry
	distance float64
}

// Search returns shops within the radius whose stocked items or name match the query,
// best score first, then nearest, then by shop ID.
func (s *Service) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	cands, err := s.within(ctx, req.Origin(), req.RadiusKm())
	if err != nil {
		s.record(opSearch, err, 0)
		return nil, err
	}

	results := make([]result.Result, 0, len(cands))
	for i := range cands {
		c := &cands[i]
		score, matched := scoreEntry(req.Query(), &c.entry)
		if score == 0 {
			continue
		}
		results = append(results, result.New(
			c.entry.ShopID(), c.entry.ShopName(), c.entry.Address(), c.entry.Location(),
			score, matched, c.distance,
		))
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := &results[i], &results[j]
		if a.Score() != b.Score() {
			return a.Score() > b.Score()
		}
		if a.DistanceKm() != b.DistanceKm() {
			return a.DistanceKm() < b.DistanceKm()
		}
		return a.ShopID() < b.ShopID()
	})

	if req.Limit() > 0 && len(results) > req.Limit() {
		results = results[:req.Limit()]
	}

	s.record(opSearch, nil, len(results))
	return results, nil
}

// Suggest returns distinct in-stock item names near the origin, nearest shops first.
func (s *Service) Suggest(ctx context.Context, req *request.Suggest) ([]string, error) {
	cands, err := s.within(ctx, req.Origin(), req.RadiusKm())
	if err != nil {
		s.record(opSuggest, err, 0)
		return nil, err
	}

	seen := make(map[string]struct{})
	out := make([]string, 0, req.Limit())
	for i := range cands {
		for _, t := range cands[i].entry.Terms() {
			k := strings.ToLower(t)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, t)
			if len(out) == req.Limit() {
				s.record(opSuggest, nil, len(out))
				return out, nil
			}
		}
	}

	s.record(opSuggest, nil, len(out))
	return out, nil
}

// within returns entries at exact distance <= radiusKm, nearest first.
func (s *Service) within(ctx context.Context, origin geo.Point, radiusKm float64) ([]candidate, error) {
	entries, err := s.repo.WithinRadius(ctx, origin, radiusKm*radiusPadding, s.candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("geo candidates: %w", err)
	}

	cands := make([]candidate, 0, len(entries))
	for _, e := range entries {
		d := geo.Distance(origin, e.Location())
		if d > radiusKm {
			continue
		}
		cands = append(cands, candidate{entry: e, distance: d})
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].distance != cands[j].distance {
			return cands[i].distance < cands[j].distance
		}
		return cands[i].entry.ShopID() < cands[j].entry.ShopID()
	})
	return cands, nil
}

func (s *Service) record(op string, err error, n int) {
	if s.rec == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.rec.RecordSearch(op, status, n)
}
