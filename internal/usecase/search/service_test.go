package search

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/kailas-cloud/nearby/internal/db/memory"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/projection"
	"github.com/kailas-cloud/nearby/internal/domain/search/request"
	projrepo "github.com/kailas-cloud/nearby/internal/repository/projection"
)

// --- Mocks ---

type mockRepo struct {
	entries    []projection.Entry
	err        error
	lastRadius float64
	lastLimit  int
}

func (m *mockRepo) WithinRadius(_ context.Context, _ geo.Point, radiusKm float64, limit int) ([]projection.Entry, error) {
	m.lastRadius = radiusKm
	m.lastLimit = limit
	return m.entries, m.err
}

type mockRecorder struct {
	op, status string
	results    int
}

func (m *mockRecorder) RecordSearch(op, status string, results int) {
	m.op, m.status, m.results = op, status, results
}

var agartala = geo.Point{Lat: 23.8315, Lon: 91.2868}

func entryAt(id, name string, km, bearing float64, terms ...string) projection.Entry {
	loc := geo.Destination(agartala, km, bearing)
	return projection.Reconstruct(id, name, "Road, Agartala", loc, projection.NormalizeTerms(terms), 1)
}

func mustRequest(t *testing.T, q string, radius float64, limit int) *request.Request {
	t.Helper()
	r, err := request.New(q, agartala, radius, limit)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func shopIDs(t *testing.T, svc *Service, req *request.Request) []string {
	t.Helper()
	res, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	ids := make([]string, 0, len(res))
	for i := range res {
		ids = append(ids, res[i].ShopID())
	}
	return ids
}

// --- Tests ---

func TestSearch_BatteriesWithinFiveKm(t *testing.T) {
	repo := &mockRepo{entries: []projection.Entry{
		entryAt("near", "Tech Hub", 2, 45, "AA Batteries", "Charger"),
		entryAt("far", "Gadget Point", 8, 180, "Batteries"),
		entryAt("grocer", "Fresh Mart", 1, 0, "Milk"),
	}}
	rec := &mockRecorder{}
	svc := New(repo, WithRecorder(rec))

	res, err := svc.Search(context.Background(), mustRequest(t, "batteries", 5, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 || res[0].ShopID() != "near" {
		t.Fatalf("want only shop 'near', got %+v", res)
	}
	if d := res[0].DistanceKm(); d < 1.99 || d > 2.01 {
		t.Errorf("distance = %v, want ~2", d)
	}
	if res[0].DistanceFormatted() != "2.0 km" {
		t.Errorf("formatted = %q", res[0].DistanceFormatted())
	}
	if want := []string{"AA Batteries"}; !reflect.DeepEqual(res[0].MatchedTerms(), want) {
		t.Errorf("matched = %v, want %v", res[0].MatchedTerms(), want)
	}
	if repo.lastRadius <= 5 {
		t.Errorf("index query radius %v should be padded", repo.lastRadius)
	}
	if repo.lastLimit != DefaultCandidateLimit {
		t.Errorf("candidate limit = %d", repo.lastLimit)
	}
	if rec.op != "search" || rec.status != "ok" || rec.results != 1 {
		t.Errorf("recorder = %+v", rec)
	}
}

func TestSearch_BoundaryInclusive(t *testing.T) {
	e := entryAt("edge", "Edge Store", 5, 90, "Milk")
	d := geo.Distance(agartala, e.Location())
	svc := New(&mockRepo{entries: []projection.Entry{e}})

	if ids := shopIDs(t, svc, mustRequest(t, "milk", d, 0)); len(ids) != 1 {
		t.Errorf("shop at exactly radius must be included, got %v", ids)
	}
	if ids := shopIDs(t, svc, mustRequest(t, "milk", d*(1-1e-9), 0)); len(ids) != 0 {
		t.Errorf("shop beyond radius must be excluded, got %v", ids)
	}
}

func TestSearch_Ordering(t *testing.T) {
	repo := &mockRepo{entries: []projection.Entry{
		entryAt("substring-near", "A", 0.5, 0, "Milkshake"),
		entryAt("exact-far", "B", 3, 0, "Milk"),
		entryAt("exact-near", "C", 1, 0, "milk"),
		entryAt("phrase", "D", 0.2, 0, "Milk Powder"),
		entryAt("tie-b", "E", 2, 90, "Milk"),
		entryAt("tie-a", "F", 2, 90, "Milk"),
	}}
	svc := New(repo)

	got := shopIDs(t, svc, mustRequest(t, "MILK", 5, 0))
	want := []string{"exact-near", "tie-a", "tie-b", "exact-far", "phrase", "substring-near"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	got = shopIDs(t, svc, mustRequest(t, "milk", 5, 2))
	if !reflect.DeepEqual(got, want[:2]) {
		t.Errorf("limited = %v, want %v", got, want[:2])
	}
}

func TestSearch_ShopNameAndOverlap(t *testing.T) {
	repo := &mockRepo{entries: []projection.Entry{
		entryAt("by-name", "Fresh Bakery", 1, 0),
		entryAt("overlap", "X", 1, 90, "Whole Wheat Bread"),
	}}
	res, err := New(repo).Search(context.Background(), mustRequest(t, "bakery", 5, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 || res[0].ShopID() != "by-name" || res[0].Score() != ScorePhrase {
		t.Fatalf("unexpected results: %+v", res)
	}

	res, err = New(repo).Search(context.Background(), mustRequest(t, "bread rolls", 5, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res) != 1 || res[0].ShopID() != "overlap" || res[0].Score() != ScoreOverlap/2 {
		t.Fatalf("unexpected overlap results: %+v", res)
	}
}

func TestSearch_NoMatches(t *testing.T) {
	svc := New(&mockRepo{entries: []projection.Entry{entryAt("s", "Shop", 1, 0, "Milk")}})
	res, err := svc.Search(context.Background(), mustRequest(t, "laptop", 5, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res == nil || len(res) != 0 {
		t.Errorf("want empty non-nil slice, got %#v", res)
	}
}

func TestSearch_RepoError(t *testing.T) {
	boom := errors.New("boom")
	rec := &mockRecorder{}
	svc := New(&mockRepo{err: boom}, WithRecorder(rec), WithCandidateLimit(50))
	_, err := svc.Search(context.Background(), mustRequest(t, "milk", 5, 0))
	if !errors.Is(err, boom) {
		t.Fatalf("want wrapped boom, got %v", err)
	}
	if rec.status != "error" {
		t.Errorf("recorder status = %q", rec.status)
	}
}

func TestScoreText(t *testing.T) {
	tests := []struct {
		query, text string
		want        float64
	}{
		{"aa batteries", "AA  Batteries", ScoreExact},
		{"batteries", "AA Batteries", ScorePhrase},
		{"batter", "AA Batteries", ScoreSubstring},
		{"aa batteries pack", "AA Batteries", ScoreOverlap * 2 / 3},
		{"milk", "Bread", 0},
		{"milk", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query+"/"+tt.text, func(t *testing.T) {
			got := scoreText(tt.query, splitQuery(tt.query), tt.text)
			if got != tt.want {
				t.Errorf("scoreText = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuggest_DedupeAndOrder(t *testing.T) {
	repo := &mockRepo{entries: []projection.Entry{
		entryAt("far", "Z", 4, 0, "Eggs", "milk"),
		entryAt("near", "Y", 1, 0, "Milk", "Bread"),
		entryAt("outside", "X", 20, 0, "Laptop"),
		entryAt("mid-b", "W", 2, 90, "Apples"),
		entryAt("mid-a", "V", 2, 90, "Zucchini"),
	}}
	svc := New(repo)

	s, _ := request.NewSuggest(agartala, 10, 10)
	got, err := svc.Suggest(context.Background(), &s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"Bread", "Milk", "Zucchini", "Apples", "Eggs"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("suggest = %v, want %v", got, want)
	}

	s, _ = request.NewSuggest(agartala, 10, 3)
	got, _ = svc.Suggest(context.Background(), &s)
	if !reflect.DeepEqual(got, want[:3]) {
		t.Errorf("capped = %v, want %v", got, want[:3])
	}
}

func TestSearch_MemoryProjection(t *testing.T) {
	ctx := context.Background()
	repo := projrepo.New(memory.NewStore(), "")
	if err := repo.EnsureIndex(ctx); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	for _, e := range []projection.Entry{
		entryAt("near", "Tech Hub", 2, 45, "AA Batteries"),
		entryAt("far", "Gadget Point", 7, 180, "AA Batteries"),
	} {
		if err := repo.Upsert(ctx, e); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	got := shopIDs(t, New(repo), mustRequest(t, "batteries", 5, 0))
	if !reflect.DeepEqual(got, []string{"near"}) {
		t.Errorf("got %v, want [near]", got)
	}
}

func TestSearch_MoreCandidatesThanPageSize(t *testing.T) {
	ctx := context.Background()
	repo := projrepo.New(memory.NewStore(), "")
	if err := repo.EnsureIndex(ctx); err != nil {
		t.Fatalf("EnsureIndex: %v", err)
	}
	for i := range DefaultCandidateLimit {
		e := entryAt(fmt.Sprintf("grocer-%05d", i), "Grocer", 1, float64(i%360), "Milk")
		if err := repo.Upsert(ctx, e); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}
	if err := repo.Upsert(ctx, entryAt("tech", "Tech Hub", 3, 45, "AA Batteries")); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got := shopIDs(t, New(repo), mustRequest(t, "batteries", 5, 0))
	if !reflect.DeepEqual(got, []string{"tech"}) {
		t.Errorf("got %v, want [tech]", got)
	}

	// a small page size must page, not truncate
	got = shopIDs(t, New(repo, WithCandidateLimit(100)), mustRequest(t, "batteries", 5, 0))
	if !reflect.DeepEqual(got, []string{"tech"}) {
		t.Errorf("paged: got %v, want [tech]", got)
	}
}
