package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/auth"
	"github.com/kailas-cloud/nearby/internal/domain/identity"
	dominv "github.com/kailas-cloud/nearby/internal/domain/inventory"
	domitem "github.com/kailas-cloud/nearby/internal/domain/item"
	"github.com/kailas-cloud/nearby/internal/domain/search/request"
	"github.com/kailas-cloud/nearby/internal/domain/search/result"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
	healthuc "github.com/kailas-cloud/nearby/internal/usecase/health"
	indexeruc "github.com/kailas-cloud/nearby/internal/usecase/indexer"
	inventoryuc "github.com/kailas-cloud/nearby/internal/usecase/inventory"
	itemuc "github.com/kailas-cloud/nearby/internal/usecase/item"
	shopuc "github.com/kailas-cloud/nearby/internal/usecase/shop"
)

const testSecret = "test-secret"

type mockSearch struct {
	searchFn  func(ctx context.Context, req *request.Request) ([]result.Result, error)
	suggestFn func(ctx context.Context, req *request.Suggest) ([]string, error)
}

func (m *mockSearch) Search(ctx context.Context, req *request.Request) ([]result.Result, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, req)
	}
	return nil, nil
}

func (m *mockSearch) Suggest(ctx context.Context, req *request.Suggest) ([]string, error) {
	if m.suggestFn != nil {
		return m.suggestFn(ctx, req)
	}
	return nil, nil
}

type mockShops struct {
	createFn     func(ctx context.Context, id identity.Identity, p domshop.Profile) (domshop.Shop, error)
	getFn        func(ctx context.Context, shopID string) (domshop.Shop, error)
	getMineFn    func(ctx context.Context, id identity.Identity) (domshop.Shop, error)
	patchFn      func(ctx context.Context, id identity.Identity, shopID string, p domshop.Patch) (domshop.Shop, error)
	setOpenFn    func(ctx context.Context, id identity.Identity, shopID string, open bool) (domshop.Shop, error)
	listFn       func(ctx context.Context, f domshop.Filter) ([]domshop.Shop, error)
	categoriesFn func(ctx context.Context) ([]shopuc.CategoryCount, error)
}

func (m *mockShops) Create(ctx context.Context, id identity.Identity, p domshop.Profile) (domshop.Shop, error) {
	return m.createFn(ctx, id, p)
}

func (m *mockShops) Get(ctx context.Context, shopID string) (domshop.Shop, error) {
	return m.getFn(ctx, shopID)
}

func (m *mockShops) GetMine(ctx context.Context, id identity.Identity) (domshop.Shop, error) {
	return m.getMineFn(ctx, id)
}

func (m *mockShops) Patch(
	ctx context.Context, id identity.Identity, shopID string, p domshop.Patch,
) (domshop.Shop, error) {
	return m.patchFn(ctx, id, shopID, p)
}

func (m *mockShops) SetOpen(ctx context.Context, id identity.Identity, shopID string, open bool) (domshop.Shop, error) {
	return m.setOpenFn(ctx, id, shopID, open)
}

func (m *mockShops) List(ctx context.Context, f domshop.Filter) ([]domshop.Shop, error) {
	return m.listFn(ctx, f)
}

func (m *mockShops) Categories(ctx context.Context) ([]shopuc.CategoryCount, error) {
	return m.categoriesFn(ctx)
}

type mockItems struct {
	createFn func(ctx context.Context, id identity.Identity, shopID string, in itemuc.Input) (domitem.Item, error)
	updateFn func(ctx context.Context, id identity.Identity, itemID string, p domitem.Patch) (domitem.Item, error)
	getFn    func(ctx context.Context, itemID string) (domitem.Item, error)
	listFn   func(ctx context.Context, shopID string) ([]domitem.Item, error)
}

func (m *mockItems) Get(ctx context.Context, itemID string) (domitem.Item, error) {
	return m.getFn(ctx, itemID)
}

func (m *mockItems) Create(ctx context.Context, id identity.Identity, shopID string, in itemuc.Input) (domitem.Item, error) {
	return m.createFn(ctx, id, shopID, in)
}

func (m *mockItems) Update(ctx context.Context, id identity.Identity, itemID string, p domitem.Patch) (domitem.Item, error) {
	return m.updateFn(ctx, id, itemID, p)
}

func (m *mockItems) ListByShop(ctx context.Context, shopID string) ([]domitem.Item, error) {
	return m.listFn(ctx, shopID)
}

type mockInventory struct {
	addFn        func(ctx context.Context, id identity.Identity, shopID string, in inventoryuc.AddInput) (dominv.Record, error)
	updateFn     func(ctx context.Context, id identity.Identity, invID string, c dominv.Change, claimed *string) (dominv.Record, error)
	thresholdsFn func(ctx context.Context, id identity.Identity, invID string, t dominv.Thresholds) (dominv.Record, error)
	getFn        func(ctx context.Context, invID string) (dominv.Record, error)
	getByItemFn  func(ctx context.Context, shopID, itemID string) (dominv.Record, error)
	listFn       func(ctx context.Context, shopID string) ([]dominv.Record, error)
}

func (m *mockInventory) Get(ctx context.Context, invID string) (dominv.Record, error) {
	return m.getFn(ctx, invID)
}

func (m *mockInventory) GetByItem(ctx context.Context, shopID, itemID string) (dominv.Record, error) {
	return m.getByItemFn(ctx, shopID, itemID)
}

func (m *mockInventory) Add(
	ctx context.Context, id identity.Identity, shopID string, in inventoryuc.AddInput,
) (dominv.Record, error) {
	return m.addFn(ctx, id, shopID, in)
}

func (m *mockInventory) UpdateQuantity(
	ctx context.Context, id identity.Identity, invID string, c dominv.Change, claimed *string,
) (dominv.Record, error) {
	return m.updateFn(ctx, id, invID, c, claimed)
}

func (m *mockInventory) SetThresholds(
	ctx context.Context, id identity.Identity, invID string, t dominv.Thresholds,
) (dominv.Record, error) {
	return m.thresholdsFn(ctx, id, invID, t)
}

func (m *mockInventory) ListByShop(ctx context.Context, shopID string) ([]dominv.Record, error) {
	return m.listFn(ctx, shopID)
}

type mockReindexer struct {
	rebuildFn func(ctx context.Context) (indexeruc.Stats, error)
}

func (m *mockReindexer) Rebuild(ctx context.Context) (indexeruc.Stats, error) {
	return m.rebuildFn(ctx)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(context.Context) healthuc.Report { return m.report }

type testDeps struct {
	search    *mockSearch
	shops     *mockShops
	items     *mockItems
	inventory *mockInventory
	indexer   *mockReindexer
	health    *mockHealth
}

func newTestDeps() *testDeps {
	return &testDeps{
		search:    &mockSearch{},
		shops:     &mockShops{},
		items:     &mockItems{},
		inventory: &mockInventory{},
		indexer:   &mockReindexer{},
		health:    &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}},
	}
}

func (d *testDeps) router(opts Options) http.Handler {
	srv := NewServer(d.search, d.shops, d.items, d.inventory, d.indexer, d.health, zap.NewNop())
	if opts.JWTSecret == "" {
		opts.JWTSecret = testSecret
	}
	r := chi.NewRouter()
	srv.Register(r, opts)
	return r
}

func do(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func vendorToken(t *testing.T, ownerID string) string {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, ownerID, identity.RoleVendor, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}
