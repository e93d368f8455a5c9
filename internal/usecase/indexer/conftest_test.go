package indexer

import (
	"context"
	"sync"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/inventory"
	"github.com/kailas-cloud/nearby/internal/domain/item"
	"github.com/kailas-cloud/nearby/internal/domain/projection"
	"github.com/kailas-cloud/nearby/internal/domain/shop"
)

type mockShops struct {
	shops  map[string]shop.Shop
	getErr error
}

func (m *mockShops) Get(_ context.Context, id string) (shop.Shop, error) {
	if m.getErr != nil {
		return shop.Shop{}, m.getErr
	}
	s, ok := m.shops[id]
	if !ok {
		return shop.Shop{}, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockShops) ListIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.shops))
	for id := range m.shops {
		ids = append(ids, id)
	}
	return ids, nil
}

type mockItems struct {
	listFn func(shopID string) ([]item.Item, error)
}

func (m *mockItems) ListByShop(_ context.Context, shopID string) ([]item.Item, error) {
	if m.listFn != nil {
		return m.listFn(shopID)
	}
	return nil, nil
}

type mockInventory struct {
	listFn func(shopID string) ([]inventory.Record, error)
}

func (m *mockInventory) ListByShop(_ context.Context, shopID string) ([]inventory.Record, error) {
	if m.listFn != nil {
		return m.listFn(shopID)
	}
	return nil, nil
}

type mockProjection struct {
	mu          sync.Mutex
	entries     map[string]projection.Entry
	upsertErr   error
	ensureCalls int
}

func newMockProjection() *mockProjection {
	return &mockProjection{entries: make(map[string]projection.Entry)}
}

func (m *mockProjection) EnsureIndex(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureCalls++
	return nil
}

func (m *mockProjection) Upsert(_ context.Context, e projection.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.entries[e.ShopID()] = e
	return nil
}

func (m *mockProjection) Delete(_ context.Context, shopID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, shopID)
	return nil
}

func (m *mockProjection) ListShopIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *mockProjection) get(id string) (projection.Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	return e, ok
}
