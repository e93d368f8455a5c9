package shop

import (
	"context"

	"github.com/kailas-cloud/nearby/internal/domain"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
)

type mockRepo struct {
	shops map[string]domshop.Shop

	createFn func(s domshop.Shop) error
	updateFn func(s domshop.Shop) error
	listFn   func(f domshop.Filter) ([]domshop.Shop, error)
	countFn  func() (map[string]int, error)
}

func newMockRepo(shops ...domshop.Shop) *mockRepo {
	m := &mockRepo{shops: make(map[string]domshop.Shop)}
	for _, s := range shops {
		m.shops[s.ID()] = s
	}
	return m
}

func (m *mockRepo) Create(_ context.Context, s domshop.Shop) error {
	if m.createFn != nil {
		return m.createFn(s)
	}
	m.shops[s.ID()] = s
	return nil
}

func (m *mockRepo) Get(_ context.Context, id string) (domshop.Shop, error) {
	s, ok := m.shops[id]
	if !ok {
		return domshop.Shop{}, domain.ErrNotFound
	}
	return s, nil
}

func (m *mockRepo) GetByOwner(_ context.Context, ownerID string) (domshop.Shop, error) {
	for _, s := range m.shops {
		if s.OwnerID() == ownerID {
			return s, nil
		}
	}
	return domshop.Shop{}, domain.ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, s domshop.Shop) error {
	if m.updateFn != nil {
		return m.updateFn(s)
	}
	if _, ok := m.shops[s.ID()]; !ok {
		return domain.ErrNotFound
	}
	m.shops[s.ID()] = s
	return nil
}

func (m *mockRepo) List(_ context.Context, f domshop.Filter) ([]domshop.Shop, error) {
	if m.listFn != nil {
		return m.listFn(f)
	}
	return nil, nil
}

func (m *mockRepo) CountByCategory(_ context.Context) (map[string]int, error) {
	if m.countFn != nil {
		return m.countFn()
	}
	return map[string]int{}, nil
}

type mockReprojector struct {
	calls []string
}

func (m *mockReprojector) ReprojectLogged(_ context.Context, shopID string) {
	m.calls = append(m.calls, shopID)
}
