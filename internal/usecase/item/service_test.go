package item

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/nearby/internal/db/sqldb"
	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/identity"
	domitem "github.com/kailas-cloud/nearby/internal/domain/item"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
	itemrepo "github.com/kailas-cloud/nearby/internal/repository/item"
	shoprepo "github.com/kailas-cloud/nearby/internal/repository/shop"
)

type mockReprojector struct {
	calls []string
}

func (m *mockReprojector) ReprojectLogged(_ context.Context, shopID string) {
	m.calls = append(m.calls, shopID)
}

var (
	vendor = identity.Identity{OwnerID: "o1", Role: identity.RoleVendor}
	other  = identity.Identity{OwnerID: "o2", Role: identity.RoleVendor}
)

func setup(t *testing.T) (*Service, *mockReprojector) {
	t.Helper()
	db := sqldb.NewTestDB(t)
	shops := shoprepo.New(db)
	sh, err := domshop.New("s1", "o1", domshop.Profile{Name: "Tech Hub", FullName: "Ravi", Address: "Hill Rd, Agartala"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := shops.Create(context.Background(), sh); err != nil {
		t.Fatal(err)
	}
	proj := &mockReprojector{}
	return New(itemrepo.New(db), shops, proj).WithClock(func() int64 { return 500 }), proj
}

func TestCreate(t *testing.T) {
	svc, proj := setup(t)
	ctx := context.Background()

	it, err := svc.Create(ctx, vendor, "s1", Input{Name: "AA Batteries", Price: decimal.RequireFromString("49.50")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if it.ID() == "" || it.ShopID() != "s1" || it.CreatedAt() != 500 {
		t.Errorf("unexpected item: %+v", it)
	}
	if len(proj.calls) != 1 {
		t.Errorf("reproject calls = %v", proj.calls)
	}

	tests := []struct {
		name   string
		caller identity.Identity
		shopID string
		in     Input
		want   error
	}{
		{"duplicate name", vendor, "s1", Input{Name: "AA Batteries", Price: decimal.NewFromInt(1)}, domain.ErrAlreadyExists},
		{"zero price", vendor, "s1", Input{Name: "Cable", Price: decimal.Zero}, domain.ErrInvalidInput},
		{"not owner", other, "s1", Input{Name: "Cable", Price: decimal.NewFromInt(1)}, domain.ErrForbidden},
		{"missing shop", vendor, "nope", Input{Name: "Cable", Price: decimal.NewFromInt(1)}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.caller, tt.shopID, tt.in); !errors.Is(err, tt.want) {
				t.Errorf("want %v, got %v", tt.want, err)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	svc, proj := setup(t)
	ctx := context.Background()
	it, err := svc.Create(ctx, vendor, "s1", Input{Name: "Charger", Price: decimal.NewFromInt(300)})
	if err != nil {
		t.Fatal(err)
	}

	price := decimal.NewFromInt(250)
	got, err := svc.Update(ctx, vendor, it.ID(), domitem.Patch{Price: &price})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !got.Price().Equal(price) {
		t.Errorf("price = %s", got.Price())
	}
	if len(proj.calls) != 2 {
		t.Errorf("reproject calls = %v", proj.calls)
	}

	if _, err := svc.Update(ctx, other, it.ID(), domitem.Patch{Price: &price}); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("want ErrForbidden, got %v", err)
	}
	if _, err := svc.Update(ctx, vendor, "nope", domitem.Patch{Price: &price}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestListByShop(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()
	for _, n := range []string{"Mouse", "Cable"} {
		if _, err := svc.Create(ctx, vendor, "s1", Input{Name: n, Price: decimal.NewFromInt(5)}); err != nil {
			t.Fatal(err)
		}
	}

	items, err := svc.ListByShop(ctx, "s1")
	if err != nil {
		t.Fatalf("ListByShop: %v", err)
	}
	if len(items) != 2 || items[0].Name() != "Cable" {
		t.Errorf("unexpected items: %+v", items)
	}
	if _, err := svc.ListByShop(ctx, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}
