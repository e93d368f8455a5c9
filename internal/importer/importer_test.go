package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/identity"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
)

type fakeCreator struct {
	created  map[string]domshop.Profile
	createFn func(id identity.Identity, p domshop.Profile) error
}

func newFakeCreator() *fakeCreator {
	return &fakeCreator{created: make(map[string]domshop.Profile)}
}

func (f *fakeCreator) Create(_ context.Context, id identity.Identity, p domshop.Profile) (domshop.Shop, error) {
	if f.createFn != nil {
		if err := f.createFn(id, p); err != nil {
			return domshop.Shop{}, err
		}
	}
	if _, ok := f.created[id.OwnerID]; ok {
		return domshop.Shop{}, domain.ErrAlreadyExists
	}
	f.created[id.OwnerID] = p
	return domshop.Shop{}, nil
}

func ptr[T any](v T) *T { return &v }

func writePlaces(t *testing.T, dir, name string, rows []PlaceRow) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := parquet.WriteFile(path, rows); err != nil {
		t.Fatalf("write parquet: %v", err)
	}
	return path
}

func samplePlaces() []PlaceRow {
	return []PlaceRow{
		{
			FSQPlaceID: "p1", Name: "Fresh Mart",
			Latitude: ptr(23.83), Longitude: ptr(91.28),
			Address: ptr("1 Hospital Road"), Locality: ptr("Agartala"),
			CategoryLabels: []string{"Retail > Grocery Store"},
		},
		{
			FSQPlaceID: "p2", Name: "Closed Cafe",
			Latitude: ptr(23.84), Longitude: ptr(91.29),
			Address: ptr("2 Road"), DateClosed: ptr("2024-01-01"),
		},
		{FSQPlaceID: "p3", Name: "Nowhere", Address: ptr("3 Road")},
		{
			FSQPlaceID: "p4", Name: "Corner Pharmacy",
			Latitude: ptr(23.85), Longitude: ptr(91.27),
			Locality: ptr("Agartala"),
		},
	}
}

func TestToProfile(t *testing.T) {
	rows := samplePlaces()

	p, ok := ToProfile(&rows[0])
	if !ok {
		t.Fatal("expected open place with coordinates to map")
	}
	if p.Address != "1 Hospital Road, Agartala" || p.City != "Agartala" {
		t.Errorf("unexpected address/city: %q / %q", p.Address, p.City)
	}
	if p.Description != "Retail > Grocery Store" || p.FullName != FullName {
		t.Errorf("unexpected profile: %+v", p)
	}
	if p.Location == nil || p.Location.Lat != 23.83 {
		t.Errorf("location = %+v", p.Location)
	}

	if _, ok := ToProfile(&rows[1]); ok {
		t.Error("closed place must be rejected")
	}
	if _, ok := ToProfile(&rows[2]); ok {
		t.Error("place without coordinates must be rejected")
	}
	if p, ok := ToProfile(&rows[3]); !ok || p.Address != "Agartala" {
		t.Errorf("locality-only place: ok=%v address=%q", ok, p.Address)
	}
	if _, ok := ToProfile(&PlaceRow{FSQPlaceID: "x", Name: "No address", Latitude: ptr(1.0), Longitude: ptr(1.0)}); ok {
		t.Error("place without any address must be rejected")
	}
}

func TestImportFile(t *testing.T) {
	path := writePlaces(t, t.TempDir(), "places.parquet", samplePlaces())
	creator := newFakeCreator()

	st, err := New(creator, nil).ImportFile(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	want := Stats{Read: 4, Created: 2, Skipped: 2}
	if st != want {
		t.Errorf("stats = %+v, want %+v", st, want)
	}
	got, ok := creator.created[OwnerPrefix+"p1"]
	if !ok {
		t.Fatalf("p1 not created, have %v", creator.created)
	}
	if got.Name != "Fresh Mart" || got.Description != "Retail > Grocery Store" {
		t.Errorf("unexpected profile: %+v", got)
	}
}

func TestImportFile_RerunSkipsExisting(t *testing.T) {
	path := writePlaces(t, t.TempDir(), "places.parquet", samplePlaces())
	creator := newFakeCreator()
	im := New(creator, nil)

	if _, err := im.ImportFile(context.Background(), path, 0); err != nil {
		t.Fatalf("first import: %v", err)
	}
	st, err := im.ImportFile(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if st.Created != 0 || st.Skipped != 4 {
		t.Errorf("rerun stats = %+v", st)
	}
}

func TestImportFile_Failures(t *testing.T) {
	path := writePlaces(t, t.TempDir(), "places.parquet", samplePlaces())
	creator := newFakeCreator()
	creator.createFn = func(id identity.Identity, _ domshop.Profile) error {
		if id.Role != identity.RoleVendor {
			t.Errorf("role = %q", id.Role)
		}
		if id.OwnerID == OwnerPrefix+"p4" {
			return errors.New("store down")
		}
		return nil
	}

	st, err := New(creator, nil).ImportFile(context.Background(), path, 0)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if st.Created != 1 || st.Failed != 1 || st.Skipped != 2 {
		t.Errorf("stats = %+v", st)
	}
}

func TestImportDir_MaxRows(t *testing.T) {
	dir := t.TempDir()
	rows := samplePlaces()
	writePlaces(t, dir, "a.parquet", rows[:1])
	writePlaces(t, dir, "b.parquet", rows[3:])
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600); err != nil {
		t.Fatal(err)
	}

	creator := newFakeCreator()
	st, err := New(creator, nil).ImportDir(context.Background(), dir, 1)
	if err != nil {
		t.Fatalf("ImportDir: %v", err)
	}
	if st.Read != 1 || st.Created != 1 {
		t.Errorf("stats = %+v", st)
	}
	if _, ok := creator.created[OwnerPrefix+"p1"]; !ok {
		t.Error("files must be imported in name order")
	}

	st, err = New(newFakeCreator(), nil).ImportDir(context.Background(), dir, 0)
	if err != nil || st.Created != 2 {
		t.Errorf("full import: %+v, %v", st, err)
	}
}

func TestImportDir_Empty(t *testing.T) {
	if _, err := New(newFakeCreator(), nil).ImportDir(context.Background(), t.TempDir(), 0); err == nil {
		t.Error("expected error for directory without parquet files")
	}
}

func TestImportFile_Cancelled(t *testing.T) {
	path := writePlaces(t, t.TempDir(), "places.parquet", samplePlaces())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(newFakeCreator(), nil).ImportFile(ctx, path, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}
