package nearby

import (
	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/identity"
	dominv "github.com/kailas-cloud/nearby/internal/domain/inventory"
	domitem "github.com/kailas-cloud/nearby/internal/domain/item"
	"github.com/kailas-cloud/nearby/internal/domain/search/result"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
)

// Caller is the account a vendor operation runs as.
type Caller struct {
	OwnerID string
	Admin   bool
}

// Vendor returns a caller that may manage its own shop.
func Vendor(ownerID string) Caller { return Caller{OwnerID: ownerID} }

// Admin returns a caller that may manage any shop.
func Admin(ownerID string) Caller { return Caller{OwnerID: ownerID, Admin: true} }

func (c Caller) identity() identity.Identity {
	role := identity.RoleVendor
	if c.Admin {
		role = identity.RoleAdmin
	}
	return identity.Identity{OwnerID: c.OwnerID, Role: role}
}

// Location is a WGS84 coordinate.
type Location struct {
	Lat float64
	Lon float64
}

// ShopInput describes a new shop.
type ShopInput struct {
	Name        string
	FullName    string
	Address     string
	Contact     string
	Description string
	Category    string // derived from Name when empty
	City        string // derived from Address when empty
	Location    *Location
}

// Shop is a vendor storefront.
type Shop struct {
	ID        string
	OwnerID   string
	Name      string
	Address   string
	Category  string
	City      string
	Location  *Location
	IsOpen    bool
	CreatedAt int64
	UpdatedAt int64
}

// ShopFilter narrows shop listing. Limit 0 selects the default page size.
type ShopFilter struct {
	Category string
	City     string
	OpenOnly bool
	Limit    int
	Offset   int
}

// ItemInput describes a new catalog item.
type ItemInput struct {
	Name        string
	Price       decimal.Decimal
	Description string
	Note        string
}

// Item is a product a shop sells.
type Item struct {
	ID          string
	ShopID      string
	Name        string
	Price       decimal.Decimal
	Description string
	Note        string
}

// Stock is the inventory record of one item.
type Stock struct {
	ID          string
	ShopID      string
	ItemID      string
	Quantity    int
	MinQuantity *int
	MaxQuantity *int
	Status      string // IN_STOCK, LOW_STOCK, OUT_OF_STOCK
	UpdatedAt   int64
}

// Hit is one nearby search result.
type Hit struct {
	ShopID            string
	ShopName          string
	Address           string
	Location          Location
	Score             float64
	MatchedTerms      []string
	DistanceKm        float64
	DistanceFormatted string
}

// RebuildStats summarizes a projection rebuild.
type RebuildStats struct {
	Indexed int
	Removed int
	Skipped int
}

func toPoint(l *Location) *geo.Point {
	if l == nil {
		return nil
	}
	return &geo.Point{Lat: l.Lat, Lon: l.Lon}
}

func fromShop(s *domshop.Shop) Shop {
	p := s.Profile()
	out := Shop{
		ID:        s.ID(),
		OwnerID:   s.OwnerID(),
		Name:      p.Name,
		Address:   p.Address,
		Category:  p.Category,
		City:      p.City,
		IsOpen:    s.IsOpen(),
		CreatedAt: s.CreatedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
	if loc := s.Location(); loc != nil {
		out.Location = &Location{Lat: loc.Lat, Lon: loc.Lon}
	}
	return out
}

func fromItem(i *domitem.Item) Item {
	return Item{
		ID:          i.ID(),
		ShopID:      i.ShopID(),
		Name:        i.Name(),
		Price:       i.Price(),
		Description: i.Description(),
		Note:        i.Note(),
	}
}

func fromRecord(r *dominv.Record) Stock {
	t := r.Thresholds()
	return Stock{
		ID:          r.ID(),
		ShopID:      r.ShopID(),
		ItemID:      r.ItemID(),
		Quantity:    r.Quantity(),
		MinQuantity: t.Min,
		MaxQuantity: t.Max,
		Status:      string(r.Status()),
		UpdatedAt:   r.UpdatedAt(),
	}
}

func fromResult(r *result.Result) Hit {
	loc := r.Location()
	return Hit{
		ShopID:            r.ShopID(),
		ShopName:          r.ShopName(),
		Address:           r.Address(),
		Location:          Location{Lat: loc.Lat, Lon: loc.Lon},
		Score:             r.Score(),
		MatchedTerms:      r.MatchedTerms(),
		DistanceKm:        r.DistanceKm(),
		DistanceFormatted: r.DistanceFormatted(),
	}
}
