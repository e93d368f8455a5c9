package chi

import (
	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
	dominv "github.com/kailas-cloud/nearby/internal/domain/inventory"
	domitem "github.com/kailas-cloud/nearby/internal/domain/item"
	"github.com/kailas-cloud/nearby/internal/domain/search/result"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
	shopuc "github.com/kailas-cloud/nearby/internal/usecase/shop"
)

// ErrorCode is the machine-readable error kind of an ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest      ErrorCode = "bad_request"
	ErrorCodeInvalidInput    ErrorCode = "invalid_input"
	ErrorCodeEmptyQuery      ErrorCode = "empty_query"
	ErrorCodeInvalidLocation ErrorCode = "invalid_location"
	ErrorCodeInvalidRadius   ErrorCode = "invalid_radius"
	ErrorCodeInvalidQuantity ErrorCode = "invalid_quantity"
	ErrorCodeNotFound        ErrorCode = "not_found"
	ErrorCodeAlreadyExists   ErrorCode = "already_exists"
	ErrorCodeForbidden       ErrorCode = "forbidden"
	ErrorCodeUnauthorized    ErrorCode = "unauthorized"
	ErrorCodeRateLimited     ErrorCode = "rate_limited"
	ErrorCodeInternalError   ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Location is a lat/lon pair on the wire.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// SearchResultItem is one nearby-search hit.
type SearchResultItem struct {
	ShopID            string   `json:"shop_id"`
	ShopName          string   `json:"shop_name"`
	Address           string   `json:"address"`
	Location          Location `json:"location"`
	Score             float64  `json:"score"`
	MatchedTerms      []string `json:"matched_terms"`
	DistanceKm        float64  `json:"distance_km"`
	DistanceFormatted string   `json:"distance_formatted"`
}

// SearchResponse is the body of GET /search/nearby.
type SearchResponse struct {
	Items []SearchResultItem `json:"items"`
	Total int                `json:"total"`
}

// SuggestResponse is the body of GET /search/suggestions.
type SuggestResponse struct {
	Items []string `json:"items"`
}

// CreateShopRequest is the body of POST /shops.
type CreateShopRequest struct {
	ShopName    string    `json:"shopName"`
	FullName    string    `json:"fullName"`
	Address     string    `json:"address"`
	Contact     string    `json:"contact,omitempty"`
	Description string    `json:"description,omitempty"`
	Note        string    `json:"note,omitempty"`
	Category    string    `json:"category,omitempty"`
	City        string    `json:"city,omitempty"`
	Location    *Location `json:"location,omitempty"`
}

// PatchShopRequest is the body of PATCH /shops/{shopID}.
type PatchShopRequest struct {
	ShopName    *string   `json:"shopName,omitempty"`
	FullName    *string   `json:"fullName,omitempty"`
	Address     *string   `json:"address,omitempty"`
	Contact     *string   `json:"contact,omitempty"`
	Description *string   `json:"description,omitempty"`
	Note        *string   `json:"note,omitempty"`
	Category    *string   `json:"category,omitempty"`
	City        *string   `json:"city,omitempty"`
	Location    *Location `json:"location,omitempty"`
}

// SetOpenRequest is the body of PUT /shops/{shopID}/open.
type SetOpenRequest struct {
	IsOpen *bool `json:"is_open"`
}

// ShopResponse is a shop on the wire.
type ShopResponse struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	ShopName    string    `json:"shopName"`
	FullName    string    `json:"fullName"`
	Address     string    `json:"address"`
	Contact     string    `json:"contact"`
	Description string    `json:"description"`
	Note        string    `json:"note"`
	Category    string    `json:"category"`
	City        string    `json:"city"`
	Location    *Location `json:"location,omitempty"`
	IsOpen      bool      `json:"is_open"`
	CreatedAt   int64     `json:"created_at"`
	UpdatedAt   int64     `json:"updated_at"`
}

// ShopListResponse is the body of GET /shops.
type ShopListResponse struct {
	Items  []ShopResponse `json:"items"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// CategoryResponse is a category with its shop count.
type CategoryResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CategoryListResponse is the body of GET /categories.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
}

// CreateItemRequest is the body of POST /shops/{shopID}/items.
type CreateItemRequest struct {
	ItemName    string          `json:"itemName"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	Note        string          `json:"note,omitempty"`
}

// PatchItemRequest is the body of PATCH /items/{itemID}.
type PatchItemRequest struct {
	Price       *decimal.Decimal `json:"price,omitempty"`
	Description *string          `json:"description,omitempty"`
	Note        *string          `json:"note,omitempty"`
}

// ItemResponse is an item on the wire.
type ItemResponse struct {
	ID          string          `json:"id"`
	ShopID      string          `json:"shop_id"`
	ItemName    string          `json:"itemName"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Note        string          `json:"note"`
	CreatedAt   int64           `json:"created_at"`
	UpdatedAt   int64           `json:"updated_at"`
}

// ItemListResponse is the body of GET /shops/{shopID}/items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
}

// AddInventoryRequest is the body of POST /shops/{shopID}/inventory.
type AddInventoryRequest struct {
	ItemID      string  `json:"item_id"`
	Quantity    *int    `json:"quantity"`
	MinQuantity *int    `json:"min_quantity,omitempty"`
	MaxQuantity *int    `json:"max_quantity,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// UpdateQuantityRequest is the body of PATCH /inventory/{inventoryID}/quantity.
// Exactly one of Delta and Quantity must be set.
type UpdateQuantityRequest struct {
	Delta    *int    `json:"delta,omitempty"`
	Quantity *int    `json:"quantity,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// ThresholdsRequest is the body of PUT /inventory/{inventoryID}/thresholds.
type ThresholdsRequest struct {
	MinQuantity *int `json:"min_quantity"`
	MaxQuantity *int `json:"max_quantity"`
}

// InventoryResponse is an inventory record on the wire.
type InventoryResponse struct {
	ID          string `json:"id"`
	ShopID      string `json:"shop_id"`
	ItemID      string `json:"item_id"`
	Quantity    int    `json:"quantity"`
	MinQuantity *int   `json:"min_quantity"`
	MaxQuantity *int   `json:"max_quantity"`
	Status      string `json:"status"`
	UpdatedAt   int64  `json:"updated_at"`
}

// InventoryListResponse is the body of GET /shops/{shopID}/inventory.
type InventoryListResponse struct {
	Items []InventoryResponse `json:"items"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// ReindexResponse is the body of POST /admin/reindex.
type ReindexResponse struct {
	Indexed int    `json:"indexed"`
	Removed int    `json:"removed"`
	Skipped int    `json:"skipped"`
	Error   string `json:"error,omitempty"`
}

func locationFromGeo(p *geo.Point) *Location {
	if p == nil {
		return nil
	}
	return &Location{Lat: p.Lat, Lon: p.Lon}
}

func (l *Location) toGeo() *geo.Point {
	if l == nil {
		return nil
	}
	return &geo.Point{Lat: l.Lat, Lon: l.Lon}
}

func searchResultToResponse(r *result.Result) SearchResultItem {
	loc := r.Location()
	matched := r.MatchedTerms()
	if matched == nil {
		matched = []string{}
	}
	return SearchResultItem{
		ShopID:            r.ShopID(),
		ShopName:          r.ShopName(),
		Address:           r.Address(),
		Location:          Location{Lat: loc.Lat, Lon: loc.Lon},
		Score:             r.Score(),
		MatchedTerms:      matched,
		DistanceKm:        r.DistanceKm(),
		DistanceFormatted: r.DistanceFormatted(),
	}
}

func shopToResponse(s *domshop.Shop) ShopResponse {
	p := s.Profile()
	return ShopResponse{
		ID:          s.ID(),
		OwnerID:     s.OwnerID(),
		ShopName:    p.Name,
		FullName:    p.FullName,
		Address:     p.Address,
		Contact:     p.Contact,
		Description: p.Description,
		Note:        p.Note,
		Category:    p.Category,
		City:        p.City,
		Location:    locationFromGeo(p.Location),
		IsOpen:      s.IsOpen(),
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}
}

func (req *CreateShopRequest) toProfile() domshop.Profile {
	return domshop.Profile{
		Name:        req.ShopName,
		FullName:    req.FullName,
		Address:     req.Address,
		Contact:     req.Contact,
		Description: req.Description,
		Note:        req.Note,
		Category:    req.Category,
		City:        req.City,
		Location:    req.Location.toGeo(),
	}
}

func (req *PatchShopRequest) toPatch() domshop.Patch {
	return domshop.Patch{
		Name:        req.ShopName,
		FullName:    req.FullName,
		Address:     req.Address,
		Contact:     req.Contact,
		Description: req.Description,
		Note:        req.Note,
		Category:    req.Category,
		City:        req.City,
		Location:    req.Location.toGeo(),
	}
}

func categoriesToResponse(cats []shopuc.CategoryCount) CategoryListResponse {
	items := make([]CategoryResponse, len(cats))
	for i, c := range cats {
		items[i] = CategoryResponse{ID: c.ID, Label: c.Label, Count: c.Count}
	}
	return CategoryListResponse{Items: items}
}

func itemToResponse(it *domitem.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID(),
		ShopID:      it.ShopID(),
		ItemName:    it.Name(),
		Price:       it.Price(),
		Description: it.Description(),
		Note:        it.Note(),
		CreatedAt:   it.CreatedAt(),
		UpdatedAt:   it.UpdatedAt(),
	}
}

func inventoryToResponse(r *dominv.Record) InventoryResponse {
	t := r.Thresholds()
	return InventoryResponse{
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
