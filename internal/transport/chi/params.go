package chi

import (
	"math"
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/nearby/internal/domain"
)

// SearchNearbyParams are the query parameters of GET /search/nearby.
type SearchNearbyParams struct {
	Q        *string
	Lat      *float64
	Lon      *float64
	RadiusKm *float64
	Limit    *int
}

// SuggestParams are the query parameters of GET /search/suggestions.
type SuggestParams struct {
	Lat      *float64
	Lon      *float64
	RadiusKm *float64
	Limit    *int
}

// ListShopsParams are the query parameters of GET /shops.
type ListShopsParams struct {
	Category *string
	City     *string
	IsOpen   *bool
	Limit    *int
	Offset   *int
}

// bindSearchNearby fails only when q cannot be bound. Malformed numbers
// become out-of-range sentinels so the request validator reports errors in
// its usual order.
func bindSearchNearby(r *http.Request) (SearchNearbyParams, error) {
	q := r.URL.Query()
	var p SearchNearbyParams
	if err := runtime.BindQueryParameter("form", true, false, "q", q, &p.Q); err != nil {
		return p, domain.NewValidationError("q", "must be given once")
	}
	p.Lat = bindFloat(r, "lat")
	p.Lon = bindFloat(r, "lon")
	p.RadiusKm = bindFloat(r, "radius_km")
	p.Limit = bindInt(r, "limit")
	return p, nil
}

func bindSuggest(r *http.Request) SuggestParams {
	return SuggestParams{
		Lat:      bindFloat(r, "lat"),
		Lon:      bindFloat(r, "lon"),
		RadiusKm: bindFloat(r, "radius_km"),
		Limit:    bindInt(r, "limit"),
	}
}

func bindListShops(r *http.Request) (ListShopsParams, error) {
	q := r.URL.Query()
	var p ListShopsParams
	if err := runtime.BindQueryParameter("form", true, false, "category", q, &p.Category); err != nil {
		return p, domain.NewValidationError("category", err.Error())
	}
	if err := runtime.BindQueryParameter("form", true, false, "city", q, &p.City); err != nil {
		return p, domain.NewValidationError("city", err.Error())
	}
	if err := runtime.BindQueryParameter("form", true, false, "is_open", q, &p.IsOpen); err != nil {
		return p, domain.NewValidationError("is_open", "must be a boolean")
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &p.Limit); err != nil {
		return p, domain.NewValidationError("limit", "must be an integer")
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", q, &p.Offset); err != nil {
		return p, domain.NewValidationError("offset", "must be an integer")
	}
	return p, nil
}

// bindFloat returns nil when absent and NaN when malformed.
func bindFloat(r *http.Request, name string) *float64 {
	var v *float64
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		nan := math.NaN()
		return &nan
	}
	return v
}

// bindInt returns nil when absent and -1 when malformed.
func bindInt(r *http.Request, name string) *int {
	var v *int
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), &v); err != nil {
		bad := -1
		return &bad
	}
	return v
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// derefCoord maps an absent coordinate to NaN, which fails location validation.
func derefCoord(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

func derefFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
