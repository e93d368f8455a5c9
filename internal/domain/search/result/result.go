package result

import "github.com/kailas-cloud/nearby/internal/domain/geo"

// Result is a single nearby-search hit.
type Result struct {
	shopID       string
	shopName     string
	address      string
	location     geo.Point
	score        float64
	matchedTerms []string
	distanceKm   float64
}

// New creates a search result.
func New(
	shopID, shopName, address string, location geo.Point,
	score float64, matchedTerms []string, distanceKm float64,
) Result {
	return Result{
		shopID: shopID, shopName: shopName, address: address, location: location,
		score: score, matchedTerms: matchedTerms, distanceKm: distanceKm,
	}
}

// ShopID returns the matched shop identifier.
func (r *Result) ShopID() string { return r.shopID }

// ShopName returns the shop display name.
func (r *Result) ShopName() string { return r.shopName }

// Address returns the shop address.
func (r *Result) Address() string { return r.address }

// Location returns the shop coordinates.
func (r *Result) Location() geo.Point { return r.location }

// Score returns the text relevance score.
func (r *Result) Score() float64 { return r.score }

// MatchedTerms returns the item terms (or shop name) that produced the score.
func (r *Result) MatchedTerms() []string { return r.matchedTerms }

// DistanceKm returns the distance from the search origin.
func (r *Result) DistanceKm() float64 { return r.distanceKm }

// DistanceFormatted returns the display form of DistanceKm.
func (r *Result) DistanceFormatted() string { return geo.Format(r.distanceKm) }
