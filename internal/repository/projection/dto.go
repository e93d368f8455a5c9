package projection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/projection"
)

// Hash field names of a projected shop.
const (
	fieldShopID    = "shop_id"
	fieldShopName  = "shop_name"
	fieldAddress   = "address"
	fieldLocation  = "location"
	fieldLat       = "lat"
	fieldLon       = "lon"
	fieldTerms     = "terms"
	fieldUpdatedAt = "updated_at"
)

// returnFields is every stored field, in FT.SEARCH RETURN order.
var returnFields = []string{
	fieldShopID, fieldShopName, fieldAddress, fieldLocation,
	fieldLat, fieldLon, fieldTerms, fieldUpdatedAt,
}

// entryToHash renders the full field set; a write never leaves stale fields behind.
func entryToHash(e projection.Entry) map[string]string {
	loc := e.Location()
	lat := strconv.FormatFloat(loc.Lat, 'f', -1, 64)
	lon := strconv.FormatFloat(loc.Lon, 'f', -1, 64)
	return map[string]string{
		fieldShopID:    e.ShopID(),
		fieldShopName:  e.ShopName(),
		fieldAddress:   e.Address(),
		fieldLocation:  lon + "," + lat,
		fieldLat:       lat,
		fieldLon:       lon,
		fieldTerms:     strings.Join(e.Terms(), projection.TermSeparator),
		fieldUpdatedAt: strconv.FormatInt(e.UpdatedAt(), 10),
	}
}

// entryFromHash hydrates an Entry from HGETALL or FT.SEARCH fields.
func entryFromHash(m map[string]string) (projection.Entry, error) {
	loc, ok := geo.ParseLonLat(m[fieldLocation])
	if !ok {
		return projection.Entry{}, fmt.Errorf("invalid location %q", m[fieldLocation])
	}

	var updatedAt int64
	if s := m[fieldUpdatedAt]; s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return projection.Entry{}, fmt.Errorf("invalid updated_at: %w", err)
		}
		updatedAt = v
	}

	var terms []string
	if s := m[fieldTerms]; s != "" {
		terms = strings.Split(s, projection.TermSeparator)
	}

	return projection.Reconstruct(m[fieldShopID], m[fieldShopName], m[fieldAddress], loc, terms, updatedAt), nil
}
