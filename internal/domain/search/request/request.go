package request

import (
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/geo"
)

// Search parameter limits and defaults.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength         = 256
	DefaultRadiusKm        = 5.0
	DefaultSuggestRadiusKm = 10.0
	DefaultSuggestLimit    = 10
)

// Request is a validated nearby search.
type Request struct {
	query    string
	origin   geo.Point
	radiusKm float64
	limit    int
}

// New validates search parameters before any index access: query, then origin, then radius.
// limit == 0 means no cap.
func New(query string, origin geo.Point, radiusKm float64, limit int) (Request, error) {
	q := normalizeQuery(query)
	if q == "" {
		return Request{}, domain.ErrEmptyQuery
	}
	if len(q) > MaxQueryLength {
		return Request{}, domain.NewValidationError("q", fmt.Sprintf("too long (max %d chars)", MaxQueryLength))
	}
	if err := validateArea(origin, radiusKm); err != nil {
		return Request{}, err
	}
	if limit < 0 {
		return Request{}, domain.NewValidationError("limit", "must be >= 0")
	}
	return Request{query: q, origin: origin, radiusKm: radiusKm, limit: limit}, nil
}

// Query returns the normalized query (trimmed, lowercase, single-spaced).
func (r *Request) Query() string { return r.query }

// Origin returns the search center.
func (r *Request) Origin() geo.Point { return r.origin }

// RadiusKm returns the search radius.
func (r *Request) RadiusKm() float64 { return r.radiusKm }

// Limit returns the page size; 0 means unlimited.
func (r *Request) Limit() int { return r.limit }

// Suggest is a validated suggestion request.
type Suggest struct {
	origin   geo.Point
	radiusKm float64
	limit    int
}

// NewSuggest validates suggestion parameters. limit must be positive.
func NewSuggest(origin geo.Point, radiusKm float64, limit int) (Suggest, error) {
	if err := validateArea(origin, radiusKm); err != nil {
		return Suggest{}, err
	}
	if limit <= 0 {
		return Suggest{}, domain.NewValidationError("limit", "must be > 0")
	}
	return Suggest{origin: origin, radiusKm: radiusKm, limit: limit}, nil
}

// Origin returns the suggestion center.
func (s *Suggest) Origin() geo.Point { return s.origin }

// RadiusKm returns the suggestion radius.
func (s *Suggest) RadiusKm() float64 { return s.radiusKm }

// Limit returns the maximum number of terms.
func (s *Suggest) Limit() int { return s.limit }

func validateArea(origin geo.Point, radiusKm float64) error {
	if !origin.Valid() {
		return fmt.Errorf("%w: lat=%v lon=%v", domain.ErrInvalidLocation, origin.Lat, origin.Lon)
	}
	if math.IsNaN(radiusKm) || math.IsInf(radiusKm, 0) || radiusKm <= 0 {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRadius, radiusKm)
	}
	return nil
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
