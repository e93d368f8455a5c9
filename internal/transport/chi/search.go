package chi

import (
	"net/http"

	"github.com/kailas-cloud/nearby/internal/domain/geo"
	"github.com/kailas-cloud/nearby/internal/domain/search/request"
)

// SearchNearby handles GET /api/v1/search/nearby.
func (s *Server) SearchNearby(w http.ResponseWriter, r *http.Request) {
	p, err := bindSearchNearby(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	req, err := request.New(
		derefString(p.Q),
		geo.Point{Lat: derefCoord(p.Lat), Lon: derefCoord(p.Lon)},
		derefFloat(p.RadiusKm, s.defaults.RadiusKm),
		derefInt(p.Limit, 0),
	)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	results, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = searchResultToResponse(&results[i])
	}
	writeJSON(w, http.StatusOK, SearchResponse{Items: items, Total: len(items)})
}

// SearchSuggestions handles GET /api/v1/search/suggestions.
func (s *Server) SearchSuggestions(w http.ResponseWriter, r *http.Request) {
	p := bindSuggest(r)

	req, err := request.NewSuggest(
		geo.Point{Lat: derefCoord(p.Lat), Lon: derefCoord(p.Lon)},
		derefFloat(p.RadiusKm, s.defaults.SuggestRadiusKm),
		derefInt(p.Limit, s.defaults.SuggestLimit),
	)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	terms, err := s.search.Suggest(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if terms == nil {
		terms = []string{}
	}
	writeJSON(w, http.StatusOK, SuggestResponse{Items: terms})
}
