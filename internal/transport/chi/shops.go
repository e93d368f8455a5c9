package chi

import (
	"net/http"

	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
	shopuc "github.com/kailas-cloud/nearby/internal/usecase/shop"
)

// ListShops handles GET /api/v1/shops.
func (s *Server) ListShops(w http.ResponseWriter, r *http.Request) {
	p, err := bindListShops(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	f := domshop.Filter{
		Category: derefString(p.Category),
		City:     derefString(p.City),
		OpenOnly: p.IsOpen != nil && *p.IsOpen,
		Limit:    derefInt(p.Limit, 0),
		Offset:   derefInt(p.Offset, 0),
	}

	shops, err := s.shops.List(r.Context(), f)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]ShopResponse, len(shops))
	for i := range shops {
		items[i] = shopToResponse(&shops[i])
	}
	limit := f.Limit
	if limit == 0 {
		limit = shopuc.DefaultPageSize
	}
	writeJSON(w, http.StatusOK, ShopListResponse{Items: items, Limit: limit, Offset: f.Offset})
}

// ListCategories handles GET /api/v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.shops.Categories(r.Context())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoriesToResponse(cats))
}

// GetShop handles GET /api/v1/shops/{shopID}.
func (s *Server) GetShop(w http.ResponseWriter, r *http.Request) {
	sh, err := s.shops.Get(r.Context(), shopIDParam(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shopToResponse(&sh))
}

// CreateShop handles POST /api/v1/shops.
func (s *Server) CreateShop(w http.ResponseWriter, r *http.Request) {
	var req CreateShopRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	sh, err := s.shops.Create(r.Context(), IdentityFromContext(r.Context()), req.toProfile())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/shops/"+sh.ID())
	writeJSON(w, http.StatusCreated, shopToResponse(&sh))
}

// GetMyShop handles GET /api/v1/shops/me.
func (s *Server) GetMyShop(w http.ResponseWriter, r *http.Request) {
	sh, err := s.shops.GetMine(r.Context(), IdentityFromContext(r.Context()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shopToResponse(&sh))
}

// PatchShop handles PATCH /api/v1/shops/{shopID}.
func (s *Server) PatchShop(w http.ResponseWriter, r *http.Request) {
	var req PatchShopRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	sh, err := s.shops.Patch(r.Context(), IdentityFromContext(r.Context()), shopIDParam(r), req.toPatch())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shopToResponse(&sh))
}

// SetShopOpen handles PUT /api/v1/shops/{shopID}/open.
func (s *Server) SetShopOpen(w http.ResponseWriter, r *http.Request) {
	var req SetOpenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if req.IsOpen == nil {
		s.handleDomainError(w, r, errMissing("is_open"))
		return
	}

	sh, err := s.shops.SetOpen(r.Context(), IdentityFromContext(r.Context()), shopIDParam(r), *req.IsOpen)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, shopToResponse(&sh))
}
