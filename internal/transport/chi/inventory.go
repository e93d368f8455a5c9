package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	dominv "github.com/kailas-cloud/nearby/internal/domain/inventory"
	domitem "github.com/kailas-cloud/nearby/internal/domain/item"
	inventoryuc "github.com/kailas-cloud/nearby/internal/usecase/inventory"
	itemuc "github.com/kailas-cloud/nearby/internal/usecase/item"
)

// ListItems handles GET /api/v1/shops/{shopID}/items.
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.ListByShop(r.Context(), shopIDParam(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = itemToResponse(&items[i])
	}
	writeJSON(w, http.StatusOK, ItemListResponse{Items: out})
}

// GetItem handles GET /api/v1/items/{itemID}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.items.Get(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(&it))
}

// CreateItem handles POST /api/v1/shops/{shopID}/items.
func (s *Server) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	it, err := s.items.Create(r.Context(), IdentityFromContext(r.Context()), shopIDParam(r), itemuc.Input{
		Name:        req.ItemName,
		Price:       req.Price,
		Description: req.Description,
		Note:        req.Note,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, itemToResponse(&it))
}

// PatchItem handles PATCH /api/v1/items/{itemID}.
func (s *Server) PatchItem(w http.ResponseWriter, r *http.Request) {
	var req PatchItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	it, err := s.items.Update(r.Context(), IdentityFromContext(r.Context()), chi.URLParam(r, "itemID"), domitem.Patch{
		Price:       req.Price,
		Description: req.Description,
		Note:        req.Note,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(&it))
}

// ListInventory handles GET /api/v1/shops/{shopID}/inventory.
func (s *Server) ListInventory(w http.ResponseWriter, r *http.Request) {
	recs, err := s.inventory.ListByShop(r.Context(), shopIDParam(r))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	out := make([]InventoryResponse, len(recs))
	for i := range recs {
		out[i] = inventoryToResponse(&recs[i])
	}
	writeJSON(w, http.StatusOK, InventoryListResponse{Items: out})
}

// GetInventory handles GET /api/v1/inventory/{inventoryID}.
func (s *Server) GetInventory(w http.ResponseWriter, r *http.Request) {
	rec, err := s.inventory.Get(r.Context(), chi.URLParam(r, "inventoryID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inventoryToResponse(&rec))
}

// GetItemInventory handles GET /api/v1/shops/{shopID}/items/{itemID}/inventory,
// the stock status of one item.
func (s *Server) GetItemInventory(w http.ResponseWriter, r *http.Request) {
	rec, err := s.inventory.GetByItem(r.Context(), shopIDParam(r), chi.URLParam(r, "itemID"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inventoryToResponse(&rec))
}

// AddInventory handles POST /api/v1/shops/{shopID}/inventory.
func (s *Server) AddInventory(w http.ResponseWriter, r *http.Request) {
	var req AddInventoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if req.ItemID == "" {
		s.handleDomainError(w, r, errMissing("item_id"))
		return
	}
	if req.Quantity == nil {
		s.handleDomainError(w, r, errMissing("quantity"))
		return
	}

	rec, err := s.inventory.Add(r.Context(), IdentityFromContext(r.Context()), shopIDParam(r), inventoryuc.AddInput{
		ItemID:     req.ItemID,
		Quantity:   *req.Quantity,
		Thresholds: dominv.Thresholds{Min: req.MinQuantity, Max: req.MaxQuantity},
		Status:     req.Status,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inventoryToResponse(&rec))
}

// UpdateQuantity handles PATCH /api/v1/inventory/{inventoryID}/quantity.
func (s *Server) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req UpdateQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	change, err := dominv.NewChange(req.Delta, req.Quantity)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	rec, err := s.inventory.UpdateQuantity(r.Context(), IdentityFromContext(r.Context()),
		chi.URLParam(r, "inventoryID"), change, req.Status)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inventoryToResponse(&rec))
}

// SetThresholds handles PUT /api/v1/inventory/{inventoryID}/thresholds.
func (s *Server) SetThresholds(w http.ResponseWriter, r *http.Request) {
	var req ThresholdsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	rec, err := s.inventory.SetThresholds(r.Context(), IdentityFromContext(r.Context()),
		chi.URLParam(r, "inventoryID"), dominv.Thresholds{Min: req.MinQuantity, Max: req.MaxQuantity})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, inventoryToResponse(&rec))
}
