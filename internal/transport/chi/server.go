package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/nearby/internal/domain"
	"github.com/kailas-cloud/nearby/internal/domain/identity"
	dominv "github.com/kailas-cloud/nearby/internal/domain/inventory"
	domitem "github.com/kailas-cloud/nearby/internal/domain/item"
	"github.com/kailas-cloud/nearby/internal/domain/search/request"
	"github.com/kailas-cloud/nearby/internal/domain/search/result"
	domshop "github.com/kailas-cloud/nearby/internal/domain/shop"
	logpkg "github.com/kailas-cloud/nearby/internal/logger"
	healthuc "github.com/kailas-cloud/nearby/internal/usecase/health"
	indexeruc "github.com/kailas-cloud/nearby/internal/usecase/indexer"
	inventoryuc "github.com/kailas-cloud/nearby/internal/usecase/inventory"
	itemuc "github.com/kailas-cloud/nearby/internal/usecase/item"
	shopuc "github.com/kailas-cloud/nearby/internal/usecase/shop"
	"github.com/kailas-cloud/nearby/internal/version"
)

const maxBodyBytes = 1 << 20

// SearchService answers nearby searches and suggestions.
type SearchService interface {
	Search(ctx context.Context, req *request.Request) ([]result.Result, error)
	Suggest(ctx context.Context, req *request.Suggest) ([]string, error)
}

// ShopService manages shop profiles and listing.
type ShopService interface {
	Create(ctx context.Context, id identity.Identity, p domshop.Profile) (domshop.Shop, error)
	Get(ctx context.Context, shopID string) (domshop.Shop, error)
	GetMine(ctx context.Context, id identity.Identity) (domshop.Shop, error)
	Patch(ctx context.Context, id identity.Identity, shopID string, p domshop.Patch) (domshop.Shop, error)
	SetOpen(ctx context.Context, id identity.Identity, shopID string, open bool) (domshop.Shop, error)
	List(ctx context.Context, f domshop.Filter) ([]domshop.Shop, error)
	Categories(ctx context.Context) ([]shopuc.CategoryCount, error)
}

// ItemService manages shop items.
type ItemService interface {
	Create(ctx context.Context, id identity.Identity, shopID string, in itemuc.Input) (domitem.Item, error)
	Update(ctx context.Context, id identity.Identity, itemID string, p domitem.Patch) (domitem.Item, error)
	Get(ctx context.Context, itemID string) (domitem.Item, error)
	ListByShop(ctx context.Context, shopID string) ([]domitem.Item, error)
}

// InventoryService manages stock levels.
type InventoryService interface {
	Add(ctx context.Context, id identity.Identity, shopID string, in inventoryuc.AddInput) (dominv.Record, error)
	UpdateQuantity(
		ctx context.Context, id identity.Identity, inventoryID string, c dominv.Change, claimed *string,
	) (dominv.Record, error)
	SetThresholds(ctx context.Context, id identity.Identity, inventoryID string, t dominv.Thresholds) (dominv.Record, error)
	Get(ctx context.Context, inventoryID string) (dominv.Record, error)
	GetByItem(ctx context.Context, shopID, itemID string) (dominv.Record, error)
	ListByShop(ctx context.Context, shopID string) ([]dominv.Record, error)
}

// Reindexer rebuilds the search projection.
type Reindexer interface {
	Rebuild(ctx context.Context) (indexeruc.Stats, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// SearchDefaults fill in omitted search parameters.
type SearchDefaults struct {
	RadiusKm        float64
	SuggestRadiusKm float64
	SuggestLimit    int
}

// DefaultSearchDefaults returns the built-in search parameter defaults.
func DefaultSearchDefaults() SearchDefaults {
	return SearchDefaults{
		RadiusKm:        request.DefaultRadiusKm,
		SuggestRadiusKm: request.DefaultSuggestRadiusKm,
		SuggestLimit:    request.DefaultSuggestLimit,
	}
}

// Options configures routing.
type Options struct {
	JWTSecret   string
	APIKeys     []string
	RateLimiter *RateLimiter
	Search      SearchDefaults
}

// Server serves the public search API and the vendor API.
type Server struct {
	search        SearchService
	shops         ShopService
	items         ItemService
	inventory     InventoryService
	indexer       Reindexer
	health        HealthChecker
	logger        *zap.Logger
	defaults      SearchDefaults
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search SearchService,
	shops ShopService,
	items ItemService,
	inventory InventoryService,
	indexer Reindexer,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:    search,
		shops:     shops,
		items:     items,
		inventory: inventory,
		indexer:   indexer,
		health:    health,
		logger:    logger,
		defaults:  DefaultSearchDefaults(),
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuery, http.StatusBadRequest, ErrorCodeEmptyQuery),
		sentinelHandler(domain.ErrInvalidLocation, http.StatusBadRequest, ErrorCodeInvalidLocation),
		sentinelHandler(domain.ErrInvalidRadius, http.StatusBadRequest, ErrorCodeInvalidRadius),
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorCodeInvalidInput),
		sentinelHandler(domain.ErrInvalidQuantity, http.StatusUnprocessableEntity, ErrorCodeInvalidQuantity),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, ErrorCodeAlreadyExists),
		sentinelHandler(domain.ErrForbidden, http.StatusForbidden, ErrorCodeForbidden),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, ErrorCodeUnauthorized),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
	}
	return s
}

// Register mounts every route on r.
func (s *Server) Register(r chi.Router, opts Options) {
	if opts.Search != (SearchDefaults{}) {
		s.defaults = opts.Search
	}

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if opts.RateLimiter != nil {
				r.Use(opts.RateLimiter.Middleware())
			}
			r.Get("/search/nearby", s.SearchNearby)
			r.Get("/search/suggestions", s.SearchSuggestions)
			r.Get("/shops", s.ListShops)
			r.Get("/categories", s.ListCategories)
		})

		r.Get("/shops/{shopID}", s.GetShop)
		r.Get("/shops/{shopID}/items", s.ListItems)
		r.Get("/shops/{shopID}/inventory", s.ListInventory)
		r.Get("/shops/{shopID}/items/{itemID}/inventory", s.GetItemInventory)
		r.Get("/items/{itemID}", s.GetItem)
		r.Get("/inventory/{inventoryID}", s.GetInventory)

		r.Group(func(r chi.Router) {
			r.Use(IdentityMiddleware(opts.JWTSecret))
			r.Post("/shops", s.CreateShop)
			r.Get("/shops/me", s.GetMyShop)
			r.Patch("/shops/{shopID}", s.PatchShop)
			r.Put("/shops/{shopID}/open", s.SetShopOpen)
			r.Post("/shops/{shopID}/items", s.CreateItem)
			r.Patch("/items/{itemID}", s.PatchItem)
			r.Post("/shops/{shopID}/inventory", s.AddInventory)
			r.Patch("/inventory/{inventoryID}/quantity", s.UpdateQuantity)
			r.Put("/inventory/{inventoryID}/thresholds", s.SetThresholds)
		})

		r.Group(func(r chi.Router) {
			r.Use(APIKeyMiddleware(opts.APIKeys))
			r.Post("/admin/reindex", s.Reindex)
		})
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:  string(report.Status),
		Version: version.Get().Short(),
		Checks:  checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// Reindex handles POST /api/v1/admin/reindex.
func (s *Server) Reindex(w http.ResponseWriter, r *http.Request) {
	st, err := s.indexer.Rebuild(r.Context())
	resp := ReindexResponse{Indexed: st.Indexed, Removed: st.Removed, Skipped: st.Skipped}
	if err != nil {
		logpkg.FromContext(r.Context()).Error("reindex incomplete", zap.Error(err))
		resp.Error = "reindex incomplete"
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// decodeJSON strictly decodes a single JSON object; unknown fields are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("body", err.Error())
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.NewValidationError("body", "must contain a single JSON object")
	}
	return nil
}

// safeDomainMessage returns a client-safe message without exposing internals.
func safeDomainMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	sentinels := []error{
		domain.ErrEmptyQuery,
		domain.ErrInvalidLocation,
		domain.ErrInvalidRadius,
		domain.ErrInvalidInput,
		domain.ErrInvalidQuantity,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrForbidden,
		domain.ErrUnauthorized,
		domain.ErrRateLimited,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, safeDomainMessage(err))
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if h(w, err) {
			log.Debug("domain error", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}

func shopIDParam(r *http.Request) string { return chi.URLParam(r, "shopID") }

func errMissing(field string) error {
	return domain.NewValidationError(field, "is required")
}
