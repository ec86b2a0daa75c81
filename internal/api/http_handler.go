package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"partner-catalog-service/internal/domain"
	"partner-catalog-service/internal/logger"
	"partner-catalog-service/internal/media"
	"partner-catalog-service/internal/metrics"
	"partner-catalog-service/internal/store"
)

const maxPageSize = 100

// Stores groups the storers the handlers depend on. Tests may leave unused ones nil.
type Stores struct {
	Partners         store.PartnerStorer
	Families         store.FamilyStorer
	SubFamilies      store.SubFamilyStorer
	SupplierProducts store.SupplierProductStorer
	Catalogues       store.CatalogueStorer
	Products         store.ProductStorer
}

// StoresFrom uses one Storer for every resource.
func StoresFrom(s store.Storer) Stores {
	return Stores{
		Partners:         s,
		Families:         s,
		SubFamilies:      s,
		SupplierProducts: s,
		Catalogues:       s,
		Products:         s,
	}
}

// Options tunes an HTTPHandler.
type Options struct {
	PageSize       int   // default page size, capped at 100
	MaxUploadBytes int64 // multipart body limit
	Metrics        *metrics.Metrics
}

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	stores    Stores
	media     media.Storage
	auth      *Authorizer
	metrics   *metrics.Metrics
	validate  *validator.Validate
	pageSize  int
	maxUpload int64
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(stores Stores, storage media.Storage, auth *Authorizer, opts Options) *HTTPHandler {
	if opts.PageSize <= 0 {
		opts.PageSize = 20
	}
	if opts.PageSize > maxPageSize {
		opts.PageSize = maxPageSize
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	return &HTTPHandler{
		stores:    stores,
		media:     storage,
		auth:      auth,
		metrics:   opts.Metrics,
		validate:  newValidator(),
		pageSize:  opts.PageSize,
		maxUpload: opts.MaxUploadBytes,
	}
}

// --- Helpers ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	if payload == nil {
		w.WriteHeader(code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// respondWithStoreError answers with the status matching err's kind. Anything
// unrecognised is logged and answered with a generic 500. op reads like
// "create partner".
func respondWithStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		verr *domain.ValidationError
		rerr *domain.ReferenceError
		nerr *domain.NotFoundError
		perr *domain.PermissionError
	)
	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Fields: verr.Fields})
	case errors.As(err, &rerr):
		msg := "Invalid pk - object does not exist."
		if len(rerr.IDs) > 0 {
			msg = "Invalid pk(s) " + joinIDs(rerr.IDs) + " - object does not exist."
		}
		respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "Unknown reference",
			Fields: map[string][]string{rerr.Field: {msg}},
		})
	case errors.As(err, &nerr):
		respondWithError(w, http.StatusNotFound, nerr.Error())
	case errors.As(err, &perr):
		respondWithError(w, http.StatusForbidden, perr.Error())
	default:
		logger.WithCtx(r.Context()).Error("store operation failed", "op", op, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to "+op)
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

// parseID reads the {id} URL parameter.
func parseID(w http.ResponseWriter, r *http.Request, resource string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, "Invalid "+resource+" ID format")
		return 0, false
	}
	return id, true
}

// requestOrigin returns scheme://host of r, honouring X-Forwarded-Proto.
func requestOrigin(r *http.Request) string {
	if r.Host == "" {
		return ""
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// truthy reports whether a query value means true. Accepted: true, 1, yes.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// --- Pagination ---

// Page is the list envelope: total count, neighbour page links and one page of results.
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type pageRequest struct {
	number int
	size   int
}

func (h *HTTPHandler) pageRequest(q url.Values) pageRequest {
	p := pageRequest{number: 1, size: h.pageSize}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		p.number = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && n > 0 {
		p.size = min(n, maxPageSize)
	}
	return p
}

func (p pageRequest) offset() int { return (p.number - 1) * p.size }

// listParams builds store parameters from the query string. The root-level
// actif filter applies only when the parameter is present.
func listParams(q url.Values, p pageRequest) store.ListParams {
	params := store.ListParams{
		Limit:    p.size,
		Offset:   p.offset(),
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
		Filters:  q,
	}
	if q.Has("actif") {
		active := truthy(q.Get("actif"))
		params.Active = &active
	}
	return params
}

// statusParams is used by the actifs/inactifs views: the flag is fixed and
// other filters, search and ordering are ignored.
func statusParams(active bool, p pageRequest) store.ListParams {
	return store.ListParams{Limit: p.size, Offset: p.offset(), Active: &active}
}

func newPage[T any](r *http.Request, p pageRequest, total int, results []T) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: total, Results: results}
	if p.offset()+len(results) < total {
		page.Next = pageLink(r, p.number+1)
	}
	if p.number > 1 {
		page.Previous = pageLink(r, p.number-1)
	}
	return page
}

func pageLink(r *http.Request, number int) *string {
	q := r.URL.Query()
	if number == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(number))
	}
	link := requestOrigin(r) + r.URL.Path
	if enc := q.Encode(); enc != "" {
		link += "?" + enc
	}
	return &link
}

// serveList runs list with params and writes a page of serialized results.
func serveList[E, R any](w http.ResponseWriter, r *http.Request, p pageRequest, params store.ListParams,
	op string, list func(ctx context.Context, params store.ListParams) ([]E, int, error), serialize func(E) R) {
	items, total, err := list(r.Context(), params)
	if err != nil {
		respondWithStoreError(w, r, op, err)
		return
	}
	if p.number > 1 && len(items) == 0 {
		respondWithError(w, http.StatusNotFound, "Invalid page.")
		return
	}
	results := make([]R, len(items))
	for i, item := range items {
		results[i] = serialize(item)
	}
	respondWithJSON(w, http.StatusOK, newPage(r, p, total, results))
}

// --- Bulk status ---

// BulkStatusInput is the body of POST /<resource>/bulk-status/.
type BulkStatusInput struct {
	IDs   []int64 `json:"ids" validate:"required,min=1,dive,gt=0"`
	Actif *bool   `json:"actif" validate:"required"`
}

// BulkStatusResponse reports how many rows were changed.
type BulkStatusResponse struct {
	Updated int64 `json:"updated"`
}

func (h *HTTPHandler) bulkStatus(resource string, set func(r *http.Request, ids []int64, actif bool) (int64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input BulkStatusInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
			return
		}
		defer r.Body.Close()

		if err := h.validateStruct(input); err != nil {
			respondWithStoreError(w, r, "update "+resource+" status", err)
			return
		}

		n, err := set(r, input.IDs, *input.Actif)
		if err != nil {
			respondWithStoreError(w, r, "update "+resource+" status", err)
			return
		}
		h.metrics.ObserveStatusChange(resource, *input.Actif, n)
		respondWithJSON(w, http.StatusOK, BulkStatusResponse{Updated: n})
	}
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service under /api.
// Trailing slashes are optional.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.StripSlashes)
		r.Use(h.auth.RequireStaff)

		r.Route("/partenaires", func(r chi.Router) {
			r.Get("/", h.ListPartners)
			r.Post("/", h.CreatePartner)
			r.Get("/actifs", h.ListActivePartners)
			r.Get("/inactifs", h.ListInactivePartners)
			r.Post("/bulk-status", h.bulkStatus(store.PartnerResource.Name, func(r *http.Request, ids []int64, actif bool) (int64, error) {
				return h.stores.Partners.SetPartnersActive(r.Context(), ids, actif)
			}))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetPartner)
				r.Put("/", h.UpdatePartner)
				r.Patch("/", h.UpdatePartner)
				r.Delete("/", h.DeletePartner)
			})
		})

		r.Route("/familles", func(r chi.Router) {
			r.Get("/", h.ListFamilies)
			r.Post("/", h.CreateFamily)
			r.Get("/actifs", h.ListActiveFamilies)
			r.Get("/inactifs", h.ListInactiveFamilies)
			r.Post("/bulk-status", h.bulkStatus(store.FamilyResource.Name, func(r *http.Request, ids []int64, actif bool) (int64, error) {
				return h.stores.Families.SetFamiliesActive(r.Context(), ids, actif)
			}))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetFamily)
				r.Put("/", h.UpdateFamily)
				r.Patch("/", h.UpdateFamily)
				r.Delete("/", h.DeleteFamily)
			})
		})

		r.Route("/sous-familles", func(r chi.Router) {
			r.Get("/", h.ListSubFamilies)
			r.Post("/", h.CreateSubFamily)
			r.Get("/actifs", h.ListActiveSubFamilies)
			r.Get("/inactifs", h.ListInactiveSubFamilies)
			r.Post("/bulk-status", h.bulkStatus(store.SubFamilyResource.Name, func(r *http.Request, ids []int64, actif bool) (int64, error) {
				return h.stores.SubFamilies.SetSubFamiliesActive(r.Context(), ids, actif)
			}))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSubFamily)
				r.Put("/", h.UpdateSubFamily)
				r.Patch("/", h.UpdateSubFamily)
				r.Delete("/", h.DeleteSubFamily)
			})
		})

		r.Route("/produits-fournisseur", func(r chi.Router) {
			r.Get("/", h.ListSupplierProducts)
			r.Post("/", h.CreateSupplierProduct)
			r.Get("/actifs", h.ListActiveSupplierProducts)
			r.Get("/inactifs", h.ListInactiveSupplierProducts)
			r.Post("/bulk-status", h.bulkStatus(store.SupplierProductResource.Name, func(r *http.Request, ids []int64, actif bool) (int64, error) {
				return h.stores.SupplierProducts.SetSupplierProductsActive(r.Context(), ids, actif)
			}))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetSupplierProduct)
				r.Put("/", h.UpdateSupplierProduct)
				r.Patch("/", h.UpdateSupplierProduct)
				r.Delete("/", h.DeleteSupplierProduct)
			})
		})

		r.Route("/catalogues", func(r chi.Router) {
			r.Get("/", h.ListCatalogues)
			r.Post("/", h.CreateCatalogue)
			r.Get("/actifs", h.ListActiveCatalogues)
			r.Get("/inactifs", h.ListInactiveCatalogues)
			r.Post("/bulk-status", h.bulkStatus(store.CatalogueResource.Name, func(r *http.Request, ids []int64, actif bool) (int64, error) {
				return h.stores.Catalogues.SetCataloguesActive(r.Context(), ids, actif)
			}))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetCatalogue)
				r.Put("/", h.UpdateCatalogue)
				r.Patch("/", h.UpdateCatalogue)
				r.Delete("/", h.DeleteCatalogue)
			})
		})

		r.Route("/produits", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/actifs", h.ListActiveProducts)
			r.Get("/inactifs", h.ListInactiveProducts)
			r.Post("/bulk-status", h.bulkStatus(store.ProductResource.Name, func(r *http.Request, ids []int64, actif bool) (int64, error) {
				return h.stores.Products.SetProductsActive(r.Context(), ids, actif)
			}))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetProduct)
				r.Put("/", h.UpdateProduct)
				r.Patch("/", h.UpdateProduct)
				r.Delete("/", h.DeleteProduct)
			})
		})
	})
}
