package api

import (
	"context"
	"net/http"
	"strings"

	"partner-catalog-service/internal/domain"
	"partner-catalog-service/internal/media"
	"partner-catalog-service/internal/store"
)

// --- SupplierProduct Handlers ---

var supplierProductWrite = writeSpec{
	fields: map[string]fieldKind{
		"sous_famille": intField,
		"nom":          textField,
		"actif":        boolField,
		"ordre":        intField,
	},
	required: []string{"sous_famille", "nom"},
	uploads:  []uploadField{{name: "image", dir: media.DirSupplierProductImages}},
}

type SupplierProductInput struct {
	SousFamilleID int64   `json:"sous_famille" validate:"required,gt=0"`
	Nom           string  `json:"nom" validate:"required,max=200"`
	Image         *string `json:"image" validate:"omitempty,max=255"`
	Actif         bool    `json:"actif"`
	Ordre         int     `json:"ordre"`
}

func supplierProductInputFrom(sp *domain.SupplierProduct) SupplierProductInput {
	return SupplierProductInput{
		SousFamilleID: sp.SousFamilleID,
		Nom:           sp.Nom,
		Image:         sp.Image,
		Actif:         sp.Actif,
		Ordre:         sp.Ordre,
	}
}

func (in *SupplierProductInput) normalize() {
	in.Nom = strings.TrimSpace(in.Nom)
}

func (in *SupplierProductInput) setAsset(field, key string) {
	if field == "image" {
		in.Image = &key
	}
}

func (in *SupplierProductInput) supplierProduct(id int64) *domain.SupplierProduct {
	return &domain.SupplierProduct{
		ID:            id,
		SousFamilleID: in.SousFamilleID,
		Nom:           in.Nom,
		Image:         in.Image,
		Actif:         in.Actif,
		Ordre:         in.Ordre,
	}
}

func (h *HTTPHandler) ListSupplierProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := h.pageRequest(q)
	h.listSupplierProducts(w, r, p, listParams(q, p))
}

func (h *HTTPHandler) ListActiveSupplierProducts(w http.ResponseWriter, r *http.Request) {
	p := h.pageRequest(r.URL.Query())
	h.listSupplierProducts(w, r, p, statusParams(true, p))
}

func (h *HTTPHandler) ListInactiveSupplierProducts(w http.ResponseWriter, r *http.Request) {
	p := h.pageRequest(r.URL.Query())
	h.listSupplierProducts(w, r, p, statusParams(false, p))
}

func (h *HTTPHandler) listSupplierProducts(w http.ResponseWriter, r *http.Request, p pageRequest, params store.ListParams) {
	serveList(w, r, p, params, "list supplier products",
		func(ctx context.Context, params store.ListParams) ([]domain.SupplierProduct, int, error) {
			return h.stores.SupplierProducts.ListSupplierProducts(ctx, params, store.ActiveTree())
		},
		h.serializerFor(r).supplierProduct)
}

func (h *HTTPHandler) GetSupplierProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "supplier product")
	if !ok {
		return
	}
	sp, err := h.stores.SupplierProducts.GetSupplierProductByID(r.Context(), id, store.ActiveTree())
	if err != nil {
		respondWithStoreError(w, r, "get supplier product", err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.serializerFor(r).supplierProduct(*sp))
}

func (h *HTTPHandler) CreateSupplierProduct(w http.ResponseWriter, r *http.Request) {
	const op = "create supplier product"
	input := SupplierProductInput{Actif: true}
	ups, ok := h.bind(w, r, supplierProductWrite, &input, op, true)
	if !ok {
		return
	}

	var created *domain.SupplierProduct
	if !h.persist(w, r, op, ups, func() (err error) {
		created, err = h.stores.SupplierProducts.CreateSupplierProduct(r.Context(), input.supplierProduct(0))
		return err
	}) {
		return
	}
	respondWithJSON(w, http.StatusCreated, h.serializerFor(r).supplierProduct(*created))
}

func (h *HTTPHandler) UpdateSupplierProduct(w http.ResponseWriter, r *http.Request) {
	const op = "update supplier product"
	id, ok := parseID(w, r, "supplier product")
	if !ok {
		return
	}
	existing, err := h.stores.SupplierProducts.GetSupplierProductByID(r.Context(), id, store.RowOnly())
	if err != nil {
		respondWithStoreError(w, r, op, err)
		return
	}

	input := supplierProductInputFrom(existing)
	ups, ok := h.bind(w, r, supplierProductWrite, &input, op, r.Method == http.MethodPut)
	if !ok {
		return
	}

	var updated *domain.SupplierProduct
	if !h.persist(w, r, op, ups, func() (err error) {
		updated, err = h.stores.SupplierProducts.UpdateSupplierProduct(r.Context(), input.supplierProduct(id))
		return err
	}) {
		return
	}
	respondWithJSON(w, http.StatusOK, h.serializerFor(r).supplierProduct(*updated))
}

func (h *HTTPHandler) DeleteSupplierProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "supplier product")
	if !ok {
		return
	}
	if err := h.stores.SupplierProducts.DeleteSupplierProduct(r.Context(), id); err != nil {
		respondWithStoreError(w, r, "delete supplier product", err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
