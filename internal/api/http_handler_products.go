package api

import (
	"context"
	"net/http"
	"strings"

	"partner-catalog-service/internal/domain"
	"partner-catalog-service/internal/media"
	"partner-catalog-service/internal/store"
)

// --- Product Handlers ---

var productWrite = writeSpec{
	fields: map[string]fieldKind{
		"titre_fr":        textField,
		"titre_en":        textField,
		"titre_ar":        textField,
		"description_fr":  textField,
		"description_en":  textField,
		"description_ar":  textField,
		"actif":           boolField,
		"ordre":           intField,
		"partenaires_ids": idListField,
	},
	required: []string{"titre_fr", "description_fr"},
	uploads:  []uploadField{{name: "image_couverture", dir: media.DirProductCovers}},
}

// ProductInput is the writable part of a product.
type ProductInput struct {
	TitreFr         string  `json:"titre_fr" validate:"required,max=200"`
	TitreEn         string  `json:"titre_en" validate:"max=200"`
	TitreAr         string  `json:"titre_ar" validate:"max=200"`
	ImageCouverture *string `json:"image_couverture" validate:"omitempty,max=255"`
	DescriptionFr   string  `json:"description_fr" validate:"required"`
	DescriptionEn   string  `json:"description_en"`
	DescriptionAr   string  `json:"description_ar"`
	Actif           bool    `json:"actif"`
	Ordre           int     `json:"ordre"`
	PartenairesIDs  []int64 `json:"partenaires_ids" validate:"omitempty,dive,gt=0"`
}

func productInputFrom(p *domain.Product) ProductInput {
	return ProductInput{
		TitreFr:         p.TitreFr,
		TitreEn:         p.TitreEn,
		TitreAr:         p.TitreAr,
		ImageCouverture: p.ImageCouverture,
		DescriptionFr:   p.DescriptionFr,
		DescriptionEn:   p.DescriptionEn,
		DescriptionAr:   p.DescriptionAr,
		Actif:           p.Actif,
		Ordre:           p.Ordre,
	}
}

func (in *ProductInput) normalize() {
	in.TitreFr = strings.TrimSpace(in.TitreFr)
	in.TitreEn = strings.TrimSpace(in.TitreEn)
	in.TitreAr = strings.TrimSpace(in.TitreAr)
	in.DescriptionFr = strings.TrimSpace(in.DescriptionFr)
	in.DescriptionEn = strings.TrimSpace(in.DescriptionEn)
	in.DescriptionAr = strings.TrimSpace(in.DescriptionAr)
}

func (in *ProductInput) setAsset(field, key string) {
	if field == "image_couverture" {
		in.ImageCouverture = &key
	}
}

func (in *ProductInput) product(id int64) *domain.Product {
	return &domain.Product{
		ID:              id,
		TitreFr:         in.TitreFr,
		TitreEn:         in.TitreEn,
		TitreAr:         in.TitreAr,
		ImageCouverture: in.ImageCouverture,
		DescriptionFr:   in.DescriptionFr,
		DescriptionEn:   in.DescriptionEn,
		DescriptionAr:   in.DescriptionAr,
		Actif:           in.Actif,
		Ordre:           in.Ordre,
	}
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := h.pageRequest(q)
	h.listProducts(w, r, p, listParams(q, p))
}

func (h *HTTPHandler) ListActiveProducts(w http.ResponseWriter, r *http.Request) {
	p := h.pageRequest(r.URL.Query())
	h.listProducts(w, r, p, statusParams(true, p))
}

func (h *HTTPHandler) ListInactiveProducts(w http.ResponseWriter, r *http.Request) {
	p := h.pageRequest(r.URL.Query())
	h.listProducts(w, r, p, statusParams(false, p))
}

func (h *HTTPHandler) listProducts(w http.ResponseWriter, r *http.Request, p pageRequest, params store.ListParams) {
	serveList(w, r, p, params, "list products",
		func(ctx context.Context, params store.ListParams) ([]domain.Product, int, error) {
			return h.stores.Products.ListProducts(ctx, params, store.ActiveTree())
		},
		h.serializerFor(r).product)
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "product")
	if !ok {
		return
	}
	product, err := h.stores.Products.GetProductByID(r.Context(), id, store.ActiveTree())
	if err != nil {
		respondWithStoreError(w, r, "get product", err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.serializerFor(r).product(*product))
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "create product"
	input := ProductInput{Actif: true}
	ups, ok := h.bind(w, r, productWrite, &input, op, true)
	if !ok {
		return
	}

	var created *domain.Product
	if !h.persist(w, r, op, ups, func() (err error) {
		created, err = h.stores.Products.CreateProduct(r.Context(), input.product(0), input.PartenairesIDs)
		return err
	}) {
		return
	}
	respondWithJSON(w, http.StatusCreated, h.serializerFor(r).product(*created))
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "update product"
	id, ok := parseID(w, r, "product")
	if !ok {
		return
	}
	existing, err := h.stores.Products.GetProductByID(r.Context(), id, store.RowOnly())
	if err != nil {
		respondWithStoreError(w, r, op, err)
		return
	}

	input := productInputFrom(existing)
	ups, ok := h.bind(w, r, productWrite, &input, op, r.Method == http.MethodPut)
	if !ok {
		return
	}

	var updated *domain.Product
	if !h.persist(w, r, op, ups, func() (err error) {
		updated, err = h.stores.Products.UpdateProduct(r.Context(), input.product(id), input.PartenairesIDs)
		return err
	}) {
		return
	}
	respondWithJSON(w, http.StatusOK, h.serializerFor(r).product(*updated))
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "product")
	if !ok {
		return
	}
	if err := h.stores.Products.DeleteProduct(r.Context(), id); err != nil {
		respondWithStoreError(w, r, "delete product", err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
