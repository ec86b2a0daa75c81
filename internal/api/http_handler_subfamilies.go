package api

import (
	"context"
	"net/http"
	"strings"

	"partner-catalog-service/internal/domain"
	"partner-catalog-service/internal/store"
)

// --- SubFamily Handlers ---

var subFamilyWrite = writeSpec{
	fields: map[string]fieldKind{
		"famille":  intField,
		"titre_fr": textField,
		"titre_en": textField,
		"titre_ar": textField,
		"actif":    boolField,
		"ordre":    intField,
	},
	required: []string{"famille", "titre_fr"},
}

// SubFamilyInput is the writable part of a sub-family. The parent is written
// as "famille" and read back as "famille_id".
type SubFamilyInput struct {
	FamilleID int64  `json:"famille" validate:"required,gt=0"`
	TitreFr   string `json:"titre_fr" validate:"required,max=200"`
	TitreEn   string `json:"titre_en" validate:"max=200"`
	TitreAr   string `json:"titre_ar" validate:"max=200"`
	Actif     bool   `json:"actif"`
	Ordre     int    `json:"ordre"`
}

func subFamilyInputFrom(sf *domain.SubFamily) SubFamilyInput {
	return SubFamilyInput{
		FamilleID: sf.FamilleID,
		TitreFr:   sf.TitreFr,
		TitreEn:   sf.TitreEn,
		TitreAr:   sf.TitreAr,
		Actif:     sf.Actif,
		Ordre:     sf.Ordre,
	}
}

func (in *SubFamilyInput) normalize() {
	in.TitreFr = strings.TrimSpace(in.TitreFr)
	in.TitreEn = strings.TrimSpace(in.TitreEn)
	in.TitreAr = strings.TrimSpace(in.TitreAr)
}

func (in *SubFamilyInput) setAsset(string, string) {}

func (in *SubFamilyInput) subFamily(id int64) *domain.SubFamily {
	return &domain.SubFamily{
		ID:        id,
		FamilleID: in.FamilleID,
		TitreFr:   in.TitreFr,
		TitreEn:   in.TitreEn,
		TitreAr:   in.TitreAr,
		Actif:     in.Actif,
		Ordre:     in.Ordre,
	}
}

func (h *HTTPHandler) ListSubFamilies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := h.pageRequest(q)
	h.listSubFamilies(w, r, p, listParams(q, p))
}

func (h *HTTPHandler) ListActiveSubFamilies(w http.ResponseWriter, r *http.Request) {
	p := h.pageRequest(r.URL.Query())
	h.listSubFamilies(w, r, p, statusParams(true, p))
}

func (h *HTTPHandler) ListInactiveSubFamilies(w http.ResponseWriter, r *http.Request) {
	p := h.pageRequest(r.URL.Query())
	h.listSubFamilies(w, r, p, statusParams(false, p))
}

func (h *HTTPHandler) listSubFamilies(w http.ResponseWriter, r *http.Request, p pageRequest, params store.ListParams) {
	serveList(w, r, p, params, "list sub-families",
		func(ctx context.Context, params store.ListParams) ([]domain.SubFamily, int, error) {
			return h.stores.SubFamilies.ListSubFamilies(ctx, params, store.ActiveTree())
		},
		h.serializerFor(r).subFamily)
}

func (h *HTTPHandler) GetSubFamily(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "sub-family")
	if !ok {
		return
	}
	sub, err := h.stores.SubFamilies.GetSubFamilyByID(r.Context(), id, store.ActiveTree())
	if err != nil {
		respondWithStoreError(w, r, "get sub-family", err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.serializerFor(r).subFamily(*sub))
}

func (h *HTTPHandler) CreateSubFamily(w http.ResponseWriter, r *http.Request) {
	const op = "create sub-family"
	input := SubFamilyInput{Actif: true}
	ups, ok := h.bind(w, r, subFamilyWrite, &input, op, true)
	if !ok {
		return
	}

	var created *domain.SubFamily
	if !h.persist(w, r, op, ups, func() (err error) {
		created, err = h.stores.SubFamilies.CreateSubFamily(r.Context(), input.subFamily(0))
		return err
	}) {
		return
	}
	respondWithJSON(w, http.StatusCreated, h.serializerFor(r).subFamily(*created))
}

func (h *HTTPHandler) UpdateSubFamily(w http.ResponseWriter, r *http.Request) {
	const op = "update sub-family"
	id, ok := parseID(w, r, "sub-family")
	if !ok {
		return
	}
	existing, err := h.stores.SubFamilies.GetSubFamilyByID(r.Context(), id, store.RowOnly())
	if err != nil {
		respondWithStoreError(w, r, op, err)
		return
	}

	input := subFamilyInputFrom(existing)
	ups, ok := h.bind(w, r, subFamilyWrite, &input, op, r.Method == http.MethodPut)
	if !ok {
		return
	}

	var updated *domain.SubFamily
	if !h.persist(w, r, op, ups, func() (err error) {
		updated, err = h.stores.SubFamilies.UpdateSubFamily(r.Context(), input.subFamily(id))
		return err
	}) {
		return
	}
	respondWithJSON(w, http.StatusOK, h.serializerFor(r).subFamily(*updated))
}

func (h *HTTPHandler) DeleteSubFamily(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "sub-family")
	if !ok {
		return
	}
	if err := h.stores.SubFamilies.DeleteSubFamily(r.Context(), id); err != nil {
		respondWithStoreError(w, r, "delete sub-family", err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
