package api

import (
	"context"
	"net/http"
	"strings"

	"partner-catalog-service/internal/domain"
	"partner-catalog-service/internal/store"
)

// --- Family Handlers ---

var familyWrite = writeSpec{
	fields: map[string]fieldKind{
		"titre_fr":        textField,
		"titre_en":        textField,
		"titre_ar":        textField,
		"actif":           boolField,
		"ordre":           intField,
		"partenaires_ids": idListField,
	},
	required: []string{"titre_fr"},
}

// FamilyInput is the writable part of a family.
type FamilyInput struct {
	TitreFr        string  `json:"titre_fr" validate:"required,max=200"`
	TitreEn        string  `json:"titre_en" validate:"max=200"`
	TitreAr        string  `json:"titre_ar" validate:"max=200"`
	Actif          bool    `json:"actif"`
	Ordre          int     `json:"ordre"`
	PartenairesIDs []int64 `json:"partenaires_ids" validate:"omitempty,dive,gt=0"`
}

func familyInputFrom(f *domain.Family) FamilyInput {
	return FamilyInput{TitreFr: f.TitreFr, TitreEn: f.TitreEn, TitreAr: f.TitreAr, Actif: f.Actif, Ordre: f.Ordre}
}

func (in *FamilyInput) normalize() {
	in.TitreFr = strings.TrimSpace(in.TitreFr)
	in.TitreEn = strings.TrimSpace(in.TitreEn)
	in.TitreAr = strings.TrimSpace(in.TitreAr)
}

func (in *FamilyInput) setAsset(string, string) {}

func (in *FamilyInput) family(id int64) *domain.Family {
	return &domain.Family{
		ID:      id,
		TitreFr: in.TitreFr,
		TitreEn: in.TitreEn,
		TitreAr: in.TitreAr,
		Actif:   in.Actif,
		Ordre:   in.Ordre,
	}
}

func (h *HTTPHandler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := h.pageRequest(q)
	h.listFamilies(w, r, p, listParams(q, p))
}

func (h *HTTPHandler) ListActiveFamilies(w http.ResponseWriter, r *http.Request) {
	p := h.pageRequest(r.URL.Query())
	h.listFamilies(w, r, p, statusParams(true, p))
}

func (h *HTTPHandler) ListInactiveFamilies(w http.ResponseWriter, r *http.Request) {
	p := h.pageRequest(r.URL.Query())
	h.listFamilies(w, r, p, statusParams(false, p))
}

func (h *HTTPHandler) listFamilies(w http.ResponseWriter, r *http.Request, p pageRequest, params store.ListParams) {
	serveList(w, r, p, params, "list families",
		func(ctx context.Context, params store.ListParams) ([]domain.Family, int, error) {
			return h.stores.Families.ListFamilies(ctx, params, store.ActiveTree())
		},
		h.serializerFor(r).family)
}

func (h *HTTPHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "family")
	if !ok {
		return
	}
	family, err := h.stores.Families.GetFamilyByID(r.Context(), id, store.ActiveTree())
	if err != nil {
		respondWithStoreError(w, r, "get family", err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.serializerFor(r).family(*family))
}

func (h *HTTPHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	const op = "create family"
	input := FamilyInput{Actif: true}
	ups, ok := h.bind(w, r, familyWrite, &input, op, true)
	if !ok {
		return
	}

	var created *domain.Family
	if !h.persist(w, r, op, ups, func() (err error) {
		created, err = h.stores.Families.CreateFamily(r.Context(), input.family(0), input.PartenairesIDs)
		return err
	}) {
		return
	}
	respondWithJSON(w, http.StatusCreated, h.serializerFor(r).family(*created))
}

func (h *HTTPHandler) UpdateFamily(w http.ResponseWriter, r *http.Request) {
	const op = "update family"
	id, ok := parseID(w, r, "family")
	if !ok {
		return
	}
	existing, err := h.stores.Families.GetFamilyByID(r.Context(), id, store.RowOnly())
	if err != nil {
		respondWithStoreError(w, r, op, err)
		return
	}

	input := familyInputFrom(existing)
	ups, ok := h.bind(w, r, familyWrite, &input, op, r.Method == http.MethodPut)
	if !ok {
		return
	}

	var updated *domain.Family
	if !h.persist(w, r, op, ups, func() (err error) {
		updated, err = h.stores.Families.UpdateFamily(r.Context(), input.family(id), input.PartenairesIDs)
		return err
	}) {
		return
	}
	respondWithJSON(w, http.StatusOK, h.serializerFor(r).family(*updated))
}

func (h *HTTPHandler) DeleteFamily(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "family")
	if !ok {
		return
	}
	if err := h.stores.Families.DeleteFamily(r.Context(), id); err != nil {
		respondWithStoreError(w, r, "delete family", err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
