package api

import (
	"context"
	"net/http"
	"strings"

	"partner-catalog-service/internal/domain"
	"partner-catalog-service/internal/media"
	"partner-catalog-service/internal/store"
)

// --- Partner Handlers ---

var partnerWrite = writeSpec{
	fields: map[string]fieldKind{
		"nom":          textField,
		"url_site_web": textField,
		"actif":        boolField,
		"familles_ids": idListField,
	},
	required: []string{"nom", "url_site_web"},
	uploads:  []uploadField{{name: "logo", dir: media.DirPartnerLogos}},
}

// PartnerInput is the writable part of a partner. A nil FamillesIDs leaves
// the family links unchanged.
type PartnerInput struct {
	Nom         string  `json:"nom" validate:"required,max=200"`
	URLSiteWeb  string  `json:"url_site_web" validate:"required,max=500,http_url"`
	Logo        *string `json:"logo" validate:"omitempty,max=255"`
	Actif       bool    `json:"actif"`
	FamillesIDs []int64 `json:"familles_ids" validate:"omitempty,dive,gt=0"`
}

func partnerInputFrom(p *domain.Partner) PartnerInput {
	return PartnerInput{Nom: p.Nom, URLSiteWeb: p.URLSiteWeb, Logo: p.Logo, Actif: p.Actif}
}

func (in *PartnerInput) normalize() {
	in.Nom = strings.TrimSpace(in.Nom)
	in.URLSiteWeb = strings.TrimSpace(in.URLSiteWeb)
}

func (in *PartnerInput) setAsset(field, key string) {
	if field == "logo" {
		in.Logo = &key
	}
}

func (in *PartnerInput) partner(id int64) *domain.Partner {
	return &domain.Partner{ID: id, Nom: in.Nom, URLSiteWeb: in.URLSiteWeb, Logo: in.Logo, Actif: in.Actif}
}

func (h *HTTPHandler) ListPartners(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := h.pageRequest(q)
	h.listPartners(w, r, p, listParams(q, p))
}

func (h *HTTPHandler) ListActivePartners(w http.ResponseWriter, r *http.Request) {
	p := h.pageRequest(r.URL.Query())
	h.listPartners(w, r, p, statusParams(true, p))
}

func (h *HTTPHandler) ListInactivePartners(w http.ResponseWriter, r *http.Request) {
	p := h.pageRequest(r.URL.Query())
	h.listPartners(w, r, p, statusParams(false, p))
}

func (h *HTTPHandler) listPartners(w http.ResponseWriter, r *http.Request, p pageRequest, params store.ListParams) {
	serveList(w, r, p, params, "list partners",
		func(ctx context.Context, params store.ListParams) ([]domain.Partner, int, error) {
			return h.stores.Partners.ListPartners(ctx, params, store.ActiveTree())
		},
		h.serializerFor(r).partner)
}

func (h *HTTPHandler) GetPartner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "partner")
	if !ok {
		return
	}
	partner, err := h.stores.Partners.GetPartnerByID(r.Context(), id, store.ActiveTree())
	if err != nil {
		respondWithStoreError(w, r, "get partner", err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.serializerFor(r).partner(*partner))
}

func (h *HTTPHandler) CreatePartner(w http.ResponseWriter, r *http.Request) {
	const op = "create partner"
	input := PartnerInput{Actif: true}
	ups, ok := h.bind(w, r, partnerWrite, &input, op, true)
	if !ok {
		return
	}

	var created *domain.Partner
	if !h.persist(w, r, op, ups, func() (err error) {
		created, err = h.stores.Partners.CreatePartner(r.Context(), input.partner(0), input.FamillesIDs)
		return err
	}) {
		return
	}
	respondWithJSON(w, http.StatusCreated, h.serializerFor(r).partner(*created))
}

// UpdatePartner serves PUT and PATCH. Both start from the stored row; PUT
// additionally requires every required field in the body.
func (h *HTTPHandler) UpdatePartner(w http.ResponseWriter, r *http.Request) {
	const op = "update partner"
	id, ok := parseID(w, r, "partner")
	if !ok {
		return
	}
	existing, err := h.stores.Partners.GetPartnerByID(r.Context(), id, store.RowOnly())
	if err != nil {
		respondWithStoreError(w, r, op, err)
		return
	}

	input := partnerInputFrom(existing)
	ups, ok := h.bind(w, r, partnerWrite, &input, op, r.Method == http.MethodPut)
	if !ok {
		return
	}

	var updated *domain.Partner
	if !h.persist(w, r, op, ups, func() (err error) {
		updated, err = h.stores.Partners.UpdatePartner(r.Context(), input.partner(id), input.FamillesIDs)
		return err
	}) {
		return
	}
	respondWithJSON(w, http.StatusOK, h.serializerFor(r).partner(*updated))
}

func (h *HTTPHandler) DeletePartner(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "partner")
	if !ok {
		return
	}
	if err := h.stores.Partners.DeletePartner(r.Context(), id); err != nil {
		respondWithStoreError(w, r, "delete partner", err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
