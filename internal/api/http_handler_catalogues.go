package api

import (
	"net/http"
	"strings"

	"partner-catalog-service/internal/domain"
	"partner-catalog-service/internal/media"
)

// --- Catalogue Handlers ---

var catalogueWrite = writeSpec{
	fields: map[string]fieldKind{
		"produit_fournisseur": intField,
		"nom":                 textField,
		"actif":               boolField,
		"ordre":               intField,
	},
	required: []string{"produit_fournisseur"},
	uploads:  []uploadField{{name: "fichier_pdf", dir: media.DirCataloguePDFs}},
}

// CatalogueInput is the writable part of a catalogue. FichierPDF holds the
// media key of the uploaded file, which keeps the uploaded extension.
type CatalogueInput struct {
	ProduitFournisseurID int64   `json:"produit_fournisseur" validate:"required,gt=0"`
	Nom                  *string `json:"nom" validate:"omitempty,max=200"`
	FichierPDF           string  `json:"fichier_pdf" validate:"required,max=255,pdf_file"`
	Actif                bool    `json:"actif"`
	Ordre                int     `json:"ordre"`
}

func catalogueInputFrom(c *domain.Catalogue) CatalogueInput {
	return CatalogueInput{
		ProduitFournisseurID: c.ProduitFournisseurID,
		Nom:                  c.Nom,
		FichierPDF:           c.FichierPDF,
		Actif:                c.Actif,
		Ordre:                c.Ordre,
	}
}

// normalize trims the name; a blank name is stored as NULL.
func (in *CatalogueInput) normalize() {
	if in.Nom == nil {
		return
	}
	nom := strings.TrimSpace(*in.Nom)
	if nom == "" {
		in.Nom = nil
		return
	}
	in.Nom = &nom
}

func (in *CatalogueInput) setAsset(field, key string) {
	if field == "fichier_pdf" {
		in.FichierPDF = key
	}
}

func (in *CatalogueInput) catalogue(id int64) *domain.Catalogue {
	return &domain.Catalogue{
		ID:                   id,
		ProduitFournisseurID: in.ProduitFournisseurID,
		Nom:                  in.Nom,
		FichierPDF:           in.FichierPDF,
		Actif:                in.Actif,
		Ordre:                in.Ordre,
	}
}

func (h *HTTPHandler) ListCatalogues(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := h.pageRequest(q)
	serveList(w, r, p, listParams(q, p), "list catalogues", h.stores.Catalogues.ListCatalogues, h.serializerFor(r).catalogue)
}

func (h *HTTPHandler) ListActiveCatalogues(w http.ResponseWriter, r *http.Request) {
	p := h.pageRequest(r.URL.Query())
	serveList(w, r, p, statusParams(true, p), "list catalogues", h.stores.Catalogues.ListCatalogues, h.serializerFor(r).catalogue)
}

func (h *HTTPHandler) ListInactiveCatalogues(w http.ResponseWriter, r *http.Request) {
	p := h.pageRequest(r.URL.Query())
	serveList(w, r, p, statusParams(false, p), "list catalogues", h.stores.Catalogues.ListCatalogues, h.serializerFor(r).catalogue)
}

func (h *HTTPHandler) GetCatalogue(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "catalogue")
	if !ok {
		return
	}
	c, err := h.stores.Catalogues.GetCatalogueByID(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, r, "get catalogue", err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.serializerFor(r).catalogue(*c))
}

func (h *HTTPHandler) CreateCatalogue(w http.ResponseWriter, r *http.Request) {
	const op = "create catalogue"
	input := CatalogueInput{Actif: true}
	ups, ok := h.bind(w, r, catalogueWrite, &input, op, true)
	if !ok {
		return
	}

	var created *domain.Catalogue
	if !h.persist(w, r, op, ups, func() (err error) {
		created, err = h.stores.Catalogues.CreateCatalogue(r.Context(), input.catalogue(0))
		return err
	}) {
		return
	}
	respondWithJSON(w, http.StatusCreated, h.serializerFor(r).catalogue(*created))
}

func (h *HTTPHandler) UpdateCatalogue(w http.ResponseWriter, r *http.Request) {
	const op = "update catalogue"
	id, ok := parseID(w, r, "catalogue")
	if !ok {
		return
	}
	existing, err := h.stores.Catalogues.GetCatalogueByID(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, r, op, err)
		return
	}

	input := catalogueInputFrom(existing)
	ups, ok := h.bind(w, r, catalogueWrite, &input, op, r.Method == http.MethodPut)
	if !ok {
		return
	}

	var updated *domain.Catalogue
	if !h.persist(w, r, op, ups, func() (err error) {
		updated, err = h.stores.Catalogues.UpdateCatalogue(r.Context(), input.catalogue(id))
		return err
	}) {
		return
	}
	respondWithJSON(w, http.StatusOK, h.serializerFor(r).catalogue(*updated))
}

func (h *HTTPHandler) DeleteCatalogue(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "catalogue")
	if !ok {
		return
	}
	if err := h.stores.Catalogues.DeleteCatalogue(r.Context(), id); err != nil {
		respondWithStoreError(w, r, "delete catalogue", err)
		return
	}
	respondWithJSON(w, http.StatusNoContent, nil)
}
