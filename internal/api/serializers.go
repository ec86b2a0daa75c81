package api

import (
	"net/http"

	"partner-catalog-service/internal/domain"
	"partner-catalog-service/internal/media"
)

// Response DTOs embed the domain row and add the derived asset URLs and the
// nested children. Nested slices are always non-nil so they encode as [].

type PartnerResponse struct {
	domain.Partner
	LogoURL  *string          `json:"logo_url"`
	Familles []FamilyResponse `json:"familles"`
}

// PartnerRef is the flat partner nested under a product.
type PartnerRef struct {
	ID         int64   `json:"id"`
	Nom        string  `json:"nom"`
	Logo       *string `json:"logo"`
	LogoURL    *string `json:"logo_url"`
	URLSiteWeb string  `json:"url_site_web"`
}

type FamilyResponse struct {
	domain.Family
	SousFamilles []SubFamilyResponse `json:"sous_familles"`
}

type SubFamilyResponse struct {
	domain.SubFamily
	ProduitsFournisseur []SupplierProductResponse `json:"produits_fournisseur"`
}

type SupplierProductResponse struct {
	domain.SupplierProduct
	ImageURL   *string             `json:"image_url"`
	Catalogues []CatalogueResponse `json:"catalogues"`
}

type CatalogueResponse struct {
	domain.Catalogue
	NomAffichage  string `json:"nom_affichage"`
	FichierPDFURL string `json:"fichier_pdf_url"`
}

type ProductResponse struct {
	domain.Product
	ImageCouvertureURL *string      `json:"image_couverture_url"`
	Partenaires        []PartnerRef `json:"partenaires"`
}

// serializer resolves asset URLs against the origin of one request.
type serializer struct {
	storage media.Storage
	origin  string
}

func (h *HTTPHandler) serializerFor(r *http.Request) serializer {
	return serializer{storage: h.media, origin: requestOrigin(r)}
}

func (s serializer) url(key string) string {
	if s.storage == nil {
		return key
	}
	return media.Resolve(s.storage, s.origin, key)
}

func (s serializer) optionalURL(key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	u := s.url(*key)
	return &u
}

func (s serializer) partner(p domain.Partner) PartnerResponse {
	return PartnerResponse{
		Partner:  p,
		LogoURL:  s.optionalURL(p.Logo),
		Familles: serializeAll(p.Familles, s.family),
	}
}

func (s serializer) partnerRef(p domain.Partner) PartnerRef {
	return PartnerRef{
		ID:         p.ID,
		Nom:        p.Nom,
		Logo:       p.Logo,
		LogoURL:    s.optionalURL(p.Logo),
		URLSiteWeb: p.URLSiteWeb,
	}
}

func (s serializer) family(f domain.Family) FamilyResponse {
	return FamilyResponse{
		Family:       f,
		SousFamilles: serializeAll(f.SousFamilles, s.subFamily),
	}
}

func (s serializer) subFamily(sf domain.SubFamily) SubFamilyResponse {
	return SubFamilyResponse{
		SubFamily:           sf,
		ProduitsFournisseur: serializeAll(sf.ProduitsFournisseur, s.supplierProduct),
	}
}

func (s serializer) supplierProduct(sp domain.SupplierProduct) SupplierProductResponse {
	return SupplierProductResponse{
		SupplierProduct: sp,
		ImageURL:        s.optionalURL(sp.Image),
		Catalogues:      serializeAll(sp.Catalogues, s.catalogue),
	}
}

func (s serializer) catalogue(c domain.Catalogue) CatalogueResponse {
	return CatalogueResponse{
		Catalogue:     c,
		NomAffichage:  c.DisplayName(),
		FichierPDFURL: s.url(c.FichierPDF),
	}
}

func (s serializer) product(p domain.Product) ProductResponse {
	return ProductResponse{
		Product:            p,
		ImageCouvertureURL: s.optionalURL(p.ImageCouverture),
		Partenaires:        serializeAll(p.Partenaires, s.partnerRef),
	}
}

func serializeAll[E, R any](items []E, fn func(E) R) []R {
	out := make([]R, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
