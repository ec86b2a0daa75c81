package domain

import (
	"fmt"
	"time"
)

// Partner is a supplier brand showcased on the site.
// Familles is filled by the store's tree assembler and is never written through the partner row.
type Partner struct {
	ID               int64     `json:"id"`
	Nom              string    `json:"nom"`
	Logo             *string   `json:"logo"` // media key, nil when no logo was uploaded
	URLSiteWeb       string    `json:"url_site_web"`
	Actif            bool      `json:"actif"`
	DateCreation     time.Time `json:"date_creation"`
	DateModification time.Time `json:"date_modification"`

	Familles []Family `json:"-"`
}

// Family groups sub-families of products and equipment.
type Family struct {
	ID               int64     `json:"id"`
	TitreFr          string    `json:"titre_fr"`
	TitreEn          string    `json:"titre_en"`
	TitreAr          string    `json:"titre_ar"`
	Actif            bool      `json:"actif"`
	Ordre            int       `json:"ordre"`
	DateCreation     time.Time `json:"date_creation"`
	DateModification time.Time `json:"date_modification"`

	SousFamilles []SubFamily `json:"-"`
}

// SubFamily belongs to exactly one Family.
type SubFamily struct {
	ID               int64     `json:"id"`
	FamilleID        int64     `json:"famille_id"`
	PartenaireID     *int64    `json:"partenaire_id"` // first partner of the parent family, by name
	TitreFr          string    `json:"titre_fr"`
	TitreEn          string    `json:"titre_en"`
	TitreAr          string    `json:"titre_ar"`
	Actif            bool      `json:"actif"`
	Ordre            int       `json:"ordre"`
	DateCreation     time.Time `json:"date_creation"`
	DateModification time.Time `json:"date_modification"`

	ProduitsFournisseur []SupplierProduct `json:"-"`
}

// SupplierProduct belongs to exactly one SubFamily.
type SupplierProduct struct {
	ID               int64     `json:"id"`
	SousFamilleID    int64     `json:"sous_famille_id"`
	Nom              string    `json:"nom"`
	Image            *string   `json:"image"`
	Actif            bool      `json:"actif"`
	Ordre            int       `json:"ordre"`
	DateCreation     time.Time `json:"date_creation"`
	DateModification time.Time `json:"date_modification"`

	Catalogues []Catalogue `json:"-"`
}

// Catalogue is a PDF attached to a SupplierProduct.
type Catalogue struct {
	ID                   int64     `json:"id"`
	ProduitFournisseurID int64     `json:"produit_fournisseur_id"`
	Nom                  *string   `json:"nom"`
	FichierPDF           string    `json:"fichier_pdf"`
	Actif                bool      `json:"actif"`
	Ordre                int       `json:"ordre"`
	DateCreation         time.Time `json:"date_creation"`
	DateModification     time.Time `json:"date_modification"`
}

// DisplayName returns the catalogue name, or "Catalogue {id}" when none was given.
func (c Catalogue) DisplayName() string {
	if c.Nom != nil && *c.Nom != "" {
		return *c.Nom
	}
	return fmt.Sprintf("Catalogue %d", c.ID)
}

// Product is a product or piece of equipment listed independently of the partner hierarchy.
type Product struct {
	ID               int64     `json:"id"`
	TitreFr          string    `json:"titre_fr"`
	TitreEn          string    `json:"titre_en"`
	TitreAr          string    `json:"titre_ar"`
	ImageCouverture  *string   `json:"image_couverture"`
	DescriptionFr    string    `json:"description_fr"`
	DescriptionEn    string    `json:"description_en"`
	DescriptionAr    string    `json:"description_ar"`
	Actif            bool      `json:"actif"`
	Ordre            int       `json:"ordre"`
	DateCreation     time.Time `json:"date_creation"`
	DateModification time.Time `json:"date_modification"`

	// Active partners only; their families are not loaded.
	Partenaires []Partner `json:"-"`
}
