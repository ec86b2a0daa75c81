package store

import (
	"context"

	"partner-catalog-service/internal/domain"
)

// Association id slices passed to Create/Update follow one rule: nil leaves
// the current links as they are, non-nil (even empty) replaces them.

// PartnerStorer defines the database operations for partners.
type PartnerStorer interface {
	ListPartners(ctx context.Context, params ListParams, plan TreePlan) ([]domain.Partner, int, error) // Returns partners and total count
	GetPartnerByID(ctx context.Context, id int64, plan TreePlan) (*domain.Partner, error)
	CreatePartner(ctx context.Context, partner *domain.Partner, familyIDs []int64) (*domain.Partner, error)
	UpdatePartner(ctx context.Context, partner *domain.Partner, familyIDs []int64) (*domain.Partner, error)
	DeletePartner(ctx context.Context, id int64) error
	SetPartnersActive(ctx context.Context, ids []int64, actif bool) (int64, error)
}

// FamilyStorer defines the database operations for families.
type FamilyStorer interface {
	ListFamilies(ctx context.Context, params ListParams, plan TreePlan) ([]domain.Family, int, error)
	GetFamilyByID(ctx context.Context, id int64, plan TreePlan) (*domain.Family, error)
	CreateFamily(ctx context.Context, family *domain.Family, partnerIDs []int64) (*domain.Family, error)
	UpdateFamily(ctx context.Context, family *domain.Family, partnerIDs []int64) (*domain.Family, error)
	DeleteFamily(ctx context.Context, id int64) error
	SetFamiliesActive(ctx context.Context, ids []int64, actif bool) (int64, error)
}

// SubFamilyStorer defines the database operations for sub-families.
type SubFamilyStorer interface {
	ListSubFamilies(ctx context.Context, params ListParams, plan TreePlan) ([]domain.SubFamily, int, error)
	GetSubFamilyByID(ctx context.Context, id int64, plan TreePlan) (*domain.SubFamily, error)
	CreateSubFamily(ctx context.Context, sub *domain.SubFamily) (*domain.SubFamily, error)
	UpdateSubFamily(ctx context.Context, sub *domain.SubFamily) (*domain.SubFamily, error)
	DeleteSubFamily(ctx context.Context, id int64) error
	SetSubFamiliesActive(ctx context.Context, ids []int64, actif bool) (int64, error)
}

// SupplierProductStorer defines the database operations for supplier products.
type SupplierProductStorer interface {
	ListSupplierProducts(ctx context.Context, params ListParams, plan TreePlan) ([]domain.SupplierProduct, int, error)
	GetSupplierProductByID(ctx context.Context, id int64, plan TreePlan) (*domain.SupplierProduct, error)
	CreateSupplierProduct(ctx context.Context, product *domain.SupplierProduct) (*domain.SupplierProduct, error)
	UpdateSupplierProduct(ctx context.Context, product *domain.SupplierProduct) (*domain.SupplierProduct, error)
	DeleteSupplierProduct(ctx context.Context, id int64) error
	SetSupplierProductsActive(ctx context.Context, ids []int64, actif bool) (int64, error)
}

// CatalogueStorer defines the database operations for catalogues.
type CatalogueStorer interface {
	ListCatalogues(ctx context.Context, params ListParams) ([]domain.Catalogue, int, error)
	GetCatalogueByID(ctx context.Context, id int64) (*domain.Catalogue, error)
	CreateCatalogue(ctx context.Context, catalogue *domain.Catalogue) (*domain.Catalogue, error)
	UpdateCatalogue(ctx context.Context, catalogue *domain.Catalogue) (*domain.Catalogue, error)
	DeleteCatalogue(ctx context.Context, id int64) error
	SetCataloguesActive(ctx context.Context, ids []int64, actif bool) (int64, error)
}

// ProductStorer defines the database operations for products.
type ProductStorer interface {
	ListProducts(ctx context.Context, params ListParams, plan TreePlan) ([]domain.Product, int, error)
	GetProductByID(ctx context.Context, id int64, plan TreePlan) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product, partnerIDs []int64) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product, partnerIDs []int64) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	SetProductsActive(ctx context.Context, ids []int64, actif bool) (int64, error)
}

// Storer is the full catalog persistence surface.
type Storer interface {
	PartnerStorer
	FamilyStorer
	SubFamilyStorer
	SupplierProductStorer
	CatalogueStorer
	ProductStorer
	Ping(ctx context.Context) error
}

var _ Storer = (*PostgresStore)(nil)
