package api

import (
	"context"

	"github.com/stretchr/testify/mock"

	"partner-catalog-service/internal/domain"
	"partner-catalog-service/internal/store"
)

// Each mock returns either a fixed value or, when the expectation returns a
// function of the written entity, that function's result.

type MockPartnerStorer struct {
	mock.Mock
}

func (m *MockPartnerStorer) ListPartners(ctx context.Context, params store.ListParams, plan store.TreePlan) ([]domain.Partner, int, error) {
	args := m.Called(ctx, params, plan)
	var partners []domain.Partner
	if arg0 := args.Get(0); arg0 != nil {
		partners = arg0.([]domain.Partner)
	}
	return partners, args.Int(1), args.Error(2)
}

func (m *MockPartnerStorer) GetPartnerByID(ctx context.Context, id int64, plan store.TreePlan) (*domain.Partner, error) {
	args := m.Called(ctx, id, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Partner), args.Error(1)
}

func (m *MockPartnerStorer) CreatePartner(ctx context.Context, partner *domain.Partner, familyIDs []int64) (*domain.Partner, error) {
	args := m.Called(ctx, partner, familyIDs)
	return partnerResult(args.Get(0), partner), args.Error(1)
}

func (m *MockPartnerStorer) UpdatePartner(ctx context.Context, partner *domain.Partner, familyIDs []int64) (*domain.Partner, error) {
	args := m.Called(ctx, partner, familyIDs)
	return partnerResult(args.Get(0), partner), args.Error(1)
}

func (m *MockPartnerStorer) DeletePartner(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPartnerStorer) SetPartnersActive(ctx context.Context, ids []int64, actif bool) (int64, error) {
	args := m.Called(ctx, ids, actif)
	return args.Get(0).(int64), args.Error(1)
}

func partnerResult(ret any, in *domain.Partner) *domain.Partner {
	switch v := ret.(type) {
	case func(*domain.Partner) *domain.Partner:
		return v(in)
	case *domain.Partner:
		return v
	}
	return nil
}

type MockFamilyStorer struct {
	mock.Mock
}

func (m *MockFamilyStorer) ListFamilies(ctx context.Context, params store.ListParams, plan store.TreePlan) ([]domain.Family, int, error) {
	args := m.Called(ctx, params, plan)
	var families []domain.Family
	if arg0 := args.Get(0); arg0 != nil {
		families = arg0.([]domain.Family)
	}
	return families, args.Int(1), args.Error(2)
}

func (m *MockFamilyStorer) GetFamilyByID(ctx context.Context, id int64, plan store.TreePlan) (*domain.Family, error) {
	args := m.Called(ctx, id, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Family), args.Error(1)
}

func (m *MockFamilyStorer) CreateFamily(ctx context.Context, family *domain.Family, partnerIDs []int64) (*domain.Family, error) {
	args := m.Called(ctx, family, partnerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Family), args.Error(1)
}

func (m *MockFamilyStorer) UpdateFamily(ctx context.Context, family *domain.Family, partnerIDs []int64) (*domain.Family, error) {
	args := m.Called(ctx, family, partnerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Family), args.Error(1)
}

func (m *MockFamilyStorer) DeleteFamily(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockFamilyStorer) SetFamiliesActive(ctx context.Context, ids []int64, actif bool) (int64, error) {
	args := m.Called(ctx, ids, actif)
	return args.Get(0).(int64), args.Error(1)
}

type MockSubFamilyStorer struct {
	mock.Mock
}

func (m *MockSubFamilyStorer) ListSubFamilies(ctx context.Context, params store.ListParams, plan store.TreePlan) ([]domain.SubFamily, int, error) {
	args := m.Called(ctx, params, plan)
	var subs []domain.SubFamily
	if arg0 := args.Get(0); arg0 != nil {
		subs = arg0.([]domain.SubFamily)
	}
	return subs, args.Int(1), args.Error(2)
}

func (m *MockSubFamilyStorer) GetSubFamilyByID(ctx context.Context, id int64, plan store.TreePlan) (*domain.SubFamily, error) {
	args := m.Called(ctx, id, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubFamily), args.Error(1)
}

func (m *MockSubFamilyStorer) CreateSubFamily(ctx context.Context, sub *domain.SubFamily) (*domain.SubFamily, error) {
	args := m.Called(ctx, sub)
	return subFamilyResult(args.Get(0), sub), args.Error(1)
}

func (m *MockSubFamilyStorer) UpdateSubFamily(ctx context.Context, sub *domain.SubFamily) (*domain.SubFamily, error) {
	args := m.Called(ctx, sub)
	return subFamilyResult(args.Get(0), sub), args.Error(1)
}

func (m *MockSubFamilyStorer) DeleteSubFamily(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSubFamilyStorer) SetSubFamiliesActive(ctx context.Context, ids []int64, actif bool) (int64, error) {
	args := m.Called(ctx, ids, actif)
	return args.Get(0).(int64), args.Error(1)
}

func subFamilyResult(ret any, in *domain.SubFamily) *domain.SubFamily {
	switch v := ret.(type) {
	case func(*domain.SubFamily) *domain.SubFamily:
		return v(in)
	case *domain.SubFamily:
		return v
	}
	return nil
}

type MockSupplierProductStorer struct {
	mock.Mock
}

func (m *MockSupplierProductStorer) ListSupplierProducts(ctx context.Context, params store.ListParams, plan store.TreePlan) ([]domain.SupplierProduct, int, error) {
	args := m.Called(ctx, params, plan)
	var products []domain.SupplierProduct
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.SupplierProduct)
	}
	return products, args.Int(1), args.Error(2)
}

func (m *MockSupplierProductStorer) GetSupplierProductByID(ctx context.Context, id int64, plan store.TreePlan) (*domain.SupplierProduct, error) {
	args := m.Called(ctx, id, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SupplierProduct), args.Error(1)
}

func (m *MockSupplierProductStorer) CreateSupplierProduct(ctx context.Context, product *domain.SupplierProduct) (*domain.SupplierProduct, error) {
	args := m.Called(ctx, product)
	return supplierProductResult(args.Get(0), product), args.Error(1)
}

func (m *MockSupplierProductStorer) UpdateSupplierProduct(ctx context.Context, product *domain.SupplierProduct) (*domain.SupplierProduct, error) {
	args := m.Called(ctx, product)
	return supplierProductResult(args.Get(0), product), args.Error(1)
}

func (m *MockSupplierProductStorer) DeleteSupplierProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockSupplierProductStorer) SetSupplierProductsActive(ctx context.Context, ids []int64, actif bool) (int64, error) {
	args := m.Called(ctx, ids, actif)
	return args.Get(0).(int64), args.Error(1)
}

func supplierProductResult(ret any, in *domain.SupplierProduct) *domain.SupplierProduct {
	switch v := ret.(type) {
	case func(*domain.SupplierProduct) *domain.SupplierProduct:
		return v(in)
	case *domain.SupplierProduct:
		return v
	}
	return nil
}

type MockCatalogueStorer struct {
	mock.Mock
}

func (m *MockCatalogueStorer) ListCatalogues(ctx context.Context, params store.ListParams) ([]domain.Catalogue, int, error) {
	args := m.Called(ctx, params)
	var catalogues []domain.Catalogue
	if arg0 := args.Get(0); arg0 != nil {
		catalogues = arg0.([]domain.Catalogue)
	}
	return catalogues, args.Int(1), args.Error(2)
}

func (m *MockCatalogueStorer) GetCatalogueByID(ctx context.Context, id int64) (*domain.Catalogue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Catalogue), args.Error(1)
}

func (m *MockCatalogueStorer) CreateCatalogue(ctx context.Context, catalogue *domain.Catalogue) (*domain.Catalogue, error) {
	args := m.Called(ctx, catalogue)
	return catalogueResult(args.Get(0), catalogue), args.Error(1)
}

func (m *MockCatalogueStorer) UpdateCatalogue(ctx context.Context, catalogue *domain.Catalogue) (*domain.Catalogue, error) {
	args := m.Called(ctx, catalogue)
	return catalogueResult(args.Get(0), catalogue), args.Error(1)
}

func (m *MockCatalogueStorer) DeleteCatalogue(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogueStorer) SetCataloguesActive(ctx context.Context, ids []int64, actif bool) (int64, error) {
	args := m.Called(ctx, ids, actif)
	return args.Get(0).(int64), args.Error(1)
}

func catalogueResult(ret any, in *domain.Catalogue) *domain.Catalogue {
	switch v := ret.(type) {
	case func(*domain.Catalogue) *domain.Catalogue:
		return v(in)
	case *domain.Catalogue:
		return v
	}
	return nil
}

type MockProductStorer struct {
	mock.Mock
}

func (m *MockProductStorer) ListProducts(ctx context.Context, params store.ListParams, plan store.TreePlan) ([]domain.Product, int, error) {
	args := m.Called(ctx, params, plan)
	var products []domain.Product
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.Product)
	}
	return products, args.Int(1), args.Error(2)
}

func (m *MockProductStorer) GetProductByID(ctx context.Context, id int64, plan store.TreePlan) (*domain.Product, error) {
	args := m.Called(ctx, id, plan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) CreateProduct(ctx context.Context, product *domain.Product, partnerIDs []int64) (*domain.Product, error) {
	args := m.Called(ctx, product, partnerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) UpdateProduct(ctx context.Context, product *domain.Product, partnerIDs []int64) (*domain.Product, error) {
	args := m.Called(ctx, product, partnerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) DeleteProduct(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductStorer) SetProductsActive(ctx context.Context, ids []int64, actif bool) (int64, error) {
	args := m.Called(ctx, ids, actif)
	return args.Get(0).(int64), args.Error(1)
}
