package store

import (
	"context"
	"database/sql"

	"partner-catalog-service/internal/domain"
)

// --- SupplierProductStorer Implementation ---

func (s *PostgresStore) ListSupplierProducts(ctx context.Context, params ListParams, plan TreePlan) ([]domain.SupplierProduct, int, error) {
	products := make([]domain.SupplierProduct, 0, params.Limit)
	var total int
	err := s.readTx(ctx, func(q querier) error {
		var err error
		total, err = list(ctx, q, SupplierProductResource, columns("", supplierProductCols), params, func(rows *sql.Rows) error {
			var sp domain.SupplierProduct
			if err := scanSupplierProduct(rows, &sp); err != nil {
				return err
			}
			products = append(products, sp)
			return nil
		})
		if err != nil {
			return err
		}
		return attachSupplierProductTree(ctx, q, products, plan)
	})
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *PostgresStore) GetSupplierProductByID(ctx context.Context, id int64, plan TreePlan) (*domain.SupplierProduct, error) {
	one := make([]domain.SupplierProduct, 1)
	err := s.readTx(ctx, func(q querier) error {
		query := "SELECT " + columns("", supplierProductCols) + " FROM " + tableSupplierProducts + " WHERE id = $1"
		if err := scanSupplierProduct(q.QueryRowContext(ctx, query, id), &one[0]); err != nil {
			return rowError("GetSupplierProductByID", err, SupplierProductResource.Name, id)
		}
		return attachSupplierProductTree(ctx, q, one, plan)
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *PostgresStore) CreateSupplierProduct(ctx context.Context, product *domain.SupplierProduct) (*domain.SupplierProduct, error) {
	one := make([]domain.SupplierProduct, 1)
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, tableSubFamilies, "sous_famille", []int64{product.SousFamilleID}); err != nil {
			return err
		}
		query := `
			INSERT INTO ` + tableSupplierProducts + ` (sous_famille_id, nom, image, actif, ordre)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + columns("", supplierProductCols)
		row := tx.QueryRowContext(ctx, query,
			product.SousFamilleID, product.Nom, product.Image, product.Actif, product.Ordre)
		if err := scanSupplierProduct(row, &one[0]); err != nil {
			return writeError("CreateSupplierProduct", err)
		}
		return attachSupplierProductTree(ctx, tx, one, ActiveTree())
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *PostgresStore) UpdateSupplierProduct(ctx context.Context, product *domain.SupplierProduct) (*domain.SupplierProduct, error) {
	one := make([]domain.SupplierProduct, 1)
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, tableSubFamilies, "sous_famille", []int64{product.SousFamilleID}); err != nil {
			return err
		}
		query := `
			UPDATE ` + tableSupplierProducts + `
			SET sous_famille_id = $1, nom = $2, image = $3, actif = $4, ordre = $5, date_modification = NOW()
			WHERE id = $6
			RETURNING ` + columns("", supplierProductCols)
		row := tx.QueryRowContext(ctx, query,
			product.SousFamilleID, product.Nom, product.Image, product.Actif, product.Ordre, product.ID)
		if err := scanSupplierProduct(row, &one[0]); err != nil {
			return rowError("UpdateSupplierProduct", err, SupplierProductResource.Name, product.ID)
		}
		return attachSupplierProductTree(ctx, tx, one, ActiveTree())
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *PostgresStore) DeleteSupplierProduct(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, tableSupplierProducts, SupplierProductResource.Name, id)
}

func (s *PostgresStore) SetSupplierProductsActive(ctx context.Context, ids []int64, actif bool) (int64, error) {
	return s.setActive(ctx, tableSupplierProducts, ids, actif)
}
