package store

import (
	"context"
	"database/sql"

	"partner-catalog-service/internal/domain"
)

// --- ProductStorer Implementation ---

// ListProducts returns one page of products with their partners. Only
// plan.Partners is consulted.
func (s *PostgresStore) ListProducts(ctx context.Context, params ListParams, plan TreePlan) ([]domain.Product, int, error) {
	products := make([]domain.Product, 0, params.Limit)
	var total int
	err := s.readTx(ctx, func(q querier) error {
		var err error
		total, err = list(ctx, q, ProductResource, columns("", productCols), params, func(rows *sql.Rows) error {
			var p domain.Product
			if err := scanProduct(rows, &p); err != nil {
				return err
			}
			products = append(products, p)
			return nil
		})
		if err != nil {
			return err
		}
		return attachProductPartners(ctx, q, products, plan)
	})
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id int64, plan TreePlan) (*domain.Product, error) {
	one := make([]domain.Product, 1)
	err := s.readTx(ctx, func(q querier) error {
		query := "SELECT " + columns("", productCols) + " FROM " + tableProducts + " WHERE id = $1"
		if err := scanProduct(q.QueryRowContext(ctx, query, id), &one[0]); err != nil {
			return rowError("GetProductByID", err, ProductResource.Name, id)
		}
		return attachProductPartners(ctx, q, one, plan)
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product, partnerIDs []int64) (*domain.Product, error) {
	one := make([]domain.Product, 1)
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, tablePartners, "partenaires_ids", partnerIDs); err != nil {
			return err
		}
		query := `
			INSERT INTO ` + tableProducts + `
				(titre_fr, titre_en, titre_ar, image_couverture, description_fr, description_en, description_ar, actif, ordre)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING ` + columns("", productCols)
		row := tx.QueryRowContext(ctx, query,
			product.TitreFr, product.TitreEn, product.TitreAr, product.ImageCouverture,
			product.DescriptionFr, product.DescriptionEn, product.DescriptionAr,
			product.Actif, product.Ordre,
		)
		if err := scanProduct(row, &one[0]); err != nil {
			return writeError("CreateProduct", err)
		}
		if len(partnerIDs) > 0 {
			if err := replaceLinks(ctx, tx, tableProductPartners, "produit_id", "partenaire_id", one[0].ID, partnerIDs); err != nil {
				return err
			}
		}
		return attachProductPartners(ctx, tx, one, ActiveTree())
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, product *domain.Product, partnerIDs []int64) (*domain.Product, error) {
	one := make([]domain.Product, 1)
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, tablePartners, "partenaires_ids", partnerIDs); err != nil {
			return err
		}
		query := `
			UPDATE ` + tableProducts + `
			SET titre_fr = $1, titre_en = $2, titre_ar = $3, image_couverture = $4,
				description_fr = $5, description_en = $6, description_ar = $7,
				actif = $8, ordre = $9, date_modification = NOW()
			WHERE id = $10
			RETURNING ` + columns("", productCols)
		row := tx.QueryRowContext(ctx, query,
			product.TitreFr, product.TitreEn, product.TitreAr, product.ImageCouverture,
			product.DescriptionFr, product.DescriptionEn, product.DescriptionAr,
			product.Actif, product.Ordre, product.ID,
		)
		if err := scanProduct(row, &one[0]); err != nil {
			return rowError("UpdateProduct", err, ProductResource.Name, product.ID)
		}
		if partnerIDs != nil {
			if err := replaceLinks(ctx, tx, tableProductPartners, "produit_id", "partenaire_id", product.ID, partnerIDs); err != nil {
				return err
			}
		}
		return attachProductPartners(ctx, tx, one, ActiveTree())
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, tableProducts, ProductResource.Name, id)
}

func (s *PostgresStore) SetProductsActive(ctx context.Context, ids []int64, actif bool) (int64, error) {
	return s.setActive(ctx, tableProducts, ids, actif)
}
