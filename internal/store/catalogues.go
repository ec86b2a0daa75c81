package store

import (
	"context"
	"database/sql"

	"partner-catalog-service/internal/domain"
)

// --- CatalogueStorer Implementation ---
// Catalogues are leaves: reads take no TreePlan.

func (s *PostgresStore) ListCatalogues(ctx context.Context, params ListParams) ([]domain.Catalogue, int, error) {
	catalogues := make([]domain.Catalogue, 0, params.Limit)
	total, err := list(ctx, s.db, CatalogueResource, columns("", catalogueCols), params, func(rows *sql.Rows) error {
		var c domain.Catalogue
		if err := scanCatalogue(rows, &c); err != nil {
			return err
		}
		catalogues = append(catalogues, c)
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return catalogues, total, nil
}

func (s *PostgresStore) GetCatalogueByID(ctx context.Context, id int64) (*domain.Catalogue, error) {
	var c domain.Catalogue
	query := "SELECT " + columns("", catalogueCols) + " FROM " + tableCatalogues + " WHERE id = $1"
	if err := scanCatalogue(s.db.QueryRowContext(ctx, query, id), &c); err != nil {
		return nil, rowError("GetCatalogueByID", err, CatalogueResource.Name, id)
	}
	return &c, nil
}

func (s *PostgresStore) CreateCatalogue(ctx context.Context, catalogue *domain.Catalogue) (*domain.Catalogue, error) {
	var created domain.Catalogue
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, tableSupplierProducts, "produit_fournisseur", []int64{catalogue.ProduitFournisseurID}); err != nil {
			return err
		}
		query := `
			INSERT INTO ` + tableCatalogues + ` (produit_fournisseur_id, nom, fichier_pdf, actif, ordre)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + columns("", catalogueCols)
		row := tx.QueryRowContext(ctx, query,
			catalogue.ProduitFournisseurID, catalogue.Nom, catalogue.FichierPDF, catalogue.Actif, catalogue.Ordre)
		if err := scanCatalogue(row, &created); err != nil {
			return writeError("CreateCatalogue", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *PostgresStore) UpdateCatalogue(ctx context.Context, catalogue *domain.Catalogue) (*domain.Catalogue, error) {
	var updated domain.Catalogue
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, tableSupplierProducts, "produit_fournisseur", []int64{catalogue.ProduitFournisseurID}); err != nil {
			return err
		}
		query := `
			UPDATE ` + tableCatalogues + `
			SET produit_fournisseur_id = $1, nom = $2, fichier_pdf = $3, actif = $4, ordre = $5,
				date_modification = NOW()
			WHERE id = $6
			RETURNING ` + columns("", catalogueCols)
		row := tx.QueryRowContext(ctx, query,
			catalogue.ProduitFournisseurID, catalogue.Nom, catalogue.FichierPDF, catalogue.Actif, catalogue.Ordre, catalogue.ID)
		if err := scanCatalogue(row, &updated); err != nil {
			return rowError("UpdateCatalogue", err, CatalogueResource.Name, catalogue.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *PostgresStore) DeleteCatalogue(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, tableCatalogues, CatalogueResource.Name, id)
}

func (s *PostgresStore) SetCataloguesActive(ctx context.Context, ids []int64, actif bool) (int64, error) {
	return s.setActive(ctx, tableCatalogues, ids, actif)
}
