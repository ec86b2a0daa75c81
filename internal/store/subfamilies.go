package store

import (
	"context"
	"database/sql"

	"partner-catalog-service/internal/domain"
)

// --- SubFamilyStorer Implementation ---

func (s *PostgresStore) ListSubFamilies(ctx context.Context, params ListParams, plan TreePlan) ([]domain.SubFamily, int, error) {
	subs := make([]domain.SubFamily, 0, params.Limit)
	var total int
	err := s.readTx(ctx, func(q querier) error {
		var err error
		total, err = list(ctx, q, SubFamilyResource, columns("", subFamilyCols), params, func(rows *sql.Rows) error {
			var sf domain.SubFamily
			if err := scanSubFamily(rows, &sf); err != nil {
				return err
			}
			subs = append(subs, sf)
			return nil
		})
		if err != nil {
			return err
		}
		return attachSubFamilyTree(ctx, q, subs, plan)
	})
	if err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

func (s *PostgresStore) GetSubFamilyByID(ctx context.Context, id int64, plan TreePlan) (*domain.SubFamily, error) {
	one := make([]domain.SubFamily, 1)
	err := s.readTx(ctx, func(q querier) error {
		query := "SELECT " + columns("", subFamilyCols) + " FROM " + tableSubFamilies + " WHERE id = $1"
		if err := scanSubFamily(q.QueryRowContext(ctx, query, id), &one[0]); err != nil {
			return rowError("GetSubFamilyByID", err, SubFamilyResource.Name, id)
		}
		return attachSubFamilyTree(ctx, q, one, plan)
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

// CreateSubFamily inserts sub under the family named by sub.FamilleID.
func (s *PostgresStore) CreateSubFamily(ctx context.Context, sub *domain.SubFamily) (*domain.SubFamily, error) {
	one := make([]domain.SubFamily, 1)
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, tableFamilies, "famille", []int64{sub.FamilleID}); err != nil {
			return err
		}
		query := `
			INSERT INTO ` + tableSubFamilies + ` (famille_id, titre_fr, titre_en, titre_ar, actif, ordre)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING ` + columns("", subFamilyCols)
		row := tx.QueryRowContext(ctx, query,
			sub.FamilleID, sub.TitreFr, sub.TitreEn, sub.TitreAr, sub.Actif, sub.Ordre)
		if err := scanSubFamily(row, &one[0]); err != nil {
			return writeError("CreateSubFamily", err)
		}
		return attachSubFamilyTree(ctx, tx, one, ActiveTree())
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *PostgresStore) UpdateSubFamily(ctx context.Context, sub *domain.SubFamily) (*domain.SubFamily, error) {
	one := make([]domain.SubFamily, 1)
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, tableFamilies, "famille", []int64{sub.FamilleID}); err != nil {
			return err
		}
		query := `
			UPDATE ` + tableSubFamilies + `
			SET famille_id = $1, titre_fr = $2, titre_en = $3, titre_ar = $4, actif = $5, ordre = $6,
				date_modification = NOW()
			WHERE id = $7
			RETURNING ` + columns("", subFamilyCols)
		row := tx.QueryRowContext(ctx, query,
			sub.FamilleID, sub.TitreFr, sub.TitreEn, sub.TitreAr, sub.Actif, sub.Ordre, sub.ID)
		if err := scanSubFamily(row, &one[0]); err != nil {
			return rowError("UpdateSubFamily", err, SubFamilyResource.Name, sub.ID)
		}
		return attachSubFamilyTree(ctx, tx, one, ActiveTree())
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *PostgresStore) DeleteSubFamily(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, tableSubFamilies, SubFamilyResource.Name, id)
}

func (s *PostgresStore) SetSubFamiliesActive(ctx context.Context, ids []int64, actif bool) (int64, error) {
	return s.setActive(ctx, tableSubFamilies, ids, actif)
}
