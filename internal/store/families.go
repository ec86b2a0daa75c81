package store

import (
	"context"
	"database/sql"

	"partner-catalog-service/internal/domain"
)

// --- FamilyStorer Implementation ---

func (s *PostgresStore) ListFamilies(ctx context.Context, params ListParams, plan TreePlan) ([]domain.Family, int, error) {
	families := make([]domain.Family, 0, params.Limit)
	var total int
	err := s.readTx(ctx, func(q querier) error {
		var err error
		total, err = list(ctx, q, FamilyResource, columns("", familyCols), params, func(rows *sql.Rows) error {
			var f domain.Family
			if err := scanFamily(rows, &f); err != nil {
				return err
			}
			families = append(families, f)
			return nil
		})
		if err != nil {
			return err
		}
		return attachFamilyTree(ctx, q, families, plan)
	})
	if err != nil {
		return nil, 0, err
	}
	return families, total, nil
}

func (s *PostgresStore) GetFamilyByID(ctx context.Context, id int64, plan TreePlan) (*domain.Family, error) {
	one := make([]domain.Family, 1)
	err := s.readTx(ctx, func(q querier) error {
		query := "SELECT " + columns("", familyCols) + " FROM " + tableFamilies + " WHERE id = $1"
		if err := scanFamily(q.QueryRowContext(ctx, query, id), &one[0]); err != nil {
			return rowError("GetFamilyByID", err, FamilyResource.Name, id)
		}
		return attachFamilyTree(ctx, q, one, plan)
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

// CreateFamily inserts family and links it to the partners in partnerIDs.
func (s *PostgresStore) CreateFamily(ctx context.Context, family *domain.Family, partnerIDs []int64) (*domain.Family, error) {
	one := make([]domain.Family, 1)
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, tablePartners, "partenaires_ids", partnerIDs); err != nil {
			return err
		}
		query := `
			INSERT INTO ` + tableFamilies + ` (titre_fr, titre_en, titre_ar, actif, ordre)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING ` + columns("", familyCols)
		row := tx.QueryRowContext(ctx, query, family.TitreFr, family.TitreEn, family.TitreAr, family.Actif, family.Ordre)
		if err := scanFamily(row, &one[0]); err != nil {
			return writeError("CreateFamily", err)
		}
		if len(partnerIDs) > 0 {
			if err := replaceLinks(ctx, tx, tablePartnerFamilies, "famille_id", "partenaire_id", one[0].ID, partnerIDs); err != nil {
				return err
			}
		}
		return attachFamilyTree(ctx, tx, one, ActiveTree())
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

// UpdateFamily overwrites family. Partner links are replaced only when partnerIDs is non-nil.
func (s *PostgresStore) UpdateFamily(ctx context.Context, family *domain.Family, partnerIDs []int64) (*domain.Family, error) {
	one := make([]domain.Family, 1)
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, tablePartners, "partenaires_ids", partnerIDs); err != nil {
			return err
		}
		query := `
			UPDATE ` + tableFamilies + `
			SET titre_fr = $1, titre_en = $2, titre_ar = $3, actif = $4, ordre = $5, date_modification = NOW()
			WHERE id = $6
			RETURNING ` + columns("", familyCols)
		row := tx.QueryRowContext(ctx, query,
			family.TitreFr, family.TitreEn, family.TitreAr, family.Actif, family.Ordre, family.ID)
		if err := scanFamily(row, &one[0]); err != nil {
			return rowError("UpdateFamily", err, FamilyResource.Name, family.ID)
		}
		if partnerIDs != nil {
			if err := replaceLinks(ctx, tx, tablePartnerFamilies, "famille_id", "partenaire_id", family.ID, partnerIDs); err != nil {
				return err
			}
		}
		return attachFamilyTree(ctx, tx, one, ActiveTree())
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

// DeleteFamily removes the family with its sub-families, their supplier products and catalogues.
func (s *PostgresStore) DeleteFamily(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, tableFamilies, FamilyResource.Name, id)
}

func (s *PostgresStore) SetFamiliesActive(ctx context.Context, ids []int64, actif bool) (int64, error) {
	return s.setActive(ctx, tableFamilies, ids, actif)
}
