package store

import (
	"context"
	"database/sql"

	"partner-catalog-service/internal/domain"
)

// --- PartnerStorer Implementation ---

// ListPartners returns one page of partners with their family tree filtered by plan.
func (s *PostgresStore) ListPartners(ctx context.Context, params ListParams, plan TreePlan) ([]domain.Partner, int, error) {
	partners := make([]domain.Partner, 0, params.Limit)
	var total int
	err := s.readTx(ctx, func(q querier) error {
		var err error
		total, err = list(ctx, q, PartnerResource, columns("", partnerCols), params, func(rows *sql.Rows) error {
			var p domain.Partner
			if err := scanPartner(rows, &p); err != nil {
				return err
			}
			partners = append(partners, p)
			return nil
		})
		if err != nil {
			return err
		}
		return attachPartnerTree(ctx, q, partners, plan)
	})
	if err != nil {
		return nil, 0, err
	}
	return partners, total, nil
}

func (s *PostgresStore) GetPartnerByID(ctx context.Context, id int64, plan TreePlan) (*domain.Partner, error) {
	one := make([]domain.Partner, 1)
	err := s.readTx(ctx, func(q querier) error {
		query := "SELECT " + columns("", partnerCols) + " FROM " + tablePartners + " WHERE id = $1"
		if err := scanPartner(q.QueryRowContext(ctx, query, id), &one[0]); err != nil {
			return rowError("GetPartnerByID", err, PartnerResource.Name, id)
		}
		return attachPartnerTree(ctx, q, one, plan)
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

// CreatePartner inserts partner and links it to familyIDs. Unknown family ids
// fail the whole call before anything is written.
func (s *PostgresStore) CreatePartner(ctx context.Context, partner *domain.Partner, familyIDs []int64) (*domain.Partner, error) {
	one := make([]domain.Partner, 1)
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, tableFamilies, "familles_ids", familyIDs); err != nil {
			return err
		}
		query := `
			INSERT INTO ` + tablePartners + ` (nom, logo, url_site_web, actif)
			VALUES ($1, $2, $3, $4)
			RETURNING ` + columns("", partnerCols)
		row := tx.QueryRowContext(ctx, query, partner.Nom, partner.Logo, partner.URLSiteWeb, partner.Actif)
		if err := scanPartner(row, &one[0]); err != nil {
			return writeError("CreatePartner", err)
		}
		if len(familyIDs) > 0 {
			if err := replaceLinks(ctx, tx, tablePartnerFamilies, "partenaire_id", "famille_id", one[0].ID, familyIDs); err != nil {
				return err
			}
		}
		return attachPartnerTree(ctx, tx, one, ActiveTree())
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

// UpdatePartner overwrites every column of partner. A nil familyIDs leaves the
// family links untouched; a non-nil one replaces them.
func (s *PostgresStore) UpdatePartner(ctx context.Context, partner *domain.Partner, familyIDs []int64) (*domain.Partner, error) {
	one := make([]domain.Partner, 1)
	err := s.withTx(ctx, nil, func(tx *sql.Tx) error {
		if err := checkRefs(ctx, tx, tableFamilies, "familles_ids", familyIDs); err != nil {
			return err
		}
		query := `
			UPDATE ` + tablePartners + `
			SET nom = $1, logo = $2, url_site_web = $3, actif = $4, date_modification = NOW()
			WHERE id = $5
			RETURNING ` + columns("", partnerCols)
		row := tx.QueryRowContext(ctx, query, partner.Nom, partner.Logo, partner.URLSiteWeb, partner.Actif, partner.ID)
		if err := scanPartner(row, &one[0]); err != nil {
			return rowError("UpdatePartner", err, PartnerResource.Name, partner.ID)
		}
		if familyIDs != nil {
			if err := replaceLinks(ctx, tx, tablePartnerFamilies, "partenaire_id", "famille_id", partner.ID, familyIDs); err != nil {
				return err
			}
		}
		return attachPartnerTree(ctx, tx, one, ActiveTree())
	})
	if err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *PostgresStore) DeletePartner(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, tablePartners, PartnerResource.Name, id)
}

// SetPartnersActive sets the active flag of every listed partner and returns how many rows changed.
func (s *PostgresStore) SetPartnersActive(ctx context.Context, ids []int64, actif bool) (int64, error) {
	return s.setActive(ctx, tablePartners, ids, actif)
}
