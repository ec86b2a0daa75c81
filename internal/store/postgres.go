package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/lib/pq"

	"partner-catalog-service/internal/domain"
)

// Table names, schema-qualified.
const (
	tablePartners         = "catalog.partenaires"
	tableFamilies         = "catalog.familles"
	tablePartnerFamilies  = "catalog.partenaire_familles"
	tableSubFamilies      = "catalog.sous_familles"
	tableSupplierProducts = "catalog.produits_fournisseur"
	tableCatalogues       = "catalog.catalogues"
	tableProducts         = "catalog.produits"
	tableProductPartners  = "catalog.produit_partenaires"
)

//go:embed schema.sql
var schemaSQL string

// constraintFields maps constraint names raised by PostgreSQL to the API field they guard.
var constraintFields = map[string]string{
	"sous_familles_famille_id_fkey":             "famille",
	"produits_fournisseur_sous_famille_id_fkey": "sous_famille",
	"catalogues_produit_fournisseur_id_fkey":    "produit_fournisseur",
	"partenaire_familles_famille_id_fkey":       "familles_ids",
	"partenaire_familles_partenaire_id_fkey":    "partenaires_ids",
	"produit_partenaires_partenaire_id_fkey":    "partenaires_ids",
	"catalogues_fichier_pdf_check":              "fichier_pdf",
	"partenaires_url_site_web_check":            "url_site_web",
	"produits_titre_fr_check":                   "titre_fr",
	"produits_description_fr_check":             "description_fr",
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// PostgresStore implements every catalog storer on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate applies the embedded schema. Statements are idempotent.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("store: Migrate failed: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	slog.Info("closing database connection pool")
	if err := s.db.Close(); err != nil {
		slog.Error("failed to close database connection pool", "error", err)
		return err
	}
	return nil
}

// withTx runs fn inside a transaction, committing when fn returns nil.
func (s *PostgresStore) withTx(ctx context.Context, opts *sql.TxOptions, fn func(tx *sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("store: failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("store: failed to commit transaction: %w", cerr)
		}
	}()
	return fn(tx)
}

// readTx runs a multi-level read against a single snapshot.
func (s *PostgresStore) readTx(ctx context.Context, fn func(q querier) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	return s.withTx(ctx, opts, func(tx *sql.Tx) error { return fn(tx) })
}

// writeError translates driver errors raised by a write into domain errors.
func writeError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		field := constraintFields[pqErr.Constraint]
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			if field == "" {
				field = "non_field_errors"
			}
			return &domain.ReferenceError{Field: field}
		case "23514": // check_violation
			if field == "" {
				field = "non_field_errors"
			}
			return domain.NewValidationError(field, "Invalid value.")
		}
	}
	return fmt.Errorf("store: %s failed: %w", op, err)
}

// checkRefs fails with a ReferenceError listing the ids absent from table.
func checkRefs(ctx context.Context, q querier, table, field string, ids []int64) error {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}
	rows, err := q.QueryContext(ctx, "SELECT id FROM "+table+" WHERE id = ANY($1)", pq.Array(ids))
	if err != nil {
		return fmt.Errorf("store: failed to check %s references: %w", field, err)
	}
	defer rows.Close()

	found := make(map[int64]bool, len(ids))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("store: failed to scan %s reference: %w", field, err)
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("store: %s reference iteration error: %w", field, err)
	}

	var missing []int64
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &domain.ReferenceError{Field: field, IDs: missing}
	}
	return nil
}

// replaceLinks makes ids the full set of rows linked to ownerID in a many-to-many table.
func replaceLinks(ctx context.Context, q querier, table, ownerCol, otherCol string, ownerID int64, ids []int64) error {
	if _, err := q.ExecContext(ctx, "DELETE FROM "+table+" WHERE "+ownerCol+" = $1", ownerID); err != nil {
		return fmt.Errorf("store: failed to clear %s links: %w", table, err)
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil
	}
	query := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) SELECT $1, UNNEST($2::bigint[]) ON CONFLICT DO NOTHING",
		table, ownerCol, otherCol,
	)
	if _, err := q.ExecContext(ctx, query, ownerID, pq.Array(ids)); err != nil {
		return writeError("replace "+table+" links", err)
	}
	return nil
}

// deleteByID hard-deletes one row; child rows go with it through ON DELETE CASCADE.
func (s *PostgresStore) deleteByID(ctx context.Context, table, resource string, id int64) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("store: failed to delete %s %d: %w", resource, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: failed to get rows affected deleting %s: %w", resource, err)
	}
	if rowsAffected == 0 {
		return &domain.NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

// setActive flips the active flag of every listed row in one statement.
func (s *PostgresStore) setActive(ctx context.Context, table string, ids []int64, actif bool) (int64, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return 0, nil
	}
	query := "UPDATE " + table + " SET actif = $1, date_modification = NOW() WHERE id = ANY($2)"
	result, err := s.db.ExecContext(ctx, query, actif, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("store: failed to update %s status: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: failed to get rows affected updating %s status: %w", table, err)
	}
	return n, nil
}

// dedupe returns the distinct ids in ascending order.
func dedupe(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// rowError maps a missing row to NotFoundError and anything else through writeError.
func rowError(op string, err error, resource string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Resource: resource, ID: id}
	}
	return writeError(op, err)
}
