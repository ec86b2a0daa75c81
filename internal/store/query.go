package store

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"partner-catalog-service/internal/domain"
)

// FilterKind is the comparison applied by a query-string filter.
type FilterKind int

const (
	FilterExact    FilterKind = iota // integer equality
	FilterContains                   // case-insensitive substring
	FilterDateFrom                   // column >= start of the given day
	FilterDateTo                     // column < start of the day after
)

// Filter binds a query-string parameter to a column.
type Filter struct {
	Column string
	Kind   FilterKind
}

// Resource is the filter/search/ordering configuration of one collection.
// Every column named here is a fixed identifier; request values only ever reach SQL as arguments.
type Resource struct {
	Name            string
	Table           string
	Filters         map[string]Filter
	Search          []string
	Ordering        []string
	DefaultOrdering []string
}

var (
	PartnerResource = Resource{
		Name:  "partenaire",
		Table: tablePartners,
		Filters: map[string]Filter{
			"nom":                  {Column: "nom", Kind: FilterContains},
			"date_creation_after":  {Column: "date_creation", Kind: FilterDateFrom},
			"date_creation_before": {Column: "date_creation", Kind: FilterDateTo},
		},
		Search:          []string{"nom", "url_site_web"},
		Ordering:        []string{"nom", "date_creation", "date_modification"},
		DefaultOrdering: []string{"nom"},
	}

	FamilyResource = Resource{
		Name:            "famille",
		Table:           tableFamilies,
		Filters:         map[string]Filter{},
		Search:          []string{"titre_fr", "titre_en", "titre_ar"},
		Ordering:        []string{"ordre", "titre_fr", "date_creation"},
		DefaultOrdering: []string{"ordre", "titre_fr"},
	}

	SubFamilyResource = Resource{
		Name:  "sous-famille",
		Table: tableSubFamilies,
		Filters: map[string]Filter{
			"famille": {Column: "famille_id", Kind: FilterExact},
		},
		Search:          []string{"titre_fr", "titre_en", "titre_ar"},
		Ordering:        []string{"ordre", "titre_fr", "date_creation"},
		DefaultOrdering: []string{"ordre", "titre_fr"},
	}

	SupplierProductResource = Resource{
		Name:  "produit-fournisseur",
		Table: tableSupplierProducts,
		Filters: map[string]Filter{
			"sous_famille": {Column: "sous_famille_id", Kind: FilterExact},
		},
		Search:          []string{"nom"},
		Ordering:        []string{"ordre", "nom", "date_creation"},
		DefaultOrdering: []string{"ordre", "nom"},
	}

	CatalogueResource = Resource{
		Name:  "catalogue",
		Table: tableCatalogues,
		Filters: map[string]Filter{
			"produit_fournisseur": {Column: "produit_fournisseur_id", Kind: FilterExact},
		},
		Search:          []string{"nom"},
		Ordering:        []string{"ordre", "nom", "date_creation"},
		DefaultOrdering: []string{"ordre", "nom"},
	}

	ProductResource = Resource{
		Name:  "produit",
		Table: tableProducts,
		Filters: map[string]Filter{
			"titre_fr":             {Column: "titre_fr", Kind: FilterContains},
			"ordre":                {Column: "ordre", Kind: FilterExact},
			"date_creation_after":  {Column: "date_creation", Kind: FilterDateFrom},
			"date_creation_before": {Column: "date_creation", Kind: FilterDateTo},
		},
		Search: []string{
			"titre_fr", "titre_en", "titre_ar",
			"description_fr", "description_en", "description_ar",
		},
		Ordering:        []string{"ordre", "titre_fr", "date_creation", "date_modification"},
		DefaultOrdering: []string{"ordre", "titre_fr"},
	}
)

// ListParams holds parameters for listing any catalog collection.
type ListParams struct {
	Limit    int
	Offset   int
	Active   *bool      // nil: no filter on the active flag
	Search   string     // substring matched against the resource's search fields
	Ordering string     // comma-separated field names, "-" prefix for descending
	Filters  url.Values // resource-specific filters; unknown keys are ignored
}

// sqlArgs accumulates positional arguments.
type sqlArgs []any

func (a *sqlArgs) add(v any) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

// whereClause renders the WHERE clause for p, or "" when nothing applies.
func (r Resource) whereClause(p ListParams, args *sqlArgs) (string, error) {
	var clauses []string

	if p.Active != nil {
		clauses = append(clauses, "actif = "+args.add(*p.Active))
	}

	if term := strings.TrimSpace(p.Search); term != "" && len(r.Search) > 0 {
		ph := args.add("%" + escapeLike(term) + "%")
		ors := make([]string, len(r.Search))
		for i, col := range r.Search {
			ors[i] = col + " ILIKE " + ph
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	verr := &domain.ValidationError{}
	for _, name := range sortedKeys(r.Filters) {
		raw := strings.TrimSpace(p.Filters.Get(name))
		if raw == "" {
			continue
		}
		f := r.Filters[name]
		switch f.Kind {
		case FilterExact:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				verr.Add(name, "Enter a whole number.")
				continue
			}
			clauses = append(clauses, f.Column+" = "+args.add(n))
		case FilterContains:
			clauses = append(clauses, f.Column+" ILIKE "+args.add("%"+escapeLike(raw)+"%"))
		case FilterDateFrom, FilterDateTo:
			day, err := time.Parse("2006-01-02", raw)
			if err != nil {
				verr.Add(name, "Enter a valid date (YYYY-MM-DD).")
				continue
			}
			if f.Kind == FilterDateFrom {
				clauses = append(clauses, f.Column+" >= "+args.add(day))
			} else {
				clauses = append(clauses, f.Column+" < "+args.add(day.AddDate(0, 0, 1)))
			}
		}
	}
	if !verr.Empty() {
		return "", verr
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), nil
}

// orderClause renders ORDER BY from the allow-list; unknown fields are ignored.
// id is always the last key so pages are stable.
func (r Resource) orderClause(ordering string) string {
	allowed := make(map[string]bool, len(r.Ordering))
	for _, f := range r.Ordering {
		allowed[f] = true
	}

	var keys []string
	for _, field := range strings.Split(ordering, ",") {
		field = strings.TrimSpace(field)
		dir := "ASC"
		if strings.HasPrefix(field, "-") {
			dir = "DESC"
			field = field[1:]
		}
		if allowed[field] {
			keys = append(keys, field+" "+dir)
		}
	}
	if len(keys) == 0 {
		for _, field := range r.DefaultOrdering {
			keys = append(keys, field+" ASC")
		}
	}
	return " ORDER BY " + strings.Join(append(keys, "id ASC"), ", ")
}

// escapeLike escapes LIKE metacharacters so the term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func sortedKeys(m map[string]Filter) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys) // deterministic argument numbering
	return keys
}

// list runs the count and page queries of a collection and hands each row to scan.
func list(ctx context.Context, q querier, r Resource, columns string, p ListParams, scan func(*sql.Rows) error) (int, error) {
	var args sqlArgs
	where, err := r.whereClause(p, &args)
	if err != nil {
		return 0, err
	}

	var total int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+r.Table+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("store: failed to count %s rows: %w", r.Name, err)
	}
	if total == 0 {
		return 0, nil
	}

	query := "SELECT " + columns + " FROM " + r.Table + where + r.orderClause(p.Ordering)
	if p.Limit > 0 {
		query += " LIMIT " + args.add(p.Limit) + " OFFSET " + args.add(p.Offset)
	}
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("store: failed to query %s rows: %w", r.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return 0, fmt.Errorf("store: failed to scan %s row: %w", r.Name, err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("store: %s iteration error: %w", r.Name, err)
	}
	return total, nil
}
