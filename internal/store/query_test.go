package store

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partner-catalog-service/internal/domain"
)

func TestResource_WhereClause(t *testing.T) {
	testCases := []struct {
		name      string
		resource  Resource
		params    ListParams
		wantSQL   string
		wantArgs  []any
		wantField string // non-empty when a ValidationError is expected on this field
	}{
		{
			name:     "no filters",
			resource: FamilyResource,
			wantSQL:  "",
		},
		{
			name:     "active flag",
			resource: FamilyResource,
			params:   ListParams{Active: ptrTo(true)},
			wantSQL:  " WHERE actif = $1",
			wantArgs: []any{true},
		},
		{
			name:     "search spans every search field",
			resource: PartnerResource,
			params:   ListParams{Search: "  bay  "},
			wantSQL:  " WHERE (nom ILIKE $1 OR url_site_web ILIKE $1)",
			wantArgs: []any{"%bay%"},
		},
		{
			name:     "search escapes wildcards",
			resource: SupplierProductResource,
			params:   ListParams{Search: "50%_off"},
			wantSQL:  " WHERE (nom ILIKE $1)",
			wantArgs: []any{`%50\%\_off%`},
		},
		{
			name:     "foreign key filter",
			resource: SubFamilyResource,
			params:   ListParams{Active: ptrTo(false), Filters: url.Values{"famille": {"3"}}},
			wantSQL:  " WHERE actif = $1 AND famille_id = $2",
			wantArgs: []any{false, int64(3)},
		},
		{
			name:     "unknown parameters are ignored",
			resource: CatalogueResource,
			params:   ListParams{Filters: url.Values{"couleur": {"rouge"}, "page": {"2"}}},
			wantSQL:  "",
		},
		{
			name:     "date range",
			resource: ProductResource,
			params: ListParams{Filters: url.Values{
				"date_creation_after":  {"2024-01-01"},
				"date_creation_before": {"2024-01-31"},
			}},
			wantSQL: " WHERE date_creation >= $1 AND date_creation < $2",
			wantArgs: []any{
				time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name:      "non-numeric foreign key",
			resource:  SupplierProductResource,
			params:    ListParams{Filters: url.Values{"sous_famille": {"abc"}}},
			wantField: "sous_famille",
		},
		{
			name:      "malformed date",
			resource:  PartnerResource,
			params:    ListParams{Filters: url.Values{"date_creation_after": {"01/02/2024"}}},
			wantField: "date_creation_after",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var args sqlArgs
			where, err := tc.resource.whereClause(tc.params, &args)
			if tc.wantField != "" {
				require.Error(t, err)
				var verr *domain.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Contains(t, verr.Fields, tc.wantField)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSQL, where)
			if tc.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tc.wantArgs, []any(args))
			}
		})
	}
}

func TestResource_OrderClause(t *testing.T) {
	assert.Equal(t, " ORDER BY ordre ASC, titre_fr ASC, id ASC", ProductResource.orderClause(""))
	assert.Equal(t, " ORDER BY titre_fr DESC, id ASC", ProductResource.orderClause("-titre_fr"))
	assert.Equal(t, " ORDER BY date_creation DESC, ordre ASC, id ASC", ProductResource.orderClause("-date_creation, ordre"))
	assert.Equal(t, " ORDER BY ordre ASC, titre_fr ASC, id ASC", ProductResource.orderClause("prix; DROP TABLE x"),
		"fields outside the allow-list fall back to the default ordering")
	assert.Equal(t, " ORDER BY nom ASC, id ASC", PartnerResource.orderClause("-id"))
}

func TestDedupe(t *testing.T) {
	assert.Nil(t, dedupe(nil))
	assert.Equal(t, []int64{1, 2, 9}, dedupe([]int64{9, 1, 2, 9, 1}))
}
