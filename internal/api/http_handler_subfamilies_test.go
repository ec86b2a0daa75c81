package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"partner-catalog-service/internal/domain"
	"partner-catalog-service/internal/store"
)

func TestHTTPHandler_ListSubFamilies_FilterByFamily(t *testing.T) {
	mockSubFamilies := new(MockSubFamilyStorer)
	server := setupTestChiServer(t, Stores{SubFamilies: mockSubFamilies})

	partnerID := int64(7)
	image := "produits_fournisseur/images/gants_0a1b2c3d.png"
	mockSubFamilies.On("ListSubFamilies", mock.Anything, mock.MatchedBy(func(p store.ListParams) bool {
		return p.Filters.Get("famille") == "3" && p.Active == nil
	}), store.ActiveTree()).Return([]domain.SubFamily{{
		ID:           4,
		FamilleID:    3,
		PartenaireID: &partnerID,
		TitreFr:      "Gants",
		Actif:        true,
		ProduitsFournisseur: []domain.SupplierProduct{
			{ID: 9, SousFamilleID: 4, Nom: "Gants nitrile", Image: &image, Actif: true},
		},
	}}, 1, nil).Once()

	res := server.do(t, http.MethodGet, "/api/sous-familles/?famille=3", "", nil, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, float64(1), body["count"])

	results := body["results"].([]any)
	require.Len(t, results, 1)
	sub := results[0].(map[string]any)
	assert.Equal(t, float64(3), sub["famille_id"])
	assert.Equal(t, float64(7), sub["partenaire_id"])
	assert.NotContains(t, sub, "famille")

	products := sub["produits_fournisseur"].([]any)
	require.Len(t, products, 1)
	product := products[0].(map[string]any)
	assert.Equal(t, float64(4), product["sous_famille_id"])
	assert.Equal(t, server.URL+"/media/"+image, product["image_url"])
	assert.Equal(t, []any{}, product["catalogues"])

	mockSubFamilies.AssertExpectations(t)
}

func TestHTTPHandler_CreateSubFamily_RequiresFamily(t *testing.T) {
	mockSubFamilies := new(MockSubFamilyStorer)
	server := setupTestChiServer(t, Stores{SubFamilies: mockSubFamilies})

	res := server.doJSON(t, http.MethodPost, "/api/sous-familles/", map[string]any{"titre_fr": "Gants"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, []any{"This field is required."}, fieldErrors(t, decodeBody(t, res))["famille"])

	res = server.doJSON(t, http.MethodPost, "/api/sous-familles/", map[string]any{"famille": -2, "titre_fr": "Gants"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, fieldErrors(t, decodeBody(t, res)), "famille")
	mockSubFamilies.AssertNotCalled(t, "CreateSubFamily", mock.Anything, mock.Anything)

	mockSubFamilies.On("CreateSubFamily", mock.Anything, mock.MatchedBy(func(sf *domain.SubFamily) bool {
		return sf.FamilleID == 3 && sf.TitreFr == "Gants" && sf.Ordre == -5 && sf.Actif
	})).Return(func(sf *domain.SubFamily) *domain.SubFamily {
		out := *sf
		out.ID = 11
		return &out
	}, nil).Once()

	res = server.doJSON(t, http.MethodPost, "/api/sous-familles/", map[string]any{"famille": 3, "titre_fr": " Gants ", "ordre": -5})
	require.Equal(t, http.StatusCreated, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, float64(11), body["id"])
	assert.Equal(t, float64(3), body["famille_id"])
	assert.Nil(t, body["partenaire_id"])
	assert.Equal(t, []any{}, body["produits_fournisseur"])

	mockSubFamilies.On("CreateSubFamily", mock.Anything, mock.Anything).
		Return(nil, &domain.ReferenceError{Field: "famille", IDs: []int64{99}}).Once()

	res = server.doJSON(t, http.MethodPost, "/api/sous-familles/", map[string]any{"famille": 99, "titre_fr": "Gants"})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, []any{"Invalid pk(s) 99 - object does not exist."}, fieldErrors(t, decodeBody(t, res))["famille"])

	mockSubFamilies.AssertExpectations(t)
}
