package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partner-catalog-service/internal/domain"
)

func TestValidateStruct_PartnerURL(t *testing.T) {
	h := NewHTTPHandler(Stores{}, nil, nil, Options{})

	testCases := []struct {
		url   string
		valid bool
	}{
		{url: "https://example.com", valid: true},
		{url: "http://example.com/path?q=1", valid: true},
		{url: "HTTP://example.com", valid: false},
		{url: "ftp://example.com", valid: false},
		{url: "example.com", valid: false},
		{url: "https://", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			err := h.validateStruct(&PartnerInput{Nom: "Acme", URLSiteWeb: tc.url})
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, "url_site_web")
		})
	}
}

func TestValidateStruct_CataloguePDF(t *testing.T) {
	h := NewHTTPHandler(Stores{}, nil, nil, Options{})

	for _, name := range []string{"catalogues/pdf/a.pdf", "catalogues/pdf/a.PDF", "catalogues/pdf/a.Pdf"} {
		assert.NoError(t, h.validateStruct(&CatalogueInput{ProduitFournisseurID: 1, FichierPDF: name}), name)
	}

	err := h.validateStruct(&CatalogueInput{ProduitFournisseurID: 1, FichierPDF: "catalogues/pdf/report.txt"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Only PDF files (.pdf) are accepted."}, verr.Fields["fichier_pdf"])
}

func TestValidateStruct_DiveFieldName(t *testing.T) {
	h := NewHTTPHandler(Stores{}, nil, nil, Options{})

	err := h.validateStruct(&FamilyInput{TitreFr: "Hygiène", PartenairesIDs: []int64{3, 0}})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "partenaires_ids")
}

func TestFormValue(t *testing.T) {
	testCases := []struct {
		name    string
		kind    fieldKind
		vals    []string
		want    any
		wantErr bool
	}{
		{name: "text is trimmed", kind: textField, vals: []string{"  Acme "}, want: "Acme"},
		{name: "bool on", kind: boolField, vals: []string{"on"}, want: true},
		{name: "bool 0", kind: boolField, vals: []string{"0"}, want: false},
		{name: "bool garbage", kind: boolField, vals: []string{"maybe"}, wantErr: true},
		{name: "int", kind: intField, vals: []string{"12"}, want: int64(12)},
		{name: "int garbage", kind: intField, vals: []string{"x"}, wantErr: true},
		{name: "ids repeated", kind: idListField, vals: []string{"1", "2"}, want: []int64{1, 2}},
		{name: "ids comma separated", kind: idListField, vals: []string{"3, 4,"}, want: []int64{3, 4}},
		{name: "empty ids clear the links", kind: idListField, vals: []string{""}, want: []int64{}},
		{name: "ids garbage", kind: idListField, vals: []string{"1,a"}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := formValue(tc.kind, tc.vals)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
