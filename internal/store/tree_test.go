package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveTree(t *testing.T) {
	plan := ActiveTree()
	assert.True(t, plan.Families.ActiveOnly)
	assert.True(t, plan.SubFamilies.ActiveOnly)
	assert.True(t, plan.SupplierProducts.ActiveOnly)
	assert.True(t, plan.Catalogues.ActiveOnly)
	assert.True(t, plan.Partners.ActiveOnly)

	assert.Equal(t, " AND c.actif = TRUE", plan.Catalogues.sql("c"))
	assert.Equal(t, "", LevelFilter{}.sql("c"))
}

func TestColumns(t *testing.T) {
	assert.Equal(t, "id, nom", columns("", []string{"id", "nom"}))
	assert.Equal(t, "p.id, p.nom", columns("p", []string{"id", "nom"}))
}

// One query per level regardless of how many parents each level has.
func TestPostgresStore_ListFamilies_BatchesEachLevel(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM catalog.familles")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog.familles ORDER BY ordre ASC, titre_fr ASC, id ASC LIMIT $1 OFFSET $2")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(familyCols).
			AddRow(int64(1), "Hygiène", "Hygiene", "", true, 0, now, now).
			AddRow(int64(2), "Matériel", "Equipment", "", true, 1, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog.sous_familles sf WHERE sf.famille_id = ANY($1) AND sf.actif = TRUE ORDER BY sf.ordre, sf.titre_fr, sf.id")).
		WithArgs(pq.Array([]int64{1, 2})).
		WillReturnRows(sqlmock.NewRows(subFamilyCols).
			AddRow(int64(10), int64(1), "Gants", "", "", true, 0, now, now).
			AddRow(int64(11), int64(1), "Masques", "", "", true, 1, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog.produits_fournisseur sp WHERE sp.sous_famille_id = ANY($1) AND sp.actif = TRUE ORDER BY sp.ordre, sp.nom, sp.id")).
		WithArgs(pq.Array([]int64{10, 11})).
		WillReturnRows(sqlmock.NewRows(supplierProductCols).
			AddRow(int64(100), int64(10), "Nitrile", "produits/nitrile.png", true, 0, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog.catalogues c WHERE c.produit_fournisseur_id = ANY($1) AND c.actif = TRUE ORDER BY c.ordre, c.nom, c.id")).
		WithArgs(pq.Array([]int64{100})).
		WillReturnRows(sqlmock.NewRows(catalogueCols).
			AddRow(int64(1000), int64(100), nil, "catalogues/nitrile.pdf", true, 0, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT ON (pf.famille_id) pf.famille_id, p.id")).
		WithArgs(pq.Array([]int64{1})).
		WillReturnRows(sqlmock.NewRows([]string{"famille_id", "id"}).AddRow(int64(1), int64(7)))
	mock.ExpectCommit()

	families, total, err := store.ListFamilies(context.Background(), ListParams{Limit: 10}, ActiveTree())

	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, families, 2)

	require.Len(t, families[0].SousFamilles, 2)
	gants := families[0].SousFamilles[0]
	assert.Equal(t, "Gants", gants.TitreFr)
	require.NotNil(t, gants.PartenaireID)
	assert.Equal(t, int64(7), *gants.PartenaireID)
	require.Len(t, gants.ProduitsFournisseur, 1)
	require.Len(t, gants.ProduitsFournisseur[0].Catalogues, 1)
	assert.Equal(t, "Catalogue 1000", gants.ProduitsFournisseur[0].Catalogues[0].DisplayName())

	masques := families[0].SousFamilles[1]
	assert.NotNil(t, masques.ProduitsFournisseur)
	assert.Empty(t, masques.ProduitsFournisseur)

	assert.NotNil(t, families[1].SousFamilles, "a family without sub-families gets an empty list")
	assert.Empty(t, families[1].SousFamilles)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListFamilies_Empty(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM catalog.familles WHERE actif = $1")).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	families, total, err := store.ListFamilies(context.Background(), ListParams{Active: ptrTo(false)}, ActiveTree())

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, families)
	assert.Empty(t, families)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetPartnerByID_SharedFamilyExpandedOnce(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	linkCols := append([]string{"partenaire_id"}, familyCols...)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog.partenaires WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(partnerCols).
			AddRow(int64(3), "Bayer", "partenaires/logos/bayer.png", "https://bayer.example", true, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE pf.partenaire_id = ANY($1) AND f.actif = TRUE ORDER BY f.ordre, f.titre_fr, f.id")).
		WithArgs(pq.Array([]int64{3})).
		WillReturnRows(sqlmock.NewRows(linkCols).
			AddRow(int64(3), int64(1), "Hygiène", "", "", true, 0, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog.sous_familles sf")).
		WithArgs(pq.Array([]int64{1})).
		WillReturnRows(sqlmock.NewRows(subFamilyCols))
	mock.ExpectCommit()

	p, err := store.GetPartnerByID(context.Background(), 3, ActiveTree())

	require.NoError(t, err)
	require.NotNil(t, p.Logo)
	assert.Equal(t, "partenaires/logos/bayer.png", *p.Logo)
	require.Len(t, p.Familles, 1)
	assert.NotNil(t, p.Familles[0].SousFamilles)
	assert.Empty(t, p.Familles[0].SousFamilles)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListProducts_WithPartners(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM catalog.produits WHERE (titre_fr ILIKE $1 OR")).
		WithArgs("%gant%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog.produits WHERE (titre_fr ILIKE $1 OR")).
		WithArgs("%gant%", 20, 0).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(int64(5), "Gants", "", "", nil, "Boîte de 100", "", "", true, 0, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("JOIN catalog.produit_partenaires pp ON pp.partenaire_id = p.id WHERE pp.produit_id = ANY($1) AND p.actif = TRUE")).
		WithArgs(pq.Array([]int64{5})).
		WillReturnRows(sqlmock.NewRows(append([]string{"produit_id"}, partnerCols...)).
			AddRow(int64(5), int64(3), "Bayer", nil, "https://bayer.example", true, now, now))
	mock.ExpectCommit()

	products, total, err := store.ListProducts(context.Background(), ListParams{Limit: 20, Search: "gant"}, ActiveTree())

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, products, 1)
	require.Len(t, products[0].Partenaires, 1)
	assert.Equal(t, "Bayer", products[0].Partenaires[0].Nom)
	assert.Nil(t, products[0].Partenaires[0].Familles, "partner families are not loaded under a product")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetByID_RowOnlySkipsNesting(t *testing.T) {
	db, mock, store := newMockDBAndStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog.partenaires WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(partnerCols).
			AddRow(int64(3), "Bayer", nil, "https://bayer.example", true, now, now))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM catalog.sous_familles WHERE id = $1")).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(subFamilyCols).
			AddRow(int64(4), int64(1), "Gants", "", "", true, -2, now, now))
	mock.ExpectCommit()

	p, err := store.GetPartnerByID(context.Background(), 3, RowOnly())
	require.NoError(t, err)
	assert.Equal(t, "Bayer", p.Nom)
	assert.Nil(t, p.Familles)

	sf, err := store.GetSubFamilyByID(context.Background(), 4, RowOnly())
	require.NoError(t, err)
	assert.Equal(t, -2, sf.Ordre)
	assert.Nil(t, sf.PartenaireID)
	assert.Nil(t, sf.ProduitsFournisseur)

	require.NoError(t, mock.ExpectationsWereMet(), "no nested level is queried")
}
