package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"partner-catalog-service/internal/domain"
)

// LevelFilter is the predicate applied to one nested level of the tree.
type LevelFilter struct {
	ActiveOnly bool
}

func (f LevelFilter) sql(alias string) string {
	if f.ActiveOnly {
		return " AND " + alias + ".actif = TRUE"
	}
	return ""
}

// TreePlan holds one predicate per nested level. The root level is never
// filtered here; its filters come from ListParams.
type TreePlan struct {
	Families         LevelFilter
	SubFamilies      LevelFilter
	SupplierProducts LevelFilter
	Catalogues       LevelFilter
	Partners         LevelFilter // partners nested under a product

	// SkipNested reads the root rows only. Nested slices stay nil and
	// SubFamily.PartenaireID is not resolved.
	SkipNested bool
}

// RowOnly reads a single level with no nesting, e.g. the current row before an update.
func RowOnly() TreePlan {
	return TreePlan{SkipNested: true}
}

// ActiveTree restricts every nested level to active rows.
func ActiveTree() TreePlan {
	active := LevelFilter{ActiveOnly: true}
	return TreePlan{
		Families:         active,
		SubFamilies:      active,
		SupplierProducts: active,
		Catalogues:       active,
		Partners:         active,
	}
}

var (
	partnerCols         = []string{"id", "nom", "logo", "url_site_web", "actif", "date_creation", "date_modification"}
	familyCols          = []string{"id", "titre_fr", "titre_en", "titre_ar", "actif", "ordre", "date_creation", "date_modification"}
	subFamilyCols       = []string{"id", "famille_id", "titre_fr", "titre_en", "titre_ar", "actif", "ordre", "date_creation", "date_modification"}
	supplierProductCols = []string{"id", "sous_famille_id", "nom", "image", "actif", "ordre", "date_creation", "date_modification"}
	catalogueCols       = []string{"id", "produit_fournisseur_id", "nom", "fichier_pdf", "actif", "ordre", "date_creation", "date_modification"}
	productCols         = []string{
		"id", "titre_fr", "titre_en", "titre_ar", "image_couverture",
		"description_fr", "description_en", "description_ar",
		"actif", "ordre", "date_creation", "date_modification",
	}
)

// columns renders a select list, qualified with alias when one is given.
func columns(alias string, cols []string) string {
	if alias == "" {
		return strings.Join(cols, ", ")
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = alias + "." + c
	}
	return strings.Join(out, ", ")
}

// The scan helpers accept leading destinations for columns selected before the entity's own.

func scanPartner(sc scanner, p *domain.Partner, lead ...any) error {
	return sc.Scan(append(lead, &p.ID, &p.Nom, &p.Logo, &p.URLSiteWeb, &p.Actif, &p.DateCreation, &p.DateModification)...)
}

func scanFamily(sc scanner, f *domain.Family, lead ...any) error {
	return sc.Scan(append(lead, &f.ID, &f.TitreFr, &f.TitreEn, &f.TitreAr, &f.Actif, &f.Ordre, &f.DateCreation, &f.DateModification)...)
}

func scanSubFamily(sc scanner, sf *domain.SubFamily) error {
	return sc.Scan(&sf.ID, &sf.FamilleID, &sf.TitreFr, &sf.TitreEn, &sf.TitreAr, &sf.Actif, &sf.Ordre, &sf.DateCreation, &sf.DateModification)
}

func scanSupplierProduct(sc scanner, sp *domain.SupplierProduct) error {
	return sc.Scan(&sp.ID, &sp.SousFamilleID, &sp.Nom, &sp.Image, &sp.Actif, &sp.Ordre, &sp.DateCreation, &sp.DateModification)
}

func scanCatalogue(sc scanner, c *domain.Catalogue) error {
	return sc.Scan(&c.ID, &c.ProduitFournisseurID, &c.Nom, &c.FichierPDF, &c.Actif, &c.Ordre, &c.DateCreation, &c.DateModification)
}

func scanProduct(sc scanner, p *domain.Product) error {
	return sc.Scan(
		&p.ID, &p.TitreFr, &p.TitreEn, &p.TitreAr, &p.ImageCouverture,
		&p.DescriptionFr, &p.DescriptionEn, &p.DescriptionAr,
		&p.Actif, &p.Ordre, &p.DateCreation, &p.DateModification,
	)
}

// queryAll reads every row of query before returning, so the caller can issue
// the next level's query on the same transaction.
func queryAll[T any](ctx context.Context, q querier, query string, arg any, scan func(scanner, *T) error) ([]T, error) {
	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var item T
		if err := scan(rows, &item); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func idsOf[T any](items []T, id func(*T) int64) []int64 {
	out := make([]int64, len(items))
	for i := range items {
		out[i] = id(&items[i])
	}
	return out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// linked pairs a row with the parent id it was fetched for through a link table.
type linked[T any] struct {
	parent int64
	item   T
}

// attachPartnerTree fills Familles, down to the catalogues, for every partner.
func attachPartnerTree(ctx context.Context, q querier, partners []domain.Partner, plan TreePlan) error {
	if plan.SkipNested {
		return nil
	}
	families, err := loadPartnerFamilies(ctx, q, idsOf(partners, func(p *domain.Partner) int64 { return p.ID }), plan)
	if err != nil {
		return err
	}
	for i := range partners {
		partners[i].Familles = orEmpty(families[partners[i].ID])
	}
	return nil
}

// attachFamilyTree fills SousFamilles, down to the catalogues, for every family.
func attachFamilyTree(ctx context.Context, q querier, families []domain.Family, plan TreePlan) error {
	if plan.SkipNested {
		return nil
	}
	subs, err := loadSubFamilies(ctx, q, idsOf(families, func(f *domain.Family) int64 { return f.ID }), plan)
	if err != nil {
		return err
	}
	for i := range families {
		families[i].SousFamilles = orEmpty(subs[families[i].ID])
	}
	return nil
}

// attachSubFamilyTree fills ProduitsFournisseur and PartenaireID for every sub-family.
func attachSubFamilyTree(ctx context.Context, q querier, subs []domain.SubFamily, plan TreePlan) error {
	if plan.SkipNested {
		return nil
	}
	if len(subs) == 0 {
		return nil
	}
	products, err := loadSupplierProducts(ctx, q, idsOf(subs, func(sf *domain.SubFamily) int64 { return sf.ID }), plan)
	if err != nil {
		return err
	}
	partners, err := loadFirstPartners(ctx, q, dedupe(idsOf(subs, func(sf *domain.SubFamily) int64 { return sf.FamilleID })))
	if err != nil {
		return err
	}
	for i := range subs {
		subs[i].ProduitsFournisseur = orEmpty(products[subs[i].ID])
		if pid, ok := partners[subs[i].FamilleID]; ok {
			subs[i].PartenaireID = &pid
		}
	}
	return nil
}

// attachSupplierProductTree fills Catalogues for every supplier product.
func attachSupplierProductTree(ctx context.Context, q querier, products []domain.SupplierProduct, plan TreePlan) error {
	if plan.SkipNested {
		return nil
	}
	catalogues, err := loadCatalogues(ctx, q, idsOf(products, func(sp *domain.SupplierProduct) int64 { return sp.ID }), plan.Catalogues)
	if err != nil {
		return err
	}
	for i := range products {
		products[i].Catalogues = orEmpty(catalogues[products[i].ID])
	}
	return nil
}

// attachProductPartners fills Partenaires for every product. Partner families are not loaded.
func attachProductPartners(ctx context.Context, q querier, products []domain.Product, plan TreePlan) error {
	if plan.SkipNested {
		return nil
	}
	ids := idsOf(products, func(p *domain.Product) int64 { return p.ID })
	if len(ids) == 0 {
		return nil
	}
	query := "SELECT pp.produit_id, " + columns("p", partnerCols) +
		" FROM " + tablePartners + " p JOIN " + tableProductPartners + " pp ON pp.partenaire_id = p.id" +
		" WHERE pp.produit_id = ANY($1)" + plan.Partners.sql("p") +
		" ORDER BY p.nom, p.id"
	rows, err := queryAll(ctx, q, query, pq.Array(ids), func(sc scanner, l *linked[domain.Partner]) error {
		return scanPartner(sc, &l.item, &l.parent)
	})
	if err != nil {
		return fmt.Errorf("store: failed to load product partners: %w", err)
	}
	byProduct := make(map[int64][]domain.Partner)
	for _, l := range rows {
		byProduct[l.parent] = append(byProduct[l.parent], l.item)
	}
	for i := range products {
		products[i].Partenaires = orEmpty(byProduct[products[i].ID])
	}
	return nil
}

func loadPartnerFamilies(ctx context.Context, q querier, partnerIDs []int64, plan TreePlan) (map[int64][]domain.Family, error) {
	out := make(map[int64][]domain.Family)
	if len(partnerIDs) == 0 {
		return out, nil
	}
	query := "SELECT pf.partenaire_id, " + columns("f", familyCols) +
		" FROM " + tableFamilies + " f JOIN " + tablePartnerFamilies + " pf ON pf.famille_id = f.id" +
		" WHERE pf.partenaire_id = ANY($1)" + plan.Families.sql("f") +
		" ORDER BY f.ordre, f.titre_fr, f.id"
	rows, err := queryAll(ctx, q, query, pq.Array(partnerIDs), func(sc scanner, l *linked[domain.Family]) error {
		return scanFamily(sc, &l.item, &l.parent)
	})
	if err != nil {
		return nil, fmt.Errorf("store: failed to load families: %w", err)
	}

	// A family shared by several partners is expanded once.
	var distinct []domain.Family
	seen := make(map[int64]int)
	for _, l := range rows {
		if _, ok := seen[l.item.ID]; !ok {
			seen[l.item.ID] = len(distinct)
			distinct = append(distinct, l.item)
		}
	}
	if err := attachFamilyTree(ctx, q, distinct, plan); err != nil {
		return nil, err
	}
	for _, l := range rows {
		out[l.parent] = append(out[l.parent], distinct[seen[l.item.ID]])
	}
	return out, nil
}

func loadSubFamilies(ctx context.Context, q querier, familyIDs []int64, plan TreePlan) (map[int64][]domain.SubFamily, error) {
	out := make(map[int64][]domain.SubFamily)
	if len(familyIDs) == 0 {
		return out, nil
	}
	query := "SELECT " + columns("sf", subFamilyCols) +
		" FROM " + tableSubFamilies + " sf" +
		" WHERE sf.famille_id = ANY($1)" + plan.SubFamilies.sql("sf") +
		" ORDER BY sf.ordre, sf.titre_fr, sf.id"
	subs, err := queryAll(ctx, q, query, pq.Array(familyIDs), scanSubFamily)
	if err != nil {
		return nil, fmt.Errorf("store: failed to load sub-families: %w", err)
	}
	if err := attachSubFamilyTree(ctx, q, subs, plan); err != nil {
		return nil, err
	}
	for _, sf := range subs {
		out[sf.FamilleID] = append(out[sf.FamilleID], sf)
	}
	return out, nil
}

func loadSupplierProducts(ctx context.Context, q querier, subFamilyIDs []int64, plan TreePlan) (map[int64][]domain.SupplierProduct, error) {
	out := make(map[int64][]domain.SupplierProduct)
	if len(subFamilyIDs) == 0 {
		return out, nil
	}
	query := "SELECT " + columns("sp", supplierProductCols) +
		" FROM " + tableSupplierProducts + " sp" +
		" WHERE sp.sous_famille_id = ANY($1)" + plan.SupplierProducts.sql("sp") +
		" ORDER BY sp.ordre, sp.nom, sp.id"
	products, err := queryAll(ctx, q, query, pq.Array(subFamilyIDs), scanSupplierProduct)
	if err != nil {
		return nil, fmt.Errorf("store: failed to load supplier products: %w", err)
	}
	if err := attachSupplierProductTree(ctx, q, products, plan); err != nil {
		return nil, err
	}
	for _, sp := range products {
		out[sp.SousFamilleID] = append(out[sp.SousFamilleID], sp)
	}
	return out, nil
}

func loadCatalogues(ctx context.Context, q querier, supplierProductIDs []int64, f LevelFilter) (map[int64][]domain.Catalogue, error) {
	out := make(map[int64][]domain.Catalogue)
	if len(supplierProductIDs) == 0 {
		return out, nil
	}
	query := "SELECT " + columns("c", catalogueCols) +
		" FROM " + tableCatalogues + " c" +
		" WHERE c.produit_fournisseur_id = ANY($1)" + f.sql("c") +
		" ORDER BY c.ordre, c.nom, c.id"
	catalogues, err := queryAll(ctx, q, query, pq.Array(supplierProductIDs), scanCatalogue)
	if err != nil {
		return nil, fmt.Errorf("store: failed to load catalogues: %w", err)
	}
	for _, c := range catalogues {
		out[c.ProduitFournisseurID] = append(out[c.ProduitFournisseurID], c)
	}
	return out, nil
}

// loadFirstPartners returns, per family, the id of its first partner by name.
func loadFirstPartners(ctx context.Context, q querier, familyIDs []int64) (map[int64]int64, error) {
	out := make(map[int64]int64)
	if len(familyIDs) == 0 {
		return out, nil
	}
	query := "SELECT DISTINCT ON (pf.famille_id) pf.famille_id, p.id" +
		" FROM " + tablePartnerFamilies + " pf JOIN " + tablePartners + " p ON p.id = pf.partenaire_id" +
		" WHERE pf.famille_id = ANY($1)" +
		" ORDER BY pf.famille_id, p.nom, p.id"
	rows, err := queryAll(ctx, q, query, pq.Array(familyIDs), func(sc scanner, l *linked[int64]) error {
		return sc.Scan(&l.parent, &l.item)
	})
	if err != nil {
		return nil, fmt.Errorf("store: failed to load family partners: %w", err)
	}
	for _, l := range rows {
		out[l.parent] = l.item
	}
	return out, nil
}
