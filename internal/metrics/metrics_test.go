package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/familles/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/api/familles/1", "/api/familles/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	body := scrape(t, m)
	assert.Contains(t, body, `catalog_http_requests_total{method="GET",route="/api/familles/{id}",status="404"} 2`)
	assert.Contains(t, body, "catalog_http_requests_in_flight 0")
	assert.NotContains(t, body, `route="/api/familles/1"`)
}

func TestObserveStatusChange(t *testing.T) {
	m := New()
	m.ObserveStatusChange("produit", false, 3)
	m.ObserveStatusChange("produit", false, 0)

	assert.Contains(t, scrape(t, m), `catalog_status_changes_total{actif="false",resource="produit"} 3`)

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveStatusChange("produit", true, 1) })
}
