package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/athebyme/recipe-catalog/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New()

	m.RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeRequests))

	m.ObserveRequest("/api/v1/categories/", http.MethodGet, http.StatusOK, 15*time.Millisecond)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.activeRequests))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsCounter.WithLabelValues("/api/v1/categories/", "GET", "200")))
}

func TestMetrics_ObserveFetch(t *testing.T) {
	m := New()

	m.ObserveFetch("success", time.Second)
	m.ObserveFetch("error", time.Second)
	m.ObserveFetch("error", time.Second)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.fetchDuration))
}

func TestMetrics_SetPhaseMarksOnlyActive(t *testing.T) {
	m := New()

	m.SetPhase(models.PhaseLoading)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statePhase.WithLabelValues("loading")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.statePhase.WithLabelValues("ready")))

	m.SetPhase(models.PhaseFailed)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.statePhase.WithLabelValues("loading")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.statePhase.WithLabelValues("ready")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statePhase.WithLabelValues("error")))
}

func TestMetrics_HandlerUsesOwnRegistry(t *testing.T) {
	first := New()
	second := New()

	first.ObserveFetch("success", time.Millisecond)

	rec := httptest.NewRecorder()
	second.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `recipe_fetch_total{status="success"}`)

	rec = httptest.NewRecorder()
	first.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `recipe_fetch_total{status="success"} 1`)
}

func TestMetrics_RegistryGathersServiceCollectors(t *testing.T) {
	m := New()
	m.ObserveFetch("timeout", time.Second)
	m.SetPhase(models.PhaseReady)

	count, err := testutil.GatherAndCount(m.Registry(), "recipe_fetch_total", "recipe_view_state")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}
