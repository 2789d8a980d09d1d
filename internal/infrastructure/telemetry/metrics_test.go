package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storehub/backend/internal/infrastructure/config"
)

func TestMetrics_RequestStarted(t *testing.T) {
	m := NewMetrics(config.MetricsConfig{Prefix: "test"})

	done := m.RequestStarted()
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpInflight))
	done(http.MethodGet, "/api/v1/stores", http.StatusOK)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.httpInflight))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/stores", "200")))

	m.RequestStarted()(http.MethodGet, "", http.StatusNotFound)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(config.MetricsConfig{Prefix: "test"})

	m.AuthFailure("expired")
	m.AuthFailure("expired")
	m.StoreAccessDenied()
	m.PermissionDenied("view users")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.authFailures.WithLabelValues("expired")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.storeAccessDenied))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.permissionDenied.WithLabelValues("view users")))
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics(config.MetricsConfig{Prefix: "storehub"})
	m.StoreAccessDenied()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storehub_store_access_denied_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RequestStarted()("GET", "/", 200)
		m.AuthFailure("x")
		m.StoreAccessDenied()
		m.PermissionDenied("x")
		assert.NoError(t, m.RegisterDB(nil, "db"))
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
