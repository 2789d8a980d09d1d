package telemetry

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storehub/backend/internal/infrastructure/config"
)

// Metrics holds the Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	httpInflight      prometheus.Gauge
	authFailures      *prometheus.CounterVec
	storeAccessDenied prometheus.Counter
	permissionDenied  *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry, together with
// the Go runtime and process collectors
func NewMetrics(cfg config.MetricsConfig) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)
	ns := cfg.Prefix

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInflight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "http_inflight_requests",
			Help:      "Requests currently being served.",
		}),
		authFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "auth_failures_total",
			Help:      "Rejected authentications by reason.",
		}, []string{"reason"}),
		storeAccessDenied: factory.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "store_access_denied_total",
			Help:      "Requests rejected because the user cannot access the selected store.",
		}),
		permissionDenied: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "permission_denied_total",
			Help:      "Requests rejected by the route permission table.",
		}, []string{"permission"}),
	}
}

// RegisterDB exports connection pool statistics of db
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	if m == nil {
		return nil
	}
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RequestStarted marks a request in flight and returns a func that records
// its outcome
func (m *Metrics) RequestStarted() func(method, route string, status int) {
	if m == nil {
		return func(string, string, int) {}
	}
	start := time.Now()
	m.httpInflight.Inc()
	return func(method, route string, status int) {
		m.httpInflight.Dec()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// AuthFailure counts a rejected authentication
func (m *Metrics) AuthFailure(reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(reason).Inc()
}

// StoreAccessDenied counts a rejected store selection
func (m *Metrics) StoreAccessDenied() {
	if m == nil {
		return
	}
	m.storeAccessDenied.Inc()
}

// PermissionDenied counts a request rejected for lacking permission
func (m *Metrics) PermissionDenied(permission string) {
	if m == nil {
		return
	}
	m.permissionDenied.WithLabelValues(permission).Inc()
}
