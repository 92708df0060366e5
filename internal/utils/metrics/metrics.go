package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Backend metrics
	BackendRequestsTotal   *prometheus.CounterVec
	BackendRequestDuration *prometheus.HistogramVec
	BackendCircuitState    *prometheus.GaugeVec

	// Auth metrics
	AuthEventsTotal *prometheus.CounterVec

	// Tenant metrics
	TenantSwitchesTotal  prometheus.Counter
	TenantRefreshesTotal *prometheus.CounterVec

	// Inbox metrics
	InviteChecksTotal *prometheus.CounterVec
	AutoMarkReadTotal *prometheus.CounterVec

	// Store metrics
	StoreOpsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance registered on the default registry.
func New(namespace string) *Metrics {
	return NewWithRegisterer(namespace, prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates metrics registered on reg.
func NewWithRegisterer(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "console"
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		BackendRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "backend",
				Name:      "requests_total",
				Help:      "Total number of backend API calls",
			},
			[]string{"operation", "status"},
		),
		BackendRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "backend",
				Name:      "request_duration_seconds",
				Help:      "Backend API call duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"operation"},
		),
		BackendCircuitState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "backend",
				Name:      "circuit_state",
				Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
			},
			[]string{"breaker"},
		),

		AuthEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "events_total",
				Help:      "Total number of auth screen outcomes",
			},
			[]string{"screen", "outcome"}, // outcome: success, error, oauth_only, cooldown
		),

		TenantSwitchesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tenant",
				Name:      "switches_total",
				Help:      "Total number of tenant switches",
			},
		),
		TenantRefreshesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "tenant",
				Name:      "refreshes_total",
				Help:      "Total number of tenant list refreshes",
			},
			[]string{"result"}, // applied, stale, error
		),

		InviteChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "inbox",
				Name:      "invite_checks_total",
				Help:      "Total number of live invitation status checks",
			},
			[]string{"status"},
		),
		AutoMarkReadTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "inbox",
				Name:      "auto_mark_read_total",
				Help:      "Total number of stale invites marked read in the background",
			},
			[]string{"result"},
		),

		StoreOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Total number of selection store operations",
			},
			[]string{"driver", "operation", "result"},
		),
	}
}

// RecordHTTPRequest records an HTTP request metric.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordBackendCall records one backend API call. status is "error" when no
// response was received.
func (m *Metrics) RecordBackendCall(operation, status string, duration time.Duration) {
	m.BackendRequestsTotal.WithLabelValues(operation, status).Inc()
	m.BackendRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetCircuitState records the breaker state.
func (m *Metrics) SetCircuitState(breaker string, state int) {
	m.BackendCircuitState.WithLabelValues(breaker).Set(float64(state))
}

// RecordAuthEvent records an auth screen outcome.
func (m *Metrics) RecordAuthEvent(screen, outcome string) {
	m.AuthEventsTotal.WithLabelValues(screen, outcome).Inc()
}

// RecordInviteCheck records a resolved invitation status.
func (m *Metrics) RecordInviteCheck(status string) {
	m.InviteChecksTotal.WithLabelValues(status).Inc()
}

// RecordTenantSwitch counts a change of the current tenant.
func (m *Metrics) RecordTenantSwitch() {
	m.TenantSwitchesTotal.Inc()
}

// RecordTenantRefresh records a tenant list refresh. result is applied,
// stale or error.
func (m *Metrics) RecordTenantRefresh(result string) {
	m.TenantRefreshesTotal.WithLabelValues(result).Inc()
}

// RecordAutoMarkRead records a background mark-read attempt.
func (m *Metrics) RecordAutoMarkRead(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.AutoMarkReadTotal.WithLabelValues(result).Inc()
}

// RecordStoreOp records a selection store operation.
func (m *Metrics) RecordStoreOp(driver, operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StoreOpsTotal.WithLabelValues(driver, operation, result).Inc()
}
