package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Client metrics
	ClientRequests *prometheus.CounterVec
	ClientDuration *prometheus.HistogramVec

	// Refresh metrics
	RefreshAttempts *prometheus.CounterVec
	QueuedRequests  prometheus.Counter
	ForcedLogouts   prometheus.Counter

	// Token store metrics
	StorageErrors *prometheus.CounterVec

	// Route guard metrics
	GuardDecisions *prometheus.CounterVec

	// Response cache metrics
	CacheLookups *prometheus.CounterVec

	// Development backend metrics
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	AuthAttempts  *prometheus.CounterVec
	RateLimitHits *prometheus.CounterVec
}

// New creates all metrics and registers them with reg. A nil reg uses the
// default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		// Client metrics
		ClientRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abrazar_client_requests_total",
				Help: "Total backend requests issued by the client",
			},
			[]string{"method", "outcome"},
		),
		ClientDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "abrazar_client_request_duration_seconds",
				Help:    "Backend request duration as seen by the client",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),

		// Refresh metrics
		RefreshAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abrazar_client_refresh_total",
				Help: "Token refresh attempts by result",
			},
			[]string{"result"},
		),
		QueuedRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "abrazar_client_refresh_queued_total",
			Help: "Requests that waited on an in-flight refresh",
		}),
		ForcedLogouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "abrazar_client_forced_logouts_total",
			Help: "Sessions destroyed after a failed refresh",
		}),

		// Token store metrics
		StorageErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abrazar_token_store_errors_total",
				Help: "Token store failures by operation",
			},
			[]string{"operation"},
		),

		// Route guard metrics
		GuardDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abrazar_route_guard_decisions_total",
				Help: "Route guard decisions by outcome",
			},
			[]string{"outcome"},
		),

		// Response cache metrics
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abrazar_client_cache_lookups_total",
				Help: "Response cache lookups by result",
			},
			[]string{"result"},
		),

		// Development backend metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abrazar_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "abrazar_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		AuthAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abrazar_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abrazar_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}

// ObserveClientRequest records one client round trip.
func (m *Metrics) ObserveClientRequest(method, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ClientRequests.WithLabelValues(method, outcome).Inc()
	m.ClientDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// RefreshResult records the outcome of one refresh call.
func (m *Metrics) RefreshResult(result string) {
	if m == nil {
		return
	}
	m.RefreshAttempts.WithLabelValues(result).Inc()
}

// RequestQueued records a request parked behind an in-flight refresh.
func (m *Metrics) RequestQueued() {
	if m == nil {
		return
	}
	m.QueuedRequests.Inc()
}

// ForcedLogout records a forced logout.
func (m *Metrics) ForcedLogout() {
	if m == nil {
		return
	}
	m.ForcedLogouts.Inc()
}

// StorageError records a token store failure.
func (m *Metrics) StorageError(operation string) {
	if m == nil {
		return
	}
	m.StorageErrors.WithLabelValues(operation).Inc()
}

// GuardDecision records a route guard outcome.
func (m *Metrics) GuardDecision(outcome string) {
	if m == nil {
		return
	}
	m.GuardDecisions.WithLabelValues(outcome).Inc()
}

// CacheLookup records a response cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveHTTP records one request served by the development backend.
func (m *Metrics) ObserveHTTP(method, path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// AuthAttempt records a login attempt on the development backend.
func (m *Metrics) AuthAttempt(status string) {
	if m == nil {
		return
	}
	m.AuthAttempts.WithLabelValues(status).Inc()
}

// RateLimitHit records a rejected request.
func (m *Metrics) RateLimitHit(ip string) {
	if m == nil {
		return
	}
	m.RateLimitHits.WithLabelValues(ip).Inc()
}
