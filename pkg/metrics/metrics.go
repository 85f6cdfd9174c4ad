package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerMetrics records request-level metadata for the HTTP API.
type ServerMetrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewServerMetrics registers the HTTP metrics on the provided registerer.
func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	if reg == nil {
		return &ServerMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartfront",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "route", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cartfront",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	reg.MustRegister(requests, latency)
	return &ServerMetrics{requests: requests, latency: latency}
}

// ObserveRequest records one completed HTTP request.
func (m *ServerMetrics) ObserveRequest(method, route, status string, duration time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(method, normalizeLabel(route), status).Inc()
	m.latency.WithLabelValues(method, normalizeLabel(route)).Observe(duration.Seconds())
}

// CheckoutMetrics records checkout attempt outcomes.
type CheckoutMetrics struct {
	outcomes *prometheus.CounterVec
	retries  prometheus.Counter
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cartfront",
		Name:      "checkout_attempts_total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"outcome"})
	retries := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cartfront",
		Name:      "checkout_retries_total",
		Help:      "Checkout transactions retried after losing a stock race.",
	})
	reg.MustRegister(outcomes, retries)
	return &CheckoutMetrics{outcomes: outcomes, retries: retries}
}

// IncOutcome increments the counter for the named checkout outcome.
func (m *CheckoutMetrics) IncOutcome(outcome string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncRetry increments the retry counter.
func (m *CheckoutMetrics) IncRetry() {
	if m == nil || m.retries == nil {
		return
	}
	m.retries.Inc()
}

// Handler exposes the default prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
