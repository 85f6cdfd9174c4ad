package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestServerMetricsObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewServerMetrics(reg)

	m.ObserveRequest("GET", "/api/v1/cart/", "200", 25*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/cart/", "200", 30*time.Millisecond)
	m.ObserveRequest("POST", "", "500", time.Millisecond)

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/cart/", "200")); got != 2 {
		t.Fatalf("expected 2 GET requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("POST", "unknown", "500")); got != 1 {
		t.Fatalf("expected empty route to normalize to unknown, got %v", got)
	}
}

func TestCheckoutMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.IncOutcome("success")
	m.IncOutcome("insufficient_stock")
	m.IncOutcome("success")
	m.IncRetry()

	if got := testutil.ToFloat64(m.outcomes.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.outcomes.WithLabelValues("insufficient_stock")); got != 1 {
		t.Fatalf("expected 1 insufficient stock outcome, got %v", got)
	}
	if got := testutil.ToFloat64(m.retries); got != 1 {
		t.Fatalf("expected 1 retry, got %v", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewServerMetrics(nil)
	m.ObserveRequest("GET", "/", "200", time.Second)

	c := NewCheckoutMetrics(nil)
	c.IncOutcome("success")
	c.IncRetry()
}
