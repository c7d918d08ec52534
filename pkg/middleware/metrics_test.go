package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func resetGlobalMetricsForTest() {
	globalMetricsMu.Lock()
	globalMetrics = nil
	globalMetricsMu.Unlock()
}

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestPrometheusMiddlewareRecordsRequests(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()

	mw := Prometheus(WithRegistry(reg))
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	got := metricCounterValue(t, globalMetrics.requestsTotal.WithLabelValues("/healthz", "GET", "418"))
	if got != 1 {
		t.Fatalf("requests_total = %v, want 1", got)
	}
}

func TestSessionRecorders(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()
	_ = Prometheus(WithRegistry(reg))

	RecordSessionCreate()
	RecordSessionCreate()
	RecordSessionDetach()
	RecordSessionReattach()
	RecordSessionDestroy()

	if got := metricGaugeValue(t, globalMetrics.activeSessions); got != 1 {
		t.Errorf("active_sessions = %v, want 1", got)
	}
	if got := metricGaugeValue(t, globalMetrics.detachedSessions); got != 0 {
		t.Errorf("detached_sessions = %v, want 0", got)
	}
	if got := metricCounterValue(t, globalMetrics.reconnectsTotal); got != 1 {
		t.Errorf("reconnects_total = %v, want 1", got)
	}
}

func TestPatchAndStateRecorders(t *testing.T) {
	resetGlobalMetricsForTest()
	reg := prometheus.NewRegistry()
	_ = Prometheus(WithRegistry(reg))

	RecordPatches(3)
	RecordOverflowStates(5)
	RecordWebSocketError("read")

	if got := metricCounterValue(t, globalMetrics.patchesSent); got != 3 {
		t.Errorf("style_patches_sent_total = %v, want 3", got)
	}
	if got := metricGaugeValue(t, globalMetrics.overflowStates); got != 5 {
		t.Errorf("overflow_states = %v, want 5", got)
	}
	if got := metricCounterValue(t, globalMetrics.wsErrors.WithLabelValues("read")); got != 1 {
		t.Errorf("websocket_errors_total(read) = %v, want 1", got)
	}
}

func TestRecordersAreNoOpsWhenUninitialized(t *testing.T) {
	resetGlobalMetricsForTest()

	// Must not panic before Prometheus() has been called.
	RecordPatches(1)
	RecordSessionCreate()
	RecordSessionDestroy()
	RecordSessionDetach()
	RecordSessionReattach()
	RecordSessionExpire()
	RecordOverflowStates(1)
	RecordWebSocketError("write")
}
