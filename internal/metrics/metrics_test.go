package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ErlanBelekov/item-tracker/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type stubHealth struct{}

func (stubHealth) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }
}

func (stubHealth) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusServiceUnavailable) }
}

func TestServer_ExposesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics.Register(reg)

	metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.OutcomeSuccess).Inc()

	srv := metrics.NewServer(":0", reg, stubHealth{})

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "itemtracker_auth_attempts_total") {
		t.Errorf("metrics output missing auth counter:\n%s", w.Body.String())
	}
	if got := testutil.ToFloat64(metrics.AuthAttemptsTotal.WithLabelValues("login", metrics.OutcomeSuccess)); got < 1 {
		t.Errorf("auth counter = %v, want >= 1", got)
	}
}

func TestServer_RoutesHealthProbes(t *testing.T) {
	srv := metrics.NewServer(":0", prometheus.NewRegistry(), stubHealth{})

	w := httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("/health status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("/health/ready status = %d, want 503", w.Code)
	}
}
