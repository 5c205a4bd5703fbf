package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "itemtracker"

var (
	// Auth metrics

	AuthAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Register and login attempts, by outcome.",
	}, []string{"action", "outcome"})

	PasswordHashDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Time spent hashing or comparing passwords.",
		Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2},
	})

	// Item metrics

	ItemMutationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "item_mutations_total",
		Help:      "Successful item writes, by operation.",
	}, []string{"op"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Auth outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

func Register(reg prometheus.Registerer) {
	reg.MustRegister(
		AuthAttemptsTotal,
		PasswordHashDuration,
		ItemMutationsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// HealthReporter is implemented by *health.Checker.
type HealthReporter interface {
	LivenessHandler() http.HandlerFunc
	ReadinessHandler() http.HandlerFunc
}

// NewServer exposes /metrics plus the liveness and readiness probes on a
// port separate from the public API.
func NewServer(addr string, gatherer prometheus.Gatherer, hr HealthReporter) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", hr.LivenessHandler())
	mux.HandleFunc("/health/ready", hr.ReadinessHandler())
	return &http.Server{Addr: addr, Handler: mux}
}
