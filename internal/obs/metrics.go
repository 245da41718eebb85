// Package obs registers Prometheus metrics for the HTTP surface and the
// claim arbitration domain.
package obs

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "najdeno_http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "najdeno_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "najdeno_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)

	claimDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "najdeno_claim_decisions_total",
			Help: "Claim arbitration outcomes.",
		},
		[]string{"outcome"},
	)

	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "najdeno_logins_total",
			Help: "Login attempts by result.",
		},
		[]string{"result"},
	)
)

var initOnce sync.Once

// Init registers all metrics with the default registry. Safe to call
// more than once (tests construct multiple routers).
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			httpInFlight,
			httpRequestsTotal,
			httpRequestDuration,
			claimDecisionsTotal,
			loginsTotal,
		)
	})
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Claim decision outcomes.
const (
	ClaimOutcomeSubmitted = "submitted"
	ClaimOutcomeApproved  = "approved"
	ClaimOutcomeRejected  = "rejected"
	ClaimOutcomeConflict  = "conflict"
)

// CountClaimDecision records a claim arbitration outcome.
func CountClaimDecision(outcome string) {
	claimDecisionsTotal.WithLabelValues(outcome).Inc()
}

// CountLogin records a login attempt result ("ok" or "failed").
func CountLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// Instrument wraps a handler with request count, latency and in-flight
// metrics. Labels stay low-cardinality: method and status only.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		httpInFlight.Dec()
		status := strconv.Itoa(sw.code)
		httpRequestsTotal.WithLabelValues(r.Method, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, status).Observe(time.Since(start).Seconds())
	})
}
