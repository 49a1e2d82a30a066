package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// result: success | failure; reason is empty on success.
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total bearer token checks by result and failure reason",
		},
		[]string{"result", "reason"},
	)

	authDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Time spent validating bearer tokens",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)
)

func recordAuthResult(result, reason string) {
	authRequestsTotal.WithLabelValues(result, reason).Inc()
}

func recordAuthDuration(seconds float64) {
	authDuration.Observe(seconds)
}
