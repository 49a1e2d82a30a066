package notify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for notification system monitoring
var (
	// reportNotificationsTotal tracks delivery outcomes per notifier
	reportNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_notifications_total",
			Help: "Total number of report notifications dispatched",
		},
		[]string{"notifier", "status"}, // status: success|failure|panic
	)

	dispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "notification_dispatch_duration_seconds",
			Help:    "Notification dispatch duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"notifier"},
	)

	// notifierResolutionTotal tracks which notifier each Service resolved and why
	notifierResolutionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifier_resolution_total",
			Help: "Total number of notifier resolutions by outcome",
		},
		[]string{"notifier", "source"}, // source: injected|configured|default
	)
)

// Dispatch outcome labels.
const (
	statusSuccess = "success"
	statusFailure = "failure"
	statusPanic   = "panic"
)

func recordDispatch(notifierName, status string, duration time.Duration) {
	reportNotificationsTotal.WithLabelValues(notifierName, status).Inc()
	dispatchDuration.WithLabelValues(notifierName).Observe(duration.Seconds())
}

func recordResolution(notifierName, source string) {
	notifierResolutionTotal.WithLabelValues(notifierName, source).Inc()
}
