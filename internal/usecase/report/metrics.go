package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var reportsSubmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reports_submitted_total",
		Help: "Total number of report submissions by outcome",
	},
	// outcome: accepted|validation|not_found|persistence|method_not_allowed|unauthorized
	[]string{"outcome"},
)

func recordOutcome(err error) {
	if err == nil {
		reportsSubmittedTotal.WithLabelValues("accepted").Inc()
		return
	}
	reportsSubmittedTotal.WithLabelValues(KindOf(err).String()).Inc()
}
