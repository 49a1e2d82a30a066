package report

import "github.com/prometheus/client_golang/prometheus"

// ReportsSubmittedTotal exposes the outcome counter to external tests.
func ReportsSubmittedTotal() *prometheus.CounterVec { return reportsSubmittedTotal }
