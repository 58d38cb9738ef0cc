package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SearchesTotal counts catalog search executions
	SearchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "moriarty",
			Name:      "searches_total",
			Help:      "Total number of catalog searches executed",
		},
	)

	// AssessmentsTotal counts assessment runs by final status
	AssessmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moriarty",
			Name:      "assessments_total",
			Help:      "Total number of assessment runs by final status",
		},
		[]string{"status"},
	)

	// ReportsTotal counts assembled reports by export format
	ReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moriarty",
			Name:      "reports_total",
			Help:      "Total number of reports assembled",
		},
		[]string{"format"},
	)

	// CVEFetchesTotal counts CVE lookups by where the record was found
	CVEFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "moriarty",
			Name:      "cve_fetches_total",
			Help:      "Total number of CVE lookups by source (catalog, cache, registry)",
		},
		[]string{"source"},
	)

	// AIRequestDuration observes collaborator call latency
	AIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "moriarty",
			Name:      "ai_request_duration_seconds",
			Help:      "Latency of AI collaborator calls",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// This function is idempotent and can be called multiple times safely.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(SearchesTotal)
		prometheus.DefaultRegisterer.Register(AssessmentsTotal)
		prometheus.DefaultRegisterer.Register(ReportsTotal)
		prometheus.DefaultRegisterer.Register(CVEFetchesTotal)
		prometheus.DefaultRegisterer.Register(AIRequestDuration)
	})
}
