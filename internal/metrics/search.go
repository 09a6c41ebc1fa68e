package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kinsearch",
			Name:      "search_requests_total",
			Help:      "Total number of search calls",
		},
		[]string{"role", "status"}, // status: ok, skipped, invalid, error
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kinsearch",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds, store read included",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"role"},
	)

	SearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "kinsearch",
			Name:      "search_results",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	SearchTruncatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kinsearch",
			Name:      "search_truncated_total",
			Help:      "Searches that hit the result cap",
		},
	)

	MalformedRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kinsearch",
			Name:      "malformed_records_total",
			Help:      "Stored records skipped because a required field is missing",
		},
		[]string{"kind"},
	)

	AuditFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "kinsearch",
			Name:      "audit_failures_total",
			Help:      "Audit events that could not be emitted",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResults)
	prometheus.MustRegister(SearchTruncatedTotal)
	prometheus.MustRegister(MalformedRecordsTotal)
	prometheus.MustRegister(AuditFailuresTotal)
	searchMetricsRegistered = true
}
