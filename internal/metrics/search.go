package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "searchd",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration from fan-out to merge completion",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// SearchCategoryFailures counts per-collection search failures that were
	// excluded from merged results. Excluded silently from the response, but
	// never from the operator's view.
	SearchCategoryFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "search_category_failures_total",
			Help:      "Per-collection search failures excluded from merged results",
		},
		[]string{"collection"},
	)

	IndexProvisionOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "index_provision_outcomes_total",
			Help:      "Search index provisioning outcomes at startup",
		},
		[]string{"collection", "status"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchCategoryFailures)
	prometheus.MustRegister(IndexProvisionOutcomes)
	searchMetricsRegistered = true
}
