package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "jokedex"

// Query Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of joke queries by operation and outcome",
		},
		[]string{"op", "status"},
	)

	QueryResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_results",
			Help:      "Number of jokes returned per successful query",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
		[]string{"op"},
	)

	DatasetJokes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_jokes",
			Help:      "Number of jokes loaded per dataset",
		},
		[]string{"dataset"},
	)
)

var queryMetricsRegistered bool

// RegisterQueryMetrics registers query and dataset metrics. Must be called once from main.
func RegisterQueryMetrics() {
	if queryMetricsRegistered {
		return
	}
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(QueryResults)
	prometheus.MustRegister(DatasetJokes)
	queryMetricsRegistered = true
}

// ObserveQuery records the outcome of a single query operation.
func ObserveQuery(op string, results int, err error) {
	if err != nil {
		QueriesTotal.WithLabelValues(op, "error").Inc()
		return
	}
	QueriesTotal.WithLabelValues(op, "success").Inc()
	QueryResults.WithLabelValues(op).Observe(float64(results))
}
