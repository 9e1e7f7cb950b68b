package metrics

import "github.com/prometheus/client_golang/prometheus"

// Joke generator Prometheus metrics.
var (
	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of generated jokes by generator and outcome",
		},
		[]string{"generator", "status"},
	)

	GenerationRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_request_duration_seconds",
			Help:      "Duration of LLM generation requests",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"model"},
	)

	GenerationTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_tokens_total",
			Help:      "Total tokens consumed by LLM generation",
		},
		[]string{"model", "type"},
	)

	GenerationErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_errors_total",
			Help:      "Total LLM generation errors by reason",
		},
		[]string{"model", "reason"},
	)
)

var generationMetricsRegistered bool

// RegisterGenerationMetrics registers joke generator metrics. Must be called once from main.
func RegisterGenerationMetrics() {
	if generationMetricsRegistered {
		return
	}
	prometheus.MustRegister(GenerationsTotal)
	prometheus.MustRegister(GenerationRequestDuration)
	prometheus.MustRegister(GenerationTokensTotal)
	prometheus.MustRegister(GenerationErrorsTotal)
	generationMetricsRegistered = true
}
