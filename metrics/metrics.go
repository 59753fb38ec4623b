// Package metrics provides Prometheus metrics collection for the epitopes API.
// It exports HTTP request metrics (totals, latency, in-flight) plus gauges
// describing the loaded epitope dataset. All metrics are registered with the
// Prometheus default registry during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)

	DatasetEpitopesTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_epitopes_total",
			Help: "Number of epitopes in the loaded dataset",
		},
	)

	DatasetLastUpdateTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_last_update_timestamp_seconds",
			Help: "Unix timestamp of the last successful dataset refresh",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(DatasetEpitopesTotal)
	prometheus.MustRegister(DatasetLastUpdateTimestamp)
}
