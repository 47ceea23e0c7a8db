// Package metrics provides Prometheus metrics for the valuation service.
// Scrape these at /metrics on the metrics port.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Valuation chain metrics

	ValuationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gavel_valuations_total",
			Help: "Total valuations by winning tier (or 'exhausted')",
		},
		[]string{"tier"},
	)

	ProviderMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gavel_provider_misses_total",
			Help: "Recoverable provider misses by source",
		},
		[]string{"source"},
	)

	ChainDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gavel_chain_duration_seconds",
			Help:    "Time spent resolving the source fallback chain",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	ValuationConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gavel_valuation_confidence",
			Help:    "Confidence score distribution of combined valuations",
			Buckets: []float64{0, 25, 50, 75, 100},
		},
	)

	// Statistics lookup metrics

	StatisticsLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gavel_statistics_lookups_total",
			Help: "District statistics lookups by result (hit, miss)",
		},
		[]string{"result"},
	)

	IndexReloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gavel_index_reloads_total",
			Help: "Region index rebuild-and-swap operations",
		},
	)

	// HTTP metrics

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gavel_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

// Handler returns the Prometheus scrape handler
func Handler() http.Handler {
	return promhttp.Handler()
}
