// Package metrics provides Prometheus metrics for the dosage service.
// HTTP metrics:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//
// Domain metrics:
//   - dosage_computations_total: Counter with product and outcome labels
//   - catalog_reloads_total: Counter with outcome label
//   - catalog_products: Gauge with the size of the served catalog
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values
const (
	OutcomeSuccess      = "success"
	OutcomeFailure      = "failure"
	OutcomeInvalidInput = "invalid_input"
	OutcomeOutOfRange   = "out_of_range"
	OutcomeUnknown      = "unknown_product"
)

// UnknownProduct is the product label for ids missing from the catalog
const UnknownProduct = "unknown"

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
			Help: "Total number of rate limiter buckets (IPs seen in last ~5 minutes)",
		},
	)

	DosageComputationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dosage_computations_total",
			Help: "Dosage computations by product and outcome",
		},
		[]string{"product", "outcome"},
	)

	CatalogReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_reloads_total",
			Help: "Catalog load attempts by outcome",
		},
		[]string{"outcome"},
	)

	CatalogProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Number of products in the served catalog",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(DosageComputationsTotal)
	prometheus.MustRegister(CatalogReloadsTotal)
	prometheus.MustRegister(CatalogProducts)
}

// RecordComputation counts one engine call. Unknown product ids are folded
// into a single label value to keep cardinality bounded.
func RecordComputation(product, outcome string) {
	if outcome == OutcomeUnknown {
		product = UnknownProduct
	}
	DosageComputationsTotal.WithLabelValues(product, outcome).Inc()
}

// RecordCatalogReload counts one catalog load attempt
func RecordCatalogReload(outcome string) {
	CatalogReloadsTotal.WithLabelValues(outcome).Inc()
}

// SetCatalogProducts sets the served catalog size
func SetCatalogProducts(n int) {
	CatalogProducts.Set(float64(n))
}
