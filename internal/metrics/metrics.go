// Package metrics exposes the Prometheus collectors for the API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookworm_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookworm_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	APIRateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookworm_api_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// ImageStoreFailures counts object storage calls that failed without
	// failing the review write they belonged to.
	ImageStoreFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookworm_image_store_failures_total",
			Help: "Total number of failed image uploads and deletions",
		},
		[]string{"operation"},
	)

	SuggestionCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookworm_suggestion_cache_lookups_total",
			Help: "Title suggestion cache lookups by result",
		},
		[]string{"result"},
	)
)

// RecordAPIRequest records the outcome and latency of one request.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordImageStoreFailure counts a failed "upload" or "delete".
func RecordImageStoreFailure(operation string) {
	ImageStoreFailures.WithLabelValues(operation).Inc()
}

// RecordSuggestionCache counts a suggestion cache "hit" or "miss".
func RecordSuggestionCache(hit bool) {
	if hit {
		SuggestionCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	SuggestionCacheLookups.WithLabelValues("miss").Inc()
}
