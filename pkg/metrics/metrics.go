package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "docsearch"

var (
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)

	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Subsystem: "http", Name: "requests_total", Help: "HTTP requests by route and status."},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds", Help: "HTTP request latency by route.", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)

	SearchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "search_requests_total", Help: "Search operations by operation and outcome."},
		[]string{"operation", "outcome"},
	)
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "search_duration_seconds", Help: "Store query latency by operation.", Buckets: prometheus.DefBuckets},
		[]string{"operation"},
	)
	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: namespace, Name: "search_results", Help: "Number of hits returned per search.", Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250}},
		[]string{"operation"},
	)

	PDFRenders = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "pdf_renders_total", Help: "PDF downloads by source (render or cache)."},
		[]string{"source"},
	)
	CacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "cache_requests_total", Help: "Search cache lookups by result."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(
		RateLimitAllowed,
		RateLimitRejected,
		HTTPRequests,
		HTTPDuration,
		SearchRequests,
		SearchDuration,
		SearchResults,
		PDFRenders,
		CacheRequests,
	)
}
