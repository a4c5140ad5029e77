// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmap_search_requests_total",
			Help: "Total number of search requests by outcome",
		},
		[]string{"outcome"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "jobmap_search_duration_seconds",
			Help: "Duration of search request processing in seconds",
		},
		[]string{"outcome"},
	)

	FetchPages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmap_fetch_pages_total",
			Help: "Total number of upstream pages fetched per department",
		},
		[]string{"department"},
	)

	FetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmap_fetch_failures_total",
			Help: "Total number of upstream page failures by department and status",
		},
		[]string{"department", "status"},
	)

	JobsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "jobmap_jobs_returned",
			Help:    "Number of normalized jobs returned per search",
			Buckets: prometheus.ExponentialBuckets(1, 2, 11),
		},
	)

	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmap_cache_requests_total",
			Help: "Search cache lookups by result",
		},
		[]string{"result"},
	)
)
