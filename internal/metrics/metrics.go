package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SearchesTotal counts searches by search type and outcome (ok, invalid, error, timeout).
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codesearch_searches_total",
			Help: "Total number of searches",
		},
		[]string{"search_type", "status"},
	)
	// SearchDuration is the latency of a search, parse to page.
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codesearch_search_duration_seconds",
			Help:    "Search latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	// SearchResults is the total count of a search before paging.
	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codesearch_search_results",
			Help:    "Number of matching records per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		},
	)
	RecordsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "codesearch_records_loaded",
			Help: "Number of records held in memory",
		},
	)
	// PredicateCache counts compiled predicate cache lookups by result (hit, miss).
	PredicateCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codesearch_predicate_cache_total",
			Help: "Compiled predicate cache lookups",
		},
		[]string{"result"},
	)
	// RequestTotal counts HTTP requests by method and route.
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codesearch_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	// RequestDuration is the latency of HTTP requests.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codesearch_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
