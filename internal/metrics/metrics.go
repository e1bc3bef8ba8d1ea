// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// KeywordSearches counts backend searches issued per keyword, by outcome
	// ("ok" or "error").
	KeywordSearches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Name:      "keyword_searches_total",
			Help:      "Backend searches issued by the orchestrator.",
		},
		[]string{"outcome"},
	)

	// SearchRunDuration observes single and batch runs end to end.
	SearchRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sourcing",
			Name:      "search_run_duration_seconds",
			Help:      "Duration of search runs.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"mode"}, // "single" or "batch"
	)

	// StatusTransitions counts confirmed lifecycle transitions.
	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Name:      "status_transitions_total",
			Help:      "Lifecycle transitions confirmed by the backend.",
		},
		[]string{"action", "to"},
	)

	// DetailCacheLookups counts detail cache reads by cache name and result
	// ("hit" or "miss").
	DetailCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Name:      "detail_cache_lookups_total",
			Help:      "Detail cache reads.",
		},
		[]string{"cache", "result"},
	)

	// BackendRequestDuration observes calls to the recruiting backend.
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sourcing",
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of HTTP requests to the recruiting backend.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Scans counts monitor scans by outcome ("ok", "timeout", "error").
	Scans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Name:      "monitor_scans_total",
			Help:      "Monitor scans requested.",
		},
		[]string{"outcome"},
	)

	// HTTPRequests counts requests served by the HTTP API.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sourcing",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sourcing",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
