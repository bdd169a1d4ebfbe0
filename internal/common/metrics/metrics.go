// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_requests_total",
			Help: "Total number of search requests by response status",
		},
		[]string{"status"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "search_request_duration_seconds",
			Help: "Duration of end-to-end search handling in seconds",
		},
	)

	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of upstream API requests by dataset and outcome",
		},
		[]string{"dataset", "status"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "upstream_request_duration_seconds",
			Help: "Duration of upstream API requests in seconds",
		},
		[]string{"dataset"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_lookups_total",
			Help: "Search cache lookups by result (hit or miss)",
		},
		[]string{"result"},
	)

	// NormalizeFieldErrors counts per-field parse failures that were
	// defaulted instead of aborting the page, so dirty upstream data is
	// observable without failing requests.
	NormalizeFieldErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalize_field_errors_total",
			Help: "Upstream fields that failed to parse and were defaulted",
		},
		[]string{"dataset", "field"},
	)
)
