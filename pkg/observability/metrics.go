// Package observability provides Prometheus metrics for the diagram engine.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GenerationsTotal tracks diagram generations by type and status
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diagram_engine",
			Subsystem: "generation",
			Name:      "runs_total",
			Help:      "Total number of diagram generations by type and status",
		},
		[]string{"diagram_type", "status"},
	)

	// GenerationDuration tracks diagram generation duration in seconds
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "diagram_engine",
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Duration of diagram generations in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"diagram_type"},
	)

	// CacheRequestsTotal tracks diagram cache lookups by outcome
	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "diagram_engine",
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Total number of diagram cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	// SchemaDiscoveryDuration tracks schema introspection duration in seconds
	SchemaDiscoveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "diagram_engine",
			Subsystem: "schema",
			Name:      "discovery_duration_seconds",
			Help:      "Duration of schema discovery calls in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)
)

// Generation status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusEmpty   = "empty"
)

// Cache outcome label values.
const (
	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheBypass = "bypass"
	CacheError  = "error"
)
