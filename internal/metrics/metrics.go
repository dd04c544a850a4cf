package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adcraft_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adcraft_http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// GenerationsTotal counts AI gateway calls by operation (analyze,
	// adgroups, image) and status (success, failure). Image calls that
	// succeed without an image payload are also counted as "empty".
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adcraft_generations_total",
			Help: "Total number of generative AI calls.",
		},
		[]string{"operation", "status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "adcraft_generation_duration_seconds",
			Help:    "Duration of generative AI calls.",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 60, 120},
		},
		[]string{"operation"},
	)

	ExportsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adcraft_csv_exports_total",
			Help: "Total number of CSV exports.",
		},
	)
)
