package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Search and projection Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearby",
			Name:      "search_requests_total",
			Help:      "Total number of search and suggest requests",
		},
		[]string{"operation", "status"},
	)

	SearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nearby",
			Name:      "search_results",
			Help:      "Number of results returned per request",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 500},
		},
		[]string{"operation"},
	)

	ProjectionWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nearby",
			Name:      "projection_writes_total",
			Help:      "Total projection writes",
		},
		[]string{"op", "status"}, // op: "upsert" / "delete"
	)

	ProjectionWriteDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nearby",
			Name:      "projection_write_duration_seconds",
			Help:      "Projection write duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"op"},
	)
)

var registerOnce sync.Once

// Register adds every collector of this package to the default registry.
// Later calls are no-ops, so each composition root may call it.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration, httpRequestsTotal, httpResponseSize, httpInFlight, RateLimitedTotal,
			SearchRequestsTotal, SearchResults, ProjectionWritesTotal, ProjectionWriteDuration,
		)
	})
}

// SearchRecorder reports search outcomes to Prometheus.
type SearchRecorder struct{}

// RecordSearch counts one request and observes its result count.
func (SearchRecorder) RecordSearch(op, status string, results int) {
	SearchRequestsTotal.WithLabelValues(op, status).Inc()
	if status == "ok" {
		SearchResults.WithLabelValues(op).Observe(float64(results))
	}
}

// RecordProjectionWrite counts one projection write.
func RecordProjectionWrite(op string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ProjectionWritesTotal.WithLabelValues(op, status).Inc()
	ProjectionWriteDuration.WithLabelValues(op).Observe(d.Seconds())
}
