package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Entity write counts by kind and operation.
	EntityWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "entity_writes_total",
			Help: "Total number of entity create/update/delete operations",
		},
		[]string{"entity", "operation"},
	)

	// Authorization denials by operation.
	AuthorizationDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_denied_total",
			Help: "Total number of requests rejected by membership/role checks",
		},
		[]string{"operation"},
	)

	// Active sessions opened and closed.
	SessionsOpened = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sessions_opened_total",
			Help: "Total number of sessions created",
		},
	)
)

// RecordHTTPRequestDuration records one request's latency.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementEntityWrite bumps the write counter for an entity kind.
func IncrementEntityWrite(entity, operation string) {
	EntityWrites.WithLabelValues(entity, operation).Inc()
}

// IncrementAuthorizationDenied bumps the denial counter for an operation.
func IncrementAuthorizationDenied(operation string) {
	AuthorizationDenied.WithLabelValues(operation).Inc()
}
