package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Cache lookup outcomes.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Event outcomes.
const (
	EventPublished = "published"
	EventFailed    = "failed"
	EventAcked     = "ack"
	EventNacked    = "nack"
)

// Resolution outcomes.
const (
	ResolveFound    = "found"
	ResolveNotFound = "not_found"
	ResolveError    = "error"
)

var (
	// CacheLookups counts resolution cache lookups by outcome (hit|miss|error).
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortener_cache_lookups_total",
			Help: "Total number of resolution cache lookups",
		},
		[]string{"result"},
	)

	// CacheWriteFailures counts best-effort cache writes that were dropped.
	CacheWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shortener_cache_write_failures_total",
			Help: "Total number of cache writes that failed and were ignored",
		},
	)

	// IDsAllocated counts IDs issued by the counter allocator.
	IDsAllocated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shortener_ids_allocated_total",
			Help: "Total number of IDs allocated for new short codes",
		},
	)

	// Resolutions counts resolve calls by outcome (found|not_found|error).
	Resolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortener_resolutions_total",
			Help: "Total number of short code resolutions",
		},
		[]string{"result"},
	)

	// EventsPublished counts analytics messages handed to the publisher by topic and outcome.
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortener_events_published_total",
			Help: "Total number of published event messages",
		},
		[]string{"topic", "result"},
	)

	// EventsConsumed counts analytics messages by topic and outcome (ack|nack).
	EventsConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shortener_events_consumed_total",
			Help: "Total number of consumed event messages",
		},
		[]string{"topic", "result"},
	)

	// RequestLatency measures HTTP request latencies.
	RequestLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shortener_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
