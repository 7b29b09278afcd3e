package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueueItemsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trip_sharing", Name: "queue_items_processed_total", Help: "Queue items processed by outcome"},
		[]string{"outcome"},
	)
	QueueProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{Namespace: "trip_sharing", Name: "queue_processing_duration_seconds", Help: "Per-trip queue pass latency"},
	)
	SeatsAllocated = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "trip_sharing", Name: "seats_allocated_total", Help: "Seats committed to confirmed bookings"},
	)
	BookingsConfirmed = promauto.NewCounter(
		prometheus.CounterOpts{Namespace: "trip_sharing", Name: "bookings_confirmed_total", Help: "Confirmed bookings created"},
	)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trip_sharing", Name: "cache_hits_total", Help: "Cache hits per namespace"},
		[]string{"namespace"},
	)
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trip_sharing", Name: "cache_misses_total", Help: "Cache misses per namespace"},
		[]string{"namespace"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "trip_sharing", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trip_sharing",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
