// Package metrics provides Prometheus metrics for the media-mirror service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediamirror_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediamirror_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Sync metrics
	syncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediamirror_sync_runs_total",
			Help: "Total number of sync runs",
		},
		[]string{"status"},
	)

	syncFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediamirror_sync_files_total",
			Help: "Total files handled by sync runs",
		},
		[]string{"op"},
	)

	syncRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mediamirror_sync_run_duration_seconds",
			Help:    "Duration of sync runs in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
	)

	// Blob cache metrics
	cacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediamirror_cache_hits_total",
			Help: "Total blob cache hits",
		},
	)

	cacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediamirror_cache_misses_total",
			Help: "Total blob cache misses",
		},
	)

	cacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediamirror_cache_evictions_total",
			Help: "Total blobs evicted from the cache",
		},
	)

	cacheSizeBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mediamirror_cache_size_bytes",
			Help: "Current size of the blob cache in bytes",
		},
	)

	// Backend metrics
	backendOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediamirror_backend_operation_duration_seconds",
			Help:    "Storage backend operation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind", "operation"},
	)

	backendErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediamirror_backend_errors_total",
			Help: "Total storage backend operation failures",
		},
		[]string{"kind", "operation"},
	)
)

// Handler returns the HTTP handler that serves the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSyncRun records the outcome and duration of a completed sync run.
func RecordSyncRun(success bool, duration time.Duration) {
	status := "failed"
	if success {
		status = "success"
	}
	syncRunsTotal.WithLabelValues(status).Inc()
	syncRunDuration.Observe(duration.Seconds())
}

// RecordSyncFiles records the per-operation file counts of a sync run.
func RecordSyncFiles(added, updated, removed, skipped int) {
	syncFilesTotal.WithLabelValues("added").Add(float64(added))
	syncFilesTotal.WithLabelValues("updated").Add(float64(updated))
	syncFilesTotal.WithLabelValues("removed").Add(float64(removed))
	syncFilesTotal.WithLabelValues("skipped").Add(float64(skipped))
}

// RecordCacheHit counts a blob cache hit.
func RecordCacheHit() {
	cacheHitsTotal.Inc()
}

// RecordCacheMiss counts a blob cache miss.
func RecordCacheMiss() {
	cacheMissesTotal.Inc()
}

// RecordCacheEvictions counts blobs removed by the LRU eviction.
func RecordCacheEvictions(count int) {
	cacheEvictionsTotal.Add(float64(count))
}

// SetCacheSize publishes the current byte size of the blob cache.
func SetCacheSize(bytes int64) {
	cacheSizeBytes.Set(float64(bytes))
}

// RecordBackendOperation records the duration of a backend call and counts
// its failure if any.
func RecordBackendOperation(kind, operation string, duration time.Duration, err error) {
	backendOperationDuration.WithLabelValues(kind, operation).Observe(duration.Seconds())
	if err != nil {
		backendErrorsTotal.WithLabelValues(kind, operation).Inc()
	}
}

// RequestMiddleware returns a Fiber middleware that records request counts
// and latencies. The route pattern is used instead of the raw path to keep
// the label cardinality bounded.
func RequestMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		httpRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}
