// Package metrics exposes Prometheus collectors for the sync pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sports_sync_runs_total",
			Help: "Sync runs by entity type and final status",
		},
		[]string{"entity_type", "status"},
	)

	SyncRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sports_sync_records_total",
			Help: "Records processed by sync runs, by outcome",
		},
		[]string{"entity_type", "outcome"},
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sports_sync_run_duration_seconds",
			Help:    "Wall time of sync runs",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"entity_type"},
	)

	FetchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sports_sync_fetch_requests_total",
			Help: "Outbound provider HTTP requests by status code",
		},
		[]string{"provider", "path", "code"},
	)

	FetchCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sports_sync_fetch_cache_total",
			Help: "Fetch cache lookups by result (hit or miss)",
		},
		[]string{"provider", "result"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sports_sync_rate_limited_total",
			Help: "Fetches rejected by the local rate limiter",
		},
		[]string{"provider"},
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sports_sync_circuit_breaker_open",
			Help: "1 while the provider circuit breaker is open",
		},
		[]string{"provider"},
	)
)

// RecordSyncRun updates the run counters for one finished sync run.
func RecordSyncRun(entityType, status string, created, updated, failed int, duration time.Duration) {
	SyncRuns.WithLabelValues(entityType, status).Inc()
	SyncRecords.WithLabelValues(entityType, "created").Add(float64(created))
	SyncRecords.WithLabelValues(entityType, "updated").Add(float64(updated))
	SyncRecords.WithLabelValues(entityType, "failed").Add(float64(failed))
	SyncDuration.WithLabelValues(entityType).Observe(duration.Seconds())
}

func RecordFetch(provider, path string, statusCode int) {
	code := "error"
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	FetchRequests.WithLabelValues(provider, path, code).Inc()
}

func RecordCache(provider string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	FetchCache.WithLabelValues(provider, result).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
