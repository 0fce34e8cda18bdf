package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Watchtower
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Watchlist Metrics
	RefreshBatchesTotal   prometheus.Counter
	RefreshDuration       prometheus.Histogram
	LookupFailuresTotal   *prometheus.CounterVec
	SnapshotCacheHits     prometheus.Counter
	SnapshotCacheMisses   prometheus.Counter
	WatchlistSize         prometheus.Gauge

	// Entitlement Metrics
	EntitlementTransitionsTotal *prometheus.CounterVec
	TransactionEventsTotal      *prometheus.CounterVec
	FreeActionsConsumedTotal    prometheus.Counter
}

// NewMetricsRegistry registers all metrics on the default registry
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "watchtower_http_requests_total",
			Help: "Total HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "watchtower_http_request_duration_seconds",
			Help:    "HTTP request duration by route and method",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),

		HTTPRequestsInFlight: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "watchtower_http_requests_in_flight",
			Help: "In-flight HTTP requests by route",
		}, []string{"route"}),

		RefreshBatchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "watchtower_refresh_batches_total",
			Help: "Watchlist refresh batches executed",
		}),

		RefreshDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "watchtower_refresh_duration_seconds",
			Help:    "Wall-clock duration of a full watchlist refresh",
			Buckets: prometheus.DefBuckets,
		}),

		LookupFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "watchtower_lookup_failures_total",
			Help: "Per-item lookup failures by error code",
		}, []string{"code"}),

		SnapshotCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "watchtower_snapshot_cache_hits_total",
			Help: "Snapshot cache hits during refresh",
		}),

		SnapshotCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "watchtower_snapshot_cache_misses_total",
			Help: "Snapshot cache misses during refresh",
		}),

		WatchlistSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "watchtower_watchlist_size",
			Help: "Number of tracked flight refs currently stored",
		}),

		EntitlementTransitionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "watchtower_entitlement_transitions_total",
			Help: "Entitlement state transitions by kind",
		}, []string{"transition"}),

		TransactionEventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "watchtower_transaction_events_total",
			Help: "Transaction stream events by disposition",
		}, []string{"disposition"}),

		FreeActionsConsumedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "watchtower_free_actions_consumed_total",
			Help: "Free-tier actions consumed by non-entitled sessions",
		}),
	}
}
