package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CatalogReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_reloads_total",
		Help: "Total number of catalog snapshot reloads",
	}, []string{"result"})

	CatalogReloadLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_reload_latency_seconds",
		Help:    "Latency of catalog snapshot reloads",
		Buckets: prometheus.DefBuckets,
	})

	CatalogProductsLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_products_loaded",
		Help: "Number of products in the current catalog snapshot",
	})

	SnapshotCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_cache_hits_total",
		Help: "Total number of snapshot cache hits",
	})

	SnapshotCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_cache_misses_total",
		Help: "Total number of snapshot cache misses",
	})

	ChatSendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_sends_total",
		Help: "Total number of chat send attempts",
	}, []string{"result"})

	ChatSendLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chat_send_latency_seconds",
		Help:    "Latency of chat exchanges with the recommendation backend",
		Buckets: prometheus.DefBuckets,
	})

	DetailResolvesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "detail_resolves_total",
		Help: "Total number of product detail resolutions",
	}, []string{"result"})

	SessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_created_total",
		Help: "Total number of chat sessions created",
	})

	SessionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sessions_expired_total",
		Help: "Total number of chat sessions removed by the idle sweeper",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
