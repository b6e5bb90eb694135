// Package metrics exposes prometheus instrumentation for the import pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Import outcome labels.
const (
	OutcomeOK            = "ok"
	OutcomeEmpty         = "empty_playlist"
	OutcomeUpstreamError = "upstream_error"
	OutcomeError         = "error"
)

var (
	ImportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "playlist_imports_total",
		Help: "Playlist import attempts by outcome.",
	}, []string{"outcome"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "playlist_pool_cache_hits_total",
		Help: "Import requests served from the pool cache.",
	})

	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "youtube_upstream_requests_total",
		Help: "Requests issued to the YouTube Data API by endpoint.",
	}, []string{"endpoint"})

	QuotaCost = promauto.NewCounter(prometheus.CounterOpts{
		Name: "youtube_quota_cost_total",
		Help: "Estimated YouTube Data API quota units consumed.",
	})

	PoolSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "playlist_pool_size",
		Help:    "Entry count of freshly imported pools.",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	})
)
