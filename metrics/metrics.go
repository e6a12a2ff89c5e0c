// Package metrics exposes prometheus collectors for the Dex API client, the
// caches, and the search engine. Collectors are registered once via promauto
// and recorded through the helper functions so callers never touch label
// values directly.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "whoisthat"

var (
	dexRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dex_requests_total",
			Help:      "Requests issued to the Dex API.",
		},
		[]string{"method"},
	)

	dexErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dex_errors_total",
			Help:      "Dex API requests that ended in an error.",
		},
		[]string{"method"},
	)

	dexRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dex_request_duration_seconds",
			Help:      "Latency of Dex API requests.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Cache lookups that returned a live entry.",
		},
		[]string{"cache"},
	)

	cacheMissesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Cache lookups that found no entry or an expired one.",
		},
		[]string{"cache"},
	)

	searchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Full-text searches performed.",
		},
	)

	indexBuildsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_builds_total",
			Help:      "Full-text index builds completed.",
		},
	)

	indexBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "index_build_duration_seconds",
			Help:      "Time spent building the full-text index, Dex fetches included.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)

	documentsIndexed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "documents_indexed",
			Help:      "Documents held by the most recently built index.",
		},
	)
)

func RecordDexRequest(method string, duration time.Duration) {
	dexRequestsTotal.WithLabelValues(method).Inc()
	dexRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

func RecordDexError(method string) {
	dexErrorsTotal.WithLabelValues(method).Inc()
}

func RecordCacheHit(cache string) {
	cacheHitsTotal.WithLabelValues(cache).Inc()
}

func RecordCacheMiss(cache string) {
	cacheMissesTotal.WithLabelValues(cache).Inc()
}

func RecordSearch() {
	searchesTotal.Inc()
}

func RecordIndexBuild(duration time.Duration, documentCount int) {
	indexBuildsTotal.Inc()
	indexBuildDuration.Observe(duration.Seconds())
	documentsIndexed.Set(float64(documentCount))
}
