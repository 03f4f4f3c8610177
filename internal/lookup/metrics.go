package lookup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LookupRequestsTotal tracks BetLookup queries sent to the remote by result.
	LookupRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "packs_lookup_requests_total",
		Help: "Total number of bet lookup queries by result",
	}, []string{"result"})

	// LookupDurationSeconds tracks BetLookup round trip time.
	LookupDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "packs_lookup_duration_seconds",
		Help:    "Bet lookup request duration",
		Buckets: prometheus.DefBuckets,
	})

	// LookupCacheHitsTotal tracks lookups served from cache.
	LookupCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packs_lookup_cache_hits_total",
		Help: "Total number of bet lookups served from cache",
	})

	// LookupCacheMissesTotal tracks lookups that went to the remote.
	LookupCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "packs_lookup_cache_misses_total",
		Help: "Total number of bet lookups not found in cache",
	})
)
