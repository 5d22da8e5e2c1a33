package demtile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tileFetches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "demtile_fetches_total",
		Help: "The total number of DEM tiles fetched from a remote source",
	})
	tileFetchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "demtile_fetch_errors_total",
		Help: "The total number of DEM tile fetches that failed after retries",
	})
	tileFetchMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "demtile_fetch_misses_total",
		Help: "The total number of DEM tile fetches that found no tile (open sea)",
	})
	tileCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "demtile_cache_hits_total",
		Help: "The total number of tile requests served from a local cache",
	})
	tileCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "demtile_cache_misses_total",
		Help: "The total number of tile requests not found in a local cache",
	})
)
