package http

import (
	"github.com/prometheus/client_golang/prometheus"

	"spotifyproxy/internal/store"
)

// CacheStatsFunc reports lookup cache counters by cache name.
type CacheStatsFunc func() map[string]store.Stats

type cacheCollector struct {
	stats     CacheStatsFunc
	hits      *prometheus.Desc
	misses    *prometheus.Desc
	negatives *prometheus.Desc
}

// NewCacheCollector exports lookup cache counters on every scrape.
func NewCacheCollector(stats CacheStatsFunc) prometheus.Collector {
	labels := []string{"cache"}
	return &cacheCollector{
		stats:     stats,
		hits:      prometheus.NewDesc("spotifyproxy_cache_hits_total", "Lookups served from the cache", labels, nil),
		misses:    prometheus.NewDesc("spotifyproxy_cache_misses_total", "Lookups not found in the cache", labels, nil),
		negatives: prometheus.NewDesc("spotifyproxy_cache_negative_hits_total", "Lookups answered as known missing", labels, nil),
	}
}

func (c *cacheCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.negatives
}

func (c *cacheCollector) Collect(ch chan<- prometheus.Metric) {
	for name, stats := range c.stats() {
		ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(stats.Hits), name)
		ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(stats.Misses), name)
		ch <- prometheus.MustNewConstMetric(c.negatives, prometheus.CounterValue, float64(stats.Negatives), name)
	}
}
