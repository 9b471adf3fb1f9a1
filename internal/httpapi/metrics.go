package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/watt-toolkit/memkv/pkg/memkv"
)

// engineCollector exposes Engine.Metrics() as Prometheus gauges/counters,
// read on every scrape so /metrics never needs its own background updater.
// Named and shaped after the promauto counters in
// nobletooth-kiwi/pkg/storage/block_cache.go, but implemented as a
// prometheus.Collector since the underlying numbers already live behind
// the engine's own atomic counters rather than ones we'd increment inline.
type engineCollector struct {
	engine *memkv.Engine

	hits        *prometheus.Desc
	misses      *prometheus.Desc
	sets        *prometheus.Desc
	deletes     *prometheus.Desc
	evictions   *prometheus.Desc
	expirations *prometheus.Desc
	currentSize *prometheus.Desc
}

func newEngineCollector(engine *memkv.Engine) *engineCollector {
	return &engineCollector{
		engine:      engine,
		hits:        prometheus.NewDesc("memkv_hits_total", "Total number of Get hits.", nil, nil),
		misses:      prometheus.NewDesc("memkv_misses_total", "Total number of Get misses.", nil, nil),
		sets:        prometheus.NewDesc("memkv_sets_total", "Total number of successful Set admissions.", nil, nil),
		deletes:     prometheus.NewDesc("memkv_deletes_total", "Total number of explicit deletes.", nil, nil),
		evictions:   prometheus.NewDesc("memkv_evictions_total", "Total number of oldest-entry evictions.", nil, nil),
		expirations: prometheus.NewDesc("memkv_expirations_total", "Total number of entries reclaimed by collect_garbage.", nil, nil),
		currentSize: prometheus.NewDesc("memkv_current_size_bytes", "Current occupied capacity in bytes.", nil, nil),
	}
}

func (c *engineCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.sets
	ch <- c.deletes
	ch <- c.evictions
	ch <- c.expirations
	ch <- c.currentSize
}

func (c *engineCollector) Collect(ch chan<- prometheus.Metric) {
	m := c.engine.Metrics()
	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, float64(m.Hits))
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, float64(m.Misses))
	ch <- prometheus.MustNewConstMetric(c.sets, prometheus.CounterValue, float64(m.Sets))
	ch <- prometheus.MustNewConstMetric(c.deletes, prometheus.CounterValue, float64(m.Deletes))
	ch <- prometheus.MustNewConstMetric(c.evictions, prometheus.CounterValue, float64(m.Evictions))
	ch <- prometheus.MustNewConstMetric(c.expirations, prometheus.CounterValue, float64(m.Expirations))
	ch <- prometheus.MustNewConstMetric(c.currentSize, prometheus.GaugeValue, float64(m.CurrentSize))
}
