package memkv

import "sync/atomic"

// atomicMetrics mirrors the teacher's lock-free metrics struct
// (capacitor/pkg/cache/memory/metrics_atomic.go): one atomic counter per
// event. Hits and misses are recorded by concurrent Get calls that hold
// only the shared read lock, and Snapshot is read by the /metrics handler
// without taking the engine lock, so every counter is atomic.
type atomicMetrics struct {
	hits        atomic.Int64
	misses      atomic.Int64
	sets        atomic.Int64
	deletes     atomic.Int64
	evictions   atomic.Int64
	expirations atomic.Int64
	currentSize atomic.Int64
}

// Metrics is a point-in-time snapshot of engine counters.
type Metrics struct {
	Hits        int64
	Misses      int64
	Sets        int64
	Deletes     int64
	Evictions   int64
	Expirations int64
	CurrentSize int64
}

func (m *atomicMetrics) recordHit()               { m.hits.Add(1) }
func (m *atomicMetrics) recordMiss()               { m.misses.Add(1) }
func (m *atomicMetrics) recordSet()                { m.sets.Add(1) }
func (m *atomicMetrics) recordDelete()             { m.deletes.Add(1) }
func (m *atomicMetrics) recordEviction()           { m.evictions.Add(1) }
func (m *atomicMetrics) recordExpirations(n int64) { m.expirations.Add(n) }
func (m *atomicMetrics) setCurrentSize(n int64)    { m.currentSize.Store(n) }

// Snapshot returns the current counter values. Values are not a
// consistent point-in-time transaction across counters, which is
// acceptable for metrics (same tradeoff the teacher documents).
func (m *atomicMetrics) Snapshot() Metrics {
	return Metrics{
		Hits:        m.hits.Load(),
		Misses:      m.misses.Load(),
		Sets:        m.sets.Load(),
		Deletes:     m.deletes.Load(),
		Evictions:   m.evictions.Load(),
		Expirations: m.expirations.Load(),
		CurrentSize: m.currentSize.Load(),
	}
}
