// Package memkv implements the cache engine: a bounded-capacity,
// TTL-expiring, least-recently-inserted-evicting key/value store, and the
// three indexes (primary store, recency index, expiry index) that must
// stay consistent across every mutation.
package memkv

import (
	"sync"
	"time"
)

// Config configures a new Engine.
type Config struct {
	// Limit is the capacity budget in bytes: the sum of value lengths of
	// all live entries may never exceed Limit once Set returns success.
	Limit uint64
}

// Engine is the cache core described by the spec: a Store (primary map),
// a Recency Index, and an Expiry Index, kept mutually consistent under a
// single reader/writer lock. Get takes the read lock; Set, Delete, and
// CollectGarbage take the write lock and run to completion before
// releasing it, so there is never a caller-visible partial state.
type Engine struct {
	mu sync.RWMutex

	limit       uint64
	currentSize uint64

	store  map[string]*entry
	recent orderedIndex // keyed by entry.touch
	expiry orderedIndex // keyed by entry.expiry, only entries with a TTL

	metrics atomicMetrics

	// now is overridable in tests to simulate TTL expiry without sleeping.
	now func() time.Time
}

// New creates an Engine with the given byte capacity limit.
func New(cfg Config) *Engine {
	return &Engine{
		limit: cfg.Limit,
		store: make(map[string]*entry),
		now:   time.Now,
	}
}

// Get returns the current value for key, or ErrNotFound if no live entry
// exists. An entry past its expiry is reported absent even though it
// remains resident in the Store (lazy expiry on the read path); physical
// removal is deferred to CollectGarbage or to a Delete/Set over the same
// key (spec §9's Open Question, decided explicitly in SPEC_FULL.md).
//
// Get never mutates touch and never reorders the Recency Index.
func (e *Engine) Get(key string) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ent, ok := e.store[key]
	if !ok || ent.expired(e.now()) {
		e.metrics.recordMiss()
		return nil, ErrNotFound
	}

	e.metrics.recordHit()
	return ent.value, nil
}

// Set stores value under key with an optional ttl (zero means no
// expiration). It returns ErrAdmissionRefused if value alone cannot be
// made to fit within the capacity limit even after collecting garbage and
// evicting the oldest entries.
//
// Admission follows the deterministic ordering from spec §4.1: the
// pre-existing entry for key (if any) is treated as still occupying space
// while testing fit, garbage is collected once if needed, the oldest
// entries are evicted one at a time while still over budget, and only
// once the budget is provably satisfiable is the pre-existing entry for
// key actually removed and the new one inserted. This means a same-key
// overwrite that grows can evict unrelated keys before evicting its own
// prior value — documented, stable behavior, not a bug.
func (e *Engine) Set(key string, value []byte, ttl time.Duration) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	need := e.currentSize + uint64(len(value))
	fits := need <= e.limit

	if !fits {
		e.collectGarbageLocked()
		need = e.currentSize + uint64(len(value))
		fits = need <= e.limit
	}

	for !fits {
		if !e.evictOldestLocked() {
			break
		}
		need = e.currentSize + uint64(len(value))
		fits = need <= e.limit
	}

	if !fits {
		return ErrAdmissionRefused
	}

	e.deleteLocked(key)

	touch := e.now()
	var exp time.Time
	if ttl > 0 {
		exp = touch.Add(ttl)
	}

	ent := &entry{value: value, touch: touch, expiry: exp}
	e.store[key] = ent
	e.recent.add(touch, key)
	if ent.hasExpiry() {
		e.expiry.add(exp, key)
	}
	e.currentSize += uint64(len(value))

	e.metrics.recordSet()
	e.metrics.setCurrentSize(int64(e.currentSize))
	return nil
}

// Delete removes the entry for key, if present, and returns its value.
// Returns ErrNotFound if no such key exists.
func (e *Engine) Delete(key string) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ent, ok := e.store[key]
	if !ok {
		return nil, ErrNotFound
	}
	e.deleteLocked(key)
	e.metrics.recordDelete()
	e.metrics.setCurrentSize(int64(e.currentSize))
	return ent.value, nil
}

// deleteLocked removes key from the Store and both secondary indexes and
// adjusts currentSize. It is a no-op if key is absent. Caller must hold
// the write lock.
func (e *Engine) deleteLocked(key string) {
	ent, ok := e.store[key]
	if !ok {
		return
	}
	delete(e.store, key)
	e.recent.remove(ent.touch, key)
	if ent.hasExpiry() {
		e.expiry.remove(ent.expiry, key)
	}
	e.currentSize -= uint64(len(ent.value))
}

// evictOldestLocked deletes the single oldest-by-touch entry (the
// least-recently-inserted rule, not LRU: reads never refresh touch).
// Returns false if the Recency Index is empty, meaning the Store is also
// empty and nothing could be evicted. Caller must hold the write lock.
func (e *Engine) evictOldestLocked() bool {
	key, ok := e.recent.first()
	if !ok {
		return false
	}
	e.deleteLocked(key)
	e.metrics.recordEviction()
	return true
}

// CollectGarbage removes every entry whose expiry is strictly before the
// current instant. It scans the Expiry Index's ascending prefix of
// already-expired buckets, removing each key from the Store and the
// Recency Index, and stops at the first bucket at or after now. Idempotent
// when no intervening mutation occurs.
func (e *Engine) CollectGarbage() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.collectGarbageLocked()
}

func (e *Engine) collectGarbageLocked() {
	now := e.now()
	expiredKeys := e.expiry.removeExpiredBefore(now)
	if len(expiredKeys) == 0 {
		return
	}

	var reclaimed int64
	for _, key := range expiredKeys {
		ent, ok := e.store[key]
		if !ok {
			continue
		}
		delete(e.store, key)
		e.recent.remove(ent.touch, key)
		e.currentSize -= uint64(len(ent.value))
		reclaimed++
	}
	e.metrics.recordExpirations(reclaimed)
	e.metrics.setCurrentSize(int64(e.currentSize))
}

// Size returns the current number of bytes occupied by resident entries,
// including expired entries that CollectGarbage has not yet removed.
func (e *Engine) Size() uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.currentSize
}

// Metrics returns a snapshot of the engine's counters.
func (e *Engine) Metrics() Metrics {
	return e.metrics.Snapshot()
}

// storeLen, recentLen, and expiryLen expose internal index sizes for
// invariant testing; not part of the public cache contract.
func (e *Engine) storeLen() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.store)
}

func (e *Engine) recentLen() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.recent.len()
}

func (e *Engine) expiryLen() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.expiry.len()
}
