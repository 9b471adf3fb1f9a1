package memkv

import (
	"testing"
	"time"
)

// fakeClock lets tests advance time deterministically instead of sleeping.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time { return f.t }

func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestEngine(t *testing.T, limit uint64) (*Engine, *fakeClock) {
	t.Helper()
	e := New(Config{Limit: limit})
	fc := &fakeClock{t: time.Now()}
	e.now = fc.now
	return e, fc
}

func TestBasicRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t, 300)

	if err := e.Set("a", []byte("a"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := e.Get("a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(v) != "a" {
		t.Fatalf("Get = %q, want %q", v, "a")
	}
	if got := e.Size(); got != 1 {
		t.Fatalf("Size = %d, want 1", got)
	}
}

func TestAbsentKey(t *testing.T) {
	e, _ := newTestEngine(t, 300)

	if _, err := e.Get("b"); err != ErrNotFound {
		t.Fatalf("Get(missing) = %v, want ErrNotFound", err)
	}
}

func TestOldestDisplacement(t *testing.T) {
	e, _ := newTestEngine(t, 3)

	for _, k := range []string{"a", "b", "c", "d"} {
		if err := e.Set(k, []byte("a"), 0); err != nil {
			t.Fatalf("Set(%s): %v", k, err)
		}
	}

	if _, err := e.Get("a"); err != ErrNotFound {
		t.Fatalf("Get(a) = %v, want ErrNotFound (should have been displaced)", err)
	}
	for _, k := range []string{"b", "c", "d"} {
		v, err := e.Get(k)
		if err != nil {
			t.Fatalf("Get(%s): %v", k, err)
		}
		if string(v) != "a" {
			t.Fatalf("Get(%s) = %q, want %q", k, v, "a")
		}
	}
}

func TestExpiryWithoutGC(t *testing.T) {
	e, fc := newTestEngine(t, 300)

	if err := e.Set("a", []byte("a"), 100*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, err := e.Get("a"); err != nil || string(v) != "a" {
		t.Fatalf("Get immediately = (%q, %v), want (%q, nil)", v, err, "a")
	}

	fc.advance(200 * time.Millisecond)

	if _, err := e.Get("a"); err != ErrNotFound {
		t.Fatalf("Get after expiry = %v, want ErrNotFound", err)
	}

	if got := e.Size(); got != 1 {
		t.Fatalf("Size after expiry (no GC) = %d, want 1 (entry still resident)", got)
	}
	if got := e.storeLen(); got != 1 {
		t.Fatalf("storeLen = %d, want 1", got)
	}
	if got := e.expiryLen(); got != 1 {
		t.Fatalf("expiryLen = %d, want 1", got)
	}
	if got := e.recentLen(); got != 1 {
		t.Fatalf("recentLen = %d, want 1", got)
	}
}

func TestExpiryWithGC(t *testing.T) {
	e, fc := newTestEngine(t, 300)

	if err := e.Set("a", []byte("a"), 100*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	fc.advance(200 * time.Millisecond)
	e.CollectGarbage()

	if _, err := e.Get("a"); err != ErrNotFound {
		t.Fatalf("Get after GC = %v, want ErrNotFound", err)
	}
	if got := e.Size(); got != 0 {
		t.Fatalf("Size after GC = %d, want 0", got)
	}
	if got := e.storeLen(); got != 0 {
		t.Fatalf("storeLen = %d, want 0", got)
	}
	if got := e.expiryLen(); got != 0 {
		t.Fatalf("expiryLen = %d, want 0", got)
	}
	if got := e.recentLen(); got != 0 {
		t.Fatalf("recentLen = %d, want 0", got)
	}
}

func TestOversizeRejection(t *testing.T) {
	e, _ := newTestEngine(t, 1)

	if err := e.Set("a", []byte("aa"), 0); err != ErrAdmissionRefused {
		t.Fatalf("Set(oversize) = %v, want ErrAdmissionRefused", err)
	}
	if _, err := e.Get("a"); err != ErrNotFound {
		t.Fatalf("Get(a) = %v, want ErrNotFound", err)
	}
	if got := e.Size(); got != 0 {
		t.Fatalf("Size = %d, want 0", got)
	}
}

func TestSetDeleteRoundTrip(t *testing.T) {
	e, _ := newTestEngine(t, 300)

	sizeBefore := e.Size()
	storeBefore := e.storeLen()
	recentBefore := e.recentLen()

	if err := e.Set("k", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := e.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if got := e.Size(); got != sizeBefore {
		t.Fatalf("Size after round-trip = %d, want %d", got, sizeBefore)
	}
	if got := e.storeLen(); got != storeBefore {
		t.Fatalf("storeLen after round-trip = %d, want %d", got, storeBefore)
	}
	if got := e.recentLen(); got != recentBefore {
		t.Fatalf("recentLen after round-trip = %d, want %d", got, recentBefore)
	}
}

func TestGetIdempotent(t *testing.T) {
	e, _ := newTestEngine(t, 300)
	_ = e.Set("a", []byte("a"), 0)

	v1, err1 := e.Get("a")
	v2, err2 := e.Get("a")
	if err1 != err2 || string(v1) != string(v2) {
		t.Fatalf("Get not idempotent: (%q,%v) vs (%q,%v)", v1, err1, v2, err2)
	}
}

func TestCollectGarbageIdempotent(t *testing.T) {
	e, fc := newTestEngine(t, 300)
	_ = e.Set("a", []byte("a"), 50*time.Millisecond)
	fc.advance(100 * time.Millisecond)

	e.CollectGarbage()
	sizeAfterFirst := e.Size()
	e.CollectGarbage()

	if e.Size() != sizeAfterFirst {
		t.Fatalf("second CollectGarbage changed Size: %d -> %d", sizeAfterFirst, e.Size())
	}
}

func TestSameKeyOverwriteCanEvictUnrelatedKeysFirst(t *testing.T) {
	// Documented behavior (spec §4.1 step 3 rationale): eviction runs
	// before the pre-existing same-key entry is removed, so a growing
	// overwrite near the capacity limit can evict an unrelated key.
	e, _ := newTestEngine(t, 2)

	_ = e.Set("a", []byte("x"), 0)
	_ = e.Set("b", []byte("x"), 0)

	if err := e.Set("b", []byte("xx"), 0); err != nil {
		t.Fatalf("Set(b, grow): %v", err)
	}

	if _, err := e.Get("a"); err != ErrNotFound {
		t.Fatalf("Get(a) = %v, want ErrNotFound (evicted to make room for b's growth)", err)
	}
	v, err := e.Get("b")
	if err != nil || string(v) != "xx" {
		t.Fatalf("Get(b) = (%q, %v), want (%q, nil)", v, err, "xx")
	}
}
