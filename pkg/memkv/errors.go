package memkv

import "errors"

// Sentinel errors surfaced by the Engine's public contract (spec §7).
// These are the only errors the Engine returns. The index bookkeeping does
// not check its invariants at run time: a key or bucket missing from a
// secondary index is skipped silently rather than reported or panicked on.
var (
	// ErrNotFound means the key has no live entry: it was never set,
	// was deleted, evicted, collected, or has passed its expiry.
	ErrNotFound = errors.New("memkv: key not found")

	// ErrAdmissionRefused means Set could not free enough space to admit
	// the new value even after running the garbage collector and
	// evicting the oldest entries.
	ErrAdmissionRefused = errors.New("memkv: value exceeds available capacity")
)
