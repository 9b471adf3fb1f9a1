package memkv

import (
	"time"

	"github.com/tidwall/btree"
)

// orderedIndex is an ascending ordered multi-map from a time instant to the
// set of keys associated with that instant. It backs both the Recency Index
// and the Expiry Index described in the spec: both need ascending
// iteration, O(log n) access to the first bucket, and prefix removal up to
// a bound.
//
// time.Time is not an ordered type under the tidwall/btree generic Map
// constraint (cmp.Ordered), so buckets are keyed by UnixNano. Two instants
// from the same clock source never collide in practice, and the design
// must tolerate same-instant collisions anyway (spec §3), which is handled
// by the []string bucket.
type orderedIndex struct {
	tree btree.Map[int64, []string]
}

func stampOf(t time.Time) int64 {
	return t.UnixNano()
}

// add appends key to the bucket at t, creating the bucket if absent.
func (idx *orderedIndex) add(t time.Time, key string) {
	stamp := stampOf(t)
	bucket, _ := idx.tree.Get(stamp)
	idx.tree.Set(stamp, append(bucket, key))
}

// remove deletes key from the bucket at t. If the bucket becomes empty it
// is removed entirely (invariant: no empty buckets).
func (idx *orderedIndex) remove(t time.Time, key string) {
	stamp := stampOf(t)
	bucket, ok := idx.tree.Get(stamp)
	if !ok {
		return
	}
	for i, k := range bucket {
		if k == key {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		idx.tree.Delete(stamp)
		return
	}
	idx.tree.Set(stamp, bucket)
}

// first returns the earliest bucket's first key, for the eviction rule.
func (idx *orderedIndex) first() (string, bool) {
	_, bucket, ok := idx.tree.Min()
	if !ok || len(bucket) == 0 {
		return "", false
	}
	return bucket[0], true
}

// removeExpiredBefore removes every bucket whose stamp is strictly less
// than bound, returning the keys from all such buckets in ascending bucket
// order. Buckets are collected first and deleted in a second pass so the
// traversal never mutates the tree while scanning it (spec §9 calls this
// out as the safer alternative to the source's in-place-during-iteration
// approach).
func (idx *orderedIndex) removeExpiredBefore(bound time.Time) []string {
	boundStamp := stampOf(bound)

	var stamps []int64
	var keys []string
	idx.tree.Scan(func(stamp int64, bucket []string) bool {
		if stamp >= boundStamp {
			return false
		}
		stamps = append(stamps, stamp)
		keys = append(keys, bucket...)
		return true
	})

	for _, stamp := range stamps {
		idx.tree.Delete(stamp)
	}
	return keys
}

func (idx *orderedIndex) len() int {
	return idx.tree.Len()
}
