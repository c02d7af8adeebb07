// ════════════════════════════════════════════════════════════════════════════════════════════════
// Bucket
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: S3Q
// Component: Contiguous Item Run With a Supremum
//
// Description:
//   The unit of storage a Level holds a slice of. Every item in a bucket's Buf has a key at most
//   Sup; the last bucket of a Level always carries the queue's +inf sentinel as Sup and doubles as
//   that level's max-buffer.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package bucket

import "cmp"

// Bucket is a contiguous run of items together with an upper bound on
// their keys.
type Bucket[Item any, Key cmp.Ordered] struct {
	Sup Key
	Buf []Item
}

// New returns an empty bucket with the given supremum.
func New[Item any, Key cmp.Ordered](sup Key) Bucket[Item, Key] {
	return Bucket[Item, Key]{Sup: sup}
}

// Len returns the number of items currently held in the bucket.
func (b *Bucket[Item, Key]) Len() int { return len(b.Buf) }

// GetSup returns b's supremum. Useful as a transform function when
// collecting a Level's splitters from its regular buckets.
func GetSup[Item any, Key cmp.Ordered](b Bucket[Item, Key]) Key { return b.Sup }
