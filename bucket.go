// ════════════════════════════════════════════════════════════════════════════════════════════════
// Bucket
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Public Alias for the Internal Bucket Representation
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package s3q

import (
	"cmp"

	"github.com/raphinesse/s3q/internal/bucket"
)

// Bucket is a contiguous run of items, all known to have keys at most
// Sup. The last bucket of a Level always carries Sup == the queue's +inf
// sentinel and plays the role of that level's max-buffer.
type Bucket[Item any, Key cmp.Ordered] = bucket.Bucket[Item, Key]

// NewBucket returns an empty bucket with the given supremum.
func NewBucket[Item any, Key cmp.Ordered](sup Key) Bucket[Item, Key] {
	return bucket.New[Item, Key](sup)
}
