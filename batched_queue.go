// ════════════════════════════════════════════════════════════════════════════════════════════════
// Batched Priority Queue
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Public Wrapper Over the Batched Backend
//
// Description:
//   Exposes the bucket-hierarchy backend on its own, for callers with a naturally batch-oriented
//   access pattern (bulk load, then repeated delMin) who don't need the front-end heap's
//   single-item push/pop ergonomics.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package s3q

import (
	"cmp"

	"github.com/raphinesse/s3q/internal/bpq"
)

// BatchedPriorityQueue is the sample-sort bucket-hierarchy backend on its
// own. The zero value is not usable; construct with NewBatchedPriorityQueue.
type BatchedPriorityQueue[Item any, Key cmp.Ordered] struct {
	inner *bpq.BPQ[Item, Key]
}

// NewBatchedPriorityQueue constructs an empty BatchedPriorityQueue from cfg and a
// PRNG seed pair for the splitter sampler.
func NewBatchedPriorityQueue[Item any, Key cmp.Ordered](cfg Config[Item, Key], seed1, seed2 uint64) *BatchedPriorityQueue[Item, Key] {
	cfg.Resolve()
	return &BatchedPriorityQueue[Item, Key]{inner: bpq.New(&cfg, seed1, seed2)}
}

// Size returns the total number of items held across every level.
func (q *BatchedPriorityQueue[Item, Key]) Size() int { return q.inner.Size() }

// Insert batch-inserts items into the finest level.
//
// Precondition: len(items) <= 2*cfg.BufBaseSize.
func (q *BatchedPriorityQueue[Item, Key]) Insert(items []Item) { q.inner.Insert(items) }

// InsertMin installs b at the head of the finest level, used to move an
// overflowing bucket back in from the front end.
//
// Precondition: cfg.BufBaseSize <= len(b.Buf) <= 3*cfg.BufBaseSize.
func (q *BatchedPriorityQueue[Item, Key]) InsertMin(b Bucket[Item, Key]) { q.inner.InsertMin(b) }

// DelMin removes and returns the finest level's minimum bucket.
//
// Precondition: Size() > 0.
func (q *BatchedPriorityQueue[Item, Key]) DelMin() Bucket[Item, Key] { return q.inner.DelMin() }
