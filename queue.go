// ════════════════════════════════════════════════════════════════════════════════════════════════
// Priority Queue (Front End)
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Small-Heap-Backed Front End Over the Batched Backend
//
// Description:
//   Most pops never have to touch the batched backend: the current minimum bucket lives in
//   a small sentinel-guarded binary heap, and everything with a key above that bucket's supremum
//   accumulates in an unordered max-buffer until it's big enough to flush into the backend as a
//   batch. When the heap empties, a fresh min-bucket is pulled from the backend (or, if the
//   backend is empty, the max-buffer is promoted wholesale) and the max-buffer is reclassified
//   against the new bucket's supremum.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package s3q

import (
	"cmp"

	"github.com/raphinesse/s3q/internal/bpq"
	"github.com/raphinesse/s3q/internal/heapx"
)

// PriorityQueue is the front-end S3Q queue: push/pop/top/size/empty over
// a sample-sort batched backend. The zero value is not usable; construct
// with NewPriorityQueue.
type PriorityQueue[Item any, Key cmp.Ordered] struct {
	cfg       *Config[Item, Key]
	minBucket Bucket[Item, Key]
	maxBuffer []Item
	backend   *bpq.BPQ[Item, Key]
}

// NewPriorityQueue constructs an empty PriorityQueue from cfg and a PRNG seed
// pair for the splitter sampler (for reproducible tests, seed explicitly;
// otherwise derive seed1/seed2 from a fresh source of entropy).
func NewPriorityQueue[Item any, Key cmp.Ordered](cfg Config[Item, Key], seed1, seed2 uint64) *PriorityQueue[Item, Key] {
	cfg.Resolve()
	q := &PriorityQueue[Item, Key]{
		cfg:     &cfg,
		backend: bpq.New(&cfg, seed1, seed2),
	}
	q.minBucket.Sup = cfg.Sup
	var zero Item
	q.minBucket.Buf = []Item{cfg.Sentinel(zero)}
	return q
}

// Size returns the total number of items currently held in the queue.
func (q *PriorityQueue[Item, Key]) Size() int {
	return heapx.Size(q.minBucket.Buf) + len(q.maxBuffer) + q.backend.Size()
}

// Empty reports whether the queue holds no items.
func (q *PriorityQueue[Item, Key]) Empty() bool { return q.Size() == 0 }

// Top returns the minimum item without removing it.
//
// Precondition: !Empty().
func (q *PriorityQueue[Item, Key]) Top() Item {
	invariant(!q.Empty(), "PriorityQueue.Top called on an empty queue")
	return heapx.Top(q.minBucket.Buf)
}

// Push inserts item into the queue.
//
// Precondition: item's key lies strictly between cfg.Inf and cfg.Sup.
func (q *PriorityQueue[Item, Key]) Push(item Item) {
	invariant(q.cfg.Contains(q.cfg.GetKey(item)), "PriorityQueue.Push: item key outside (Inf, Sup)")

	if q.cfg.GetKey(item) > q.minBucket.Sup {
		q.insertIntoMaxBuf(item)
	} else {
		q.insertIntoMinBuf(item)
	}
}

// Pop removes and returns the minimum item.
//
// Precondition: !Empty().
func (q *PriorityQueue[Item, Key]) Pop() Item {
	invariant(!q.Empty(), "PriorityQueue.Pop called on an empty queue")

	item := q.popMinBuf()
	if heapx.Empty(q.minBucket.Buf) && !q.Empty() {
		q.refillMinBuf()
	}
	return item
}

func (q *PriorityQueue[Item, Key]) insertIntoMaxBuf(item Item) {
	q.maxBuffer = append(q.maxBuffer, item)

	if len(q.maxBuffer) >= q.cfg.BufBaseSize {
		q.backend.Insert(q.maxBuffer)
		q.maxBuffer = q.maxBuffer[:0]
	}
}

func (q *PriorityQueue[Item, Key]) insertIntoMinBuf(item Item) {
	q.minBucket.Buf = append(q.minBucket.Buf, item)

	if len(q.minBucket.Buf) > q.cfg.BufBaseSize {
		// Recycle the sentinel slot with the element that would otherwise
		// be discarded, then rebuild from scratch so the next classifier
		// build sees the right splitter.
		last := len(q.minBucket.Buf) - 1
		q.minBucket.Buf[0] = q.minBucket.Buf[last]
		q.minBucket.Buf = q.minBucket.Buf[:last]

		q.flushMinBuf()
		q.minBucket.Buf = heapx.Make(q.minBucket.Buf, q.cfg.GetKey, q.sentinel())
	} else {
		heapx.Push(q.minBucket.Buf, q.cfg.GetKey)
	}
}

// refillMinBuf pulls a fresh min-bucket once the heap has emptied.
//
// Precondition: heapx.Empty(minBucket.Buf), !Empty().
func (q *PriorityQueue[Item, Key]) refillMinBuf() {
	if q.backend.Size() == 0 {
		// Backend is empty; the max-buffer becomes the new min-bucket.
		q.minBucket.Sup = q.cfg.Sup
		q.minBucket.Buf, q.maxBuffer = q.maxBuffer, q.minBucket.Buf[:0]
	} else {
		q.minBucket = q.backend.DelMin()
		q.reclassifyMaxBuf()
		if len(q.minBucket.Buf) > q.cfg.BufBaseSize {
			q.flushMinBuf()
		}
	}
	q.minBucket.Buf = heapx.Make(q.minBucket.Buf, q.cfg.GetKey, q.sentinel())
}

// flushMinBuf alpha-way-splits the current min-bucket via the backend,
// keeping only the (smaller) bucket the backend hands back.
func (q *PriorityQueue[Item, Key]) flushMinBuf() {
	q.backend.InsertMin(q.minBucket)
	q.minBucket = q.backend.DelMin()
}

// reclassifyMaxBuf moves every item in the max-buffer whose key is at
// most the (new) min-bucket's supremum into the min-bucket.
func (q *PriorityQueue[Item, Key]) reclassifyMaxBuf() {
	sup := q.minBucket.Sup
	kept := q.maxBuffer[:0]
	for _, item := range q.maxBuffer {
		if q.cfg.GetKey(item) > sup {
			kept = append(kept, item)
		} else {
			q.minBucket.Buf = append(q.minBucket.Buf, item)
		}
	}
	q.maxBuffer = kept
}

func (q *PriorityQueue[Item, Key]) popMinBuf() Item {
	buf := q.minBucket.Buf
	invariant(!heapx.Empty(buf), "PriorityQueue.popMinBuf: heap is empty")

	item := heapx.Top(buf)
	heapx.Pop(buf, q.cfg.GetKey)
	q.minBucket.Buf = buf[:len(buf)-1]
	return item
}

func (q *PriorityQueue[Item, Key]) sentinel() Item {
	var zero Item
	return q.cfg.Sentinel(zero)
}
