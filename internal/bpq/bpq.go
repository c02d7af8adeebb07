// ════════════════════════════════════════════════════════════════════════════════════════════════
// Batched Priority Queue Engine
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: S3Q
// Component: Cross-Level Overflow and Underflow Repair
//
// Description:
//   Owns the level hierarchy (finest first) and keeps it in shape after every insert/delMin: a
//   chain of overflowing max-buffers is flushed rightward, growing a new coarsest level if even
//   that one overflows; a chain of underflowing degrees is refilled leftward from the next level,
//   shrinking the hierarchy if the coarsest level empties out.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package bpq

import (
	"cmp"

	"github.com/raphinesse/s3q/internal/bucket"
	"github.com/raphinesse/s3q/internal/config"
	"github.com/raphinesse/s3q/internal/level"
	"github.com/raphinesse/s3q/internal/sampler"
	"github.com/raphinesse/s3q/internal/trace"
)

// Bucket aliases the shared bucket representation for callers of this package.
type Bucket[Item any, Key cmp.Ordered] = bucket.Bucket[Item, Key]

// BPQ is the batched priority queue engine: a hierarchy of Levels, finest
// first, kept in shape by handleMaxBufOverflowFrom / handleDegreeUnderflow.
type BPQ[Item any, Key cmp.Ordered] struct {
	cfg     *config.Config[Item, Key]
	sampler *sampler.Sampler[Key]
	size    int
	levels  []*level.Level[Item, Key]
}

// New constructs a BPQ with a single, empty finest level.
func New[Item any, Key cmp.Ordered](cfg *config.Config[Item, Key], seed1, seed2 uint64) *BPQ[Item, Key] {
	cfg.Resolve()
	samp := sampler.New[Key](seed1, seed2)
	l0 := level.New(cfg, samp, cfg.BufBaseSize, 0)
	return &BPQ[Item, Key]{
		cfg:     cfg,
		sampler: samp,
		levels:  []*level.Level[Item, Key]{l0},
	}
}

// Size returns the total number of items held across every level.
func (q *BPQ[Item, Key]) Size() int { return q.size }

// Insert batch-inserts items into the finest level and repairs any
// resulting overflow. Precondition: len(items) <= 2*BufBaseSize.
func (q *BPQ[Item, Key]) Insert(items []Item) {
	q.size += len(items)
	q.levels[0].Insert(items)
	q.handleMaxBufOverflowFrom(0)
	q.traceState("insert:after")
}

// InsertMin installs b at the head of the finest level and repairs any
// resulting overflow.
func (q *BPQ[Item, Key]) InsertMin(b Bucket[Item, Key]) {
	q.size += len(b.Buf)
	q.levels[0].InsertMin(b)
	q.handleMaxBufOverflowFrom(0)
	q.traceState("insertMin:after")
}

// DelMin removes and returns the finest level's minimum bucket, refilling
// any levels whose degree underflows as a result.
//
// Precondition: Size() > 0.
func (q *BPQ[Item, Key]) DelMin() Bucket[Item, Key] {
	minBucket := q.levels[0].DelMin()
	q.handleDegreeUnderflow()
	q.size -= len(minBucket.Buf)
	q.traceState("delMin:after")
	return minBucket
}

// handleMaxBufOverflowFrom flushes overflowing max-buffers left to right
// starting at levels[begin], growing a new coarsest level if even the
// last one overflows.
func (q *BPQ[Item, Key]) handleMaxBufOverflowFrom(begin int) {
	lvl := begin
	lastLvl := len(q.levels) - 1

	for lvl < lastLvl && q.levels[lvl].Overflow() {
		q.levels[lvl].FlushMaxBufInto(q.levels[lvl+1])
		lvl++
	}

	if lvl == lastLvl && q.levels[lvl].Overflow() {
		if trace.Enabled {
			trace.Event("add_lvl", "idx="+itoa(len(q.levels)))
		}
		invariant(q.levels[lvl].Degree() > q.cfg.MaxDegree()-q.cfg.SplitFactor(), "bpq.handleMaxBufOverflowFrom: last level degree too low to grow a successor")

		next := level.New(q.cfg, q.sampler, q.levels[lvl].KMaxBucketSize()*q.cfg.GrowthRate(), len(q.levels))
		q.levels = append(q.levels, next)
		q.levels[lvl].FlushMaxBufInto(next)
	}
}

// handleDegreeUnderflow refills, left to right, any run of levels whose
// degree has dropped to kMinDegree+1 or below, from the next level up;
// removes the coarsest level if it emptied out; otherwise cascades any
// overflow the refill induced.
func (q *BPQ[Item, Key]) handleDegreeUnderflow() {
	lvl := 0
	lastLvl := len(q.levels) - 1
	refillThreshold := q.cfg.MinDegree() + 1

	for lvl < lastLvl && q.levels[lvl].Degree() <= refillThreshold {
		next := lvl + 1
		q.levels[lvl].RefillFrom(q.levels[next])
		if q.levels[lvl].Overflow() {
			// A bad split can cause the receiving level to overflow; flush
			// it straight back into the level we just refilled from.
			q.levels[lvl].FlushMaxBufInto(q.levels[next])
		}
		lvl = next
	}

	if lvl == 0 {
		return
	}

	if lvl == lastLvl && q.levels[lvl].Degree() == 0 {
		q.levels = q.levels[:lastLvl]
		return
	}

	q.handleMaxBufOverflowFrom(lvl)
}

func (q *BPQ[Item, Key]) traceState(event string) {
	if !trace.Enabled {
		return
	}
	degrees := make([]int, len(q.levels))
	for i, l := range q.levels {
		degrees[i] = l.Degree()
	}
	trace.Event("BatchedPriorityQueue::"+event, "size="+itoa(q.size), "levels="+itoaSlice(degrees))
}

func invariant(cond bool, msg string) {
	if !cond {
		panic("s3q/internal/bpq: invariant violated: " + msg)
	}
}
