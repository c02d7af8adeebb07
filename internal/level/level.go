// ════════════════════════════════════════════════════════════════════════════════════════════════
// Level
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: S3Q
// Component: One Tier of the Bucket Hierarchy
//
// Description:
//   A Level holds an ordered sequence of buckets, the last of which has no upper bound on its key
//   (the "max-buf") and doubles as overflow staging for its successor level. Insertion classifies
//   a batch into the regular buckets via the level's Classifier, rebuilding it lazily from the
//   buckets' suprema whenever it has been invalidated by a structural change. Splitting, joining,
//   and cross-level flush/refill keep every bucket within [minBucketSize, kMaxBucketSize] except
//   for the max-buf, which the owning batched queue is responsible for draining.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package level

import (
	"cmp"

	"github.com/raphinesse/s3q/internal/bucket"
	"github.com/raphinesse/s3q/internal/classify"
	"github.com/raphinesse/s3q/internal/config"
	"github.com/raphinesse/s3q/internal/sampler"
	"github.com/raphinesse/s3q/internal/trace"
)

// Bucket aliases the shared bucket representation for callers of this package.
type Bucket[Item any, Key cmp.Ordered] = bucket.Bucket[Item, Key]

// Level is one tier of the bucket hierarchy. The zero value is not
// usable; construct with New.
type Level[Item any, Key cmp.Ordered] struct {
	cfg            *config.Config[Item, Key]
	sampler        *sampler.Sampler[Key]
	kMaxBucketSize int
	idx            int // debug/trace only

	buckets    []Bucket[Item, Key]
	classifier classify.Classifier[Key]
	isLast     bool
}

// New constructs a Level. idx is used only for trace output; the first
// level is 0, each subsequent level's kMaxBucketSize is kGrowthRate times
// its predecessor's.
func New[Item any, Key cmp.Ordered](cfg *config.Config[Item, Key], samp *sampler.Sampler[Key], kMaxBucketSize, idx int) *Level[Item, Key] {
	return &Level[Item, Key]{
		cfg:            cfg,
		sampler:        samp,
		kMaxBucketSize: kMaxBucketSize,
		idx:            idx,
		isLast:         true,
	}
}

// KMaxBucketSize returns this level's max bucket size.
func (l *Level[Item, Key]) KMaxBucketSize() int { return l.kMaxBucketSize }

// Degree returns the number of buckets currently in the level.
func (l *Level[Item, Key]) Degree() int { return len(l.buckets) }

// Size returns the total number of items held across all buckets.
func (l *Level[Item, Key]) Size() int {
	n := 0
	for i := range l.buckets {
		n += len(l.buckets[i].Buf)
	}
	return n
}

// Overflow reports whether the max-buf exceeds kMaxBucketSize.
func (l *Level[Item, Key]) Overflow() bool { return l.maxBufSize() > l.kMaxBucketSize }

// IsLast reports whether this level is currently the coarsest in the hierarchy.
func (l *Level[Item, Key]) IsLast() bool { return l.isLast }

// SetIsLast sets the is_last flag; used by the owning batched queue when
// appending or removing levels.
func (l *Level[Item, Key]) SetIsLast(v bool) { l.isLast = v }

func (l *Level[Item, Key]) maxBufSize() int {
	invariant(len(l.buckets) > 0, "level.maxBufSize requires at least one bucket")
	return len(l.buckets[len(l.buckets)-1].Buf)
}

func (l *Level[Item, Key]) minBucketSize() int {
	return l.kMaxBucketSize / l.cfg.SplitFactor()
}

// DelMin removes and returns the first bucket.
//
// Precondition: Degree() >= 1.
func (l *Level[Item, Key]) DelMin() Bucket[Item, Key] {
	invariant(len(l.buckets) > 0, "level.DelMin requires a non-empty level")

	result := l.buckets[0]
	l.buckets = l.buckets[1:]
	l.classifier.Invalidate()

	invariant(len(result.Buf) <= l.kMaxBucketSize, "level.DelMin: popped bucket exceeds kMaxBucketSize")
	l.traceState("delMin:after")
	return result
}

// Insert batch-inserts items known to lie within this level's key range.
//
// Preconditions: Degree() <= kMaxDegree, 2*len(items) >= minBucketSize/kGrowthRate,
// 2*len(items) >= BufBaseSize/kSplitFactor, len(items) <= 2*kMaxBucketSize.
func (l *Level[Item, Key]) Insert(items []Item) {
	invariant(l.Degree() <= l.cfg.MaxDegree(), "level.Insert: degree exceeds kMaxDegree")
	invariant(2*len(items) >= l.minBucketSize()/l.cfg.GrowthRate(), "level.Insert: batch too small relative to minBucketSize/kGrowthRate")
	invariant(2*len(items) >= l.cfg.BufBaseSize/l.cfg.SplitFactor(), "level.Insert: batch too small relative to BufBaseSize/kSplitFactor")
	invariant(len(items) <= 2*l.kMaxBucketSize, "level.Insert: batch exceeds 2*kMaxBucketSize")

	if len(l.buckets) == 0 {
		l.buckets = append(l.buckets, Bucket[Item, Key]{Sup: l.cfg.Sup})
	}

	if len(l.buckets) == 1 {
		// Only one bucket: this can only happen on the last level.
		l.buckets[0].Buf = append(l.buckets[0].Buf, items...)
	} else {
		l.distribute(items)
	}

	// The last bucket's sup may have been clobbered by a prior split; reset it.
	l.buckets[len(l.buckets)-1].Sup = l.cfg.Sup

	l.fixOverflowingBuckets(0, l.Degree())
	l.traceState("insert:after")
}

// InsertMin installs b at position 0, used to move an overflowing bucket
// from a finer level's min side into this level.
//
// Precondition: kMaxBucketSize <= len(b.Buf) <= 3*kMaxBucketSize.
func (l *Level[Item, Key]) InsertMin(b Bucket[Item, Key]) {
	invariant(l.Degree() <= l.cfg.MaxDegree(), "level.InsertMin: degree exceeds kMaxDegree")
	invariant(len(b.Buf) >= l.kMaxBucketSize, "level.InsertMin: bucket too small")
	invariant(len(b.Buf) <= 3*l.kMaxBucketSize, "level.InsertMin: bucket too large")

	l.buckets = append(l.buckets, Bucket[Item, Key]{})
	copy(l.buckets[1:], l.buckets[:len(l.buckets)-1])
	l.buckets[0] = b

	l.shrinkToDegree(l.cfg.MaxDegree() - l.cfg.SplitFactor() + 1)
	l.splitAt(0, l.cfg.SplitFactor())

	l.traceState("insertMin:after")
}

// FlushMaxBufInto moves every max-buf item past the first minBucketSize
// into next, leaving exactly minBucketSize items behind.
//
// Precondition: Degree() > kMinDegree, len(max-buf) >= kMaxBucketSize.
func (l *Level[Item, Key]) FlushMaxBufInto(next *Level[Item, Key]) {
	l.isLast = false
	l.flushMaxBufInto(next, false)
}

func (l *Level[Item, Key]) flushMaxBufInto(next *Level[Item, Key], flushAll bool) {
	invariant(l.Degree() > l.cfg.MinDegree(), "level.flushMaxBufInto: degree must exceed kMinDegree")

	if trace.Enabled {
		trace.Event("flush_max", "lvl="+itoa(l.idx), "size="+itoa(l.maxBufSize()))
	}

	maxBuf := &l.buckets[len(l.buckets)-1].Buf
	if flushAll {
		next.Insert(*maxBuf)
		*maxBuf = (*maxBuf)[:0]
	} else {
		invariant(len(*maxBuf) >= l.kMaxBucketSize, "level.flushMaxBufInto: max-buf smaller than kMaxBucketSize")
		keep := l.minBucketSize()
		next.Insert((*maxBuf)[keep:])
		*maxBuf = (*maxBuf)[:keep:keep]
	}

	invariant(l.maxBufSize() <= l.kMaxBucketSize, "level.flushMaxBufInto: max-buf still overflowing after flush")
}

// RefillFrom steals next's minimum bucket as this level's new max-buf and
// repairs any resulting overflow.
//
// Precondition: Degree() == kMinDegree+1, next.Degree() > 0.
func (l *Level[Item, Key]) RefillFrom(next *Level[Item, Key]) {
	invariant(l.Degree() == l.cfg.MinDegree()+1, "level.RefillFrom: degree must equal kMinDegree+1")
	invariant(next.Degree() > 0, "level.RefillFrom: next level must be non-empty")

	if trace.Enabled {
		trace.Event("refill_from_next", "lvl="+itoa(l.idx))
	}

	l.flushMaxBufInto(next, true)

	l.buckets[len(l.buckets)-1] = next.DelMin()
	l.isLast = next.Degree() == 0

	invariant(l.maxBufSize() >= (l.cfg.SplitFactor()-1)*l.minBucketSize(), "level.RefillFrom: stolen bucket smaller than expected")

	fullSplitThreshold := l.minBucketSize() * l.cfg.GrowthRate()
	invariant(l.isLast || l.maxBufSize() >= fullSplitThreshold/2, "level.RefillFrom: stolen bucket smaller than half full-split threshold")
	invariant(l.maxBufSize() <= l.cfg.GrowthRate()*l.kMaxBucketSize, "level.RefillFrom: stolen bucket violates next level's max-size constraint")

	if l.maxBufSize() <= l.kMaxBucketSize {
		return
	}

	splitDegree := l.cfg.GrowthRate()
	if l.maxBufSize() < fullSplitThreshold {
		splitDegree = l.maxBufSize() / l.minBucketSize()
	}

	if trace.Enabled {
		trace.Event("split_max", "degree="+itoa(splitDegree))
	}
	l.splitAt(l.Degree()-1, splitDegree)
}

// distribute classifies items into the level's regular buckets,
// rebuilding the classifier first if it has been invalidated.
func (l *Level[Item, Key]) distribute(items []Item) {
	if !l.classifier.Valid() {
		if trace.Enabled {
			trace.Event("rebuild_classifier", "lvl="+itoa(l.idx))
		}
		splitters := l.splitters()
		l.classifier.Build(splitters, l.cfg.Sup)
	}

	classify.Classify(&l.classifier, items, l.cfg.GetKey, func(bucketIdx int, item Item) {
		l.buckets[bucketIdx].Buf = append(l.buckets[bucketIdx].Buf, item)
	})
}

// splitters returns the suprema of every bucket but the last (the regular
// buckets), which is exactly the sorted splitter set the classifier needs.
func (l *Level[Item, Key]) splitters() []Key {
	n := len(l.buckets) - 1
	out := make([]Key, n)
	for i := 0; i < n; i++ {
		out[i] = l.buckets[i].Sup
	}
	return out
}

// fixOverflowingBuckets splits, in [begin, end-1), any bucket that exceeds
// kMaxBucketSize. The bucket at end-1 is split when it overflows only if
// it is not the level's last bucket, or if this level is the last level
// and end <= kMaxDegree-kSplitFactor+1; otherwise an overflowing max-buf
// is left as it is. Returns the updated end. It is quadratic in the worst
// case but bucket counts per level are bounded by kMaxDegree.
func (l *Level[Item, Key]) fixOverflowingBuckets(begin, end int) int {
	invariant(end <= l.Degree(), "level.fixOverflowingBuckets: end exceeds degree")

	for idx := begin; idx < end-1; idx++ {
		if len(l.buckets[idx].Buf) <= l.kMaxBucketSize {
			continue
		}
		splitEnd := l.splitAt(idx, l.cfg.SplitFactor())
		if newEnd := end + splitEnd - idx - 1; newEnd < l.Degree() {
			end = newEnd
		} else {
			end = l.Degree()
		}
		idx = splitEnd - 1
	}

	invariant(end <= l.Degree(), "level.fixOverflowingBuckets: end exceeds degree after split loop")
	kMaxSplitDegree := l.cfg.MaxDegree() - l.cfg.SplitFactor() + 1
	maxBufSplittable := l.isLast && end <= kMaxSplitDegree
	if (end < l.Degree() || maxBufSplittable) && len(l.buckets[end-1].Buf) > l.kMaxBucketSize {
		end = l.splitAt(end-1, l.cfg.SplitFactor())
	}

	return end
}

// shrinkToDegree joins buckets from the tail, just before the max-buf,
// into the max-buf, until the level has at most targetDegree buckets.
func (l *Level[Item, Key]) shrinkToDegree(targetDegree int) {
	if l.Degree()-targetDegree > 0 {
		if trace.Enabled {
			trace.Event("join", "lvl="+itoa(l.idx), "count="+itoa(l.Degree()-targetDegree))
		}
		l.classifier.Invalidate()
	}

	for l.Degree() > targetDegree {
		n := l.Degree()
		penultimate := &l.buckets[n-2]
		maxBuf := &l.buckets[n-1].Buf
		*maxBuf = append(penultimate.Buf, *maxBuf...)
		l.buckets = append(l.buckets[:n-2], l.buckets[n-1])
	}
}

// splitAt splits bucket(idx) into up to splitDegree new buckets, or
// retires it (and everything after it) into the max-buf if the level has
// no room left for an alpha-way split. Returns the new end index.
func (l *Level[Item, Key]) splitAt(idx, splitDegree int) int {
	invariant(splitDegree >= l.cfg.SplitFactor(), "level.splitAt: splitDegree below kSplitFactor")

	kMaxSplitSize := l.cfg.MaxDegree() - l.cfg.SplitFactor() + 1
	if idx >= kMaxSplitSize-1 {
		l.traceState("retire")
		if trace.Enabled {
			trace.Event("retire", "idx="+itoa(idx))
		}
		l.shrinkToDegree(idx + 1)
		return idx
	}
	l.traceState("split:before")

	l.shrinkToDegree(kMaxSplitSize)
	l.traceState("split:after_shrink")

	buf := l.buckets[idx].Buf
	l.buckets[idx].Buf = nil

	keys := make([]Key, len(buf))
	for i, item := range buf {
		keys[i] = l.cfg.GetKey(item)
	}

	invariant(l.minBucketSize() <= len(buf)/splitDegree, "level.splitAt: bucket too small for requested split degree")

	splitters := l.sampler.Sample(keys, splitDegree)
	numNewBuckets := len(splitters)
	invariant(numNewBuckets < splitDegree, "level.splitAt: sampler returned too many splitters")

	oldSup := l.buckets[idx].Sup
	newBuckets := make([]Bucket[Item, Key], numNewBuckets+1)
	for i, s := range splitters {
		newBuckets[i] = Bucket[Item, Key]{Sup: s}
	}
	newBuckets[numNewBuckets] = Bucket[Item, Key]{Sup: oldSup}

	tail := make([]Bucket[Item, Key], len(l.buckets)-idx-1)
	copy(tail, l.buckets[idx+1:])
	l.buckets = append(l.buckets[:idx], newBuckets...)
	l.buckets = append(l.buckets, tail...)

	l.classifier.Invalidate()

	if trace.Enabled {
		trace.Event("split:splitters", "lvl="+itoa(l.idx), "idx="+itoa(idx), "degree="+itoa(numNewBuckets+1))
	}

	var local classify.Classifier[Key]
	local.Build(splitters, oldSup)
	classify.Classify(&local, buf, l.cfg.GetKey, func(c int, item Item) {
		l.buckets[idx+c].Buf = append(l.buckets[idx+c].Buf, item)
	})

	// Right to left, join underflowing buckets onto their predecessors.
	for j := idx + numNewBuckets; j > idx; j-- {
		if 2*len(l.buckets[j].Buf) >= l.minBucketSize() {
			continue
		}
		if trace.Enabled {
			trace.Event("split:repair", "lvl="+itoa(l.idx), "idx="+itoa(j-idx))
		}
		prev := &l.buckets[j-1]
		prev.Buf = append(prev.Buf, l.buckets[j].Buf...)
		prev.Sup = l.buckets[j].Sup
		l.buckets = append(l.buckets[:j], l.buckets[j+1:]...)
		numNewBuckets--
	}

	// If the first new bucket underflows, join it onto its successor.
	if 2*len(l.buckets[idx].Buf) < l.minBucketSize() {
		if trace.Enabled {
			trace.Event("split:repair", "lvl="+itoa(l.idx), "idx=0")
		}
		invariant(idx+1 < l.Degree(), "level.splitAt: no successor to absorb underflowing first bucket")
		next := &l.buckets[idx+1]
		next.Buf = append(l.buckets[idx].Buf, next.Buf...)
		l.buckets = append(l.buckets[:idx], l.buckets[idx+1:]...)
		numNewBuckets--
	}

	invariant(numNewBuckets >= 0, "level.splitAt: numNewBuckets went negative")

	return l.fixOverflowingBuckets(idx, idx+numNewBuckets+1)
}

func (l *Level[Item, Key]) traceState(event string) {
	if !trace.Enabled {
		return
	}
	sizes := make([]int, len(l.buckets))
	for i := range l.buckets {
		sizes[i] = len(l.buckets[i].Buf)
	}
	trace.Event("Level::"+event,
		"lvl="+itoa(l.idx),
		"max_size="+itoa(l.kMaxBucketSize),
		"degree="+itoa(l.Degree()),
		"bucket_sizes="+itoaSlice(sizes),
	)
}

func invariant(cond bool, msg string) {
	if !cond {
		panic("s3q/internal/level: invariant violated: " + msg)
	}
}
