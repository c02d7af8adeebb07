// ════════════════════════════════════════════════════════════════════════════════════════════════
// Sentinel-Guarded Min-Heap
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: S3Q
// Component: Small Binary Heap Backing the Front-End Min-Buffer
//
// Description:
//   A standalone min-heap over a mutable contiguous slice with element 0 permanently reserved as
//   a -inf sentinel. The sentinel lets Push's sift-up terminate without a bounds check: the loop
//   always finds something smaller at index 0 and stops there. Pop walks down a min-path choosing
//   the smaller child via a branchless increment, then bubbles the displaced last element up from
//   the resulting hole — fewer mispredictions than a textbook sift-down.
//
// Safety model:
//   - Every exported function except Make requires a sentinel already in place at index 0.
//   - No bounds checking beyond what Go's slice indexing gives for free; callers must not call
//     Pop/Top on an empty heap (size() == 0, i.e. len(buf) == 1).
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package heapx

import "cmp"

// less reports whether a's key is smaller than b's key, using getKey to
// extract keys from items of type Item.
func less[Item any, Key cmp.Ordered](getKey func(Item) Key, a, b Item) bool {
	return getKey(a) < getKey(b)
}

// Size returns the number of real (non-sentinel) elements in buf.
//
//go:inline
func Size[Item any](buf []Item) int { return len(buf) - 1 }

// Empty reports whether buf holds no real elements.
//
//go:inline
func Empty[Item any](buf []Item) bool { return len(buf) <= 1 }

// Top returns the heap root (the minimum element). Requires Size(buf) > 0.
//
//go:inline
func Top[Item any](buf []Item) Item { return buf[1] }

// Make returns a new sentinel-guarded heap buffer: sentinel at index 0,
// followed by items heapified in place using the
// Edelkamp-Elmasry-Katajainen opt5 construction schedule, which reduces
// branch mispredictions relative to a textbook bottom-up sift-down.
//
// Precondition: len(items) > 0.
func Make[Item any, Key cmp.Ordered](items []Item, getKey func(Item) Key, sentinel Item) []Item {
	invariant(len(items) > 0, "heapx.Make requires at least one item")
	buf := make([]Item, len(items)+1)
	buf[0] = sentinel
	copy(buf[1:], items)
	optFive(buf[1:], func(a, b Item) bool { return getKey(a) > getKey(b) })
	return buf
}

// Push sifts the last element of buf (just appended by the caller) up to
// its correct position. Requires a sentinel at buf[0]; the sift-up loop
// terminates against that sentinel without an explicit bounds check.
func Push[Item any, Key cmp.Ordered](buf []Item, getKey func(Item) Key) {
	invariant(len(buf) > 1, "heapx.Push requires a sentinel plus at least one element")
	bubbleUpLastFrom(buf, getKey, len(buf)-1)
}

// Pop removes the heap root from buf, restoring the heap property over
// buf[1 : len(buf)-1]. The caller must shrink buf by one element after
// calling Pop; the final slot is left in an undefined state. Requires a
// sentinel at buf[0] and Size(buf) > 0.
func Pop[Item any, Key cmp.Ordered](buf []Item, getKey func(Item) Key) {
	maxIdx := len(buf) - 1
	invariant(maxIdx > 0, "heapx.Pop requires at least one real element")

	// Walk down a min-path, always choosing the smaller child, moving
	// elements up into the hole left behind.
	hole := 1
	for succ := 2; succ < maxIdx; succ <<= 1 {
		if less(getKey, buf[succ+1], buf[succ]) {
			succ++
		}
		buf[hole] = buf[succ]
		hole = succ
	}

	bubbleUpLastFrom(buf, getKey, hole)
}

// bubbleUpLastFrom takes the last element of buf and bubbles it up from
// hole towards the root, stopping against the sentinel at index 0.
func bubbleUpLastFrom[Item any, Key cmp.Ordered](buf []Item, getKey func(Item) Key, hole int) {
	el := buf[len(buf)-1]
	for pred := hole >> 1; less(getKey, el, buf[pred]); pred >>= 1 {
		buf[hole] = buf[pred]
		hole = pred
		if hole == 0 {
			break
		}
	}
	buf[hole] = el
}

// optFive builds a binary min-heap in place over data using the
// Edelkamp-Elmasry-Katajainen "opt5" schedule (see "Heap construction -
// 50 years later"). Any correct heap construction satisfies the queue's
// invariants; this one is kept because it measurably reduces branch
// mispredictions versus the naive bottom-up sift-down.
func optFive[Item any](data []Item, less func(a, b Item) bool) {
	n := len(data)
	if n < 2 {
		return
	}
	if n == 2 {
		if less(data[0], data[1]) {
			data[0], data[1] = data[1], data[0]
		}
		return
	}

	parent := func(i int) int { return (i - 1) / 2 }
	leftChild := func(i int) int { return 2*i + 1 }

	siftUp := func(j int) {
		in := data[j]
		for j > 0 {
			i := parent(j)
			if !less(data[i], in) {
				break
			}
			data[j] = data[i]
			j = i
		}
		data[j] = in
	}

	m := n
	if n&1 == 0 {
		m = n - 1
	}
	i := parent(m - 1)
	j := i
	hole := j
	in := data[j]
	for {
		if i == j {
			hole = j
			in = data[j]
		}

		j = leftChild(j)
		if less(data[j], data[j+1]) {
			j++
		}
		data[hole] = data[j]
		if less(in, data[j]) {
			hole = j
		}

		if leftChild(j) >= m {
			data[hole] = in
			if i == 0 {
				break
			}
			i--
			j = i
		}
	}
	siftUp(n - 1)
}

func invariant(cond bool, msg string) {
	if !cond {
		panic("s3q/internal/heapx: invariant violated: " + msg)
	}
}
