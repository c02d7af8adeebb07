package s3q

import (
	"math/rand/v2"
	"sort"
	"testing"
)

const (
	testInf = -1 << 30
	testSup = 1 << 30
)

func newTestQueue(seed1, seed2 uint64) *PriorityQueue[int, int] {
	cfg := NewOrderedConfig[int](testInf, testSup)
	return NewPriorityQueue(cfg, seed1, seed2)
}

// TestBasicPushPop covers the smallest possible workload: push a handful
// of items, pop them all back out in ascending order.
func TestBasicPushPop(t *testing.T) {
	q := newTestQueue(1, 1)

	values := []int{5, 3, 8, 1, 9, 2}
	for _, v := range values {
		q.Push(v)
	}

	if q.Size() != len(values) {
		t.Fatalf("Size() = %d, want %d", q.Size(), len(values))
	}

	want := append([]int(nil), values...)
	sort.Ints(want)

	for i, w := range want {
		if q.Empty() {
			t.Fatalf("queue emptied early at i=%d", i)
		}
		got := q.Pop()
		if got != w {
			t.Fatalf("pop %d: got %d, want %d", i, got, w)
		}
	}
	if !q.Empty() {
		t.Fatal("queue not empty after draining all pushed items")
	}
}

// TestReverseOrderPush pushes 1024 down to 1 and expects pops to come back
// out as 1 up to 1024, exercising the min-bucket/max-buffer split under a
// fully adversarial insertion order.
func TestReverseOrderPush(t *testing.T) {
	q := newTestQueue(2, 3)

	const n = 1024
	for v := n; v >= 1; v-- {
		q.Push(v)
	}

	if q.Size() != n {
		t.Fatalf("Size() = %d, want %d", q.Size(), n)
	}

	for want := 1; want <= n; want++ {
		got := q.Pop()
		if got != want {
			t.Fatalf("pop %d: got %d, want %d", want, got, want)
		}
	}
	if !q.Empty() {
		t.Fatal("queue not empty after draining")
	}
}

// TestMixedInterleavedWorkload randomly interleaves pushes and pops against
// a monotonically increasing key stream, checking that the multiset of
// popped items matches what was pushed and that pops never regress (valid
// here because every pushed key exceeds every key pushed before it, so the
// queue's current minimum can only increase over time).
func TestMixedInterleavedWorkload(t *testing.T) {
	q := newTestQueue(4, 5)
	rng := rand.New(rand.NewPCG(100, 200))

	const n = 100_000
	pushed := make([]int, 0, n)
	popped := make([]int, 0, n)

	next := testInf + 1
	lastPopped := testInf

	for len(pushed) < n || !q.Empty() {
		pushMore := len(pushed) < n && (q.Empty() || rng.IntN(3) != 0)
		if pushMore {
			next++
			v := next
			q.Push(v)
			pushed = append(pushed, v)
		} else {
			v := q.Pop()
			if v < lastPopped {
				t.Fatalf("pop returned %d, smaller than previously popped %d", v, lastPopped)
			}
			lastPopped = v
			popped = append(popped, v)
		}
	}

	if len(popped) != len(pushed) {
		t.Fatalf("popped %d items, want %d", len(popped), len(pushed))
	}
	sort.Ints(pushed)
	for i := range pushed {
		if pushed[i] != popped[i] {
			t.Fatalf("multiset mismatch at %d: pushed %d, popped %d", i, pushed[i], popped[i])
		}
	}
}

// TestMonotoneHoldKeyWorkload drives a "hold-k" access pattern where every
// pushed key is strictly greater than the last (k_i = k_{i-1} + gap), the
// shape a discrete-event simulation's event queue produces, and checks
// pops never decrease and the queue never panics across a large run.
func TestMonotoneHoldKeyWorkload(t *testing.T) {
	q := newTestQueue(6, 7)
	rng := rand.New(rand.NewPCG(11, 22))

	const n = 100_000
	key := 0
	lastPopped := testInf

	for i := 0; i < n; i++ {
		gap := 1 + rng.IntN(5)
		key += gap
		q.Push(key)

		if rng.IntN(2) == 0 && !q.Empty() {
			v := q.Pop()
			if v < lastPopped {
				t.Fatalf("pop at i=%d returned %d, smaller than previously popped %d", i, v, lastPopped)
			}
			lastPopped = v
		}
	}

	for !q.Empty() {
		v := q.Pop()
		if v < lastPopped {
			t.Fatalf("drain pop returned %d, smaller than previously popped %d", v, lastPopped)
		}
		lastPopped = v
	}
}

func TestTopDoesNotRemove(t *testing.T) {
	q := newTestQueue(8, 9)
	q.Push(42)
	q.Push(7)

	if top := q.Top(); top != 7 {
		t.Fatalf("Top() = %d, want 7", top)
	}
	if top := q.Top(); top != 7 {
		t.Fatalf("second Top() = %d, want 7 (Top must not remove)", top)
	}
	if q.Size() != 2 {
		t.Fatalf("Size() = %d after two Top() calls, want 2", q.Size())
	}
}
