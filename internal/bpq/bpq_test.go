package bpq

import (
	"math/rand/v2"
	"testing"

	"github.com/raphinesse/s3q/internal/config"
)

const (
	testInf = -1 << 30
	testSup = 1 << 30
)

func newTestBPQ(seed1, seed2 uint64) (*BPQ[int, int], *config.Config[int, int]) {
	cfg := config.NewOrdered[int](testInf, testSup)
	cfg.Resolve()
	return New[int, int](&cfg, seed1, seed2), &cfg
}

func keysRange(lo, hi int) []int {
	out := make([]int, 0, hi-lo+1)
	for k := lo; k <= hi; k++ {
		out = append(out, k)
	}
	return out
}

func minMax(xs []int) (int, int) {
	lo, hi := xs[0], xs[0]
	for _, x := range xs {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi
}

// TestDelMinOrderingAndCompleteness partitions 1..1024 into 16 chunks of 64,
// inserts each chunk, then repeatedly pops buckets and checks that bucket
// key ranges never overlap out of order, that every key in [1,1024]
// appears exactly once across all popped buckets, and that no popped key
// exceeds the queue's +sup sentinel.
func TestDelMinOrderingAndCompleteness(t *testing.T) {
	q, cfg := newTestBPQ(101, 202)

	const n = 1024
	const chunkSize = 64
	for start := 1; start <= n; start += chunkSize {
		q.Insert(keysRange(start, start+chunkSize-1))
	}

	if q.Size() != n {
		t.Fatalf("Size() after inserts = %d, want %d", q.Size(), n)
	}

	seen := make(map[int]bool, n)
	prevMax := testInf
	total := 0

	for q.Size() > 0 {
		b := q.DelMin()
		if len(b.Buf) == 0 {
			t.Fatal("DelMin returned an empty bucket while Size() > 0")
		}

		lo, hi := minMax(b.Buf)
		if lo <= prevMax {
			t.Fatalf("bucket min %d not greater than previous bucket max %d (kmin not monotonically increasing)", lo, prevMax)
		}
		if hi > cfg.Sup {
			t.Fatalf("bucket max %d exceeds sup sentinel %d", hi, cfg.Sup)
		}
		if b.Sup < hi {
			t.Fatalf("bucket sup %d is less than its own max item %d", b.Sup, hi)
		}

		for _, v := range b.Buf {
			if seen[v] {
				t.Fatalf("key %d popped more than once", v)
			}
			seen[v] = true
			total++
		}
		prevMax = hi
	}

	if total != n {
		t.Fatalf("total popped keys = %d, want %d", total, n)
	}
	for k := 1; k <= n; k++ {
		if !seen[k] {
			t.Fatalf("key %d never popped", k)
		}
	}
}

func TestSizeAccountingAcrossInsertAndDelMin(t *testing.T) {
	// InsertMin requires a bucket of at least kMaxBucketSize items, so this
	// test uses small config knobs (B=64, kLogMaxDegree=4) rather than the
	// package defaults (B=512) to keep the fixture small.
	cfg := config.NewOrdered[int](testInf, testSup)
	cfg.BufBaseSize = 64
	cfg.LogMaxDegree = 4
	cfg.Resolve()
	q := New[int, int](&cfg, 3, 4)

	q.Insert(keysRange(1, 64))
	if q.Size() != 64 {
		t.Fatalf("Size() = %d, want 64", q.Size())
	}

	q.InsertMin(Bucket[int, int]{Sup: 0, Buf: keysRange(-64, -1)})
	if q.Size() != 128 {
		t.Fatalf("Size() = %d, want 128", q.Size())
	}

	b := q.DelMin()
	if q.Size() != 128-len(b.Buf) {
		t.Fatalf("Size() = %d, want %d", q.Size(), 128-len(b.Buf))
	}
}

// TestCascadeStressRandomized drives a long, randomized sequence of
// insert/delMin batches of varying size, which forces repeated overflow
// cascades (handleMaxBufOverflowFrom), new levels and underflow refills.
// With these seeds no refill overflows, so the bad-split flush-back branch
// in handleDegreeUnderflow is not taken. The test asserts that the loop
// completes, that no popped bucket is empty and that accounting stays
// consistent; a non-terminating refill loop would make this test hang
// rather than fail cleanly.
func TestCascadeStressRandomized(t *testing.T) {
	q, cfg := newTestBPQ(999, 1000)
	rng := rand.New(rand.NewPCG(13, 17))

	next := 1
	expected := 0
	const rounds = 3000

	for i := 0; i < rounds; i++ {
		if expected == 0 || rng.IntN(3) != 0 {
			batchSize := 32 + rng.IntN(2*cfg.BufBaseSize-32)
			items := keysRange(next, next+batchSize-1)
			next += batchSize
			q.Insert(items)
			expected += len(items)
		} else {
			b := q.DelMin()
			if len(b.Buf) == 0 {
				t.Fatal("DelMin returned an empty bucket while Size() > 0")
			}
			expected -= len(b.Buf)
		}

		if q.Size() != expected {
			t.Fatalf("round %d: Size() = %d, want %d", i, q.Size(), expected)
		}
	}
}
