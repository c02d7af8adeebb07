package sampler

import (
	"slices"
	"testing"
)

func TestSampleBoundsAndSorted(t *testing.T) {
	keys := make([]int, 256)
	for i := range keys {
		keys[i] = i
	}

	s := New[int](1, 2)
	for numBuckets := 2; numBuckets <= 32; numBuckets++ {
		splitters := s.Sample(keys, numBuckets)

		if len(splitters) > numBuckets-1 {
			t.Fatalf("numBuckets=%d: got %d splitters, want <= %d", numBuckets, len(splitters), numBuckets-1)
		}
		if !slices.IsSorted(splitters) {
			t.Fatalf("numBuckets=%d: splitters not sorted: %v", numBuckets, splitters)
		}
		for i := 1; i < len(splitters); i++ {
			if splitters[i-1] == splitters[i] {
				t.Fatalf("numBuckets=%d: duplicate splitter %v", numBuckets, splitters[i])
			}
		}
		for _, sp := range splitters {
			if sp < keys[0] || sp > keys[len(keys)-1] {
				t.Fatalf("numBuckets=%d: splitter %d out of key range", numBuckets, sp)
			}
		}
	}
}

func TestSampleDeterministicWithFixedSeed(t *testing.T) {
	keys := make([]int, 128)
	for i := range keys {
		keys[i] = i * 3
	}

	a := New[int](42, 43).Sample(keys, 9)
	b := New[int](42, 43).Sample(keys, 9)

	if !slices.Equal(a, b) {
		t.Fatalf("same seed produced different splitters: %v vs %v", a, b)
	}
}
