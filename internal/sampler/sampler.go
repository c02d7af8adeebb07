// ════════════════════════════════════════════════════════════════════════════════════════════════
// Splitter Sampler
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: S3Q
// Component: Splitter Selection for Bucket Splitting
//
// Description:
//   Chooses up to d-1 unique, sorted splitter keys out of a batch of keys, by drawing an
//   oversampled set with replacement via an unbiased bounded-integer draw, sorting it, and
//   striding through the sorted sample to pick order statistics close to equi-quantiles.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package sampler

import (
	"cmp"
	"math/bits"
	"math/rand/v2"
	"slices"
)

// Sampler draws splitter keys for the classifier. The zero value is not
// usable; construct with New.
type Sampler[Key cmp.Ordered] struct {
	rng *rand.Rand
}

// New returns a Sampler seeded deterministically from seed1/seed2 (for
// reproducible tests) backed by a PCG generator, which like the source's
// Xoshiro128StarStar has a period (2^128) far beyond anything a single
// queue lifetime will exhaust. Unbiased bounded draws come from
// math/rand/v2's built-in implementation of Lemire's nearly-divisionless
// rejection algorithm (*rand.Rand's UintNN/IntN methods).
func New[Key cmp.Ordered](seed1, seed2 uint64) *Sampler[Key] {
	return &Sampler[Key]{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// NewFromRand adopts an existing *rand.Rand, letting callers share one
// PRNG stream across multiple samplers or seed from crypto/rand-derived
// entropy.
func NewFromRand[Key cmp.Ordered](rng *rand.Rand) *Sampler[Key] {
	return &Sampler[Key]{rng: rng}
}

// Sample draws up to numBuckets-1 unique, sorted splitter keys from keys:
// step = max(1, floor(log2(len(keys)))), sampleSize = step*numBuckets - 1,
// drawn with replacement, sorted, then every step-th element starting at
// index step-1, with adjacent duplicates removed.
//
// Precondition: sampleSize <= len(keys), i.e. the caller must not ask
// for more buckets than the input can support at this oversampling rate.
func (s *Sampler[Key]) Sample(keys []Key, numBuckets int) []Key {
	invariant(numBuckets >= 2, "sampler.Sample requires numBuckets >= 2")

	step := oversamplingFactor(len(keys))
	sampleSize := step*numBuckets - 1
	invariant(sampleSize <= len(keys), "sampler.Sample: sample_size exceeds input size")

	sample := s.selectSample(keys, sampleSize)
	slices.Sort(sample)

	splitters := make([]Key, 0, numBuckets-1)
	for i := step - 1; i < len(sample); i += step {
		k := sample[i]
		if len(splitters) > 0 && splitters[len(splitters)-1] == k {
			continue
		}
		splitters = append(splitters, k)
	}
	return splitters
}

// selectSample draws numSamples keys from keys with replacement, each
// draw uniform over the full [0, len(keys)) range.
func (s *Sampler[Key]) selectSample(keys []Key, numSamples int) []Key {
	sample := make([]Key, 0, numSamples)
	n := uint32(len(keys))
	for ; numSamples > 0; numSamples-- {
		i := s.rng.Uint32N(n)
		sample = append(sample, keys[i])
	}
	return sample
}

// oversamplingFactor returns max(1, floor(log2(n))).
func oversamplingFactor(n int) int {
	if n < 2 {
		return 1
	}
	return bits.Len(uint(n)) - 1
}

func invariant(cond bool, msg string) {
	if !cond {
		panic("s3q/internal/sampler: invariant violated: " + msg)
	}
}
