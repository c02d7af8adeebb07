// ════════════════════════════════════════════════════════════════════════════════════════════════
// Configuration Record
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: S3Q
// Component: Tunable Parameters & Derived Constants
//
// Description:
//   Bundles everything a queue instance needs to know about its item/key types and its fan-out
//   geometry. Go has no compile-time template specialization, so the constants that the original
//   design expresses as static members of a config type (kMaxDegree, kMinDegree, ...) are derived
//   once, at construction, from a small set of user-supplied knobs.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package config

import "cmp"

// Config bundles the tunables a queue needs: how to extract a Key from an
// Item, the totally-ordered Key type's sentinels, and the fan-out geometry.
//
// Item and Key may be the same type (use NewOrdered for that common case)
// or Item may be a record type with Key extracted via GetKey.
type Config[Item any, Key cmp.Ordered] struct {
	// GetKey extracts the ordering key from an item. Required.
	GetKey func(Item) Key

	// SetKey returns a copy of item with its key replaced by key. Used
	// only to manufacture the heap's -inf sentinel item; the reference
	// design expresses this via a mutable key accessor, which Go's
	// opaque Item type parameter has no equivalent for. Required.
	SetKey func(item Item, key Key) Item

	// Inf and Sup are the key-range sentinels: Inf < every legal key < Sup.
	// Pushing an item whose key equals either sentinel is a precondition
	// violation.
	Inf, Sup Key

	// BufBaseSize (B) is the number of items per base buffer, i.e. the
	// finest level's max bucket size and the front-end's min-/max-buffer
	// capacity.
	BufBaseSize int

	// LogMaxDegree determines kMaxDegree = 2^LogMaxDegree.
	LogMaxDegree int

	// derived, computed by Resolve
	maxDegree, minDegree, splitFactor, growthRate int
	resolved                                      bool
}

const (
	// DefaultLogMaxDegree yields kMaxDegree=64, kMinDegree=32,
	// kSplitFactor=8, kGrowthRate=32.
	DefaultLogMaxDegree = 6

	// DefaultBufBaseSize approximates L1_bytes / (4*sizeof(Item)) for a
	// modest, unknown-size item.
	DefaultBufBaseSize = 512

	// KUnroll is the classifier's inner-loop unroll width.
	KUnroll = 7
)

// New builds a Config for a record Item type whose Key is extracted via
// getKey and replaced via setKey, with the given key-range sentinels and
// default geometry.
func New[Item any, Key cmp.Ordered](getKey func(Item) Key, setKey func(Item, Key) Item, inf, sup Key) Config[Item, Key] {
	return Config[Item, Key]{
		GetKey:       getKey,
		SetKey:       setKey,
		Inf:          inf,
		Sup:          sup,
		BufBaseSize:  DefaultBufBaseSize,
		LogMaxDegree: DefaultLogMaxDegree,
	}
}

// NewOrdered builds a Config for the common case where Item and Key
// coincide, e.g. a queue of plain ints or floats with no attached payload.
func NewOrdered[Key cmp.Ordered](inf, sup Key) Config[Key, Key] {
	return New(
		func(k Key) Key { return k },
		func(_ Key, k Key) Key { return k },
		inf, sup,
	)
}

// Sentinel returns an Item whose key is c.Inf, for seeding the front-end
// heap's -inf guard slot. zero is used as the base item whose key gets
// overwritten; callers pass the zero value of Item or any placeholder.
func (c *Config[Item, Key]) Sentinel(zero Item) Item {
	return c.SetKey(zero, c.Inf)
}

// Resolve validates and fills in the derived fan-out constants. Idempotent.
func (c *Config[Item, Key]) Resolve() {
	if c.resolved {
		return
	}
	if c.GetKey == nil {
		panic("s3q: Config.GetKey must not be nil")
	}
	if c.BufBaseSize <= 0 {
		c.BufBaseSize = DefaultBufBaseSize
	}
	if c.LogMaxDegree <= 0 {
		c.LogMaxDegree = DefaultLogMaxDegree
	}

	c.maxDegree = 1 << c.LogMaxDegree
	c.minDegree = c.maxDegree / 2
	c.splitFactor = 1 << (c.LogMaxDegree / 2)
	c.growthRate = c.maxDegree - c.minDegree

	if c.splitFactor < 4 {
		panic("s3q: kSplitFactor must be >= 4 (increase LogMaxDegree)")
	}
	if KUnroll > c.BufBaseSize/(2*c.splitFactor) {
		panic("s3q: kUnroll must be <= BufBaseSize/(2*kSplitFactor)")
	}
	c.resolved = true
}

// MaxDegree returns kMaxDegree, the maximum number of buckets per level.
func (c *Config[Item, Key]) MaxDegree() int { c.Resolve(); return c.maxDegree }

// MinDegree returns kMinDegree, the minimum number of buckets per level.
func (c *Config[Item, Key]) MinDegree() int { c.Resolve(); return c.minDegree }

// SplitFactor returns kSplitFactor, the alpha in an alpha-way bucket split.
func (c *Config[Item, Key]) SplitFactor() int { c.Resolve(); return c.splitFactor }

// GrowthRate returns kGrowthRate, the ratio between consecutive levels'
// max bucket sizes.
func (c *Config[Item, Key]) GrowthRate() int { c.Resolve(); return c.growthRate }

// Contains reports whether k is a legal item key: Inf < k < Sup.
func (c *Config[Item, Key]) Contains(k Key) bool {
	return c.Inf < k && k < c.Sup
}
