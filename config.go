// ════════════════════════════════════════════════════════════════════════════════════════════════
// Configuration Record
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Public Alias for the Internal Configuration Record
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package s3q

import (
	"cmp"

	"github.com/raphinesse/s3q/internal/config"
)

// Config bundles the tunables a queue needs: how to extract a Key from an
// Item, the totally-ordered Key type's sentinels, and the fan-out
// geometry.
//
// Item and Key may be the same type (use NewOrderedConfig for that
// common case) or Item may be a record type with Key extracted via
// GetKey.
type Config[Item any, Key cmp.Ordered] = config.Config[Item, Key]

const (
	// DefaultLogMaxDegree yields kMaxDegree=64, kMinDegree=32,
	// kSplitFactor=8, kGrowthRate=32, matching the reference default.
	DefaultLogMaxDegree = config.DefaultLogMaxDegree

	// DefaultBufBaseSize approximates L1_bytes / (4*sizeof(Item)) for a
	// modest, unknown-size item; callers with a known Item size and cache
	// geometry should override BufBaseSize directly.
	DefaultBufBaseSize = config.DefaultBufBaseSize
)

// NewConfig builds a Config for a record Item type whose Key is extracted
// via getKey and replaced via setKey, with the given key-range sentinels
// and default geometry. setKey must return a copy of item with its key
// replaced by key; it is used only to manufacture the front-end heap's
// -inf sentinel.
func NewConfig[Item any, Key cmp.Ordered](getKey func(Item) Key, setKey func(Item, Key) Item, inf, sup Key) Config[Item, Key] {
	return config.New(getKey, setKey, inf, sup)
}

// NewOrderedConfig builds a Config for the common case where Item and Key
// coincide, e.g. a queue of plain ints or floats with no attached payload.
func NewOrderedConfig[Key cmp.Ordered](inf, sup Key) Config[Key, Key] {
	return config.NewOrdered[Key](inf, sup)
}

// invariant panics with msg if cond is false. Used throughout this module
// in place of C-style assert for precondition checks: violations are
// programmer-correctness defects, not user-visible errors.
func invariant(cond bool, msg string) {
	if !cond {
		panic("s3q: invariant violated: " + msg)
	}
}
