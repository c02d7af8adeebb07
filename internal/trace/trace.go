// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: trace.go — zero-cost lifecycle trace hook
//
// Purpose:
//   - Surfaces the bucket-hierarchy's key lifecycle events (add_lvl,
//     flush_max, refill_from_next, split:before, split:after_shrink,
//     split:splitters, split:repair, rebuild_classifier, join) plus a
//     per-operation state dump.
//   - Compiled out entirely unless built with -tags s3qtrace: Event is an
//     empty, inlinable function in normal builds, so callers pay nothing.
//
// Notes:
//   - No fmt.Sprintf, no heap pressure: invoked only on cold
//     structural-mutation paths.
//   - Enabled is a compile-time constant so that callers guarding field
//     construction with "if trace.Enabled" have that whole branch, and any
//     itoa/string-concatenation inside it, eliminated as dead code in a
//     normal build rather than merely skipped at runtime.
// ─────────────────────────────────────────────────────────────────────────────

//go:build !s3qtrace

package trace

// Enabled reports whether trace output is compiled in. False here; callers
// on hot paths guard expensive field construction with "if trace.Enabled".
const Enabled = false

//go:inline
func Event(event string, fields ...string) {}
