// ════════════════════════════════════════════════════════════════════════════════════════════════
// S3Q — Sample-Sort Batched Priority Queue
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: S3Q
// Component: Package Overview
//
// Description:
//   S3Q is an ordered key/value container tuned for workloads dominated by many insertions and
//   minimum-extractions over large datasets. Instead of a pointer-chasing binary heap, items are
//   held in a hierarchy of buckets of geometrically growing capacity; a sample-sort classifier
//   routes batches of items into buckets sized to fit successive levels of the memory hierarchy.
//
// Public surface:
//   - PriorityQueue: the front-end queue (small heap + max-buffer over a batched backend).
//   - BatchedPriorityQueue: the backend on its own, for bulk-oriented access.
//   - Config: the tunable record (item/key extraction, buffer sizing, fan-out).
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

// Package s3q implements a sample-sort batched priority queue: an ordered
// container that amortizes insertion and minimum-extraction cost over
// contiguous batches of items rather than chasing heap pointers one node at
// a time.
package s3q
