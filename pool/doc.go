// Package pool
// Author: momentics <momentics@gmail.com>
//
// Type-erased memory pools for fixed-size records.
// GrowBuffer is the shared storage engine; StablePool (stable slot indices
// with tombstones and LIFO slot reuse), SequencePool (insert/remove anywhere,
// order preserved) and RingPool (double-ended queue) specialize it.
// Blocks come from an api.Allocator: heap, mmap, budgeted or host-guarded.
// Pools are single-threaded; callers serialize access to one instance.
// See growbuffer.go, stable.go, sequence.go, ringpool.go for implementation details.
package pool
