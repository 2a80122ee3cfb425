// File: pool/allocator.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral block allocators. Concrete backends (heap, mmap) are
// selected by the caller; wrappers add accounting and admission control.

package pool

import (
	"sync/atomic"

	"github.com/momentics/hioload-mempool/api"
)

// HeapAllocator serves zeroed blocks from the Go heap.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, api.NewError(api.ErrCodeAllocation, "negative allocation size").
			WithContext("bytes", size)
	}
	return make([]byte, size), nil
}

// Free is a no-op; the GC reclaims heap blocks.
func (HeapAllocator) Free([]byte) {}

// BudgetAllocator caps the bytes outstanding from an inner allocator.
// Safe for use by pools owned by different goroutines.
type BudgetAllocator struct {
	inner api.Allocator
	limit int64
	inUse atomic.Int64
	peak  atomic.Int64
}

// NewBudgetAllocator wraps inner (heap when nil) with a limit in bytes.
func NewBudgetAllocator(inner api.Allocator, limit int64) *BudgetAllocator {
	if inner == nil {
		inner = HeapAllocator{}
	}
	return &BudgetAllocator{inner: inner, limit: limit}
}

func (b *BudgetAllocator) Alloc(size int) ([]byte, error) {
	for {
		cur := b.inUse.Load()
		next := cur + int64(size)
		if size < 0 || next > b.limit {
			return nil, api.NewError(api.ErrCodeAllocation, "allocation budget exceeded").
				WithContext("bytes", size).
				WithContext("in_use", cur).
				WithContext("limit", b.limit)
		}
		if b.inUse.CompareAndSwap(cur, next) {
			break
		}
	}
	buf, err := b.inner.Alloc(size)
	if err != nil {
		b.inUse.Add(-int64(size))
		return nil, err
	}
	for {
		p := b.peak.Load()
		cur := b.inUse.Load()
		if cur <= p || b.peak.CompareAndSwap(p, cur) {
			break
		}
	}
	return buf, nil
}

func (b *BudgetAllocator) Free(buf []byte) {
	b.inUse.Add(-int64(len(buf)))
	b.inner.Free(buf)
}

// InUse returns bytes currently outstanding.
func (b *BudgetAllocator) InUse() int64 { return b.inUse.Load() }

// Peak returns the high-water mark of outstanding bytes.
func (b *BudgetAllocator) Peak() int64 { return b.peak.Load() }

// Limit returns the configured budget.
func (b *BudgetAllocator) Limit() int64 { return b.limit }

var (
	_ api.Allocator = HeapAllocator{}
	_ api.Allocator = (*BudgetAllocator)(nil)
)
