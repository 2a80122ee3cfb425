// File: pool/guard_allocator.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Host-memory admission control for large pool blocks.

package pool

import (
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/momentics/hioload-mempool/api"
)

// DefaultGuardThreshold is the smallest request size that triggers a host check.
const DefaultGuardThreshold = 1 << 20

// GuardAllocator refuses blocks that would leave less than a floor of host
// memory available. Requests below the threshold skip the check.
type GuardAllocator struct {
	inner     api.Allocator
	floor     uint64
	threshold int
	available func() (uint64, error)
}

// NewGuardAllocator wraps inner (heap when nil). threshold <= 0 selects
// DefaultGuardThreshold.
func NewGuardAllocator(inner api.Allocator, floor uint64, threshold int) *GuardAllocator {
	if inner == nil {
		inner = HeapAllocator{}
	}
	if threshold <= 0 {
		threshold = DefaultGuardThreshold
	}
	return &GuardAllocator{
		inner:     inner,
		floor:     floor,
		threshold: threshold,
		available: hostAvailable,
	}
}

func hostAvailable() (uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}
	return vm.Available, nil
}

func (g *GuardAllocator) Alloc(size int) ([]byte, error) {
	if size >= g.threshold {
		// An unreadable host state admits the request.
		if avail, err := g.available(); err == nil && avail < g.floor+uint64(size) {
			return nil, api.NewError(api.ErrCodeAllocation, "host memory below floor").
				WithContext("bytes", size).
				WithContext("available", avail).
				WithContext("floor", g.floor)
		}
	}
	return g.inner.Alloc(size)
}

func (g *GuardAllocator) Free(buf []byte) {
	g.inner.Free(buf)
}

var _ api.Allocator = (*GuardAllocator)(nil)
