//go:build linux || darwin || freebsd

// File: pool/mmap_unix.go
// Author: momentics <momentics@gmail.com>
//
// Anonymous-mapping allocator. Blocks live outside the Go heap.

package pool

import (
	"golang.org/x/sys/unix"

	"github.com/momentics/hioload-mempool/api"
)

// MmapAllocator maps private anonymous memory per block.
type MmapAllocator struct{}

// NewMmapAllocator returns the mmap backend for this platform.
func NewMmapAllocator() (*MmapAllocator, error) {
	return &MmapAllocator{}, nil
}

func (m *MmapAllocator) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, api.NewError(api.ErrCodeAllocation, "mmap size must be positive").
			WithContext("bytes", size)
	}
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, api.NewError(api.ErrCodeAllocation, "mmap failed").
			WithContext("bytes", size).
			WithCause(err)
	}
	return buf, nil
}

// Free unmaps buf; it must be the exact slice returned by Alloc.
func (m *MmapAllocator) Free(buf []byte) {
	if len(buf) == 0 {
		return
	}
	_ = unix.Munmap(buf)
}

var _ api.Allocator = (*MmapAllocator)(nil)
