//go:build !linux && !darwin && !freebsd

// File: pool/mmap_stub.go
// Author: momentics <momentics@gmail.com>
//
// Fallback for platforms without anonymous mmap support.

package pool

import "github.com/momentics/hioload-mempool/api"

// MmapAllocator is unavailable on this platform.
type MmapAllocator struct{}

// NewMmapAllocator reports ErrNotSupported on this platform.
func NewMmapAllocator() (*MmapAllocator, error) {
	return nil, api.NewError(api.ErrCodeNotSupported, "mmap allocator not supported on this platform")
}

func (m *MmapAllocator) Alloc(size int) ([]byte, error) {
	return nil, api.NewError(api.ErrCodeNotSupported, "mmap allocator not supported on this platform")
}

func (m *MmapAllocator) Free([]byte) {}

var _ api.Allocator = (*MmapAllocator)(nil)
