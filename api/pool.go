// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines abstract pooling APIs: memory allocators and fixed-size record pools.

package api

// Allocator supplies the raw blocks backing a record pool.
type Allocator interface {
	// Alloc returns a zeroed block of exactly size bytes.
	Alloc(size int) ([]byte, error)

	// Free returns a block obtained from Alloc; the block must not be used afterwards.
	Free(buf []byte)
}

// RecordPool is the surface shared by every fixed-size record pool.
type RecordPool interface {
	// Len returns the number of live records.
	Len() int

	// MemberSize returns bytes per record.
	MemberSize() int

	// Records exposes the backing storage up to the logical extent without copying.
	Records() ([]byte, int)

	// Stats exposes accounting for observability.
	Stats() PoolStats

	// Release frees all backing storage.
	Release()
}

// PoolStats aggregates storage and growth accounting of a pool.
type PoolStats struct {
	MemberSize    int
	GrowthStep    int
	Allocated     int64 // bytes reserved
	Used          int64 // logical extent in bytes
	Count         int64 // live records
	Grows         int64
	Shrinks       int64
	AllocFailures int64
}
