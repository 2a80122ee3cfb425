// File: pool/growbuffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// GrowBuffer is the storage engine shared by every record pool: a block of
// fixed-size records that grows and shrinks in whole growth steps.
// Not thread-safe; callers serialize access.

package pool

import (
	"bytes"
	"fmt"
	"iter"
	"log/slog"
	"unsafe"

	"github.com/momentics/hioload-mempool/api"
)

// DefaultGrowthStep is used when a pool is configured with step 0.
const DefaultGrowthStep = 32

// GrowBuffer stores fixed-size records in one allocator block.
//
// used marks one past the highest occupied record and is not necessarily
// count*member: pools tracking identity externally (StablePool) leave holes.
type GrowBuffer struct {
	alloc  api.Allocator
	log    *slog.Logger
	block  []byte
	member int
	step   int
	used   int
	count  int

	grows         int64
	shrinks       int64
	allocFailures int64
}

// NewGrowBuffer creates a buffer of member-sized records, pre-sized to
// capacity records. step is the number of records added per growth event.
func NewGrowBuffer(step, capacity, member int, opts ...Option) (*GrowBuffer, error) {
	return newGrowBuffer(step, capacity, member, newOptions(opts))
}

func newGrowBuffer(step, capacity, member int, o options) (*GrowBuffer, error) {
	if member <= 0 {
		return nil, api.NewError(api.ErrCodeConstruction, "member size must be positive").
			WithContext("member_size", member)
	}
	if step < 0 || capacity < 0 {
		return nil, api.NewError(api.ErrCodeConstruction, "growth step and capacity must not be negative").
			WithContext("growth_step", step).
			WithContext("capacity", capacity)
	}
	if step == 0 {
		step = DefaultGrowthStep
	}
	b := &GrowBuffer{alloc: o.alloc, log: o.log, member: member, step: step}
	if capacity > 0 {
		if err := b.Resize(capacity * member); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Resize sets the block to size bytes, rounded up to a whole record.
// Records up to min(used, size) are preserved and new space is zeroed.
// On allocation failure the buffer is left untouched.
func (b *GrowBuffer) Resize(size int) error {
	if size < 0 {
		return api.NewError(api.ErrCodeInvalidArgument, "negative buffer size").WithContext("bytes", size)
	}
	if r := size % b.member; r != 0 {
		size += b.member - r
	}
	if size == len(b.block) {
		return nil
	}
	if size == 0 {
		b.Release()
		return nil
	}

	nb, err := b.alloc.Alloc(size)
	if err != nil {
		b.allocFailures++
		b.log.Warn("pool buffer resize failed", "from", len(b.block), "to", size, "error", err)
		return api.NewError(api.ErrCodeAllocation, "buffer resize failed").
			WithContext("bytes", size).
			WithCause(err)
	}
	keep := min(b.used, size)
	copy(nb, b.block[:keep])
	clear(nb[keep:])

	if size > len(b.block) {
		b.grows++
	} else {
		b.shrinks++
	}
	b.log.Debug("pool buffer resized", "from", len(b.block), "to", size, "member", b.member)

	if b.block != nil {
		b.alloc.Free(b.block)
	}
	b.block = nb
	if b.used > size {
		b.used = size
	}
	if n := b.used / b.member; b.count > n {
		b.count = n
	}
	return nil
}

// Release frees the block. The buffer stays configured and may be reused.
func (b *GrowBuffer) Release() {
	if b.block != nil {
		b.alloc.Free(b.block)
	}
	b.block = nil
	b.used, b.count = 0, 0
}

// WriteAt stores data (or zeroes when data is nil) in record slot index,
// growing by whole steps when the slot lies beyond capacity. It returns a
// view of the written record, valid until the next mutation.
func (b *GrowBuffer) WriteAt(index int, data []byte) ([]byte, error) {
	b.checkRecord(data)
	if index < 0 {
		panic(outOfRange(index, b.Extent()))
	}
	off := index * b.member
	if need := off + b.member; need > len(b.block) {
		if data != nil && overlaps(data, b.block) {
			data = bytes.Clone(data)
		}
		size := len(b.block)
		for size < need {
			size += b.member * b.step
		}
		if err := b.Resize(size); err != nil {
			return nil, err
		}
	}
	rec := b.record(index)
	if data != nil {
		copy(rec, data)
	} else {
		clear(rec)
	}
	if off+b.member > b.used {
		b.used = off + b.member
	}
	b.count++
	return rec, nil
}

// InsertAt opens a gap at index (clamped to the extent) by shifting later
// records up one slot, then stores data there.
func (b *GrowBuffer) InsertAt(index int, data []byte) ([]byte, error) {
	b.checkRecord(data)
	if index < 0 {
		panic(outOfRange(index, b.Extent()))
	}
	ext := b.Extent()
	if index > ext {
		index = ext
	}
	if data != nil && overlaps(data, b.block) {
		data = bytes.Clone(data)
	}
	if _, err := b.WriteAt(ext, nil); err != nil {
		return nil, err
	}
	off := index * b.member
	copy(b.block[off+b.member:b.used], b.block[off:b.used-b.member])
	rec := b.record(index)
	if data != nil {
		copy(rec, data)
	} else {
		clear(rec)
	}
	return rec, nil
}

// Remove drops one record from the count without moving data. When the
// record is the last one in the extent, extent(index) reports the new
// extent in records; nil means the buffer is contiguous below index.
func (b *GrowBuffer) Remove(index int, extent func(index int) int) {
	if index < 0 || index*b.member >= b.used {
		return
	}
	if (index+1)*b.member >= b.used {
		n := index
		if index > 0 && extent != nil {
			n = extent(index)
		}
		b.used = n * b.member
	}
	if b.count > 0 {
		b.count--
	}
	b.shrink()
}

// RemoveShift deletes the record at index, shifting later records down.
func (b *GrowBuffer) RemoveShift(index int) {
	if index < 0 || index*b.member >= b.used {
		return
	}
	off := index * b.member
	copy(b.block[off:], b.block[off+b.member:b.used])
	b.used -= b.member
	clear(b.block[b.used : b.used+b.member])
	if b.count > 0 {
		b.count--
	}
	b.shrink()
}

// shrink gives back whole growth steps until at most one step of slack remains.
func (b *GrowBuffer) shrink() {
	stepBytes := b.member * b.step
	slack := len(b.block) - b.used
	if slack <= stepBytes {
		return
	}
	target := len(b.block) - ((slack-1)/stepBytes)*stepBytes
	if err := b.Resize(target); err != nil {
		b.log.Debug("pool buffer shrink skipped", "error", err)
	}
}

// Get returns a view of the record at index, or false outside the extent.
func (b *GrowBuffer) Get(index int) ([]byte, bool) {
	if index < 0 || index >= b.Extent() {
		return nil, false
	}
	return b.record(index), true
}

// Next returns the record at *cursor and advances it (backwards when
// reverse is set). It reports false once the cursor leaves the extent.
// Mutating the buffer between calls invalidates the cursor's meaning.
func (b *GrowBuffer) Next(cursor *int, reverse bool) ([]byte, bool) {
	i := *cursor
	if i < 0 || i >= b.Extent() {
		return nil, false
	}
	if reverse {
		*cursor = i - 1
	} else {
		*cursor = i + 1
	}
	return b.record(i), true
}

// All yields index/record pairs from the first record up.
func (b *GrowBuffer) All() iter.Seq2[int, []byte] {
	return walk(b.Next, 0, false)
}

// Backward yields index/record pairs from the last record down.
func (b *GrowBuffer) Backward() iter.Seq2[int, []byte] {
	return walk(b.Next, b.Extent()-1, true)
}

func walk(next func(*int, bool) ([]byte, bool), start int, reverse bool) iter.Seq2[int, []byte] {
	return func(yield func(int, []byte) bool) {
		cur := start
		for {
			rec, ok := next(&cur, reverse)
			if !ok {
				return
			}
			// next leaves the cursor one past the yielded record.
			var at int
			if reverse {
				at = cur + 1
			} else {
				at = cur - 1
			}
			if !yield(at, rec) {
				return
			}
		}
	}
}

// Load replaces the contents with a copy of records.
func (b *GrowBuffer) Load(records []byte) error {
	nb, err := b.prepareLoad(records)
	if err != nil {
		return err
	}
	b.commitLoad(nb)
	return nil
}

func (b *GrowBuffer) prepareLoad(records []byte) ([]byte, error) {
	if len(records)%b.member != 0 {
		return nil, api.NewError(api.ErrCodeInvalidArgument, "records are not a whole number of members").
			WithContext("bytes", len(records)).
			WithContext("member_size", b.member)
	}
	if len(records) == 0 {
		return nil, nil
	}
	nb, err := b.alloc.Alloc(len(records))
	if err != nil {
		b.allocFailures++
		return nil, api.NewError(api.ErrCodeAllocation, "load failed").
			WithContext("bytes", len(records)).
			WithCause(err)
	}
	copy(nb, records)
	return nb, nil
}

func (b *GrowBuffer) commitLoad(nb []byte) {
	b.Release()
	b.block = nb
	b.used = len(nb)
	b.count = len(nb) / b.member
}

// Records exposes the storage up to the extent and the number of records
// it spans, without copying. Any mutation invalidates the view.
func (b *GrowBuffer) Records() ([]byte, int) {
	return b.block[:b.used:b.used], b.Extent()
}

// Len returns the number of live records.
func (b *GrowBuffer) Len() int { return b.count }

// Extent returns one past the highest occupied record index.
func (b *GrowBuffer) Extent() int { return b.used / b.member }

// Cap returns capacity in records.
func (b *GrowBuffer) Cap() int { return len(b.block) / b.member }

// MemberSize returns bytes per record.
func (b *GrowBuffer) MemberSize() int { return b.member }

// GrowthStep returns records added per growth event.
func (b *GrowBuffer) GrowthStep() int { return b.step }

// SetGrowthStep changes the growth step; step <= 0 restores the default.
func (b *GrowBuffer) SetGrowthStep(step int) {
	if step <= 0 {
		step = DefaultGrowthStep
	}
	b.step = step
}

func (b *GrowBuffer) Stats() api.PoolStats {
	return api.PoolStats{
		MemberSize:    b.member,
		GrowthStep:    b.step,
		Allocated:     int64(len(b.block)),
		Used:          int64(b.used),
		Count:         int64(b.count),
		Grows:         b.grows,
		Shrinks:       b.shrinks,
		AllocFailures: b.allocFailures,
	}
}

func (b *GrowBuffer) record(index int) []byte {
	off := index * b.member
	return b.block[off : off+b.member : off+b.member]
}

func (b *GrowBuffer) checkRecord(data []byte) {
	if data != nil && len(data) != b.member {
		panic(api.NewError(api.ErrCodeInvalidArgument, "record size mismatch").
			WithContext("bytes", len(data)).
			WithContext("member_size", b.member))
	}
}

func outOfRange(index, length int) *api.Error {
	return api.NewError(api.ErrCodeOutOfRange, fmt.Sprintf("index %d out of range [0:%d]", index, length))
}

// overlaps reports whether a and b share memory.
func overlaps(a, b []byte) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	aLo, aHi := uintptr(unsafe.Pointer(&a[0])), uintptr(unsafe.Pointer(&a[len(a)-1]))
	bLo, bHi := uintptr(unsafe.Pointer(&b[0])), uintptr(unsafe.Pointer(&b[len(b)-1]))
	return aLo <= bHi && bLo <= aHi
}

var _ api.RecordPool = (*GrowBuffer)(nil)
