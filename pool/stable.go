// File: pool/stable.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// StablePool hands out slot indices that stay valid until removed. Freed
// slots are tombstoned in a liveness map and reused LIFO before growing.

package pool

import (
	"encoding/binary"
	"iter"
	"log/slog"

	"github.com/momentics/hioload-mempool/api"
)

const indexSize = 8

var liveFlag = []byte{1}

// StablePool is an arena of fixed-size records with a free-slot stack.
//
// The free stack holds exactly the dead slots below the extent: removing
// the highest live slot lowers the extent and drops stack entries above it.
type StablePool struct {
	items    *GrowBuffer
	liveness *GrowBuffer // one flag byte per slot
	free     *GrowBuffer // stack of uint64 slot indices
	log      *slog.Logger
}

// NewStablePool creates an empty pool pre-sized to capacity records.
func NewStablePool(step, capacity, member int, opts ...Option) (*StablePool, error) {
	o := newOptions(opts)
	items, err := newGrowBuffer(step, capacity, member, o)
	if err != nil {
		return nil, err
	}
	liveness, err := newGrowBuffer(step, capacity, 1, o)
	if err != nil {
		items.Release()
		return nil, err
	}
	free, err := newGrowBuffer(step, 0, indexSize, o)
	if err != nil {
		items.Release()
		liveness.Release()
		return nil, err
	}
	return &StablePool{items: items, liveness: liveness, free: free, log: o.log}, nil
}

// NewStablePoolFrom creates a pool holding a copy of records, all live.
func NewStablePoolFrom(records []byte, step, member int, opts ...Option) (*StablePool, error) {
	p, err := NewStablePool(step, 0, member, opts...)
	if err != nil {
		return nil, err
	}
	if err := p.Load(records); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

// Insert stores data (zeroes when nil) and returns its slot index.
// On allocation failure the pool is left as it was.
func (p *StablePool) Insert(data []byte) (int, error) {
	p.items.checkRecord(data)
	slot, reused := p.nextSlot()

	if _, err := p.liveness.WriteAt(slot, liveFlag); err != nil {
		return -1, err
	}
	if _, err := p.items.WriteAt(slot, data); err != nil {
		p.liveness.block[slot] = 0
		p.liveness.Remove(slot, p.extentBelow)
		return -1, err
	}
	if reused {
		p.free.RemoveShift(p.free.Extent() - 1)
	}
	return slot, nil
}

func (p *StablePool) nextSlot() (int, bool) {
	if n := p.free.Extent(); n > 0 {
		return p.freeAt(n - 1), true
	}
	return p.items.Extent(), false
}

func (p *StablePool) freeAt(i int) int {
	return int(binary.NativeEndian.Uint64(p.free.record(i)))
}

// Get returns the record stored at index. Only the extent is checked: a
// removed slot yields unspecified bytes.
func (p *StablePool) Get(index int) ([]byte, bool) {
	return p.items.Get(index)
}

// GetLast returns the highest live record.
func (p *StablePool) GetLast() ([]byte, bool) {
	return p.items.Get(p.items.Extent() - 1)
}

// Live reports whether index holds a record.
func (p *StablePool) Live(index int) bool {
	return index >= 0 && index < p.items.Extent() && p.liveness.block[index] != 0
}

// Remove frees the slot at index. Removing a dead or unknown slot is a no-op.
func (p *StablePool) Remove(index int) {
	if !p.Live(index) {
		return
	}
	clear(p.items.record(index))
	p.items.Remove(index, p.extentBelow)
	p.liveness.block[index] = 0
	p.liveness.Remove(index, p.extentBelow)
	if p.liveness.Cap() > p.items.Cap() {
		if err := p.liveness.Resize(p.items.Cap()); err != nil {
			p.log.Debug("liveness shrink skipped", "error", err)
		}
	}

	ext := p.items.Extent()
	if index >= ext {
		p.dropFreeFrom(ext)
		return
	}

	// Bursty removals would otherwise regrow the free stack one step at a time.
	p.free.SetGrowthStep(max(p.items.step, p.items.count/2))
	var rec [indexSize]byte
	binary.NativeEndian.PutUint64(rec[:], uint64(index))
	if _, err := p.free.WriteAt(p.free.Extent(), rec[:]); err != nil {
		// The slot stays dead until the extent falls below it.
		p.log.Warn("free slot not recorded", "index", index, "error", err)
	}
}

// extentBelow finds the extent left after index stops being the highest live slot.
func (p *StablePool) extentBelow(index int) int {
	for i := min(index, len(p.liveness.block)) - 1; i >= 0; i-- {
		if p.liveness.block[i] != 0 {
			return i + 1
		}
	}
	return 0
}

// dropFreeFrom discards free slots at or beyond ext, keeping stack order.
func (p *StablePool) dropFreeFrom(ext int) {
	n := p.free.Extent()
	kept := 0
	for i := 0; i < n; i++ {
		if p.freeAt(i) >= ext {
			continue
		}
		if kept != i {
			copy(p.free.record(kept), p.free.record(i))
		}
		kept++
	}
	for p.free.Extent() > kept {
		p.free.RemoveShift(p.free.Extent() - 1)
	}
}

// Next returns the next live record at or after *cursor (before, when
// reverse) and advances the cursor past it.
func (p *StablePool) Next(cursor *int, reverse bool) ([]byte, bool) {
	for {
		i := *cursor
		rec, ok := p.items.Next(cursor, reverse)
		if !ok {
			return nil, false
		}
		if p.liveness.block[i] != 0 {
			return rec, true
		}
	}
}

// All yields live index/record pairs in ascending slot order.
func (p *StablePool) All() iter.Seq2[int, []byte] {
	return walk(p.Next, 0, false)
}

// Backward yields live index/record pairs in descending slot order.
func (p *StablePool) Backward() iter.Seq2[int, []byte] {
	return walk(p.Next, p.items.Extent()-1, true)
}

// Load replaces the contents with a copy of records, all live, and forgets
// every free slot. On failure the pool is unchanged.
func (p *StablePool) Load(records []byte) error {
	items, err := p.items.prepareLoad(records)
	if err != nil {
		return err
	}
	flags := make([]byte, len(records)/p.items.member)
	for i := range flags {
		flags[i] = 1
	}
	live, err := p.liveness.prepareLoad(flags)
	if err != nil {
		if items != nil {
			p.items.alloc.Free(items)
		}
		return err
	}
	p.items.commitLoad(items)
	p.liveness.commitLoad(live)
	p.free.Release()
	return nil
}

// Records exposes slot storage up to the extent, dead slots included.
func (p *StablePool) Records() ([]byte, int) { return p.items.Records() }

// Len returns the number of live records.
func (p *StablePool) Len() int { return p.items.Len() }

// Extent returns one past the highest live slot.
func (p *StablePool) Extent() int { return p.items.Extent() }

// Cap returns capacity in records.
func (p *StablePool) Cap() int { return p.items.Cap() }

// FreeSlots returns the number of slots waiting for reuse.
func (p *StablePool) FreeSlots() int { return p.free.Extent() }

func (p *StablePool) MemberSize() int { return p.items.member }

func (p *StablePool) Stats() api.PoolStats { return p.items.Stats() }

// Release frees all storage.
func (p *StablePool) Release() {
	p.items.Release()
	p.liveness.Release()
	p.free.Release()
}

var _ api.RecordPool = (*StablePool)(nil)
