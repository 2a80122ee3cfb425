// File: pool/sequence.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Order-preserving record pools: positions are always contiguous from zero
// and removal compacts the tail instead of leaving tombstones.

package pool

import (
	"iter"

	"github.com/momentics/hioload-mempool/api"
)

// seqBase holds the behavior shared by SequencePool and RingPool.
type seqBase struct {
	items *GrowBuffer
}

func newSeqBase(step, capacity, member int, opts []Option) (seqBase, error) {
	items, err := newGrowBuffer(step, capacity, member, newOptions(opts))
	if err != nil {
		return seqBase{}, err
	}
	return seqBase{items: items}, nil
}

// PushFront inserts data before every other record.
func (s seqBase) PushFront(data []byte) ([]byte, error) {
	return s.items.InsertAt(0, data)
}

// PushBack appends data after every other record.
func (s seqBase) PushBack(data []byte) ([]byte, error) {
	return s.items.WriteAt(s.items.Extent(), data)
}

// Get returns the record at pos, or false outside [0, Len()).
func (s seqBase) Get(pos int) ([]byte, bool) { return s.items.Get(pos) }

// Next returns the record at *cursor and advances it.
func (s seqBase) Next(cursor *int, reverse bool) ([]byte, bool) {
	return s.items.Next(cursor, reverse)
}

// All yields position/record pairs front to back.
func (s seqBase) All() iter.Seq2[int, []byte] { return s.items.All() }

// Backward yields position/record pairs back to front.
func (s seqBase) Backward() iter.Seq2[int, []byte] { return s.items.Backward() }

// Load replaces the contents with a copy of records.
func (s seqBase) Load(records []byte) error { return s.items.Load(records) }

// Records exposes the records without copying; any mutation invalidates the view.
func (s seqBase) Records() ([]byte, int) { return s.items.Records() }

func (s seqBase) Len() int { return s.items.Len() }

func (s seqBase) Cap() int { return s.items.Cap() }

func (s seqBase) MemberSize() int { return s.items.member }

func (s seqBase) Stats() api.PoolStats { return s.items.Stats() }

// Release frees all storage.
func (s seqBase) Release() { s.items.Release() }

// SequencePool is an insert/remove-anywhere sequence of fixed-size records.
// Positions shift on every insert or removal before them.
type SequencePool struct {
	seqBase
}

// NewSequencePool creates an empty sequence pre-sized to capacity records.
func NewSequencePool(step, capacity, member int, opts ...Option) (*SequencePool, error) {
	base, err := newSeqBase(step, capacity, member, opts)
	if err != nil {
		return nil, err
	}
	return &SequencePool{seqBase: base}, nil
}

// NewSequencePoolFrom creates a sequence holding a copy of records.
func NewSequencePoolFrom(records []byte, step, member int, opts ...Option) (*SequencePool, error) {
	p, err := NewSequencePool(step, 0, member, opts...)
	if err != nil {
		return nil, err
	}
	if err := p.Load(records); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

// InsertAt stores data at pos, shifting later records up. pos beyond the
// end appends.
func (p *SequencePool) InsertAt(pos int, data []byte) ([]byte, error) {
	return p.items.InsertAt(pos, data)
}

// RemoveAt deletes the record at pos, shifting later records down.
// It panics when pos is outside [0, Len()).
func (p *SequencePool) RemoveAt(pos int) {
	if pos < 0 || pos >= p.items.Extent() {
		panic(outOfRange(pos, p.items.Extent()))
	}
	p.items.RemoveShift(pos)
}

// GetLast returns the last record.
func (p *SequencePool) GetLast() ([]byte, bool) {
	return p.items.Get(p.items.Extent() - 1)
}

var _ api.RecordPool = (*SequencePool)(nil)
