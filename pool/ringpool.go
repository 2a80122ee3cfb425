// File: pool/ringpool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Double-ended queue of fixed-size records on top of GrowBuffer.

package pool

import "github.com/momentics/hioload-mempool/api"

// RingPool pushes and pops records at both ends.
//
// Pops hand the record out by value: PopFirst/PopLast return a fresh copy,
// PopFirstInto/PopLastInto append into a caller-owned buffer so a consumer
// can keep one scratch record across pops without allocating.
type RingPool struct {
	seqBase
}

// NewRingPool creates an empty queue pre-sized to capacity records.
func NewRingPool(step, capacity, member int, opts ...Option) (*RingPool, error) {
	base, err := newSeqBase(step, capacity, member, opts)
	if err != nil {
		return nil, err
	}
	return &RingPool{seqBase: base}, nil
}

// NewRingPoolFrom creates a queue holding a copy of records, first record at the front.
func NewRingPoolFrom(records []byte, step, member int, opts ...Option) (*RingPool, error) {
	p, err := NewRingPool(step, 0, member, opts...)
	if err != nil {
		return nil, err
	}
	if err := p.Load(records); err != nil {
		p.Release()
		return nil, err
	}
	return p, nil
}

// PopFirst removes the front record and returns it.
func (p *RingPool) PopFirst() ([]byte, error) {
	return p.PopFirstInto(nil)
}

// PopLast removes the back record and returns it.
func (p *RingPool) PopLast() ([]byte, error) {
	return p.PopLastInto(nil)
}

// PopFirstInto removes the front record and appends it to dst.
func (p *RingPool) PopFirstInto(dst []byte) ([]byte, error) {
	return p.popInto(dst, 0)
}

// PopLastInto removes the back record and appends it to dst.
func (p *RingPool) PopLastInto(dst []byte) ([]byte, error) {
	return p.popInto(dst, p.items.Extent()-1)
}

func (p *RingPool) popInto(dst []byte, pos int) ([]byte, error) {
	rec, ok := p.items.Get(pos)
	if !ok {
		return dst, api.ErrEmpty
	}
	dst = append(dst, rec...)
	p.items.RemoveShift(pos)
	return dst, nil
}

// PeekFirst returns a view of the front record without removing it.
func (p *RingPool) PeekFirst() ([]byte, bool) {
	return p.items.Get(0)
}

// PeekLast returns a view of the back record without removing it.
func (p *RingPool) PeekLast() ([]byte, bool) {
	return p.items.Get(p.items.Extent() - 1)
}

var _ api.RecordPool = (*RingPool)(nil)
