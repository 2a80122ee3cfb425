package pool_test

import (
	"encoding/binary"
	"iter"
)

const member = 8

func rec(v uint64) []byte {
	b := make([]byte, member)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func val(b []byte) uint64 { return binary.LittleEndian.Uint64(b) }

func recs(vals ...uint64) []byte {
	out := make([]byte, 0, len(vals)*member)
	for _, v := range vals {
		out = append(out, rec(v)...)
	}
	return out
}

func collect(seq iter.Seq2[int, []byte]) (idx []int, vals []uint64) {
	for i, r := range seq {
		idx = append(idx, i)
		vals = append(vals, val(r))
	}
	return idx, vals
}

func decode(data []byte) []uint64 {
	out := make([]uint64, 0, len(data)/member)
	for off := 0; off+member <= len(data); off += member {
		out = append(out, val(data[off:off+member]))
	}
	return out
}
