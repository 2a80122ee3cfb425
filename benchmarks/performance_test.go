// Package benchmarks
// Author: momentics <momentics@gmail.com>
//
// Performance benchmarks for hioload-mempool record pools.

package benchmarks

import (
	"testing"

	"github.com/momentics/hioload-mempool/pool"
)

const member = 64

// BenchmarkStablePoolChurn inserts and removes around a steady population,
// so most inserts are served from the free stack.
func BenchmarkStablePoolChurn(b *testing.B) {
	sp, err := pool.NewStablePool(256, 1024, member)
	if err != nil {
		b.Fatal(err)
	}
	defer sp.Release()
	rec := make([]byte, member)
	for i := 0; i < 1024; i++ {
		if _, err := sp.Insert(rec); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sp.Remove(i % 1000)
		if _, err := sp.Insert(rec); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkRingPoolThroughput measures push/pop through a scratch buffer.
func BenchmarkRingPoolThroughput(b *testing.B) {
	rp, err := pool.NewRingPool(256, 1024, member)
	if err != nil {
		b.Fatal(err)
	}
	defer rp.Release()
	rec := make([]byte, member)
	scratch := make([]byte, 0, member)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := rp.PushBack(rec); err != nil {
			b.Fatal(err)
		}
		if scratch, err = rp.PopFirstInto(scratch[:0]); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSequencePoolInsertFront is dominated by the tail shift.
func BenchmarkSequencePoolInsertFront(b *testing.B) {
	for _, size := range []int{16, 1024} {
		b.Run(sizeName(size), func(b *testing.B) {
			sp, err := pool.NewSequencePool(256, size+1, member)
			if err != nil {
				b.Fatal(err)
			}
			defer sp.Release()
			rec := make([]byte, member)
			for i := 0; i < size; i++ {
				if _, err := sp.PushBack(rec); err != nil {
					b.Fatal(err)
				}
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := sp.InsertAt(0, rec); err != nil {
					b.Fatal(err)
				}
				sp.RemoveAt(0)
			}
		})
	}
}

// BenchmarkGrowBufferAppend measures append with step-wise growth.
func BenchmarkGrowBufferAppend(b *testing.B) {
	rec := make([]byte, member)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		gb, err := pool.NewGrowBuffer(pool.DefaultGrowthStep, 0, member)
		if err != nil {
			b.Fatal(err)
		}
		for j := 0; j < 512; j++ {
			if _, err := gb.WriteAt(gb.Extent(), rec); err != nil {
				b.Fatal(err)
			}
		}
		gb.Release()
	}
}

func sizeName(n int) string {
	if n >= 1024 {
		return "1k"
	}
	return "small"
}
