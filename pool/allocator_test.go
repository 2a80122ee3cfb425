package pool

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-mempool/api"
)

func TestHeapAllocator(t *testing.T) {
	buf, err := HeapAllocator{}.Alloc(16)
	require.NoError(t, err)
	assert.Len(t, buf, 16)

	_, err = HeapAllocator{}.Alloc(-1)
	require.ErrorIs(t, err, api.ErrAllocation)
}

func TestBudgetAllocator_Accounting(t *testing.T) {
	b := NewBudgetAllocator(nil, 100)
	x, err := b.Alloc(60)
	require.NoError(t, err)
	assert.Equal(t, int64(60), b.InUse())

	_, err = b.Alloc(41)
	require.ErrorIs(t, err, api.ErrAllocation)
	var perr *api.Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, int64(60), perr.Context["in_use"])

	y, err := b.Alloc(40)
	require.NoError(t, err)
	assert.Equal(t, int64(100), b.Peak())

	b.Free(x)
	b.Free(y)
	assert.Equal(t, int64(0), b.InUse())
	assert.Equal(t, int64(100), b.Peak())
	assert.Equal(t, int64(100), b.Limit())
}

func TestGuardAllocator(t *testing.T) {
	g := NewGuardAllocator(nil, 50, 8)
	g.available = func() (uint64, error) { return 100, nil }

	_, err := g.Alloc(4) // below threshold, never checked
	require.NoError(t, err)
	_, err = g.Alloc(50)
	require.NoError(t, err)
	_, err = g.Alloc(51)
	require.ErrorIs(t, err, api.ErrAllocation)

	g.available = func() (uint64, error) { return 0, errors.New("no /proc") }
	_, err = g.Alloc(1 << 10)
	require.NoError(t, err)

	assert.Equal(t, DefaultGuardThreshold, NewGuardAllocator(nil, 0, 0).threshold)
}

func TestGuardAllocator_FailsPoolGrowth(t *testing.T) {
	g := NewGuardAllocator(nil, 1<<62, 1)
	g.available = func() (uint64, error) { return 1 << 30, nil }

	p, err := NewStablePool(4, 0, 8, WithAllocator(g))
	require.NoError(t, err)
	_, err = p.Insert(word(1))
	require.ErrorIs(t, err, api.ErrAllocation)
	assert.Equal(t, 0, p.Len())
}

func TestMmapAllocator(t *testing.T) {
	m, err := NewMmapAllocator()
	if err != nil {
		require.ErrorIs(t, err, api.ErrNotSupported)
		t.Skip("mmap allocator unsupported")
	}
	buf, err := m.Alloc(4096)
	require.NoError(t, err)
	require.Len(t, buf, 4096)
	for _, c := range buf {
		require.Zero(t, c)
	}
	buf[4095] = 1
	m.Free(buf)

	_, err = m.Alloc(0)
	require.ErrorIs(t, err, api.ErrAllocation)

	b, err := NewGrowBuffer(2, 0, 8, WithAllocator(m))
	require.NoError(t, err)
	for i := uint64(0); i < 9; i++ {
		_, err := b.WriteAt(b.Extent(), word(i))
		require.NoError(t, err)
	}
	assert.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6, 7, 8}, words(t, b))
	b.Release()
}
