package pool_test

import (
	"math/rand"
	"testing"

	"github.com/eapache/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-mempool/api"
	"github.com/momentics/hioload-mempool/pool"
)

func newRing(t *testing.T) *pool.RingPool {
	t.Helper()
	p, err := pool.NewRingPool(4, 0, member)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func pushBack(t *testing.T, p *pool.RingPool, vals ...uint64) {
	t.Helper()
	for _, v := range vals {
		_, err := p.PushBack(rec(v))
		require.NoError(t, err)
	}
}

func TestRingPool_ZeroMemberSize(t *testing.T) {
	_, err := pool.NewRingPool(0, 0, 0)
	require.ErrorIs(t, err, api.ErrConstruction)
	_, err = pool.NewRingPoolFrom(nil, 0, 0)
	require.ErrorIs(t, err, api.ErrConstruction)
}

func TestRingPool_FIFO(t *testing.T) {
	p := newRing(t)
	pushBack(t, p, 1, 2, 3)

	for _, want := range []uint64{1, 2, 3} {
		got, err := p.PopFirst()
		require.NoError(t, err)
		assert.Equal(t, want, val(got))
	}
	_, err := p.PopFirst()
	require.ErrorIs(t, err, api.ErrEmpty)
	_, err = p.PopLast()
	require.ErrorIs(t, err, api.ErrEmpty)
}

func TestRingPool_LIFOAndFront(t *testing.T) {
	p := newRing(t)
	pushBack(t, p, 2, 3)
	_, err := p.PushFront(rec(1))
	require.NoError(t, err)

	first, ok := p.PeekFirst()
	require.True(t, ok)
	assert.Equal(t, uint64(1), val(first))
	last, ok := p.PeekLast()
	require.True(t, ok)
	assert.Equal(t, uint64(3), val(last))

	for _, want := range []uint64{3, 2, 1} {
		got, err := p.PopLast()
		require.NoError(t, err)
		assert.Equal(t, want, val(got))
	}
	_, ok = p.PeekFirst()
	assert.False(t, ok)
}

func TestRingPool_PoppedRecordsAreOwned(t *testing.T) {
	p := newRing(t)
	pushBack(t, p, 'A', 'B')

	p1, err := p.PopFirst()
	require.NoError(t, err)
	p2, err := p.PopFirst()
	require.NoError(t, err)
	assert.Equal(t, uint64('A'), val(p1))
	assert.Equal(t, uint64('B'), val(p2))

	// A caller-owned scratch record is reused across pops.
	pushBack(t, p, 'C', 'D')
	scratch := make([]byte, 0, member)
	scratch, err = p.PopFirstInto(scratch[:0])
	require.NoError(t, err)
	assert.Equal(t, uint64('C'), val(scratch))
	scratch, err = p.PopLastInto(scratch[:0])
	require.NoError(t, err)
	assert.Equal(t, uint64('D'), val(scratch))
	assert.Equal(t, 0, p.Len())
}

func TestRingPool_LoadAndRecords(t *testing.T) {
	p, err := pool.NewRingPoolFrom(recs(4, 5, 6), 2, member)
	require.NoError(t, err)
	defer p.Release()

	data, n := p.Records()
	assert.Equal(t, 3, n)
	assert.Equal(t, []uint64{4, 5, 6}, decode(data))

	got, err := p.PopFirst()
	require.NoError(t, err)
	assert.Equal(t, uint64(4), val(got))
	_, vals := collect(p.All())
	assert.Equal(t, []uint64{5, 6}, vals)
}

// TestRingPool_MatchesQueue drives the pool and a reference FIFO with the
// same random operations.
func TestRingPool_MatchesQueue(t *testing.T) {
	for seed := int64(0); seed < 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		p, err := pool.NewRingPool(rng.Intn(6), 0, member)
		require.NoError(t, err)
		ref := queue.New()

		for i := 0; i < 5000; i++ {
			if rng.Intn(2) == 0 {
				v := rng.Uint64()
				_, err := p.PushBack(rec(v))
				require.NoError(t, err)
				ref.Add(v)
			} else {
				got, err := p.PopFirst()
				if ref.Length() == 0 {
					require.ErrorIs(t, err, api.ErrEmpty)
					continue
				}
				require.NoError(t, err)
				require.Equal(t, ref.Remove().(uint64), val(got))
			}
			require.Equal(t, ref.Length(), p.Len())
			if ref.Length() > 0 {
				head, ok := p.PeekFirst()
				require.True(t, ok)
				require.Equal(t, ref.Peek().(uint64), val(head))
			}
		}
		p.Release()
	}
}
