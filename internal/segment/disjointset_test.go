package segment

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireNotRootPanic runs fn and checks that it panics with ErrNotRoot.
func requireNotRootPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		assert.True(t, errors.Is(err, ErrNotRoot), "panic %v is not ErrNotRoot", err)
	}()
	fn()
}

func TestNewDisjointSet_InvalidSize(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		ds, err := NewDisjointSet(n)
		assert.Nil(t, ds)
		assert.ErrorIs(t, err, ErrInvalidVertexCount)
	}
}

func TestNewDisjointSet_Singletons(t *testing.T) {
	ds, err := NewDisjointSet(5)
	require.NoError(t, err)

	assert.Equal(t, 5, ds.Len())
	assert.Equal(t, 5, ds.Count())
	for v := 0; v < 5; v++ {
		assert.Equal(t, v, ds.Find(v))
		assert.True(t, ds.IsRoot(v))
		assert.Equal(t, 1, ds.Size(v))
		assert.Equal(t, 0.0, ds.Internal(v))
		assert.Equal(t, 0, ds.nodes[v].rank)
	}
}

func TestMerge_EqualRankAttachesFirstUnderSecond(t *testing.T) {
	ds, err := NewDisjointSet(4)
	require.NoError(t, err)

	root := ds.Merge(0, 1, 7)

	assert.Equal(t, 1, root)
	assert.Equal(t, 1, ds.Find(0))
	assert.Equal(t, 1, ds.nodes[1].rank)
	assert.Equal(t, 0, ds.nodes[0].rank)
	assert.Equal(t, 2, ds.Size(1))
	assert.Equal(t, 7.0, ds.Internal(1))
	assert.Equal(t, 3, ds.Count())
}

func TestMerge_ShorterTreeGoesUnderTaller(t *testing.T) {
	ds, err := NewDisjointSet(4)
	require.NoError(t, err)

	ds.Merge(0, 1, 1) // root 1, rank 1

	// Taller tree first: 2 goes under 1.
	root := ds.Merge(1, 2, 3)
	assert.Equal(t, 1, root)
	assert.Equal(t, 1, ds.nodes[1].rank)

	// Taller tree second: 3 still goes under 1, no rank change.
	root = ds.Merge(3, 1, 4)
	assert.Equal(t, 1, root)
	assert.Equal(t, 1, ds.nodes[1].rank)
	assert.Equal(t, 4, ds.Size(1))
	assert.Equal(t, 4.0, ds.Internal(1))
	assert.Equal(t, 1, ds.Count())
}

func TestMerge_SameRootIsNoop(t *testing.T) {
	ds, err := NewDisjointSet(2)
	require.NoError(t, err)

	assert.Equal(t, 0, ds.Merge(0, 0, 9))
	assert.Equal(t, 2, ds.Count())
	assert.Equal(t, 0.0, ds.Internal(0))
}

func TestMerge_NonRootPanics(t *testing.T) {
	ds, err := NewDisjointSet(3)
	require.NoError(t, err)
	ds.Merge(0, 1, 1)

	requireNotRootPanic(t, func() { ds.Merge(0, 2, 1) })
	requireNotRootPanic(t, func() { ds.Merge(2, 0, 1) })
}

func TestSizeInternal_NonRootPanics(t *testing.T) {
	ds, err := NewDisjointSet(2)
	require.NoError(t, err)
	ds.Merge(0, 1, 1)

	requireNotRootPanic(t, func() { ds.Size(0) })
	requireNotRootPanic(t, func() { ds.Internal(0) })
}

func TestFind_CompressesPath(t *testing.T) {
	ds, err := NewDisjointSet(5)
	require.NoError(t, err)
	// Hand-build the chain 0 -> 1 -> 2 -> 3 -> 4.
	for v := 0; v < 4; v++ {
		ds.nodes[v].parent = v + 1
	}

	assert.Equal(t, 4, ds.Find(0))
	for v := 0; v < 5; v++ {
		assert.Equal(t, 4, ds.nodes[v].parent, "node %d not compressed", v)
	}
	assert.Equal(t, 4, ds.Find(0))
}

// TestMerge_ConnectivityIsMonotonic merges random pairs and checks that no
// previously joined pair is ever separated again.
func TestMerge_ConnectivityIsMonotonic(t *testing.T) {
	const n = 200
	ds, err := NewDisjointSet(n)
	require.NoError(t, err)

	r := rand.New(rand.NewSource(42))
	var joined [][2]int
	for i := 0; i < 400; i++ {
		u, v := r.Intn(n), r.Intn(n)
		ru, rv := ds.Find(u), ds.Find(v)
		if ru != rv {
			before := ds.Count()
			root := ds.Merge(ru, rv, float64(i))
			assert.Equal(t, before-1, ds.Count())
			assert.True(t, root == ru || root == rv)
		}
		joined = append(joined, [2]int{u, v})

		for _, pair := range joined {
			require.Equal(t, ds.Find(pair[0]), ds.Find(pair[1]),
				"pair %v split after step %d", pair, i)
		}
	}

	total := 0
	for v := 0; v < n; v++ {
		if ds.IsRoot(v) {
			total += ds.Size(v)
		}
	}
	assert.Equal(t, n, total)
}
