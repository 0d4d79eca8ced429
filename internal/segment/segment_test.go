package segment_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/ironsheep/image-segment-mcp/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// twoRegionImage returns a width x height buffer whose left half is 0 and
// right half is jump.
func twoRegionImage(width, height, jump int) *segment.Intensity {
	in := segment.NewIntensity(width, height)
	for y := 0; y < height; y++ {
		for x := width / 2; x < width; x++ {
			in.Set(x, y, jump)
		}
	}
	return in
}

// noiseImage returns a deterministic pseudo-random 8-bit buffer.
func noiseImage(width, height int, seed int64) *segment.Intensity {
	r := rand.New(rand.NewSource(seed))
	in := segment.NewIntensity(width, height)
	for i := range in.Pix {
		in.Pix[i] = r.Intn(256)
	}
	return in
}

func TestSegmentImage_SinglePixel(t *testing.T) {
	for _, k := range []float64{0, 1, 500, 1e9} {
		p, err := segment.SegmentImage(intensityFrom(1, 1, 200), k)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Count(), "k=%g", k)
		assert.Equal(t, 0, p.Component(0))
	}
}

func TestSegmentImage_HighContrastPairStaysApart(t *testing.T) {
	p, err := segment.SegmentImage(intensityFrom(2, 1, 0, 255), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Count())
	assert.False(t, p.Connected(0, 1))
}

func TestSegmentImage_SimilarPairMerges(t *testing.T) {
	p, err := segment.SegmentImage(intensityFrom(2, 1, 10, 12), 1000)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Count())
	assert.True(t, p.Connected(0, 1))
}

func TestSegment_NegativeKFragments(t *testing.T) {
	p, err := segment.SegmentImage(intensityFrom(2, 1, 0, 1), -10)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Count())
	assert.False(t, p.Connected(0, 1))

	// Even zero-weight edges stay unmerged below k == 0.
	g, err := segment.BuildGraph(intensityFrom(3, 2, 7, 7, 7, 7, 7, 7))
	require.NoError(t, err)
	p, err = segment.Segment(g, -0.5)
	require.NoError(t, err)
	assert.Equal(t, 6, p.Count())
}

func TestSegment_InvalidInput(t *testing.T) {
	_, err := segment.Segment(nil, 10)
	assert.ErrorIs(t, err, segment.ErrInvalidVertexCount)

	_, err = segment.SegmentImage(&segment.Intensity{Width: 2, Height: 1, Channels: 3, Pix: make([]int, 6)}, 10)
	assert.ErrorIs(t, err, segment.ErrMultiChannel)

	bad := &segment.Graph{V: 2, Edges: []segment.Edge{{Weight: 1, A: 0, B: 5}}}
	_, err = segment.Segment(bad, 10)
	assert.ErrorIs(t, err, segment.ErrVertexRange)
}

func TestSegment_ZeroK(t *testing.T) {
	// Uniform regions still merge: zero-weight edges never exceed Int+0.
	p, err := segment.SegmentImage(segment.NewIntensity(4, 3), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Count())

	// Any non-zero step keeps pixels apart.
	p, err = segment.SegmentImage(intensityFrom(4, 1, 0, 1, 2, 3), 0)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Count())
}

func TestSegment_PartitionCoverage(t *testing.T) {
	in := noiseImage(16, 12, 7)
	p, err := segment.SegmentImage(in, 300)
	require.NoError(t, err)

	require.Equal(t, 16*12, p.Len())
	total := 0
	for id, n := range p.Sizes() {
		assert.Equal(t, id, p.Component(id), "component id %d must be its own root", id)
		assert.Positive(t, n)
		total += n
	}
	assert.Equal(t, p.Len(), total)

	counted := make(map[int]int)
	for v := 0; v < p.Len(); v++ {
		counted[p.Component(v)]++
	}
	assert.Equal(t, p.Sizes(), counted)
}

func TestSegment_FindIsIdempotent(t *testing.T) {
	p, err := segment.SegmentImage(noiseImage(10, 10, 3), 800)
	require.NoError(t, err)

	first := make([]int, p.Len())
	for v := range first {
		first[v] = p.Component(v)
	}
	for round := 0; round < 3; round++ {
		for v := range first {
			assert.Equal(t, first[v], p.Component(v))
		}
	}
}

func TestSegment_TwoRegions(t *testing.T) {
	// Two 16-pixel halves joined only by weight-100 edges: they merge once
	// k/16 reaches 100.
	tests := []struct {
		k    float64
		want int
	}{
		{0, 2},
		{100, 2},
		{1000, 2},
		{1599, 2},
		{1600, 1},
		{5000, 1},
		{50000, 1},
	}
	for _, tt := range tests {
		p, err := segment.SegmentImage(twoRegionImage(8, 4, 100), tt.k)
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.Count(), "k=%g", tt.k)

		left, right := p.ComponentAt(0, 0), p.ComponentAt(7, 3)
		for y := 0; y < 4; y++ {
			for x := 0; x < 8; x++ {
				want := left
				if x >= 4 {
					want = right
				}
				assert.Equal(t, want, p.ComponentAt(x, y), "k=%g (%d,%d)", tt.k, x, y)
			}
		}
	}
}

func TestSegment_LargerKNeverFragments(t *testing.T) {
	ks := []float64{0, 1, 10, 100, 500, 1000, 1600, 3000, 30000}
	prev := 0.0
	for _, k := range ks {
		p, err := segment.SegmentImage(twoRegionImage(8, 4, 100), k)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.MeanSize(), prev, "k=%g", k)
		prev = p.MeanSize()
	}
}

func TestSegment_Deterministic(t *testing.T) {
	run := func() []int {
		p, err := segment.SegmentImage(noiseImage(20, 15, 11), 500)
		require.NoError(t, err)
		return p.Labels()
	}
	first := run()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, run())
	}
}

func TestSegmentContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, err := segment.BuildGraph(noiseImage(4, 4, 1))
	require.NoError(t, err)
	_, err = segment.SegmentContext(ctx, g, 100)
	assert.ErrorIs(t, err, context.Canceled)
}
