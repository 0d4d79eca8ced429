package segment_test

import (
	"sync"
	"testing"

	"github.com/ironsheep/image-segment-mcp/internal/segment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartition_LabelsAreDenseInRasterOrder(t *testing.T) {
	// Three vertical stripes: 0 | 200 | 0. With a tiny k no stripe merges
	// with its neighbor.
	in := intensityFrom(3, 2,
		0, 200, 0,
		0, 200, 0,
	)
	p, err := segment.SegmentImage(in, 1)
	require.NoError(t, err)
	require.Equal(t, 3, p.Count())

	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, p.Labels())
}

func TestPartition_Bounds(t *testing.T) {
	p, err := segment.SegmentImage(segment.NewIntensity(5, 3), 10)
	require.NoError(t, err)
	w, h := p.Bounds()
	assert.Equal(t, 5, w)
	assert.Equal(t, 3, h)

	g, err := segment.NewGraph(3)
	require.NoError(t, err)
	p, err = segment.Segment(g, 10)
	require.NoError(t, err)
	w, h = p.Bounds()
	assert.Zero(t, w)
	assert.Zero(t, h)
	assert.Equal(t, 3, p.Count())
}

func TestPartition_SizesIsCopy(t *testing.T) {
	p, err := segment.SegmentImage(twoRegionImage(4, 2, 50), 1)
	require.NoError(t, err)

	sizes := p.Sizes()
	for id := range sizes {
		sizes[id] = -1
	}
	for id := range sizes {
		assert.Equal(t, 4, p.Size(id))
	}
	assert.Zero(t, p.Size(-42))
}

func TestPartition_ConcurrentReaders(t *testing.T) {
	p, err := segment.SegmentImage(noiseImage(32, 32, 5), 400)
	require.NoError(t, err)

	want := make([]int, p.Len())
	for v := range want {
		want[v] = p.Component(v)
	}

	var wg sync.WaitGroup
	errs := make(chan int, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range want {
				if p.Component(v) != want[v] {
					errs <- v
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for v := range errs {
		t.Errorf("vertex %d resolved differently under concurrent reads", v)
	}
}
