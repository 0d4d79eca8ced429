package segment

import (
	"fmt"
	"sort"
)

// Intensity is a row-major sample buffer. Pixel (x, y) of channel c lives at
// Pix[(x+y*Width)*Channels+c]. Only single-channel buffers can be segmented.
type Intensity struct {
	Width    int
	Height   int
	Channels int
	Pix      []int
}

// NewIntensity allocates a zeroed single-channel buffer.
func NewIntensity(width, height int) *Intensity {
	return &Intensity{
		Width:    width,
		Height:   height,
		Channels: 1,
		Pix:      make([]int, width*height),
	}
}

// At returns the first-channel sample at (x, y).
func (in *Intensity) At(x, y int) int {
	return in.Pix[(x+y*in.Width)*in.Channels]
}

// Set stores v at (x, y) in the first channel.
func (in *Intensity) Set(x, y, v int) {
	in.Pix[(x+y*in.Width)*in.Channels] = v
}

// Validate checks that the buffer can be turned into a pixel graph.
func (in *Intensity) Validate() error {
	if in == nil || in.Width <= 0 || in.Height <= 0 {
		return ErrInvalidDimensions
	}
	if in.Channels != 1 {
		return fmt.Errorf("%w: got %d channels", ErrMultiChannel, in.Channels)
	}
	if want := in.Width * in.Height * in.Channels; len(in.Pix) != want {
		return fmt.Errorf("%w: have %d samples, want %d for %dx%d",
			ErrBufferSize, len(in.Pix), want, in.Width, in.Height)
	}
	return nil
}

// VertexID maps pixel (x, y) of a width-wide grid to its vertex index.
func VertexID(x, y, width int) int {
	return x + y*width
}

// Edge joins vertices A and B with a non-negative dissimilarity Weight.
type Edge struct {
	Weight float64 `json:"weight"`
	A      int     `json:"a"`
	B      int     `json:"b"`
}

// Graph is an undirected weighted graph on vertices 0..V-1.
type Graph struct {
	V     int
	Edges []Edge
}

// NewGraph returns an edgeless graph on v vertices.
func NewGraph(v int) (*Graph, error) {
	if v <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVertexCount, v)
	}
	return &Graph{V: v}, nil
}

// AddEdge appends the edge a-b with weight w.
func (g *Graph) AddEdge(a, b int, w float64) error {
	if a < 0 || a >= g.V || b < 0 || b >= g.V {
		return fmt.Errorf("%w: edge %d-%d on %d vertices", ErrVertexRange, a, b, g.V)
	}
	g.Edges = append(g.Edges, Edge{Weight: w, A: a, B: b})
	return nil
}

// SortEdges orders edges by non-decreasing weight. The sort is stable, so
// equal weights keep construction order and repeated runs on the same input
// see the same sequence.
func (g *Graph) SortEdges() {
	sort.SliceStable(g.Edges, func(i, j int) bool {
		return g.Edges[i].Weight < g.Edges[j].Weight
	})
}

// WeightFunc computes the dissimilarity of two neighboring samples.
// It must be symmetric and non-negative.
type WeightFunc func(a, b int) float64

// AbsDiff is the default WeightFunc: |a - b|.
func AbsDiff(a, b int) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}

// GraphOption configures BuildGraph.
type GraphOption func(*graphOptions)

type graphOptions struct {
	weight WeightFunc
}

// WithWeightFunc replaces the default absolute-difference edge weight.
func WithWeightFunc(fn WeightFunc) GraphOption {
	return func(o *graphOptions) {
		if fn != nil {
			o.weight = fn
		}
	}
}

// EdgeCount returns the number of edges BuildGraph produces for a
// width x height grid.
func EdgeCount(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return 4*width*height - 3*width - 3*height + 2
}

// BuildGraph turns an intensity buffer into its 8-connected grid graph.
//
// Each pixel links back to its earlier neighbors so that every unordered
// adjacent pair appears exactly once:
//
//	o-o-o
//	|X|X|
//	o-o-o
//
// For pixel (x, y) that is the left pixel, the pixel above, the upper-left
// diagonal, and the anti-diagonal pair (x, y-1)-(x-1, y). Edges come out in
// raster order with no weight ordering.
//
// The buffer is validated before any edge is produced.
func BuildGraph(in *Intensity, opts ...GraphOption) (*Graph, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	o := graphOptions{weight: AbsDiff}
	for _, opt := range opts {
		opt(&o)
	}

	w, h := in.Width, in.Height
	g := &Graph{
		V:     w * h,
		Edges: make([]Edge, 0, EdgeCount(w, h)),
	}
	add := func(x1, y1, x2, y2 int) {
		g.Edges = append(g.Edges, Edge{
			Weight: o.weight(in.Pix[VertexID(x1, y1, w)], in.Pix[VertexID(x2, y2, w)]),
			A:      VertexID(x1, y1, w),
			B:      VertexID(x2, y2, w),
		})
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x > 0 {
				add(x, y, x-1, y)
			}
			if y > 0 {
				add(x, y, x, y-1)
			}
			if x > 0 && y > 0 {
				add(x, y, x-1, y-1)
				add(x, y-1, x-1, y)
			}
		}
	}
	return g, nil
}
