package segment

import (
	"context"
	"fmt"
)

// cancelCheckInterval is how many edges the merge loop processes between
// context checks in SegmentContext.
const cancelCheckInterval = 1 << 14

// Segment partitions g into regions. k sets the merge sensitivity: larger
// values favor larger regions. Meaningful output needs k > 0. k == 0 only
// lets zero-weight edges merge, and a negative k rejects every edge, so
// each vertex stays its own region.
//
// Segment sorts g's edges in place.
func Segment(g *Graph, k float64) (*Partition, error) {
	return SegmentContext(context.Background(), g, k)
}

// SegmentContext is Segment with cancellation. The merge itself is not
// interruptible at finer grain; ctx is polled between edges.
func SegmentContext(ctx context.Context, g *Graph, k float64) (*Partition, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidVertexCount)
	}
	ds, err := NewDisjointSet(g.V)
	if err != nil {
		return nil, err
	}

	g.SortEdges()

	for i, e := range g.Edges {
		if i%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if e.A < 0 || e.A >= g.V || e.B < 0 || e.B >= g.V {
			return nil, fmt.Errorf("%w: edge %d-%d on %d vertices", ErrVertexRange, e.A, e.B, g.V)
		}

		cu, cv := ds.Find(e.A), ds.Find(e.B)
		if cu == cv {
			continue
		}
		if e.Weight > threshold(ds, cu, k) || e.Weight > threshold(ds, cv, k) {
			continue
		}
		ds.Merge(cu, cv, e.Weight)
	}

	return newPartition(ds), nil
}

// threshold is the largest boundary weight the component rooted at c will
// accept: its internal difference plus k scaled down by its size.
func threshold(ds *DisjointSet, c int, k float64) float64 {
	return ds.Internal(c) + k/float64(ds.Size(c))
}

// SegmentImage builds the pixel graph of in and segments it. The returned
// partition's vertex ids follow VertexID(x, y, in.Width).
func SegmentImage(in *Intensity, k float64, opts ...GraphOption) (*Partition, error) {
	return SegmentImageContext(context.Background(), in, k, opts...)
}

// SegmentImageContext is SegmentImage with cancellation.
func SegmentImageContext(ctx context.Context, in *Intensity, k float64, opts ...GraphOption) (*Partition, error) {
	g, err := BuildGraph(in, opts...)
	if err != nil {
		return nil, err
	}
	p, err := SegmentContext(ctx, g, k)
	if err != nil {
		return nil, err
	}
	p.width, p.height = in.Width, in.Height
	return p, nil
}
