// Package segment implements graph-based image segmentation.
//
// A single-channel intensity buffer becomes an 8-connected grid graph whose
// vertices are pixels and whose edge weights are sample differences. Edges
// are visited in non-decreasing weight order and two regions are merged
// when the joining edge is no heavier than either region's tolerance:
//
//	Int(C) + k/|C|
//
// where Int(C) is the weight of the edge behind C's most recent merge and k
// is the caller's sensitivity. Larger k yields coarser segmentations.
//
// # Pipeline
//
//	in := segment.NewIntensity(w, h)     // filled by the caller
//	g, err := segment.BuildGraph(in)     // validate, build edges
//	p, err := segment.Segment(g, 30000)  // sort + merge
//	id := p.ComponentAt(x, y)
//
// SegmentImage runs both steps. KruskalMST reuses the same graph and
// disjoint-set types to compute a plain minimum spanning tree.
//
// # Concurrency
//
// Building and segmenting are sequential. The returned Partition is
// immutable and safe for concurrent readers.
//
// # Errors
//
// Malformed input is reported with the sentinel errors in this package
// before any graph work starts. Calling a root-only DisjointSet method on a
// non-root vertex is a programming error and panics with ErrNotRoot.
package segment
