package segment

import "fmt"

// MST is a minimum spanning tree (or forest, for disconnected input).
type MST struct {
	Edges  []Edge  `json:"edges"`
	Weight float64 `json:"weight"`
}

// KruskalMST computes a minimum spanning tree of g with Kruskal's algorithm:
// edges are taken in non-decreasing weight order and kept whenever they join
// two different trees, stopping once V-1 edges have been accepted.
//
// g's edges are sorted in place. If g is disconnected the spanning forest is
// returned together with ErrDisconnected.
func KruskalMST(g *Graph) (*MST, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidVertexCount)
	}
	ds, err := NewDisjointSet(g.V)
	if err != nil {
		return nil, err
	}

	g.SortEdges()

	mst := &MST{Edges: make([]Edge, 0, g.V-1)}
	for _, e := range g.Edges {
		if len(mst.Edges) == g.V-1 {
			break
		}
		if e.A < 0 || e.A >= g.V || e.B < 0 || e.B >= g.V {
			return nil, fmt.Errorf("%w: edge %d-%d on %d vertices", ErrVertexRange, e.A, e.B, g.V)
		}
		ra, rb := ds.Find(e.A), ds.Find(e.B)
		if ra == rb {
			continue
		}
		ds.Merge(ra, rb, e.Weight)
		mst.Edges = append(mst.Edges, e)
		mst.Weight += e.Weight
	}

	if len(mst.Edges) < g.V-1 {
		return mst, fmt.Errorf("%w: %d trees remain", ErrDisconnected, ds.Count())
	}
	return mst, nil
}
