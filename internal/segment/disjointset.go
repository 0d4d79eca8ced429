package segment

import "fmt"

// node is one disjoint-set slot. size and internal are only meaningful
// while the node is a root; once it is attached under another root they go
// stale and must not be read.
type node struct {
	parent   int
	rank     int
	size     int
	internal float64
}

// DisjointSet is a union-find structure over the vertices 0..n-1 that also
// tracks, for every component, its vertex count and its internal difference:
// the weight of the edge that triggered the component's most recent merge.
//
// A DisjointSet is not safe for concurrent use. Find compresses paths and
// therefore writes even when the partition does not change.
type DisjointSet struct {
	nodes []node
	count int
}

// NewDisjointSet creates n singleton components, each its own root with
// rank 0, size 1 and internal difference 0.
//
// Returns ErrInvalidVertexCount if n <= 0.
func NewDisjointSet(n int) (*DisjointSet, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidVertexCount, n)
	}
	nodes := make([]node, n)
	for i := range nodes {
		nodes[i] = node{parent: i, size: 1}
	}
	return &DisjointSet{nodes: nodes, count: n}, nil
}

// Len returns the number of elements in the set.
func (ds *DisjointSet) Len() int {
	return len(ds.nodes)
}

// Count returns the number of live components.
func (ds *DisjointSet) Count() int {
	return ds.count
}

// Find returns the root of the tree containing v. Every node visited on the
// way is re-pointed directly at the root. The walk is iterative so that
// million-pixel images cannot exhaust the stack.
func (ds *DisjointSet) Find(v int) int {
	root := v
	for ds.nodes[root].parent != root {
		root = ds.nodes[root].parent
	}
	for ds.nodes[v].parent != root {
		next := ds.nodes[v].parent
		ds.nodes[v].parent = root
		v = next
	}
	return root
}

// IsRoot reports whether v is the root of its tree.
func (ds *DisjointSet) IsRoot(v int) bool {
	return ds.nodes[v].parent == v
}

// Merge joins the components rooted at a and b and returns the surviving
// root. Both arguments must be roots; callers resolve them with Find first.
//
// The shorter tree goes under the taller one. On equal rank a is attached
// under b and b's rank grows by one. The survivor's size becomes the sum of
// both sizes and its internal difference becomes w.
//
// Merge panics with ErrNotRoot if either argument is not a root, and is a
// no-op returning a when a == b.
func (ds *DisjointSet) Merge(a, b int, w float64) int {
	ds.mustBeRoot(a)
	ds.mustBeRoot(b)
	if a == b {
		return a
	}

	na, nb := &ds.nodes[a], &ds.nodes[b]
	root := b
	if na.rank > nb.rank {
		nb.parent = a
		na.size += nb.size
		na.internal = w
		root = a
	} else {
		na.parent = b
		nb.size += na.size
		nb.internal = w
		if na.rank == nb.rank {
			nb.rank++
		}
	}
	ds.count--
	return root
}

// Size returns the vertex count of the component rooted at root.
// It panics with ErrNotRoot if root is not a root.
func (ds *DisjointSet) Size(root int) int {
	ds.mustBeRoot(root)
	return ds.nodes[root].size
}

// Internal returns the internal difference of the component rooted at root.
// It panics with ErrNotRoot if root is not a root.
func (ds *DisjointSet) Internal(root int) float64 {
	ds.mustBeRoot(root)
	return ds.nodes[root].internal
}

func (ds *DisjointSet) mustBeRoot(v int) {
	if ds.nodes[v].parent != v {
		panic(fmt.Errorf("%w: %d (parent %d)", ErrNotRoot, v, ds.nodes[v].parent))
	}
}
