package segment

// Partition is the frozen outcome of a segmentation run. Every vertex points
// straight at its component root, so lookups never write and a Partition can
// be shared by any number of goroutines.
//
// Component ids are root vertex indices: opaque, stable for the lifetime of
// the Partition, and not contiguous. Use Labels for a dense numbering.
type Partition struct {
	root   []int
	size   map[int]int
	width  int
	height int
}

// newPartition compresses every path in ds and snapshots the result.
// ds must not be used for further merges afterwards.
func newPartition(ds *DisjointSet) *Partition {
	p := &Partition{
		root: make([]int, ds.Len()),
		size: make(map[int]int, ds.Count()),
	}
	for v := range p.root {
		r := ds.Find(v)
		p.root[v] = r
		if _, ok := p.size[r]; !ok {
			p.size[r] = ds.Size(r)
		}
	}
	return p
}

// Len returns the number of vertices.
func (p *Partition) Len() int {
	return len(p.root)
}

// Count returns the number of components.
func (p *Partition) Count() int {
	return len(p.size)
}

// Bounds returns the grid dimensions for partitions built from an image,
// or (0, 0) for partitions of hand-built graphs.
func (p *Partition) Bounds() (width, height int) {
	return p.width, p.height
}

// Component returns the component id of vertex v.
func (p *Partition) Component(v int) int {
	return p.root[v]
}

// ComponentAt returns the component id of pixel (x, y). It is only valid for
// partitions produced from an image.
func (p *Partition) ComponentAt(x, y int) int {
	return p.root[VertexID(x, y, p.width)]
}

// Connected reports whether u and v ended up in the same component.
func (p *Partition) Connected(u, v int) bool {
	return p.root[u] == p.root[v]
}

// Size returns the vertex count of component id, or 0 if id is not a
// component of p.
func (p *Partition) Size(id int) int {
	return p.size[id]
}

// Sizes returns a copy of the component id to vertex count map.
func (p *Partition) Sizes() map[int]int {
	out := make(map[int]int, len(p.size))
	for id, n := range p.size {
		out[id] = n
	}
	return out
}

// Labels returns a dense relabeling: labels[v] is in [0, Count()), assigned
// in order of first appearance when scanning vertices from 0 upward.
func (p *Partition) Labels() []int {
	labels := make([]int, len(p.root))
	dense := make(map[int]int, len(p.size))
	for v, r := range p.root {
		l, ok := dense[r]
		if !ok {
			l = len(dense)
			dense[r] = l
		}
		labels[v] = l
	}
	return labels
}

// MeanSize returns the average component size.
func (p *Partition) MeanSize() float64 {
	if len(p.size) == 0 {
		return 0
	}
	return float64(len(p.root)) / float64(len(p.size))
}
