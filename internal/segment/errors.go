package segment

import "errors"

// Sentinel errors for segmentation input validation. Callers test them with
// errors.Is; functions in this package wrap them with positional detail.
var (
	// ErrInvalidVertexCount indicates a disjoint set or graph was requested
	// with zero or negative elements.
	ErrInvalidVertexCount = errors.New("segment: vertex count must be positive")
	// ErrInvalidDimensions indicates a nil buffer or non-positive width/height.
	ErrInvalidDimensions = errors.New("segment: width and height must be positive")
	// ErrMultiChannel indicates a buffer with more than one sample per pixel.
	ErrMultiChannel = errors.New("segment: intensity buffer must be single-channel")
	// ErrBufferSize indicates len(Pix) does not match Width*Height*Channels.
	ErrBufferSize = errors.New("segment: buffer length does not match dimensions")
	// ErrVertexRange indicates an edge endpoint outside [0, V).
	ErrVertexRange = errors.New("segment: vertex index out of range")
	// ErrDisconnected indicates the graph has no spanning tree.
	ErrDisconnected = errors.New("segment: graph is disconnected")
)

// ErrNotRoot is the panic value raised when a root-only operation (Merge,
// Size, Internal) receives a vertex that is not the root of its tree.
// It signals a caller bug, never a runtime condition.
var ErrNotRoot = errors.New("segment: vertex is not a component root")
