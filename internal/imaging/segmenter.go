package imaging

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/image-segment-mcp/internal/segment"
)

// DefaultK is the merge sensitivity used when the caller gives none.
// Useful values for 8-bit images lie roughly between 500 and 50000.
const DefaultK = 30000

// SegmentOptions combines pre-processing and segmentation parameters.
type SegmentOptions struct {
	PreprocessOptions

	// K is the merge sensitivity. Larger values give larger regions.
	K float64
}

// DefaultSegmentOptions returns the stock pipeline settings.
func DefaultSegmentOptions() SegmentOptions {
	return SegmentOptions{
		PreprocessOptions: PreprocessOptions{
			ResizeWidth: DefaultResizeWidth,
			BlurRadius:  DefaultBlurRadius,
		},
		K: DefaultK,
	}
}

// Segmentation is the outcome of running the full pipeline on an image.
type Segmentation struct {
	// Partition maps every pixel of the pre-processed image to a region.
	Partition *segment.Partition

	// Intensity is the buffer that was segmented.
	Intensity *segment.Intensity

	// Prepared is the grayscale, resized and blurred image.
	Prepared image.Image

	// Options echoes the parameters used.
	Options SegmentOptions

	// Elapsed is the wall time spent building the graph and merging.
	Elapsed time.Duration
}

// Segment pre-processes img and segments it.
func Segment(ctx context.Context, img image.Image, opts SegmentOptions) (*Segmentation, error) {
	in, prepared, err := Preprocess(img, opts.PreprocessOptions)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	p, err := segment.SegmentImageContext(ctx, in, opts.K)
	if err != nil {
		return nil, fmt.Errorf("segmentation failed: %w", err)
	}

	return &Segmentation{
		Partition: p,
		Intensity: in,
		Prepared:  prepared,
		Options:   opts,
		Elapsed:   time.Since(start),
	}, nil
}

// SegmentResult is the JSON summary of a segmentation, with the colorized
// result attached as base64 PNG.
type SegmentResult struct {
	// Width and Height are the dimensions of the segmented (pre-processed)
	// image, which differ from the source when resizing or cropping.
	Width  int `json:"width"`
	Height int `json:"height"`

	// K is the merge sensitivity that was applied.
	K float64 `json:"k"`

	// Regions is the number of regions found.
	Regions int `json:"regions"`

	// MeanRegionSize is the average region size in pixels.
	MeanRegionSize float64 `json:"mean_region_size"`

	// LargestRegion is the pixel count of the biggest region.
	LargestRegion int `json:"largest_region"`

	// ElapsedMS is the segmentation time in milliseconds.
	ElapsedMS float64 `json:"elapsed_ms"`

	// ImageBase64 is the colorized segmentation as base64 PNG.
	ImageBase64 string `json:"image_base64,omitempty"`

	// MimeType is "image/png" when ImageBase64 is set.
	MimeType string `json:"mime_type,omitempty"`
}

// Summarize renders s and packs it into a SegmentResult. With
// includeImage false only the numbers are filled in.
func Summarize(ctx context.Context, s *Segmentation, render RenderOptions, includeImage bool) (*SegmentResult, error) {
	largest := 0
	for _, n := range s.Partition.Sizes() {
		largest = max(largest, n)
	}

	result := &SegmentResult{
		Width:          s.Intensity.Width,
		Height:         s.Intensity.Height,
		K:              s.Options.K,
		Regions:        s.Partition.Count(),
		MeanRegionSize: s.Partition.MeanSize(),
		LargestRegion:  largest,
		ElapsedMS:      float64(s.Elapsed.Microseconds()) / 1000,
	}
	if !includeImage {
		return result, nil
	}

	colored, err := Colorize(ctx, s.Partition, render)
	if err != nil {
		return nil, err
	}
	encoded, err := EncodePNGBase64(colored)
	if err != nil {
		return nil, err
	}
	result.ImageBase64 = encoded
	result.MimeType = "image/png"
	return result, nil
}

// MSTResult summarizes the minimum spanning tree of an image's pixel graph.
type MSTResult struct {
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Vertices int     `json:"vertices"`
	Edges    int     `json:"edges"`
	Weight   float64 `json:"weight"`

	// MaxEdge is the heaviest edge in the tree, the strongest boundary the
	// tree has to cross to connect the whole image.
	MaxEdge float64 `json:"max_edge"`
}

// SpanningTree pre-processes img and computes the minimum spanning tree of
// its pixel graph.
func SpanningTree(img image.Image, opts PreprocessOptions) (*MSTResult, error) {
	in, _, err := Preprocess(img, opts)
	if err != nil {
		return nil, err
	}
	g, err := segment.BuildGraph(in)
	if err != nil {
		return nil, err
	}
	mst, err := segment.KruskalMST(g)
	if err != nil {
		return nil, fmt.Errorf("spanning tree failed: %w", err)
	}

	result := &MSTResult{
		Width:    in.Width,
		Height:   in.Height,
		Vertices: g.V,
		Edges:    len(mst.Edges),
		Weight:   mst.Weight,
	}
	for _, e := range mst.Edges {
		result.MaxEdge = max(result.MaxEdge, e.Weight)
	}
	return result, nil
}
