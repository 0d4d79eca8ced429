package imaging

import (
	"context"
	"image"
	"image/color"
	"testing"
)

// halvesImage is a width x height image, black on the left and white on
// the right.
func halvesImage(width, height int) *image.RGBA {
	img := solidImage(width, height, color.Black)
	for y := 0; y < height; y++ {
		for x := width / 2; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestSegment_Halves(t *testing.T) {
	opts := SegmentOptions{K: 500}

	seg, err := Segment(context.Background(), halvesImage(40, 20), opts)
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if seg.Partition.Count() != 2 {
		t.Errorf("regions: got %d, want 2", seg.Partition.Count())
	}
	if seg.Intensity.Width != 40 || seg.Intensity.Height != 20 {
		t.Errorf("size: got %dx%d", seg.Intensity.Width, seg.Intensity.Height)
	}
	if seg.Partition.ComponentAt(0, 0) == seg.Partition.ComponentAt(39, 19) {
		t.Error("black and white halves were merged")
	}
}

func TestSegment_DefaultOptionsResize(t *testing.T) {
	seg, err := Segment(context.Background(), halvesImage(480, 100), DefaultSegmentOptions())
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if seg.Intensity.Width != DefaultResizeWidth || seg.Intensity.Height != 50 {
		t.Errorf("size: got %dx%d, want %dx50", seg.Intensity.Width, seg.Intensity.Height, DefaultResizeWidth)
	}
	if seg.Options.K != DefaultK {
		t.Errorf("K: got %g, want %d", seg.Options.K, DefaultK)
	}
}

func TestSegment_NegativeK(t *testing.T) {
	seg, err := Segment(context.Background(), halvesImage(4, 4), SegmentOptions{K: -1})
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if seg.Partition.Count() != 16 {
		t.Errorf("negative k: got %d regions, want every pixel alone (16)", seg.Partition.Count())
	}
}

func TestSegment_LargerKCoarsens(t *testing.T) {
	img := quadrantImage(32, 32)
	prev := 0
	for _, k := range []float64{0, 100, 1000, 10000, 100000} {
		seg, err := Segment(context.Background(), img, SegmentOptions{K: k})
		if err != nil {
			t.Fatalf("k=%g: Segment failed: %v", k, err)
		}
		n := seg.Partition.Count()
		if prev != 0 && n > prev {
			t.Errorf("k=%g produced %d regions, more than %d at a smaller k", k, n, prev)
		}
		prev = n
	}
}

func TestSummarize(t *testing.T) {
	seg, err := Segment(context.Background(), halvesImage(20, 10), SegmentOptions{K: 200})
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	numbers, err := Summarize(context.Background(), seg, RenderOptions{}, false)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if numbers.Regions != 2 || numbers.LargestRegion != 100 || numbers.MeanRegionSize != 100 {
		t.Errorf("summary: %+v", numbers)
	}
	if numbers.ImageBase64 != "" || numbers.MimeType != "" {
		t.Error("image fields should be empty when includeImage is false")
	}

	withImage, err := Summarize(context.Background(), seg, RenderOptions{Seed: 2}, true)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if withImage.ImageBase64 == "" || withImage.MimeType != "image/png" {
		t.Error("image fields should be set when includeImage is true")
	}
}

func TestSpanningTree(t *testing.T) {
	result, err := SpanningTree(halvesImage(10, 4), PreprocessOptions{})
	if err != nil {
		t.Fatalf("SpanningTree failed: %v", err)
	}
	if result.Vertices != 40 || result.Edges != 39 {
		t.Errorf("tree: %d vertices, %d edges", result.Vertices, result.Edges)
	}
	// The halves are uniform, so exactly one edge crosses the 0/255 step.
	if result.Weight != 255 || result.MaxEdge != 255 {
		t.Errorf("weight %g max %g, want 255 and 255", result.Weight, result.MaxEdge)
	}
}
