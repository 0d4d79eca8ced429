package imaging

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"runtime"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/image-segment-mcp/internal/segment"
)

// RenderOptions controls how a partition is drawn.
type RenderOptions struct {
	// Seed selects the palette. See RegionColor.
	Seed int64

	// Outline paints pixels on region boundaries black instead of filling
	// them with the region color.
	Outline bool

	// Workers bounds the number of goroutines painting rows. Zero means
	// runtime.GOMAXPROCS(0).
	Workers int
}

// rowsPerTask is the height of the band each render goroutine paints.
const rowsPerTask = 32

// Colorize paints every pixel of an image partition with its region's
// color. The partition must carry image bounds (see segment.SegmentImage).
//
// Partition lookups never write, so bands of rows are painted
// concurrently.
func Colorize(ctx context.Context, p *segment.Partition, opts RenderOptions) (*image.NRGBA, error) {
	width, height := p.Bounds()
	if width <= 0 || height <= 0 {
		return nil, ErrNoBounds
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	black := color.NRGBA{A: 255}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for y0 := 0; y0 < height; y0 += rowsPerTask {
		y0 := y0
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			y1 := min(y0+rowsPerTask, height)
			for y := y0; y < y1; y++ {
				for x := 0; x < width; x++ {
					id := p.ComponentAt(x, y)
					c := RegionNRGBA(id, opts.Seed)
					if opts.Outline && onBoundary(p, x, y, width, height) {
						c = black
					}
					out.SetNRGBA(x, y, c)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// onBoundary reports whether (x, y) has a right or lower neighbor in a
// different component.
func onBoundary(p *segment.Partition, x, y, width, height int) bool {
	id := p.ComponentAt(x, y)
	if x+1 < width && p.ComponentAt(x+1, y) != id {
		return true
	}
	return y+1 < height && p.ComponentAt(x, y+1) != id
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePNGBase64 encodes img as base64 PNG for JSON transport.
func EncodePNGBase64(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// SaveImage writes img to path; the format follows the file extension.
func SaveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}
