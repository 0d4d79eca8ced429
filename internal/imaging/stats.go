package imaging

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/image-segment-mcp/internal/segment"
)

// Centroid is a sub-pixel position.
type Centroid struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RegionStat summarizes one segmented region.
type RegionStat struct {
	// ID is the region's component id in the partition.
	ID int `json:"id"`

	// Size is the region's pixel count.
	Size int `json:"size"`

	// Percentage is Size as a share of all pixels (0-100).
	Percentage float64 `json:"percentage"`

	// Bounds is the region's bounding box in segmented-image coordinates.
	Bounds Region `json:"bounds"`

	// Centroid is the mean pixel position.
	Centroid Centroid `json:"centroid"`

	// MeanIntensity and StdDevIntensity describe the region's samples.
	MeanIntensity   float64 `json:"mean_intensity"`
	StdDevIntensity float64 `json:"stddev_intensity"`

	// Color is the region's display color as "#rrggbb".
	Color string `json:"color"`
}

// RegionStats computes per-region statistics for an image partition and
// returns the top largest regions, biggest first (ties by id). top <= 0
// returns every region.
func RegionStats(p *segment.Partition, in *segment.Intensity, top int, seed int64) []RegionStat {
	type acc struct {
		samples        []float64
		sumX, sumY     float64
		x1, y1, x2, y2 int
	}

	width, height := in.Width, in.Height
	regions := make(map[int]*acc, p.Count())
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			id := p.ComponentAt(x, y)
			a, ok := regions[id]
			if !ok {
				a = &acc{x1: x, y1: y, x2: x + 1, y2: y + 1}
				regions[id] = a
			}
			a.samples = append(a.samples, float64(in.At(x, y)))
			a.sumX += float64(x)
			a.sumY += float64(y)
			a.x1, a.y1 = min(a.x1, x), min(a.y1, y)
			a.x2, a.y2 = max(a.x2, x+1), max(a.y2, y+1)
		}
	}

	total := float64(width * height)
	out := make([]RegionStat, 0, len(regions))
	for id, a := range regions {
		n := float64(len(a.samples))
		mean, std := stat.MeanStdDev(a.samples, nil)
		if len(a.samples) < 2 {
			std = 0
		}
		out = append(out, RegionStat{
			ID:              id,
			Size:            len(a.samples),
			Percentage:      n / total * 100,
			Bounds:          Region{X1: a.x1, Y1: a.y1, X2: a.x2, Y2: a.y2},
			Centroid:        Centroid{X: a.sumX / n, Y: a.sumY / n},
			MeanIntensity:   mean,
			StdDevIntensity: std,
			Color:           RegionColor(id, seed).Hex(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size > out[j].Size
		}
		return out[i].ID < out[j].ID
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}
