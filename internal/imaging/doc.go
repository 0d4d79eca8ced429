// Package imaging connects decoded images to the segmentation core.
//
// It owns everything on either side of package segment: loading and caching
// source files, pre-processing (crop, grayscale, resize, Gaussian blur) into
// a single-channel intensity buffer, and turning the resulting partition
// into something a person or client can use: a colorized PNG, per-region
// statistics, or a spanning-tree summary.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left; X grows
// rightward and Y downward. Regions use inclusive (X1,Y1) and exclusive
// (X2,Y2). Coordinates in results refer to the pre-processed image, which is
// smaller than the source when ResizeWidth or a Region applies.
//
// # Pipeline
//
//	img, _ := cache.Load(path)
//	seg, _ := imaging.Segment(ctx, img, imaging.DefaultSegmentOptions())
//	out, _ := imaging.Colorize(ctx, seg.Partition, imaging.RenderOptions{Seed: 1})
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. A Segmentation is immutable once
// returned; Colorize paints it from several goroutines.
//
// # Colors
//
// Region colors come from RegionColor, a pure function of the component id
// and a seed, so the same segmentation always renders identically.
package imaging
