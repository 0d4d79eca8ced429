package imaging

import "errors"

var (
	// ErrNilImage is returned when a pipeline stage is given no image.
	ErrNilImage = errors.New("imaging: nil image")
	// ErrEmptyImage is returned for images, or crops, without pixels.
	ErrEmptyImage = errors.New("imaging: image has no pixels")
	// ErrInvalidRegion is wrapped by every region validation failure.
	ErrInvalidRegion = errors.New("imaging: invalid region")
	// ErrNoBounds is returned when rendering a partition that was not built
	// from an image and so has no width and height.
	ErrNoBounds = errors.New("imaging: partition has no image bounds")
)
