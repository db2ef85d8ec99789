package raster

import "errors"

var (
	// ErrInvalidSize is returned when pixel data does not match the declared dimensions.
	ErrInvalidSize = errors.New("invalid raster size")

	// ErrSizeMismatch is returned by binary operators on buffers of different dimensions.
	ErrSizeMismatch = errors.New("images not the same size")

	// ErrNilImage is returned when a binary operator receives no second buffer.
	ErrNilImage = errors.New("no image given")

	// ErrInvalidKernel is returned for kernel sizes the filters cannot build.
	ErrInvalidKernel = errors.New("invalid kernel size")

	// ErrInvalidScale is returned for non-positive resize factors and for
	// results larger than MaxPixels.
	ErrInvalidScale = errors.New("invalid scale factor")

	// ErrOutOfBounds is returned when a coordinate lies outside the buffer.
	ErrOutOfBounds = errors.New("coordinates outside image bounds")
)
