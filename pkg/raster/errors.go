package raster

import "errors"

var (
	// ErrOutOfBounds indicates a seed coordinate outside the buffer.
	ErrOutOfBounds = errors.New("seed coordinates outside buffer bounds")
	// ErrInvalidRegion indicates a crop region that is degenerate or escapes the buffer.
	ErrInvalidRegion = errors.New("crop region outside buffer bounds")
	// ErrInvalidDimensions indicates a requested width or height that is not positive.
	ErrInvalidDimensions = errors.New("invalid dimensions: width and height must be positive")
)
