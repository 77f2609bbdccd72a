package detection

import "errors"

var (
	// ErrNilImage is returned when a nil image is passed to the detector.
	ErrNilImage = errors.New("image is nil")

	// ErrEmptyImage is returned when an image has zero width or height.
	ErrEmptyImage = errors.New("image has no pixels")

	// ErrInvalidRange is returned when an HSV threshold range is out of bounds
	// or its minimum exceeds its maximum.
	ErrInvalidRange = errors.New("invalid HSV range")

	// ErrInvalidConfig is returned when a tuning value cannot be used, such as
	// a zero area divisor or tilt scale.
	ErrInvalidConfig = errors.New("invalid detection config")
)
