package heightfield

import "errors"

var (
	// ErrInvalidArgument is returned for bad dimensions, octave counts,
	// persistence values and empty grids.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrIndexOutOfBounds is the panic value for grid access outside its
	// dimensions.
	ErrIndexOutOfBounds = errors.New("index out of bounds")
)
