package geom

import "errors"

var (
	// ErrDegenerateInput is returned when an operation needs to normalise
	// or divide by a zero-length vector or quaternion.
	ErrDegenerateInput = errors.New("geom: degenerate input")

	// ErrInvalidArgument is returned for inputs outside an operation's
	// domain, such as a zero scale component or a sheared scale matrix.
	ErrInvalidArgument = errors.New("geom: invalid argument")
)
