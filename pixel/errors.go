package pixel

import "errors"

var (
	// ErrInvalidInput is returned when a grid is empty, ragged or
	// otherwise malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidParameter is returned when a caller-supplied parameter
	// is outside its required range.
	ErrInvalidParameter = errors.New("invalid parameter")
)
