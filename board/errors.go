package board

import "errors"

var (
	// ErrOutOfRange is returned for an index, row or column off the board.
	ErrOutOfRange = errors.New("out of range")
	// ErrInvalidArgument is returned for malformed input, such as a light
	// square or a bad notation character.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidOperation is returned when an operation makes no sense in the
	// current state, such as searching a position with no moves.
	ErrInvalidOperation = errors.New("invalid operation")
)
