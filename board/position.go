package board

import (
	"fmt"
	"strconv"
)

const (
	Height = 8
	Width  = 8
	// PlayableSquares is the number of dark squares; only these hold pieces.
	PlayableSquares = Height * Width / 2
)

// Position is the index (0-31) of one of the dark squares. Index 0 is the top
// left playable square, on row 7:
//
//	__  0 __  1 __  2 __  3
//	 4 __  5 __  6 __  7 __
//	__  8 __  9 __ 10 __ 11
//	12 __ 13 __ 14 __ 15 __
//	__ 16 __ 17 __ 18 __ 19
//	20 __ 21 __ 22 __ 23 __
//	__ 24 __ 25 __ 26 __ 27
//	28 __ 29 __ 30 __ 31 __
//
// Rows are numbered 0 (bottom, White's back rank) to 7 (top, Black's back rank).
type Position int8

// NoPosition is used wherever a position is optional.
const NoPosition Position = -1

// NewPosition validates an index.
func NewPosition(index int) (Position, error) {
	if index < 0 || index >= PlayableSquares {
		return NoPosition, fmt.Errorf("index %d: %w", index, ErrOutOfRange)
	}
	return Position(index), nil
}

// PositionAt returns the position at the given row and column. The square
// must be a dark one, that is, row+column must be even.
func PositionAt(row, column int) (Position, error) {
	if row < 0 || row >= Height {
		return NoPosition, fmt.Errorf("row %d: %w", row, ErrOutOfRange)
	}
	if column < 0 || column >= Width {
		return NoPosition, fmt.Errorf("column %d: %w", column, ErrOutOfRange)
	}
	if (row+column)%2 != 0 {
		return NoPosition, fmt.Errorf("row %d column %d is not playable: %w",
			row, column, ErrInvalidArgument)
	}
	return Position((Height-1-row)*4 + column/2), nil
}

// MustPositionAt is like PositionAt but panics on an invalid square. It is
// meant for constant tables and tests.
func MustPositionAt(row, column int) Position {
	p, err := PositionAt(row, column)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Position) Index() int {
	return int(p)
}

func (p Position) Row() int {
	return Height - 1 - int(p)/4
}

func (p Position) Column() int {
	i := int(p)
	return i%4*2 + 1 - i/4%2
}

// Valid returns false for NoPosition or any other out-of-range value.
func (p Position) Valid() bool {
	return p >= 0 && int(p) < PlayableSquares
}

// Relative maps an absolute position into the coordinates of the given
// player. White sees the board as is; Black sees it rotated 180 degrees.
// The mapping is its own inverse.
func (p Position) Relative(c Color) Position {
	if c == Black {
		return Position(PlayableSquares - 1 - int(p))
	}
	return p
}

// String returns the conventional 1-based square number.
func (p Position) String() string {
	if !p.Valid() {
		return "-"
	}
	return strconv.Itoa(int(p) + 1)
}
