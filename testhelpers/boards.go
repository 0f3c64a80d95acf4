package testhelpers

import (
	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/config"
)

var DefaultConfig = config.DefaultConfig()

// MustBoard parses board notation and panics on error.
func MustBoard(rows ...string) board.Board {
	b, err := board.FromNotation(rows...)
	if err != nil {
		panic(err)
	}
	return b
}

// EmptyBoard has no pieces at all.
func EmptyBoard() board.Board {
	return board.Board{}
}

// Sq returns the position at row and column, panicking on a light square.
func Sq(row, column int) board.Position {
	return board.MustPositionAt(row, column)
}

// LoneKingRows is a king on row 3 column 3 boxed in by three other pieces,
// leaving seven quiet destinations.
var LoneKingRows = []string{
	"/ / / /b",
	" / / / /",
	"/w/ / / ",
	" / / / /",
	"/ /W/ / ",
	" / /w/ /",
	"/ / / / ",
	" / / / /",
}

// KingCaptureRows gives the king on row 3 column 3 two captures, to row 6
// column 0 and to row 1 column 5. Its other two diagonals end in blocked
// jumps.
var KingCaptureRows = []string{
	"/ / / /b",
	" / / /b/",
	"/b/ / / ",
	" / / / /",
	"/ /W/ / ",
	" / /B/ /",
	"/b/ / / ",
	"w/ / / /",
}

// SingleJumpRows has exactly one capture for White: row 2 column 2 over row
// 3 column 3 to row 4 column 4. Nothing follows it.
var SingleJumpRows = []string{
	"/b/ / / ",
	" / / / /",
	"/ / / / ",
	" / / / /",
	"/ /b/ / ",
	" /w/ / /",
	"/ / / / ",
	"w/ / / /",
}

// PromotingChainRows lets the white man on row 5 column 3 jump onto the back
// rank, get promoted, and continue capturing as a king along the long
// diagonal to row 3 column 1. It could also capture backwards instead.
var PromotingChainRows = []string{
	"/ / / / ",
	" / /b/ /",
	"/ /w/ / ",
	" /b/ / /",
	"/ / / / ",
	" / / / /",
	"/ / / / ",
	" / / / /",
}
