package move

import (
	"errors"
	"testing"

	"github.com/matryer/is"

	"github.com/domino14/checkers/board"
)

func TestShortDescription(t *testing.T) {
	is := is.New(t)
	m := NewMove(board.White, 21, 17)
	is.True(!m.IsCapture())
	is.Equal(m.ShortDescription(), "22-18")

	c := NewCapture(board.White, 21, 14, 17)
	is.True(c.IsCapture())
	is.Equal(c.ShortDescription(), "22x15")
}

func TestParseAndFind(t *testing.T) {
	is := is.New(t)
	from, to, capture, err := ParseSquares("22x15")
	is.NoErr(err)
	is.Equal(from, board.Position(21))
	is.Equal(to, board.Position(14))
	is.True(capture)

	_, _, _, err = ParseSquares("33-1")
	is.True(errors.Is(err, board.ErrOutOfRange))
	_, _, _, err = ParseSquares("abc")
	is.True(errors.Is(err, board.ErrInvalidArgument))

	moves := []Move{NewMove(board.White, 21, 17), NewCapture(board.White, 21, 14, 17)}
	m, ok := Find(moves, "22x15")
	is.True(ok)
	is.Equal(m.Jumped, board.Position(17))
	_, ok = Find(moves, "22-15")
	is.True(!ok)
}
