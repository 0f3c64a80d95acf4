package heuristic

import (
	"math"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/checkers/board"
)

func TestMaterial(t *testing.T) {
	is := is.New(t)
	b := board.Initial()
	is.Equal(Material(2)(&b), 0.0)
	b[0] = board.Empty
	is.Equal(Material(2)(&b), 1.0)
	b[31] = board.WhiteKing
	is.Equal(Material(3)(&b), 3.0)
}

func TestAdvancementIsSymmetric(t *testing.T) {
	b := board.Initial()
	assert.InDelta(t, 0, Advancement(&b), 1e-9)
	assert.InDelta(t, 0, Squashed(&b), 1e-9)

	var one board.Board
	one[board.MustPositionAt(6, 0)] = board.WhiteMan
	assert.InDelta(t, 1.6, Advancement(&one), 1e-9)
	assert.InDelta(t, math.Tanh(0.16), Squashed(&one), 1e-9)
}

func TestEncode(t *testing.T) {
	is := is.New(t)
	var b board.Board
	b[0] = board.BlackKing
	b[1] = board.BlackMan
	b[30] = board.WhiteMan
	b[31] = board.WhiteKing
	dst := make([]float64, board.PlayableSquares)
	dst[5] = 7
	Encode(&b, 1.5, dst)
	is.Equal(dst[0], -1.5)
	is.Equal(dst[1], -1.0)
	is.Equal(dst[5], 0.0)
	is.Equal(dst[30], 1.0)
	is.Equal(dst[31], 1.5)
}
