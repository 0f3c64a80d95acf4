package movegen

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/move"
	th "github.com/domino14/checkers/testhelpers"
)

func destinations(moves []move.Move) []board.Position {
	tos := make([]board.Position, len(moves))
	for i, m := range moves {
		tos[i] = m.To
	}
	return tos
}

func TestNotFriendly(t *testing.T) {
	is := is.New(t)
	b := board.Initial()
	g := New(&b, board.White, board.NoPosition)

	_, err := g.GetMovesFrom(th.Sq(3, 1))
	is.True(errors.Is(err, ErrNotFriendly))
	is.True(errors.Is(err, board.ErrInvalidArgument))

	_, err = g.GetForcedMovesFrom(th.Sq(5, 1))
	is.True(errors.Is(err, ErrNotFriendly))

	_, err = g.GetMovesFrom(board.NoPosition)
	is.True(errors.Is(err, board.ErrOutOfRange))
}

func TestInitialMoves(t *testing.T) {
	is := is.New(t)
	b := board.Initial()

	white := New(&b, board.White, board.NoPosition)
	moves := white.GetMoves()
	is.Equal(len(moves), 7)
	is.Equal(len(white.GetForcedMoves()), 0)
	for _, m := range moves {
		is.Equal(m.Player, board.White)
		is.Equal(m.From.Row(), 2)
		is.Equal(m.To.Row(), 3)
		is.True(!m.IsCapture())
	}

	black := New(&b, board.Black, board.NoPosition)
	moves = black.GetMoves()
	is.Equal(len(moves), 7)
	for _, m := range moves {
		is.Equal(m.Player, board.Black)
		is.Equal(m.From.Row(), 5)
		is.Equal(m.To.Row(), 4)
	}
}

func TestBlockedMen(t *testing.T) {
	is := is.New(t)
	b := board.Initial()
	g := New(&b, board.White, board.NoPosition)
	moves, err := g.GetMovesFrom(th.Sq(1, 1))
	is.NoErr(err)
	is.Equal(len(moves), 0)

	moves, err = g.GetMovesFrom(th.Sq(2, 0))
	is.NoErr(err)
	is.Equal(destinations(moves), []board.Position{th.Sq(3, 1)})
}

func TestKingSlides(t *testing.T) {
	is := is.New(t)
	b := th.MustBoard(th.LoneKingRows...)
	g := New(&b, board.White, board.NoPosition)
	moves, err := g.GetMovesFrom(th.Sq(3, 3))
	is.NoErr(err)
	is.Equal(len(moves), 7)
	assert.ElementsMatch(t, []board.Position{
		th.Sq(4, 4), th.Sq(5, 5), th.Sq(6, 6),
		th.Sq(2, 2), th.Sq(1, 1), th.Sq(0, 0),
		th.Sq(4, 2),
	}, destinations(moves))
}

func TestKingCaptures(t *testing.T) {
	is := is.New(t)
	b := th.MustBoard(th.KingCaptureRows...)
	g := New(&b, board.White, board.NoPosition)
	moves, err := g.GetForcedMovesFrom(th.Sq(3, 3))
	is.NoErr(err)
	is.Equal(len(moves), 2)
	assert.ElementsMatch(t, []board.Position{th.Sq(6, 0), th.Sq(1, 5)}, destinations(moves))
	for _, m := range moves {
		if m.To == th.Sq(6, 0) {
			is.Equal(m.Jumped, th.Sq(5, 1))
		} else {
			is.Equal(m.Jumped, th.Sq(2, 4))
		}
	}
	// The man in the corner can also capture, and capturing is mandatory.
	all := g.GetMoves()
	is.Equal(len(all), 3)
	for _, m := range all {
		is.True(m.IsCapture())
	}
}

func TestBlackKingCapturesRelative(t *testing.T) {
	is := is.New(t)
	b := th.MustBoard(th.KingCaptureRows...)
	g := New(&b, board.Black, board.NoPosition)
	moves, err := g.GetForcedMovesFrom(th.Sq(2, 4))
	is.NoErr(err)
	// The black king on row 2 jumps the white king back up to row 4.
	is.Equal(len(moves), 1)
	is.Equal(moves[0].Jumped, th.Sq(3, 3))
	is.Equal(moves[0].To, th.Sq(4, 2))
	is.Equal(moves[0].Player, board.Black)
}

func TestSingleJump(t *testing.T) {
	is := is.New(t)
	b := th.MustBoard(th.SingleJumpRows...)
	g := New(&b, board.White, board.NoPosition)
	forced := g.GetForcedMoves()
	is.Equal(len(forced), 1)
	is.Equal(forced[0], move.NewCapture(board.White, th.Sq(2, 2), th.Sq(4, 4), th.Sq(3, 3)))
	is.Equal(g.GetMoves(), forced)
	is.True(g.HasMoves())
}

func TestChainRestrictsForcedMoves(t *testing.T) {
	is := is.New(t)
	b := th.MustBoard(
		"/ / / / ",
		" / / / /",
		"/ / / / ",
		" / /b/ /",
		"/ /w/ /w",
		" / / /b/",
		"/ / / / ",
		" / / / /",
	)
	free := New(&b, board.White, board.NoPosition)
	is.Equal(len(free.GetForcedMoves()), 2)

	chained := New(&b, board.White, th.Sq(3, 3))
	forced := chained.GetForcedMoves()
	is.Equal(len(forced), 1)
	is.Equal(forced[0].From, th.Sq(3, 3))
	is.Equal(chained.GetMoves(), forced)
}

func TestRelativeBoard(t *testing.T) {
	is := is.New(t)
	b := board.Initial()
	rb := NewRelativeBoard(&b, board.Black)
	// Black's men are at the bottom of its own view.
	for i := 20; i < 32; i++ {
		is.Equal(rb[i], board.Friendly)
	}
	for i := 0; i < 12; i++ {
		is.Equal(rb[i], board.Enemy)
	}
	is.Equal(New(&b, board.White, board.NoPosition).RelativeBoard(),
		NewRelativeBoard(&b, board.White))
}
