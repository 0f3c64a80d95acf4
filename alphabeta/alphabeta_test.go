package alphabeta

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/game"
	"github.com/domino14/checkers/heuristic"
	"github.com/domino14/checkers/move"
	th "github.com/domino14/checkers/testhelpers"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

// White can take either of two men. Taking the one on column 3 walks into
// a recapture; taking the one on column 1 is safe.
var twoCapturesRows = []string{
	"/ / / / ",
	" /b/ / /",
	"/ /b/ / ",
	" / / / /",
	"/b/b/ / ",
	" /w/ / /",
	"/ / / / ",
	" / / / /",
}

// rotate gives the same position from the other side of the table.
func rotate(b board.Board) board.Board {
	var r board.Board
	for i, p := range b {
		switch p {
		case board.WhiteMan:
			p = board.BlackMan
		case board.BlackMan:
			p = board.WhiteMan
		case board.WhiteKing:
			p = board.BlackKing
		case board.BlackKing:
			p = board.WhiteKing
		}
		r[board.PlayableSquares-1-i] = p
	}
	return r
}

func TestDepthOnePicksSafeCapture(t *testing.T) {
	is := is.New(t)
	g := game.New(th.MustBoard(twoCapturesRows...), board.White)
	is.Equal(len(g.GetMoves()), 2)

	s := NewSolver(g, heuristic.Material(2), 1)
	m, err := s.Solve(context.Background())
	is.NoErr(err)
	is.Equal(m, move.NewCapture(board.White, th.Sq(2, 2), th.Sq(4, 0), th.Sq(3, 1)))
	pvs := s.PrincipalVariation()
	is.Equal(pvs.BestMove(), m)
	is.Equal(pvs.Score(), -2.0)
	is.True(s.Nodes() > 0)
}

// The capture to the left is generated first but loses the man to a
// recapture; the one to the right is safe. Only a search that keeps its depth
// through captures sees the recapture at depth 1.
var recaptureFirstRows = []string{
	"/ / / / ",
	" / /b/ /",
	"/ /b/ / ",
	" / / / /",
	"/ /b/b/ ",
	" / /w/ /",
	"/ / / / ",
	" / / / /",
}

func TestCaptureKeepsDepth(t *testing.T) {
	is := is.New(t)
	g := game.New(th.MustBoard(recaptureFirstRows...), board.White)
	moves := g.GetMoves()
	is.Equal(len(moves), 2)
	is.Equal(moves[0].To, th.Sq(4, 2))

	s := NewSolver(g, heuristic.Material(2), 1)
	m, err := s.Solve(context.Background())
	is.NoErr(err)
	is.Equal(m, move.NewCapture(board.White, th.Sq(2, 4), th.Sq(4, 6), th.Sq(3, 5)))
	pvs := s.PrincipalVariation()
	is.Equal(pvs.Score(), -2.0)
	// Black's quiet reply is part of the line.
	is.Equal(len(pvs.Moves), 2)
	is.Equal(pvs.Moves[1].Player, board.Black)
	is.True(!pvs.Moves[1].IsCapture())
}

func TestBlackMinimizes(t *testing.T) {
	is := is.New(t)
	g := game.New(rotate(th.MustBoard(twoCapturesRows...)), board.Black)
	m, err := NewSolver(g, heuristic.Material(2), 1).Solve(context.Background())
	is.NoErr(err)
	is.Equal(m.Player, board.Black)
	is.Equal(m.From, th.Sq(2, 2).Relative(board.Black))
	is.Equal(m.To, th.Sq(4, 0).Relative(board.Black))
}

func TestSingleMoveSkipsSearch(t *testing.T) {
	is := is.New(t)
	g := game.New(th.MustBoard(th.SingleJumpRows...), board.White)
	s := NewSolver(g, heuristic.Material(2), 6)
	m, err := s.Solve(context.Background())
	is.NoErr(err)
	is.Equal(m.Jumped, th.Sq(3, 3))
	is.Equal(s.Nodes(), uint64(0))
}

func TestNoMoves(t *testing.T) {
	is := is.New(t)
	b := th.EmptyBoard()
	b[th.Sq(7, 1)] = board.BlackMan
	s := NewStateSolver(GameState{Board: b, Player: board.White, Chain: board.NoPosition},
		heuristic.Material(2), 4)
	_, err := s.Solve(context.Background())
	is.True(errors.Is(err, ErrNoMoves))
	is.True(errors.Is(err, board.ErrInvalidOperation))
}

func TestSearchLeavesGameAlone(t *testing.T) {
	is := is.New(t)
	g := game.NewGame()
	g.MakeMove(g.GetMoves()[2])
	before := g.Board()
	onturn := g.PlayerOnTurn()

	m, err := NewSolver(g, heuristic.Advancement, 5).Solve(context.Background())
	is.NoErr(err)
	is.Equal(g.Board(), before)
	is.Equal(g.PlayerOnTurn(), onturn)

	legal := false
	for _, l := range g.GetMoves() {
		if l == m {
			legal = true
		}
	}
	is.True(legal)
}

func TestCancelled(t *testing.T) {
	is := is.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSolver(game.NewGame(), heuristic.Advancement, 6).Solve(ctx)
	is.True(errors.Is(err, context.Canceled))
}

func TestStatePlayKeepsChain(t *testing.T) {
	is := is.New(t)
	g := game.New(th.MustBoard(th.PromotingChainRows...), board.White)
	state := StateOf(g)
	m, ok := move.Find(state.Moves(), "10x3")
	is.True(ok)
	next := state.Play(m)
	is.Equal(next.Player, board.White)
	is.Equal(next.Chain, th.Sq(7, 5))
	is.Equal(next.Board[th.Sq(7, 5)], board.WhiteKing)
	// The original is a value and did not change.
	is.Equal(state.Board, g.Board())
	is.Equal(state.Chain, board.NoPosition)
}

func TestAdaptivePrefersDeepest(t *testing.T) {
	is := is.New(t)
	g := game.NewGame()
	a := NewAdaptiveSolver(g, heuristic.Advancement,
		Level{Depth: 3},
		Level{Depth: 1, Hold: time.Hour},
	)
	m, err := a.Solve(context.Background())
	is.NoErr(err)
	is.Equal(a.CommittedDepth(), 3)
	is.Equal(m.Player, board.White)
}

func TestAdaptiveFallsBack(t *testing.T) {
	is := is.New(t)
	g := game.NewGame()
	a := NewAdaptiveSolver(g, heuristic.Advancement,
		Level{Depth: 40},
		Level{Depth: 1, Hold: 50 * time.Millisecond},
	)
	ts := time.Now()
	_, err := a.Solve(context.Background())
	is.NoErr(err)
	is.Equal(a.CommittedDepth(), 1)
	is.True(time.Since(ts) < 10*time.Second)
}
