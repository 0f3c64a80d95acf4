package game

import (
	"errors"
	"os"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"lukechampine.com/frand"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/move"
	"github.com/domino14/checkers/movegen"
	th "github.com/domino14/checkers/testhelpers"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestSimpleMove(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	m, ok := move.Find(g.GetMoves(), "22-18")
	is.True(ok)
	turn := g.MakeMove(m)
	is.True(turn.TurnChanged)
	is.True(!turn.Promoted)
	is.Equal(turn.Captured, board.NoPosition)
	is.Equal(turn.Result, Ongoing)
	is.Equal(g.PlayerOnTurn(), board.Black)
	b := g.Board()
	is.Equal(b.At(m.From), board.Empty)
	is.Equal(b.At(m.To), board.WhiteMan)
	is.Equal(g.Turn(), 1)
}

func TestSingleJumpPassesTurn(t *testing.T) {
	is := is.New(t)
	g := New(th.MustBoard(th.SingleJumpRows...), board.White)
	moves := g.GetMoves()
	is.Equal(len(moves), 1)
	is.Equal(moves[0].Jumped, th.Sq(3, 3))

	turn := g.MakeMove(moves[0])
	is.True(turn.TurnChanged)
	is.Equal(turn.CapturedPiece, board.BlackMan)
	is.Equal(g.PlayerOnTurn(), board.Black)
	is.Equal(g.ForcedChain(), board.NoPosition)
	b := g.Board()
	is.Equal(b.At(th.Sq(2, 2)), board.Empty)
	is.Equal(b.At(th.Sq(3, 3)), board.Empty)
	is.Equal(b.At(th.Sq(4, 4)), board.WhiteMan)
	is.Equal(g.Playing(), Ongoing)
}

func TestChainWithPromotion(t *testing.T) {
	is := is.New(t)
	g := New(th.MustBoard(th.PromotingChainRows...), board.White)
	is.Equal(len(g.GetMoves()), 2)
	first, ok := move.Find(g.GetMoves(), move.NewCapture(board.White, th.Sq(5, 3), th.Sq(7, 5), th.Sq(6, 4)).ShortDescription())
	is.True(ok)

	turn := g.MakeMove(first)
	is.True(turn.Promoted)
	is.Equal(turn.Piece, board.WhiteKing)
	is.True(!turn.TurnChanged)
	is.Equal(g.PlayerOnTurn(), board.White)
	is.Equal(g.ForcedChain(), th.Sq(7, 5))

	// Only a king can reach the man on row 4.
	moves := g.GetMoves()
	is.Equal(len(moves), 1)
	is.Equal(moves[0].Jumped, th.Sq(4, 2))
	is.Equal(moves[0].To, th.Sq(3, 1))

	turn = g.MakeMove(moves[0])
	is.True(!turn.Promoted)
	is.True(turn.TurnChanged)
	is.Equal(turn.Result, WhiteWins)
	is.Equal(g.Playing(), WhiteWins)
	is.Equal(g.Playing().Winner(), board.White)
	is.Equal(len(g.GetMoves()), 0)
	is.Equal(len(g.History()), 2)
}

func TestPromotionOnlyOnBackRank(t *testing.T) {
	is := is.New(t)
	g, err := FromNotation(board.Black,
		"/ / / / ",
		" / / / /",
		"/ / / / ",
		" / / / /",
		"/ / / / ",
		" / / / /",
		"/b/ / /w",
		" / / / /",
	)
	is.NoErr(err)
	// The black man on row 1 reaches row 0.
	moves, err := g.GetMovesFrom(th.Sq(1, 1))
	is.NoErr(err)
	is.Equal(len(moves), 2)
	turn := g.MakeMove(moves[0])
	is.True(turn.Promoted)
	is.Equal(turn.Piece, board.BlackKing)

	// The white man on row 1 moving to row 2 is not crowned.
	moves, err = g.GetMovesFrom(th.Sq(1, 7))
	is.NoErr(err)
	is.Equal(len(moves), 1)
	turn = g.MakeMove(moves[0])
	is.True(!turn.Promoted)
	is.Equal(turn.Piece, board.WhiteMan)
}

func TestStuckAtStart(t *testing.T) {
	is := is.New(t)
	is.Equal(New(th.EmptyBoard(), board.White).Playing(), Draw)

	b := th.EmptyBoard()
	b[th.Sq(7, 1)] = board.BlackMan
	is.Equal(New(b, board.White).Playing(), BlackWins)
	is.Equal(New(b, board.Black).Playing(), Ongoing)
}

func TestLegalMovesFrom(t *testing.T) {
	is := is.New(t)
	g := New(th.MustBoard(th.SingleJumpRows...), board.White)
	// The man in the corner could step forward, but the capture elsewhere
	// is mandatory.
	normal, err := g.GetMovesFrom(th.Sq(0, 0))
	is.NoErr(err)
	is.Equal(len(normal), 1)
	legal, err := g.GetLegalMovesFrom(th.Sq(0, 0))
	is.NoErr(err)
	is.Equal(len(legal), 0)

	legal, err = g.GetLegalMovesFrom(th.Sq(2, 2))
	is.NoErr(err)
	is.Equal(len(legal), 1)

	_, err = g.GetLegalMovesFrom(th.Sq(4, 4))
	is.True(errors.Is(err, movegen.ErrNotFriendly))
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	g := NewGame()
	cp := g.Copy()
	cp.MakeMove(cp.GetMoves()[0])
	is.Equal(g.Turn(), 0)
	is.Equal(g.Board(), board.Initial())
	is.Equal(g.PlayerOnTurn(), board.White)
	is.Equal(cp.PlayerOnTurn(), board.Black)
}

// Random games must never offer a quiet move while a capture is available,
// and must crown men exactly when they reach the far rank.
func TestRandomPlayoutsKeepRules(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 50; i++ {
		g := NewGame()
		for ply := 0; ply < 300 && g.Playing() == Ongoing; ply++ {
			moves := g.GetMoves()
			is.True(len(moves) > 0)
			forced := g.Generator().GetForcedMoves()
			if len(forced) > 0 {
				for _, m := range moves {
					is.True(m.IsCapture())
				}
			}
			before := g.Board()
			m := moves[frand.Intn(len(moves))]
			turn := g.MakeMove(m)
			wasMan := !before.At(m.From).IsKing()
			reachesBack := m.To.Row() == promotionRow(m.Player)
			is.Equal(turn.Promoted, wasMan && reachesBack)
			after := g.Board()
			is.True(after.CountColor(m.Player.Opposite()) <= before.CountColor(m.Player.Opposite()))
			is.Equal(after.CountColor(m.Player), before.CountColor(m.Player))
		}
	}
}
