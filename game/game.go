// Package game holds the rules state machine: who is on turn, capture
// sequences, promotion and the end of the game.
package game

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/move"
	"github.com/domino14/checkers/movegen"
)

// Turn describes everything that changed when a move was made. A front end
// can animate a move from it without asking the game anything else.
type Turn struct {
	Move move.Move
	// Piece is the moving piece as it stands after the move.
	Piece board.Piece
	// Captured is the square emptied by a capture, or NoPosition.
	Captured      board.Position
	CapturedPiece board.Piece
	Promoted      bool
	// TurnChanged is false while a capture sequence is still in progress.
	TurnChanged bool
	NextPlayer  board.Color
	Result      PlayState
}

func (t Turn) String() string {
	var sb strings.Builder
	sb.WriteString(t.Move.ShortDescription())
	if t.Promoted {
		sb.WriteString(" (crowned)")
	}
	if !t.TurnChanged && t.Result == Ongoing {
		sb.WriteString(" ...")
	}
	if t.Result != Ongoing {
		fmt.Fprintf(&sb, " %v", t.Result)
	}
	return sb.String()
}

// Game is a checkers game in progress. It owns its board exclusively.
type Game struct {
	uid     string
	board   board.Board
	onturn  board.Color
	gen     *movegen.Generator
	playing PlayState
	history []Turn
}

// New starts a game from an arbitrary position. If the first player cannot
// move, the game is over before it starts.
func New(b board.Board, firstPlayer board.Color) *Game {
	g := &Game{board: b, onturn: firstPlayer}
	g.gen = movegen.New(&g.board, firstPlayer, board.NoPosition)
	if !g.gen.HasMoves() {
		g.playing = g.noMovesResult(firstPlayer.Opposite())
	}
	return g
}

// NewGame starts from the standard setup with White to move.
func NewGame() *Game {
	return New(board.Initial(), board.White)
}

// FromNotation starts a game from board notation.
func FromNotation(firstPlayer board.Color, rows ...string) (*Game, error) {
	b, err := board.FromNotation(rows...)
	if err != nil {
		return nil, err
	}
	return New(b, firstPlayer), nil
}

// noMovesResult decides the game once the side to move is stuck. other is
// the side that just moved.
func (g *Game) noMovesResult(other board.Color) PlayState {
	if movegen.New(&g.board, other, board.NoPosition).HasMoves() {
		return winFor(other)
	}
	return Draw
}

// MakeMove plays a move obtained from this game's generator. Moves from
// anywhere else are not checked and will corrupt the game.
func (g *Game) MakeMove(m move.Move) Turn {
	captured, promoted := Apply(&g.board, m)
	t := Turn{
		Move:          m,
		Piece:         g.board[m.To],
		Captured:      m.Jumped,
		CapturedPiece: captured,
		Promoted:      promoted,
	}

	if m.IsCapture() {
		chain := movegen.New(&g.board, g.onturn, m.To)
		if len(chain.GetForcedMoves()) > 0 {
			g.gen = chain
			t.NextPlayer = g.onturn
			g.history = append(g.history, t)
			return t
		}
	}

	mover := g.onturn
	g.onturn = mover.Opposite()
	g.gen = movegen.New(&g.board, g.onturn, board.NoPosition)
	t.TurnChanged = true
	t.NextPlayer = g.onturn
	if !g.gen.HasMoves() {
		g.playing = g.noMovesResult(mover)
	}
	t.Result = g.playing
	g.history = append(g.history, t)
	return t
}

func (g *Game) GetMoves() []move.Move {
	if g.playing != Ongoing {
		return nil
	}
	return g.gen.GetMoves()
}

func (g *Game) GetMovesFrom(pos board.Position) ([]move.Move, error) {
	return g.gen.GetMovesFrom(pos)
}

func (g *Game) GetForcedMovesFrom(pos board.Position) ([]move.Move, error) {
	return g.gen.GetForcedMovesFrom(pos)
}

// GetLegalMovesFrom returns the moves the piece at pos may actually play,
// taking mandatory capture and any capture sequence into account.
func (g *Game) GetLegalMovesFrom(pos board.Position) ([]move.Move, error) {
	if _, err := g.gen.GetForcedMovesFrom(pos); err != nil {
		return nil, err
	}
	return lo.Filter(g.GetMoves(), func(m move.Move, _ int) bool {
		return m.From == pos
	}), nil
}

func (g *Game) Generator() *movegen.Generator {
	return g.gen
}

// Board returns a copy of the current board.
func (g *Game) Board() board.Board {
	return g.board
}

func (g *Game) PlayerOnTurn() board.Color {
	return g.onturn
}

// ForcedChain returns the piece that must keep capturing, or NoPosition.
func (g *Game) ForcedChain() board.Position {
	return g.gen.Chain()
}

func (g *Game) Playing() PlayState {
	return g.playing
}

func (g *Game) History() []Turn {
	return g.history
}

// Turn returns the number of moves made so far. Each jump of a capture
// sequence counts separately.
func (g *Game) Turn() int {
	return len(g.history)
}

func (g *Game) Uid() string {
	return g.uid
}

func (g *Game) SetUid(uid string) {
	g.uid = uid
}

// Copy returns a deep copy that can be played on independently.
func (g *Game) Copy() *Game {
	cp := &Game{
		uid:     g.uid,
		board:   g.board,
		onturn:  g.onturn,
		playing: g.playing,
		history: append([]Turn(nil), g.history...),
	}
	cp.gen = movegen.New(&cp.board, cp.onturn, g.gen.Chain())
	return cp
}

// ToDisplayText renders the board and whose move it is.
func (g *Game) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString(g.board.ToDisplayText())
	if g.playing != Ongoing {
		fmt.Fprintf(&sb, "Game over: %v\n", g.playing)
	} else {
		fmt.Fprintf(&sb, "%v to move", g.onturn)
		if c := g.ForcedChain(); c.Valid() {
			fmt.Fprintf(&sb, " (continuing capture from %v)", c)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
