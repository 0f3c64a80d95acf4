package alphabeta

import (
	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/game"
	"github.com/domino14/checkers/move"
	"github.com/domino14/checkers/movegen"
)

// GameState is the part of a game the search needs. It is a value: playing a
// move on it returns a new state and never touches a live game's board.
type GameState struct {
	Board  board.Board
	Player board.Color
	// Chain is the piece that must keep capturing, or NoPosition.
	Chain board.Position
}

// StateOf snapshots a game.
func StateOf(g *game.Game) GameState {
	return GameState{
		Board:  g.Board(),
		Player: g.PlayerOnTurn(),
		Chain:  g.ForcedChain(),
	}
}

func (s *GameState) Moves() []move.Move {
	return movegen.New(&s.Board, s.Player, s.Chain).GetMoves()
}

// Play returns the state after m. Promotion and capture sequences follow the
// same rules as game.Game.
func (s GameState) Play(m move.Move) GameState {
	game.Apply(&s.Board, m)
	if m.IsCapture() && len(movegen.New(&s.Board, s.Player, m.To).GetForcedMoves()) > 0 {
		s.Chain = m.To
		return s
	}
	s.Chain = board.NoPosition
	s.Player = s.Player.Opposite()
	return s
}
