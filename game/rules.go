package game

import (
	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/move"
)

// PlayState is the outcome of a game so far.
type PlayState int8

const (
	Ongoing PlayState = iota
	WhiteWins
	BlackWins
	Draw
)

func (s PlayState) String() string {
	switch s {
	case WhiteWins:
		return "white-wins"
	case BlackWins:
		return "black-wins"
	case Draw:
		return "draw"
	}
	return "ongoing"
}

// Winner returns the winning color, or NoColor for a draw or a game still
// in progress.
func (s PlayState) Winner() board.Color {
	switch s {
	case WhiteWins:
		return board.White
	case BlackWins:
		return board.Black
	}
	return board.NoColor
}

func winFor(c board.Color) PlayState {
	if c == board.White {
		return WhiteWins
	}
	return BlackWins
}

// promotionRow is the row on which a man of color c becomes a king.
func promotionRow(c board.Color) int {
	if c == board.White {
		return board.Height - 1
	}
	return 0
}

// Apply performs the board half of a move: the piece is relocated, a jumped
// piece is removed, and a man landing on its far rank is crowned. It returns
// the piece that was captured, if any, and whether a promotion happened.
// The move is not validated.
func Apply(b *board.Board, m move.Move) (captured board.Piece, promoted bool) {
	piece := b[m.From]
	b[m.From] = board.Empty
	b[m.To] = piece
	if m.IsCapture() {
		captured = b[m.Jumped]
		b[m.Jumped] = board.Empty
	}
	if !piece.IsKing() && piece != board.Empty && m.To.Row() == promotionRow(piece.Color()) {
		b[m.To] = piece.Promote()
		promoted = true
	}
	return captured, promoted
}
