package move

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/domino14/checkers/board"
)

// Move is a single step of one piece. A multi-jump is a sequence of Moves by
// the same player, each with a Jumped square.
type Move struct {
	Player board.Color
	From   board.Position
	To     board.Position
	// Jumped is the captured square, or board.NoPosition for a quiet move.
	Jumped board.Position
}

// NewMove creates a non-capturing move.
func NewMove(player board.Color, from, to board.Position) Move {
	return Move{Player: player, From: from, To: to, Jumped: board.NoPosition}
}

// NewCapture creates a capturing move.
func NewCapture(player board.Color, from, to, jumped board.Position) Move {
	return Move{Player: player, From: from, To: to, Jumped: jumped}
}

func (m Move) IsCapture() bool {
	return m.Jumped.Valid()
}

// ShortDescription uses the conventional square numbers: 22-18 for a quiet
// move, 22x15 for a capture.
func (m Move) ShortDescription() string {
	sep := "-"
	if m.IsCapture() {
		sep = "x"
	}
	return m.From.String() + sep + m.To.String()
}

func (m Move) String() string {
	if m.IsCapture() {
		return fmt.Sprintf("<%v %v (jumped %v)>", m.Player, m.ShortDescription(), m.Jumped)
	}
	return fmt.Sprintf("<%v %v>", m.Player, m.ShortDescription())
}

// ParseSquares parses a short description into its from and to squares and
// reports whether it was written as a capture. It cannot recover the jumped
// square for a king's long capture; match the result against generated moves
// instead.
func ParseSquares(desc string) (from, to board.Position, capture bool, err error) {
	sep := "-"
	if strings.Contains(desc, "x") {
		sep = "x"
		capture = true
	}
	parts := strings.Split(strings.TrimSpace(desc), sep)
	if len(parts) != 2 {
		return board.NoPosition, board.NoPosition, false,
			fmt.Errorf("move %q: %w", desc, board.ErrInvalidArgument)
	}
	squares := [2]board.Position{}
	for i, p := range parts {
		n, perr := strconv.Atoi(p)
		if perr != nil {
			return board.NoPosition, board.NoPosition, false,
				fmt.Errorf("move %q: %w", desc, board.ErrInvalidArgument)
		}
		squares[i], err = board.NewPosition(n - 1)
		if err != nil {
			return board.NoPosition, board.NoPosition, false, err
		}
	}
	return squares[0], squares[1], capture, nil
}

// Find returns the move in moves matching a short description.
func Find(moves []Move, desc string) (Move, bool) {
	from, to, capture, err := ParseSquares(desc)
	if err != nil {
		return Move{}, false
	}
	for _, m := range moves {
		if m.From == from && m.To == to && m.IsCapture() == capture {
			return m, true
		}
	}
	return Move{}, false
}
