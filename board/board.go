package board

import (
	"fmt"
	"strings"
)

// Board holds the 32 playable squares. It is a plain array, so assigning a
// Board copies it; this is what the search relies on to never alias the live
// game board.
type Board [PlayableSquares]Piece

var initialNotation = []string{
	"/b/b/b/b",
	"b/b/b/b/",
	"/b/b/b/b",
	" / / / /",
	"/ / / / ",
	"w/w/w/w/",
	"/w/w/w/w",
	"w/w/w/w/",
}

var initialBoard = func() Board {
	b, err := FromNotation(initialNotation...)
	if err != nil {
		panic(err)
	}
	return b
}()

// Initial returns the standard starting setup: black men on squares 0-11 and
// white men on squares 20-31.
func Initial() Board {
	return initialBoard
}

// FromNotation parses a board from 8 strings of 8 characters, top row (row 7)
// first. A '/' marks a light (unplayable) square, ' ' an empty dark square,
// 'w' and 'b' men, 'W' and 'B' kings.
func FromNotation(rows ...string) (Board, error) {
	var b Board
	if len(rows) != Height {
		return b, fmt.Errorf("board must have %d rows, got %d: %w",
			Height, len(rows), ErrInvalidArgument)
	}
	for row := 0; row < Height; row++ {
		line := rows[Height-1-row]
		if len(line) != Width {
			return b, fmt.Errorf("row %d must have %d columns, got %d: %w",
				row, Width, len(line), ErrInvalidArgument)
		}
		for col := 0; col < Width; col++ {
			if (row+col)%2 != 0 {
				if line[col] != '/' {
					return b, fmt.Errorf("row %d column %d must be '/': %w",
						row, col, ErrInvalidArgument)
				}
				continue
			}
			piece, err := pieceFromNotation(line[col])
			if err != nil {
				return b, fmt.Errorf("row %d column %d: %w", row, col, err)
			}
			b[MustPositionAt(row, col)] = piece
		}
	}
	return b, nil
}

// Notation is the inverse of FromNotation.
func (b *Board) Notation() []string {
	rows := make([]string, Height)
	for row := 0; row < Height; row++ {
		var sb strings.Builder
		for col := 0; col < Width; col++ {
			if (row+col)%2 != 0 {
				sb.WriteByte('/')
				continue
			}
			sb.WriteByte(b[MustPositionAt(row, col)].Notation())
		}
		rows[Height-1-row] = sb.String()
	}
	return rows
}

func (b *Board) At(p Position) Piece {
	return b[p]
}

// Count returns the number of squares holding the given piece.
func (b *Board) Count(piece Piece) int {
	n := 0
	for _, p := range b {
		if p == piece {
			n++
		}
	}
	return n
}

// CountColor returns the number of men and kings of the given color.
func (b *Board) CountColor(c Color) int {
	n := 0
	for _, p := range b {
		if p != Empty && p.Color() == c {
			n++
		}
	}
	return n
}

// ToDisplayText renders the board with row numbers and column letters.
func (b *Board) ToDisplayText() string {
	var str strings.Builder
	str.WriteString("\n   ")
	for col := 0; col < Width; col++ {
		str.WriteString(fmt.Sprintf("%c ", 'a'+col))
	}
	str.WriteString("\n   " + strings.Repeat("-", Width*2) + "\n")
	for row := Height - 1; row >= 0; row-- {
		str.WriteString(fmt.Sprintf("%2d|", row+1))
		for col := 0; col < Width; col++ {
			if (row+col)%2 != 0 {
				str.WriteString("  ")
				continue
			}
			p := b[MustPositionAt(row, col)]
			if p == Empty {
				str.WriteString(". ")
			} else {
				str.WriteString(string(p.Notation()) + " ")
			}
		}
		str.WriteString("|\n")
	}
	str.WriteString("   " + strings.Repeat("-", Width*2) + "\n")
	return str.String()
}

func (b Board) String() string {
	return strings.Join(b.Notation(), "|")
}
