package board

import "fmt"

// Color is a side. NoColor is the color of an empty square.
type Color int8

const (
	NoColor Color = 0
	White   Color = 1
	Black   Color = -1
)

func (c Color) Opposite() Color {
	return -c
}

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// ParseColor parses "white"/"w" or "black"/"b".
func ParseColor(s string) (Color, error) {
	switch s {
	case "white", "w", "White", "W":
		return White, nil
	case "black", "b", "Black", "B":
		return Black, nil
	}
	return NoColor, fmt.Errorf("color %q: %w", s, ErrInvalidArgument)
}

// Piece is the content of a square. The sign encodes the color and the
// magnitude encodes man (1) or king (2).
type Piece int8

const (
	Empty     Piece = 0
	WhiteMan  Piece = 1
	BlackMan  Piece = -1
	WhiteKing Piece = 2
	BlackKing Piece = -2
)

func (p Piece) Color() Color {
	switch {
	case p > 0:
		return White
	case p < 0:
		return Black
	}
	return NoColor
}

func (p Piece) IsKing() bool {
	return p == WhiteKing || p == BlackKing
}

// Promote turns a man into a king of the same color. Kings and empty squares
// are returned unchanged.
func (p Piece) Promote() Piece {
	switch p {
	case WhiteMan:
		return WhiteKing
	case BlackMan:
		return BlackKing
	}
	return p
}

// Notation returns the character used for the piece in board notation.
func (p Piece) Notation() byte {
	switch p {
	case WhiteMan:
		return 'w'
	case BlackMan:
		return 'b'
	case WhiteKing:
		return 'W'
	case BlackKing:
		return 'B'
	}
	return ' '
}

func (p Piece) String() string {
	switch p {
	case WhiteMan:
		return "white"
	case BlackMan:
		return "black"
	case WhiteKing:
		return "white-king"
	case BlackKing:
		return "black-king"
	}
	return "empty"
}

func pieceFromNotation(c byte) (Piece, error) {
	switch c {
	case ' ':
		return Empty, nil
	case 'w':
		return WhiteMan, nil
	case 'b':
		return BlackMan, nil
	case 'W':
		return WhiteKing, nil
	case 'B':
		return BlackKing, nil
	}
	return Empty, fmt.Errorf("notation character %q: %w", c, ErrInvalidArgument)
}

// RelativePiece is a piece seen from the point of view of the side to move.
type RelativePiece int8

const (
	RelEmpty RelativePiece = iota
	Friendly
	Enemy
	FriendlyKing
	EnemyKing
)

// Relative reinterprets the piece for the given player.
func (p Piece) Relative(c Color) RelativePiece {
	if p == Empty {
		return RelEmpty
	}
	friendly := p.Color() == c
	switch {
	case friendly && p.IsKing():
		return FriendlyKing
	case friendly:
		return Friendly
	case p.IsKing():
		return EnemyKing
	}
	return Enemy
}

func (r RelativePiece) IsFriend() bool {
	return r == Friendly || r == FriendlyKing
}

func (r RelativePiece) IsEnemy() bool {
	return r == Enemy || r == EnemyKing
}
