// Package movegen generates legal checkers moves. Generation happens on a
// board seen from the side to move, so one set of rules serves both colors:
// men always advance toward increasing row, and the board is rotated for
// Black.
package movegen

import (
	"fmt"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/move"
)

// ErrNotFriendly is returned when asking for the moves of a square that does
// not hold a piece of the side to move.
var ErrNotFriendly = fmt.Errorf("square does not hold a friendly piece: %w",
	board.ErrInvalidArgument)

type direction struct {
	dr, dc int
}

var (
	forward    = []direction{{1, -1}, {1, 1}}
	diagonals  = []direction{{1, -1}, {1, 1}, {-1, -1}, {-1, 1}}
	noPosition = board.NoPosition
)

// RelativeBoard is a board reinterpreted for one player. It is indexed by
// relative positions.
type RelativeBoard [board.PlayableSquares]board.RelativePiece

// NewRelativeBoard rotates and recolors b for player.
func NewRelativeBoard(b *board.Board, player board.Color) RelativeBoard {
	var rb RelativeBoard
	for i, p := range b {
		rb[board.Position(i).Relative(player)] = p.Relative(player)
	}
	return rb
}

// Generator produces the moves for one player on one board. Results are
// computed on first use and cached, so a Generator must be discarded once
// the board changes.
type Generator struct {
	player board.Color
	rel    RelativeBoard
	// chain is the absolute position of a piece that must keep capturing, or
	// NoPosition.
	chain board.Position

	forced    []move.Move
	normal    []move.Move
	hasForced bool
	hasNormal bool
}

// New creates a generator. Pass board.NoPosition as chain when no capture
// sequence is in progress.
func New(b *board.Board, player board.Color, chain board.Position) *Generator {
	return &Generator{
		player: player,
		rel:    NewRelativeBoard(b, player),
		chain:  chain,
	}
}

func (g *Generator) Player() board.Color {
	return g.player
}

// Chain returns the piece that must continue capturing, if any.
func (g *Generator) Chain() board.Position {
	return g.chain
}

func (g *Generator) RelativeBoard() RelativeBoard {
	return g.rel
}

// neighbour steps from a relative position in the given direction.
func neighbour(p board.Position, d direction) (board.Position, bool) {
	r, c := p.Row()+d.dr, p.Column()+d.dc
	if r < 0 || r >= board.Height || c < 0 || c >= board.Width {
		return noPosition, false
	}
	return board.MustPositionAt(r, c), true
}

func (g *Generator) absolute(p board.Position) board.Position {
	return p.Relative(g.player)
}

func (g *Generator) newMove(from, to board.Position) move.Move {
	return move.NewMove(g.player, g.absolute(from), g.absolute(to))
}

func (g *Generator) newCapture(from, to, jumped board.Position) move.Move {
	return move.NewCapture(g.player, g.absolute(from), g.absolute(to), g.absolute(jumped))
}

func (g *Generator) friendlyAt(pos board.Position) (board.Position, error) {
	if !pos.Valid() {
		return noPosition, fmt.Errorf("position %d: %w", pos, board.ErrOutOfRange)
	}
	rp := pos.Relative(g.player)
	if !g.rel[rp].IsFriend() {
		return noPosition, fmt.Errorf("square %v: %w", pos, ErrNotFriendly)
	}
	return rp, nil
}

// GetMovesFrom returns the non-capturing moves of the piece at pos.
func (g *Generator) GetMovesFrom(pos board.Position) ([]move.Move, error) {
	rp, err := g.friendlyAt(pos)
	if err != nil {
		return nil, err
	}
	return g.appendNormal(nil, rp), nil
}

// GetForcedMovesFrom returns the captures available to the piece at pos.
func (g *Generator) GetForcedMovesFrom(pos board.Position) ([]move.Move, error) {
	rp, err := g.friendlyAt(pos)
	if err != nil {
		return nil, err
	}
	return g.appendForced(nil, rp), nil
}

func (g *Generator) appendNormal(moves []move.Move, from board.Position) []move.Move {
	if g.rel[from] == board.FriendlyKing {
		for _, d := range diagonals {
			to, ok := neighbour(from, d)
			for ok && g.rel[to] == board.RelEmpty {
				moves = append(moves, g.newMove(from, to))
				to, ok = neighbour(to, d)
			}
		}
		return moves
	}
	for _, d := range forward {
		to, ok := neighbour(from, d)
		if ok && g.rel[to] == board.RelEmpty {
			moves = append(moves, g.newMove(from, to))
		}
	}
	return moves
}

func (g *Generator) appendForced(moves []move.Move, from board.Position) []move.Move {
	king := g.rel[from] == board.FriendlyKing
	for _, d := range diagonals {
		over, ok := neighbour(from, d)
		if king {
			// A king may approach its victim from any distance.
			for ok && g.rel[over] == board.RelEmpty {
				over, ok = neighbour(over, d)
			}
		}
		if !ok || !g.rel[over].IsEnemy() {
			continue
		}
		to, ok := neighbour(over, d)
		if ok && g.rel[to] == board.RelEmpty {
			moves = append(moves, g.newCapture(from, to, over))
		}
	}
	return moves
}

// GetForcedMoves returns every capture available to the side to move, or
// only those of the chain piece while a capture sequence is in progress.
func (g *Generator) GetForcedMoves() []move.Move {
	if g.hasForced {
		return g.forced
	}
	var moves []move.Move
	if g.chain.Valid() {
		rp := g.chain.Relative(g.player)
		if g.rel[rp].IsFriend() {
			moves = g.appendForced(moves, rp)
		}
	} else {
		for i := range g.rel {
			if g.rel[i].IsFriend() {
				moves = g.appendForced(moves, board.Position(i))
			}
		}
	}
	g.forced, g.hasForced = moves, true
	return moves
}

// GetNormalMoves returns every non-capturing move, regardless of whether a
// capture is available.
func (g *Generator) GetNormalMoves() []move.Move {
	if g.hasNormal {
		return g.normal
	}
	var moves []move.Move
	for i := range g.rel {
		if g.rel[i].IsFriend() {
			moves = g.appendNormal(moves, board.Position(i))
		}
	}
	g.normal, g.hasNormal = moves, true
	return moves
}

// GetMoves returns the legal moves: the captures if there are any, since
// capturing is mandatory, and the normal moves otherwise. During a capture
// sequence only the chain piece's captures are legal.
func (g *Generator) GetMoves() []move.Move {
	if forced := g.GetForcedMoves(); len(forced) > 0 || g.chain.Valid() {
		return forced
	}
	return g.GetNormalMoves()
}

// HasMoves is a cheaper way of asking len(GetMoves()) > 0.
func (g *Generator) HasMoves() bool {
	if len(g.GetForcedMoves()) > 0 {
		return true
	}
	if g.chain.Valid() {
		return false
	}
	if g.hasNormal {
		return len(g.normal) > 0
	}
	for i := range g.rel {
		if g.rel[i].IsFriend() && len(g.appendNormal(nil, board.Position(i))) > 0 {
			return true
		}
	}
	return false
}
