package automatic

import (
	"context"

	"lukechampine.com/frand"

	"github.com/domino14/checkers/alphabeta"
	"github.com/domino14/checkers/game"
	"github.com/domino14/checkers/heuristic"
	"github.com/domino14/checkers/move"
	"github.com/domino14/checkers/neural"
)

// Player chooses a move for the side on turn. Players must be safe to use
// from several games at once.
type Player interface {
	Name() string
	ChooseMove(ctx context.Context, g *game.Game) (move.Move, error)
}

// SearchPlayer runs a fixed-depth alpha-beta search with its heuristic.
type SearchPlayer struct {
	name      string
	heuristic heuristic.Func
	depth     int
}

func NewSearchPlayer(name string, h heuristic.Func, depth int) *SearchPlayer {
	return &SearchPlayer{name: name, heuristic: h, depth: depth}
}

// NewNetworkPlayer searches with a network as the evaluator.
func NewNetworkPlayer(name string, n *neural.Network, depth int) *SearchPlayer {
	return NewSearchPlayer(name, n.Heuristic(), depth)
}

func (p *SearchPlayer) Name() string {
	return p.name
}

func (p *SearchPlayer) ChooseMove(ctx context.Context, g *game.Game) (move.Move, error) {
	return alphabeta.NewSolver(g, p.heuristic, p.depth).Solve(ctx)
}

// RandomPlayer plays a uniformly random legal move.
type RandomPlayer struct{}

func (RandomPlayer) Name() string {
	return "random"
}

func (RandomPlayer) ChooseMove(ctx context.Context, g *game.Game) (move.Move, error) {
	moves := g.GetMoves()
	if len(moves) == 0 {
		return move.Move{}, alphabeta.ErrNoMoves
	}
	return moves[frand.Intn(len(moves))], nil
}
