// Package alphabeta is a fixed-depth minimax search with alpha-beta pruning.
// White maximizes the heuristic and Black minimizes it.
package alphabeta

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/common"
	"github.com/domino14/checkers/game"
	"github.com/domino14/checkers/heuristic"
	"github.com/domino14/checkers/move"
)

/*
function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth == 0 or node is terminal then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            α := max(α, value)
            if value ≥ β then
                break (* β cutoff *)
        return value
    else
        (mirror image)
*/

// ErrNoMoves is returned when asked to search a position in which the side
// to move cannot move. Check the game state first.
var ErrNoMoves = fmt.Errorf("no moves to search: %w", board.ErrInvalidOperation)

// cancelCheckInterval is how many nodes pass between context checks.
const cancelCheckInterval = 1024

type Solver struct {
	state     GameState
	heuristic heuristic.Func
	depth     int

	principalVariation common.PVLine
	nodes              atomic.Uint64
}

// NewSolver creates a solver for the position of g. The game is copied; the
// search never modifies it. A depth below 1 is raised to 1.
func NewSolver(g *game.Game, h heuristic.Func, depth int) *Solver {
	return NewStateSolver(StateOf(g), h, depth)
}

func NewStateSolver(state GameState, h heuristic.Func, depth int) *Solver {
	if depth < 1 {
		depth = 1
	}
	return &Solver{state: state, heuristic: h, depth: depth}
}

func (s *Solver) Depth() int {
	return s.depth
}

// Nodes returns how many positions the last search visited.
func (s *Solver) Nodes() uint64 {
	return s.nodes.Load()
}

// PrincipalVariation returns the best line found by the last search.
func (s *Solver) PrincipalVariation() common.PVLine {
	return s.principalVariation
}

// Solve returns the best move for the side to move. A lone legal move is
// returned without searching.
func (s *Solver) Solve(ctx context.Context) (move.Move, error) {
	if err := ctx.Err(); err != nil {
		return move.Move{}, err
	}
	s.nodes.Store(0)
	s.principalVariation.Clear()

	moves := s.state.Moves()
	switch len(moves) {
	case 0:
		return move.Move{}, ErrNoMoves
	case 1:
		s.principalVariation.Update(moves[0], common.PVLine{}, s.heuristic(&s.state.Board))
		return moves[0], nil
	}

	ts := time.Now()
	var pv common.PVLine
	val, err := s.alphabeta(ctx, s.state, moves, s.depth, math.Inf(-1), math.Inf(1), &pv)
	if err != nil {
		return move.Move{}, err
	}
	s.principalVariation = pv
	log.Debug().
		Int("depth", s.depth).
		Uint64("nodes", s.nodes.Load()).
		Float64("value", val).
		Str("pv", pv.String()).
		Dur("elapsed", time.Since(ts)).
		Msg("alphabeta-solved")
	return pv.BestMove(), nil
}

// alphabeta searches state, whose legal moves are passed in to save
// generating them twice. A capture does not use up depth, so a multi-jump
// is searched as one action.
func (s *Solver) alphabeta(ctx context.Context, state GameState, moves []move.Move,
	depth int, α, β float64, pv *common.PVLine) (float64, error) {

	if s.nodes.Add(1)%cancelCheckInterval == 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
	if depth == 0 || len(moves) == 0 {
		return s.heuristic(&state.Board), nil
	}

	maximizing := state.Player == board.White
	var best float64
	var childPV common.PVLine
	for i, m := range moves {
		child := state.Play(m)
		childDepth := depth
		if !m.IsCapture() {
			childDepth--
		}
		var childMoves []move.Move
		if childDepth > 0 {
			childMoves = child.Moves()
		}
		childPV.Clear()
		v, err := s.alphabeta(ctx, child, childMoves, childDepth, α, β, &childPV)
		if err != nil {
			return 0, err
		}
		if maximizing {
			if i == 0 || v > best {
				best = v
				pv.Update(m, childPV, v)
			}
			α = max(α, best)
		} else {
			if i == 0 || v < best {
				best = v
				pv.Update(m, childPV, v)
			}
			β = min(β, best)
		}
		if β <= α {
			break
		}
	}
	return best, nil
}
