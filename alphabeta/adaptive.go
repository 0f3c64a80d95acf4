package alphabeta

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/checkers/game"
	"github.com/domino14/checkers/heuristic"
	"github.com/domino14/checkers/move"
)

// Level is one of the depths an AdaptiveSolver searches at.
type Level struct {
	Depth int
	// MinThink is the least time, counted from the start of the search,
	// before this level's answer may be played.
	MinThink time.Duration
	// Hold is how long a finished answer waits for a deeper level to beat it.
	Hold time.Duration
}

// DefaultLevels answers within about three seconds on a slow machine and
// plays the deepest answer whenever it is available in time.
var DefaultLevels = []Level{
	{Depth: 8, MinThink: 500 * time.Millisecond},
	{Depth: 6, Hold: 2500 * time.Millisecond},
	{Depth: 4, Hold: 3 * time.Second},
}

// AdaptiveSolver searches several depths at once and plays the first answer
// that becomes ready. Deeper levels are cancelled once an answer is chosen.
// It is meant for interactive play, where a reply must come in bounded time.
type AdaptiveSolver struct {
	state     GameState
	heuristic heuristic.Func
	levels    []Level

	committedDepth int
}

func NewAdaptiveSolver(g *game.Game, h heuristic.Func, levels ...Level) *AdaptiveSolver {
	if len(levels) == 0 {
		levels = DefaultLevels
	}
	return &AdaptiveSolver{state: StateOf(g), heuristic: h, levels: levels}
}

// CommittedDepth is the depth whose answer the last Solve returned, or 0 if
// no search was needed.
func (a *AdaptiveSolver) CommittedDepth() int {
	return a.committedDepth
}

func (a *AdaptiveSolver) Solve(ctx context.Context) (move.Move, error) {
	a.committedDepth = 0
	moves := a.state.Moves()
	switch len(moves) {
	case 0:
		return move.Move{}, ErrNoMoves
	case 1:
		return moves[0], nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	start := time.Now()

	var mu sync.Mutex
	var committed bool
	var best move.Move

	g, gctx := errgroup.WithContext(ctx)
	for _, lvl := range a.levels {
		lvl := lvl
		g.Go(func() error {
			s := NewStateSolver(a.state, a.heuristic, lvl.Depth)
			m, err := s.Solve(gctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					// Nothing from this depth.
					return nil
				}
				return err
			}
			wait := lvl.Hold
			if rem := lvl.MinThink - time.Since(start); rem > wait {
				wait = rem
			}
			if wait > 0 {
				timer := time.NewTimer(wait)
				defer timer.Stop()
				select {
				case <-gctx.Done():
					return nil
				case <-timer.C:
				}
			}
			mu.Lock()
			defer mu.Unlock()
			if committed {
				return nil
			}
			committed = true
			best = m
			a.committedDepth = lvl.Depth
			log.Debug().Int("depth", lvl.Depth).Dur("elapsed", time.Since(start)).
				Msg("adaptive-committed")
			cancel()
			return nil
		})
	}
	err := g.Wait()
	if committed {
		return best, nil
	}
	if err != nil {
		return move.Move{}, err
	}
	return move.Move{}, ctx.Err()
}
