package automatic

// Data collection for automatic games. Allow computer vs computer matches.

import (
	"context"
	"errors"
	"expvar"
	"fmt"
	"io"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/domino14/checkers/game"
	"github.com/domino14/checkers/stats"
)

var (
	CVCCounter *expvar.Int
	IsPlaying  *expvar.Int
)

// ErrAlreadyPlaying is returned when a match is started while another one is
// still running.
var ErrAlreadyPlaying = errors.New("games are already being played, please wait till complete")

// playing guards PlayMatch; IsPlaying only publishes it.
var playing atomic.Bool

func init() {
	CVCCounter = expvar.NewInt("cvcCounter")
	IsPlaying = expvar.NewInt("isPlaying")
}

const (
	MoveLogHeader = "gameID,player,color,turn,move,promoted,result\n"
	GameLogHeader = "gameID,white,black,result,plies\n"
)

// MatchConfig describes a match between two teams of players. Game i pairs
// A[i%len(A)] with B[i%len(B)]; A has White in even-numbered games and Black
// in odd-numbered ones.
type MatchConfig struct {
	A, B     []Player
	Games    int
	Threads  int
	MaxPlies int
	// MoveLog and GameLog, if set, receive CSV logs of every move and every
	// finished game.
	MoveLog io.Writer
	GameLog io.Writer
}

// Outcome converts a game result to A's point of view.
func Outcome(result game.PlayState, aIsWhite bool) stats.Outcome {
	switch {
	case result == game.WhiteWins && aIsWhite, result == game.BlackWins && !aIsWhite:
		return stats.Win
	case result == game.WhiteWins, result == game.BlackWins:
		return stats.Loss
	}
	return stats.Draw
}

// drain copies lines from a channel to w until the channel closes.
func drain(w io.Writer, header string, lines <-chan string, done *sync.WaitGroup) {
	defer done.Done()
	if w == nil {
		for range lines {
		}
		return
	}
	io.WriteString(w, header)
	for l := range lines {
		io.WriteString(w, l)
	}
}

// PlayMatch plays the match and returns the results from A's point of view,
// in game order.
func PlayMatch(ctx context.Context, mc MatchConfig) (*stats.Tally, error) {
	if len(mc.A) == 0 || len(mc.B) == 0 {
		return nil, errors.New("both sides need at least one player")
	}
	if !playing.CompareAndSwap(false, true) {
		return nil, ErrAlreadyPlaying
	}
	defer playing.Store(false)
	threads := mc.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	log.Debug().Msgf("Starting %v games, %v threads", mc.Games, threads)
	IsPlaying.Add(1)
	defer IsPlaying.Add(-1)
	CVCCounter.Set(0)

	var writers sync.WaitGroup
	var moveChan chan string
	if mc.MoveLog != nil {
		moveChan = make(chan string, 100)
		writers.Add(1)
		go drain(mc.MoveLog, MoveLogHeader, moveChan, &writers)
	}
	gameChan := make(chan string, 100)
	writers.Add(1)
	go drain(mc.GameLog, GameLogHeader, gameChan, &writers)

	outcomes := make([]stats.Outcome, mc.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i := 0; i < mc.Games; i++ {
		i := i
		if gctx.Err() != nil {
			log.Info().Msg("Got stop signal, exiting soon...")
			break
		}
		g.Go(func() error {
			a, b := mc.A[i%len(mc.A)], mc.B[i%len(mc.B)]
			aIsWhite := i%2 == 0
			white, black := a, b
			if !aIsWhite {
				white, black = b, a
			}
			r := NewGameRunner(moveChan, white, black, mc.MaxPlies)
			result, err := r.PlayFull(gctx)
			if err != nil {
				return err
			}
			outcomes[i] = Outcome(result, aIsWhite)
			gameChan <- fmt.Sprintf("%v,%v,%v,%v,%v\n",
				r.Game().Uid(), white.Name(), black.Name(), result, r.Game().Turn())
			CVCCounter.Add(1)
			return nil
		})
	}
	err := g.Wait()
	if moveChan != nil {
		close(moveChan)
	}
	close(gameChan)
	writers.Wait()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tally := &stats.Tally{}
	for _, o := range outcomes {
		tally.Add(o)
	}
	log.Info().Int("games", tally.Games()).Str("record", tally.Record()).Msg("match-finished")
	return tally, nil
}
