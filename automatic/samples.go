package automatic

import (
	"bufio"
	"context"
	"io"
	"runtime"
	"strconv"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/game"
	"github.com/domino14/checkers/heuristic"
)

const (
	// sampleKingValue is the king encoding used in sample files.
	sampleKingValue = 2
	// samplePlyLimit stops random games where kings chase each other
	// forever.
	samplePlyLimit = 500
)

// shouldSample decides whether the position before move number moveNumber
// (counting from 1) is recorded. Early positions are rare and nearly all
// alike, so they are sampled sparingly; from move 51 on every position is.
func shouldSample(moveNumber int) bool {
	k := 100 / moveNumber
	return k <= 1 || frand.Intn(k) == 0
}

// SampleLine formats a board as 32 inputs followed by the target value.
func SampleLine(b *board.Board) string {
	values := make([]float64, board.PlayableSquares)
	heuristic.Encode(b, sampleKingValue, values)
	buf := make([]byte, 0, 128)
	for _, v := range values {
		buf = strconv.AppendFloat(buf, v, 'g', -1, 64)
		buf = append(buf, ' ')
	}
	buf = strconv.AppendFloat(buf, heuristic.Squashed(b), 'g', -1, 64)
	buf = append(buf, '\n')
	return string(buf)
}

// sampleSet drops boards that were already written.
type sampleSet struct {
	mu   sync.Mutex
	seen map[uint64]struct{}
}

func boardKey(b *board.Board) uint64 {
	var bts [board.PlayableSquares]byte
	for i, p := range b {
		bts[i] = byte(p)
	}
	return xxhash.Sum64(bts[:])
}

func (s *sampleSet) add(b *board.Board) bool {
	k := boardKey(b)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[k]; ok {
		return false
	}
	s.seen[k] = struct{}{}
	return true
}

// GenerateSamples plays random games and writes positions from them, with a
// hand-written evaluation, for fitting an initial evaluator. It returns the
// number of lines written.
func GenerateSamples(ctx context.Context, w io.Writer, games, threads int) (int, error) {
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	logger := zerolog.Ctx(ctx)
	set := &sampleSet{seen: map[uint64]struct{}{}}
	lines := make(chan string, 100)
	bw := bufio.NewWriter(w)

	var written int
	var writeErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		for l := range lines {
			if writeErr != nil {
				continue
			}
			if _, writeErr = bw.WriteString(l); writeErr == nil {
				written++
			}
		}
		if writeErr == nil {
			writeErr = bw.Flush()
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i := 0; i < games; i++ {
		i := i
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			gm := game.NewGame()
			for moveNumber := 1; gm.Playing() == game.Ongoing && moveNumber <= samplePlyLimit; moveNumber++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				b := gm.Board()
				if shouldSample(moveNumber) && set.add(&b) {
					lines <- SampleLine(&b)
				}
				moves := gm.GetMoves()
				gm.MakeMove(moves[frand.Intn(len(moves))])
			}
			CVCCounter.Add(1)
			if i%100 == 0 {
				logger.Debug().Int("game", i).Msg("sample-game-finished")
			}
			return nil
		})
	}
	err := g.Wait()
	close(lines)
	<-done
	if err != nil {
		return written, err
	}
	return written, writeErr
}
