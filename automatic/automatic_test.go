package automatic

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/game"
	"github.com/domino14/checkers/heuristic"
	"github.com/domino14/checkers/move"
	"github.com/domino14/checkers/stats"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

func TestRandomGameEnds(t *testing.T) {
	is := is.New(t)
	r := NewGameRunner(nil, RandomPlayer{}, RandomPlayer{}, 60)
	result, err := r.PlayFull(context.Background())
	is.NoErr(err)
	is.True(r.Game().Turn() <= 60)
	is.True(result != game.Ongoing)
	is.True(r.Game().Uid() != "")
}

func TestGameRunnerLogsMoves(t *testing.T) {
	is := is.New(t)
	logchan := make(chan string, 1000)
	white := NewSearchPlayer("material", heuristic.Material(2), 2)
	r := NewGameRunner(logchan, white, RandomPlayer{}, 20)
	_, err := r.PlayFull(context.Background())
	is.NoErr(err)
	close(logchan)
	lines := 0
	for l := range logchan {
		is.True(strings.HasPrefix(l, r.Game().Uid()))
		is.Equal(strings.Count(l, ","), 6)
		lines++
	}
	is.Equal(lines, r.Game().Turn())
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, stats.Win, Outcome(game.WhiteWins, true))
	assert.Equal(t, stats.Loss, Outcome(game.WhiteWins, false))
	assert.Equal(t, stats.Win, Outcome(game.BlackWins, false))
	assert.Equal(t, stats.Loss, Outcome(game.BlackWins, true))
	assert.Equal(t, stats.Draw, Outcome(game.Draw, true))
}

func TestPlayMatch(t *testing.T) {
	is := is.New(t)
	var gameLog, moveLog bytes.Buffer
	tally, err := PlayMatch(context.Background(), MatchConfig{
		A:        []Player{NewSearchPlayer("material", heuristic.Material(2), 2)},
		B:        []Player{RandomPlayer{}},
		Games:    4,
		Threads:  2,
		MaxPlies: 40,
		GameLog:  &gameLog,
		MoveLog:  &moveLog,
	})
	is.NoErr(err)
	is.Equal(tally.Games(), 4)
	is.Equal(len(tally.Record()), 4)
	is.Equal(IsPlaying.Value(), int64(0))
	is.Equal(CVCCounter.Value(), int64(4))
	is.True(strings.HasPrefix(moveLog.String(), MoveLogHeader))

	summary, err := AnalyzeGameLog(&gameLog)
	is.NoErr(err)
	is.True(strings.Contains(summary, "Games played: 4\n"))
	is.True(strings.Contains(summary, "material: "))
	is.True(strings.Contains(summary, "random: "))
}

func TestSampleLine(t *testing.T) {
	is := is.New(t)
	b := board.Initial()
	fields := strings.Fields(SampleLine(&b))
	is.Equal(len(fields), 33)
	is.Equal(fields[0], "-1")
	is.Equal(fields[31], "1")
	is.Equal(fields[15], "0")
	target, err := strconv.ParseFloat(fields[32], 64)
	is.NoErr(err)
	assert.InDelta(t, 0, target, 1e-9)

	var k board.Board
	k[0] = board.WhiteKing
	fields = strings.Fields(SampleLine(&k))
	is.Equal(fields[0], "2")
}

func TestShouldSample(t *testing.T) {
	is := is.New(t)
	for _, n := range []int{51, 99, 100, 250} {
		is.True(shouldSample(n))
	}
}

func TestGenerateSamples(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	n, err := GenerateSamples(context.Background(), &buf, 6, 3)
	is.NoErr(err)
	is.True(n > 0)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	is.Equal(len(lines), n)
	seen := map[string]bool{}
	for _, l := range lines {
		is.Equal(len(strings.Fields(l)), 33)
		is.True(!seen[l])
		seen[l] = true
	}
}

// gatePlayer holds its first move until released.
type gatePlayer struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *gatePlayer) Name() string {
	return "gate"
}

func (p *gatePlayer) ChooseMove(ctx context.Context, g *game.Game) (move.Move, error) {
	p.once.Do(func() { close(p.started) })
	select {
	case <-p.release:
	case <-ctx.Done():
		return move.Move{}, ctx.Err()
	}
	return RandomPlayer{}.ChooseMove(ctx, g)
}

func TestOneMatchAtATime(t *testing.T) {
	is := is.New(t)
	gate := &gatePlayer{started: make(chan struct{}), release: make(chan struct{})}
	first := make(chan error, 1)
	go func() {
		_, err := PlayMatch(context.Background(), MatchConfig{
			A: []Player{gate}, B: []Player{RandomPlayer{}},
			Games: 1, Threads: 1, MaxPlies: 4,
		})
		first <- err
	}()
	<-gate.started

	var wg sync.WaitGroup
	var rejected atomic.Int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := PlayMatch(context.Background(), MatchConfig{
				A: []Player{RandomPlayer{}}, B: []Player{RandomPlayer{}},
				Games: 1, Threads: 1, MaxPlies: 4,
			})
			if errors.Is(err, ErrAlreadyPlaying) {
				rejected.Add(1)
			}
		}()
	}
	wg.Wait()
	is.Equal(rejected.Load(), int32(8))

	close(gate.release)
	is.NoErr(<-first)
	is.Equal(IsPlaying.Value(), int64(0))

	_, err := PlayMatch(context.Background(), MatchConfig{
		A: []Player{RandomPlayer{}}, B: []Player{RandomPlayer{}},
		Games: 1, Threads: 1, MaxPlies: 4,
	})
	is.NoErr(err)
}
