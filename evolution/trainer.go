// Package evolution trains a population of neural evaluators by self-play.
// Every generation each individual plays a few games as White against
// random peers, and later also against individuals saved from earlier
// generations. The better-scoring half survives, the rest is bred from it,
// and a few random individuals are mutated.
package evolution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"
	"lukechampine.com/frand"

	"github.com/domino14/checkers/automatic"
	"github.com/domino14/checkers/cache"
	"github.com/domino14/checkers/game"
	"github.com/domino14/checkers/neural"
	"github.com/domino14/checkers/stats"
	"github.com/domino14/checkers/store"
)

// ErrGameFailed marks a training game that did not finish. Such games are
// scored as draws.
var ErrGameFailed = errors.New("training game failed")

// notInPopulation is the score index of an opponent from an earlier
// generation.
const notInPopulation = -1

// PlayFunc plays one game between two networks and returns its result.
type PlayFunc func(ctx context.Context, white, black *neural.Network) (game.PlayState, error)

type Trainer struct {
	cfg        Config
	store      store.Store
	population []*neural.Network
	logStream  io.Writer
	play       PlayFunc
}

// matchup is one scheduled game. The current individual always has White.
type matchup struct {
	white    int
	black    int
	opponent *neural.Network
}

func NewTrainer(cfg Config, st store.Store) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Trainer{cfg: cfg, store: st}
	t.play = t.searchGame
	return t, nil
}

// SetLogStream sets a writer that receives a YAML report and a score
// histogram after every generation.
func (t *Trainer) SetLogStream(w io.Writer) {
	t.logStream = w
}

func (t *Trainer) searchGame(ctx context.Context, white, black *neural.Network) (game.PlayState, error) {
	return automatic.PlayGame(ctx,
		automatic.NewNetworkPlayer("white", white, t.cfg.SearchDepth),
		automatic.NewNetworkPlayer("black", black, t.cfg.SearchDepth),
		t.cfg.MaxPlies)
}

// LoadOrCreate loads the current population from the store. Individuals
// that were never saved are created with random weights.
func (t *Trainer) LoadOrCreate(ctx context.Context) error {
	t.population = make([]*neural.Network, t.cfg.PopulationSize)
	created := 0
	for i := range t.population {
		n, err := t.store.LoadCurrent(ctx, i)
		if errors.Is(err, store.ErrNotFound) {
			n, err = neural.New(t.cfg.Layers)
			created++
		}
		if err != nil {
			return fmt.Errorf("individual %d: %w", i, err)
		}
		if i > 0 && n.NumWeights() != t.population[0].NumWeights() {
			return fmt.Errorf("individual %d has layers %v, expected %v",
				i, n.Layers(), t.population[0].Layers())
		}
		t.population[i] = n
	}
	log.Info().Int("size", len(t.population)).Int("created", created).Msg("population-loaded")
	return nil
}

func (t *Trainer) Population() []*neural.Network {
	return t.population
}

// Run trains from the store's next generation on. It stops after the given
// number of generations, or when ctx is done if generations is not positive.
func (t *Trainer) Run(ctx context.Context, generations int) error {
	if t.population == nil {
		if err := t.LoadOrCreate(ctx); err != nil {
			return err
		}
	}
	first, err := t.store.NextGeneration(ctx)
	if err != nil {
		return err
	}
	for gen := first; generations <= 0 || gen < first+generations; gen++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		report, err := t.RunGeneration(ctx, gen)
		if err != nil {
			return fmt.Errorf("generation %d: %w", gen, err)
		}
		log.Info().Int("generation", gen).Int("best", report.BestScore).
			Str("exhibition", report.Exhibition).Dur("elapsed", report.Elapsed).
			Msg("generation-finished")
	}
	return nil
}

// RunGeneration evaluates, selects and breeds the population once, then
// saves the result as generation gen.
func (t *Trainer) RunGeneration(ctx context.Context, gen int) (*GenerationReport, error) {
	if len(t.population) != t.cfg.PopulationSize {
		return nil, errors.New("population not loaded")
	}
	start := time.Now()
	// Historical opponents are reused within a generation only.
	opponents := cache.New[*neural.Network]()

	tasks, err := t.schedule(ctx, gen, opponents)
	if err != nil {
		return nil, err
	}
	scores, failed, err := t.evaluate(ctx, tasks)
	if err != nil {
		return nil, err
	}
	next, err := t.reproduce(scores)
	if err != nil {
		return nil, err
	}
	if err := t.save(ctx, gen, next); err != nil {
		return nil, err
	}
	t.population = next

	report := newReport(gen, scores, next)
	report.Games = len(tasks)
	report.FailedGames = failed
	report.ReinforcementGames = lo.CountBy(tasks, func(m matchup) bool {
		return m.black == notInPopulation
	})
	report.Exhibition = t.Exhibition(ctx, gen, opponents)
	report.Elapsed = time.Since(start)
	if t.logStream != nil {
		if err := report.Write(t.logStream); err != nil {
			log.Err(err).Msg("writing-generation-report")
		}
	}
	return report, nil
}

func historyKey(gen, idx int) string {
	return fmt.Sprintf("gen-%d/%d", gen, idx)
}

func (t *Trainer) loadHistorical(ctx context.Context, c *cache.Cache[*neural.Network],
	gen, idx int) (*neural.Network, error) {

	return c.Get(historyKey(gen, idx), func(string) (*neural.Network, error) {
		return t.store.LoadIndividual(ctx, gen, idx)
	})
}

// schedule lists the games of a generation.
func (t *Trainer) schedule(ctx context.Context, gen int,
	opponents *cache.Cache[*neural.Network]) ([]matchup, error) {

	n := len(t.population)
	reinforce := gen > t.cfg.WarmupGenerations && gen > 0
	tasks := make([]matchup, 0, n*(t.cfg.GamesPerIndividual+t.cfg.ReinforcementGames))
	for i := 0; i < n; i++ {
		for j := 0; j < t.cfg.GamesPerIndividual; j++ {
			peer := frand.Intn(n - 1)
			if peer >= i {
				peer++
			}
			tasks = append(tasks, matchup{white: i, black: peer, opponent: t.population[peer]})
		}
		if !reinforce {
			continue
		}
		for j := 0; j < t.cfg.ReinforcementGames; j++ {
			pg := t.cfg.Sampling.pick(gen)
			opp, err := t.loadHistorical(ctx, opponents, pg, frand.Intn(n))
			if errors.Is(err, store.ErrNotFound) {
				log.Warn().Int("generation", pg).Msg("missing-historical-opponent")
				continue
			}
			if err != nil {
				return nil, err
			}
			tasks = append(tasks, matchup{white: i, black: notInPopulation, opponent: opp})
		}
	}
	return tasks, nil
}

func (t *Trainer) playSafely(ctx context.Context, white, black *neural.Network) (result game.PlayState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrGameFailed, r)
		}
	}()
	result, err = t.play(ctx, white, black)
	if err != nil {
		return game.Draw, fmt.Errorf("%w: %w", ErrGameFailed, err)
	}
	return result, nil
}

// evaluate plays every scheduled game on a bounded pool of workers and
// returns the score of each individual along with the number of failed
// games.
func (t *Trainer) evaluate(ctx context.Context, tasks []matchup) ([]int, int, error) {
	logger := zerolog.Ctx(ctx)
	scores := make([]int, len(t.population))
	var mu sync.Mutex
	done, failed := 0, 0
	tick := max(1, len(tasks)/10)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.cfg.Threads)
	for _, task := range tasks {
		task := task
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			result, err := t.playSafely(gctx, t.population[task.white], task.opponent)
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn().Err(err).Int("individual", task.white).Msg("game-failed")
				failed++
			} else {
				ScoreGame(scores, task.white, task.black, result)
			}
			done++
			if done%tick == 0 {
				logger.Debug().Int("done", done).Int("total", len(tasks)).Msg("evaluation-progress")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return scores, failed, nil
}

// ScoreGame applies a game's result to the scores. A winner gains 1 and a
// loser loses 2; a draw changes nothing. An index of -1 is an opponent
// outside the population and is not scored.
func ScoreGame(scores []int, white, black int, result game.PlayState) {
	var winner, loser int
	switch result {
	case game.WhiteWins:
		winner, loser = white, black
	case game.BlackWins:
		winner, loser = black, white
	default:
		return
	}
	if winner != notInPopulation {
		scores[winner]++
	}
	if loser != notInPopulation {
		scores[loser] -= 2
	}
}

// reproduce keeps the better half of the population, ordered by score, and
// fills the other half with children of the kept individuals. Parents are
// chosen with probability proportional to how far their score is above the
// lowest kept score. Finally some individuals are mutated.
func (t *Trainer) reproduce(scores []int) ([]*neural.Network, error) {
	n := len(t.population)
	order := lo.Range(n)
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	keep := (n + 1) / 2
	kept := order[:keep]
	next := make([]*neural.Network, 0, n)
	for _, i := range kept {
		next = append(next, t.population[i])
	}

	floor := scores[kept[keep-1]]
	weights := lo.Map(kept, func(i int, _ int) float64 {
		return float64(scores[i] - floor)
	})
	pick := func() int { return frand.Intn(keep) }
	if lo.Sum(weights) > 0 {
		parents := distuv.NewCategorical(weights, nil)
		pick = func() int { return int(parents.Rand()) }
	}
	for len(next) < n {
		child, err := neural.Crossover(next[pick()], next[pick()])
		if err != nil {
			return nil, err
		}
		next = append(next, child)
	}

	for i := 0; i < t.cfg.MutationsPerGeneration; i++ {
		idx := frand.Intn(n)
		next[idx] = next[idx].Mutate(t.cfg.Mutation)
	}
	return next, nil
}

func (t *Trainer) save(ctx context.Context, gen int, population []*neural.Network) error {
	if err := t.store.SaveGeneration(ctx, gen, population); err != nil {
		return err
	}
	for i, n := range population {
		if err := t.store.SaveCurrent(ctx, i, n); err != nil {
			return err
		}
	}
	return t.store.SetNextGeneration(ctx, gen+1)
}

// Exhibition plays the first individual as White against individual 0 of
// about ten earlier generations and returns the results as a string of W, L
// and D, oldest generation first.
func (t *Trainer) Exhibition(ctx context.Context, gen int, opponents *cache.Cache[*neural.Network]) string {
	if opponents == nil {
		opponents = cache.New[*neural.Network]()
	}
	best := t.population[0]
	tally := &stats.Tally{}
	for pg := 0; pg < gen; pg += max(1, gen/10) {
		opp, err := t.loadHistorical(ctx, opponents, pg, 0)
		if err != nil {
			log.Warn().Err(err).Int("generation", pg).Msg("exhibition-opponent")
			continue
		}
		result, err := t.playSafely(ctx, best, opp)
		if err != nil {
			log.Warn().Err(err).Int("generation", pg).Msg("exhibition-game")
			continue
		}
		tally.Add(automatic.Outcome(result, true))
	}
	return tally.Record()
}
