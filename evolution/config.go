package evolution

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
	"lukechampine.com/frand"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/config"
	"github.com/domino14/checkers/neural"
)

// ReinforcementSampling picks the earlier generation that a reinforcement
// opponent is drawn from.
type ReinforcementSampling int

const (
	// OlderHalf draws uniformly from generations [0, gen/2).
	OlderHalf ReinforcementSampling = iota
	// Uniform draws uniformly from every earlier generation.
	Uniform
	// RecencyWeighted draws generation g with weight g+1.
	RecencyWeighted
)

func (r ReinforcementSampling) String() string {
	switch r {
	case Uniform:
		return "uniform"
	case RecencyWeighted:
		return "recency-weighted"
	}
	return "older-half"
}

func ParseReinforcementSampling(s string) (ReinforcementSampling, error) {
	switch s {
	case "older-half", "":
		return OlderHalf, nil
	case "uniform":
		return Uniform, nil
	case "recency-weighted":
		return RecencyWeighted, nil
	}
	return OlderHalf, fmt.Errorf("reinforcement sampling %q: %w", s, board.ErrInvalidArgument)
}

// pick returns an earlier generation for a game played during generation
// gen. gen must be positive.
func (r ReinforcementSampling) pick(gen int) int {
	switch r {
	case Uniform:
		return frand.Intn(gen)
	case RecencyWeighted:
		weights := make([]float64, gen)
		for i := range weights {
			weights[i] = float64(i + 1)
		}
		return int(distuv.NewCategorical(weights, nil).Rand())
	}
	return frand.Intn(max(1, gen/2))
}

// Config holds everything the trainer needs besides its store.
type Config struct {
	PopulationSize     int
	GamesPerIndividual int
	// ReinforcementGames are played against earlier generations once the
	// generation number exceeds WarmupGenerations.
	ReinforcementGames     int
	WarmupGenerations      int
	MutationsPerGeneration int
	SearchDepth            int
	MaxPlies               int
	Threads                int
	Layers                 []int
	Mutation               neural.Mutation
	Sampling               ReinforcementSampling
}

func DefaultConfig() Config {
	return Config{
		PopulationSize:         300,
		GamesPerIndividual:     8,
		ReinforcementGames:     10,
		WarmupGenerations:      10,
		MutationsPerGeneration: 50,
		SearchDepth:            3,
		MaxPlies:               100,
		Threads:                4,
		Layers:                 neural.DefaultLayers,
		Mutation:               neural.Mutation{Strategy: neural.SelfAdaptive, Rate: neural.InitialSigma},
		Sampling:               OlderHalf,
	}
}

// ConfigFrom reads the trainer settings out of the global config.
func ConfigFrom(cfg *config.Config) (Config, error) {
	strategy, err := neural.ParseMutationStrategy(cfg.GetString(config.ConfigMutationStrategy))
	if err != nil {
		return Config{}, err
	}
	sampling, err := ParseReinforcementSampling(cfg.GetString(config.ConfigReinforcementSampling))
	if err != nil {
		return Config{}, err
	}
	c := Config{
		PopulationSize:         cfg.GetInt(config.ConfigPopulationSize),
		GamesPerIndividual:     cfg.GetInt(config.ConfigGamesPerIndividual),
		ReinforcementGames:     cfg.GetInt(config.ConfigReinforcementGames),
		WarmupGenerations:      cfg.GetInt(config.ConfigWarmupGenerations),
		MutationsPerGeneration: cfg.GetInt(config.ConfigMutationsPerGeneration),
		SearchDepth:            cfg.GetInt(config.ConfigSearchDepth),
		MaxPlies:               cfg.GetInt(config.ConfigMaxPlies),
		Threads:                cfg.GetInt(config.ConfigThreads),
		Layers:                 cfg.NetworkLayers(),
		Mutation: neural.Mutation{
			Strategy: strategy,
			Rate:     cfg.GetFloat64(config.ConfigFixedMutationRate),
		},
		Sampling: sampling,
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.PopulationSize < 2:
		return fmt.Errorf("population size %d is below 2: %w", c.PopulationSize, board.ErrInvalidArgument)
	case c.GamesPerIndividual < 0 || c.ReinforcementGames < 0 || c.MutationsPerGeneration < 0:
		return fmt.Errorf("game and mutation counts must not be negative: %w", board.ErrInvalidArgument)
	case c.SearchDepth < 1:
		return fmt.Errorf("search depth %d: %w", c.SearchDepth, board.ErrInvalidArgument)
	case c.Threads < 1:
		return fmt.Errorf("threads %d: %w", c.Threads, board.ErrInvalidArgument)
	case c.Mutation.Strategy == neural.Fixed && c.Mutation.Rate <= 0:
		return fmt.Errorf("fixed mutation rate %v: %w", c.Mutation.Rate, board.ErrInvalidArgument)
	}
	if _, err := neural.New(c.Layers); err != nil {
		return err
	}
	return nil
}
