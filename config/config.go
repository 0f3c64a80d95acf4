package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	ConfigDataPath               = "data-path"
	ConfigDebug                  = "debug"
	ConfigNatsURL                = "nats-url"
	ConfigBotChannel             = "bot-channel"
	ConfigBotNetwork             = "bot-network"
	ConfigSearchDepth            = "search-depth"
	ConfigMaxPlies               = "max-plies"
	ConfigPopulationSize         = "population-size"
	ConfigGamesPerIndividual     = "games-per-individual"
	ConfigReinforcementGames     = "reinforcement-games"
	ConfigWarmupGenerations      = "warmup-generations"
	ConfigMutationsPerGeneration = "mutations-per-generation"
	ConfigThreads                = "threads"
	ConfigMutationStrategy       = "mutation-strategy"
	ConfigFixedMutationRate      = "fixed-mutation-rate"
	ConfigReinforcementSampling  = "reinforcement-sampling"
	ConfigStoreKind              = "store-kind"
	ConfigNetworkLayers          = "network-layers"
)

// Config wraps a viper instance. Every setting can come from a config.yaml
// file, from the environment (CHECKERS_SEARCH_DEPTH etc), or from
// --key=value command-line arguments, in increasing order of priority.
type Config struct {
	viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDataPath, "./data")
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	v.SetDefault(ConfigBotChannel, "checkers.bot")
	v.SetDefault(ConfigBotNetwork, "")
	v.SetDefault(ConfigSearchDepth, 3)
	v.SetDefault(ConfigMaxPlies, 100)
	v.SetDefault(ConfigPopulationSize, 300)
	v.SetDefault(ConfigGamesPerIndividual, 8)
	v.SetDefault(ConfigReinforcementGames, 10)
	v.SetDefault(ConfigWarmupGenerations, 10)
	v.SetDefault(ConfigMutationsPerGeneration, 50)
	v.SetDefault(ConfigThreads, runtime.NumCPU())
	v.SetDefault(ConfigMutationStrategy, "self-adaptive")
	v.SetDefault(ConfigFixedMutationRate, 0.05)
	v.SetDefault(ConfigReinforcementSampling, "older-half")
	v.SetDefault(ConfigStoreKind, "fs")
	v.SetDefault(ConfigNetworkLayers, []int{32, 39, 15, 1})
}

// DefaultConfig returns a config with only the defaults and the environment
// applied. It is mostly useful for tests.
func DefaultConfig() *Config {
	c := &Config{}
	c.Viper = *viper.New()
	c.SetEnvPrefix("checkers")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	setDefaults(&c.Viper)
	return c
}

// Load loads the config from an optional config file, the environment and
// the passed-in args.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	c.SetConfigName("config")
	c.SetConfigType("yaml")
	c.AddConfigPath(".")
	if cfgdir, err := os.UserConfigDir(); err == nil {
		c.AddConfigPath(filepath.Join(cfgdir, "checkers"))
	}
	c.SetEnvPrefix("checkers")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	setDefaults(&c.Viper)

	err := c.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Debug().Msg("no config file found; using defaults and environment")
		} else {
			return err
		}
	}
	for _, arg := range args {
		if !strings.HasPrefix(arg, "--") {
			continue
		}
		key, val, found := strings.Cut(strings.TrimPrefix(arg, "--"), "=")
		if !found {
			// bare flags are booleans
			val = "true"
		}
		c.Set(key, val)
	}
	return nil
}

// AdjustRelativePaths makes the data path absolute relative to basepath, if
// it starts with "./".
func (c *Config) AdjustRelativePaths(basepath string) {
	dp := c.GetString(ConfigDataPath)
	if strings.HasPrefix(dp, "./") {
		dp = filepath.Join(basepath, dp)
		log.Info().Str("path", dp).Msg("new data path")
		c.Set(ConfigDataPath, dp)
	}
}

// NetworkLayers returns the neuron count of every evaluator layer.
func (c *Config) NetworkLayers() []int {
	// an env var like "32,39,15,1" arrives as a single string.
	if raw, ok := c.Get(ConfigNetworkLayers).(string); ok {
		var layers []int
		for _, p := range strings.Split(raw, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				log.Warn().Str("layers", raw).Msg("bad network-layers setting")
				return nil
			}
			layers = append(layers, n)
		}
		return layers
	}
	return c.GetIntSlice(ConfigNetworkLayers)
}
