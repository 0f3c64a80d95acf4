// Command trainer evolves the evaluator population. It resumes from the
// store's last finished generation and runs until interrupted, or for
// --generations=N generations.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/checkers/config"
	"github.com/domino14/checkers/evolution"
	"github.com/domino14/checkers/store"
)

const (
	generationsKey = "generations"
	logFileKey     = "log-file"
	cpuProfileKey  = "cpu-profile"
)

func main() {
	os.Exit(realMain())
}

// realMain returns the exit code, so that deferred calls run first.
func realMain() int {
	// Determine the directory of the executable. Relative data paths are
	// resolved against it.
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	exPath := filepath.Dir(ex)

	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading-config")
	}
	cfg.AdjustRelativePaths(exPath)

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	level := zerolog.InfoLevel
	if cfg.GetBool(config.ConfigDebug) {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(output).Level(level).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger

	if cfg.GetString(cpuProfileKey) != "" {
		f, err := os.Create(cfg.GetString(cpuProfileKey))
		if err != nil {
			panic("could not create CPU profile: " + err.Error())
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic("could not start CPU profile: " + err.Error())
		}
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Info().Msg("got quit signal; training stopped")
			return 0
		}
		log.Error().Err(err).Msg("training-failed")
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config) error {
	ecfg, err := evolution.ConfigFrom(cfg)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	tr, err := evolution.NewTrainer(ecfg, st)
	if err != nil {
		return err
	}
	if path := cfg.GetString(logFileKey); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		tr.SetLogStream(f)
	}
	log.Info().Int("population", ecfg.PopulationSize).Ints("layers", ecfg.Layers).
		Str("sampling", ecfg.Sampling.String()).Str("mutation", ecfg.Mutation.Strategy.String()).
		Msg("starting-training")
	return tr.Run(ctx, cfg.GetInt(generationsKey))
}
