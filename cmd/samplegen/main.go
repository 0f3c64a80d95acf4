// Command samplegen writes supervised training samples from random games,
// one line per position: 32 board values followed by the target score.
package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/checkers/automatic"
	"github.com/domino14/checkers/config"
)

const (
	gamesKey  = "games"
	outputKey = "output"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading-config")
	}
	cfg.SetDefault(gamesKey, 10000)
	cfg.SetDefault(outputKey, "samples.txt")
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	f, err := os.Create(cfg.GetString(outputKey))
	if err != nil {
		log.Fatal().Err(err).Msg("creating-output")
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	n, err := automatic.GenerateSamples(ctx, w, cfg.GetInt(gamesKey), cfg.GetInt(config.ConfigThreads))
	if err != nil {
		log.Error().Err(err).Int("samples", n).Msg("sample-generation-stopped")
		return
	}
	log.Info().Int("samples", n).Str("output", cfg.GetString(outputKey)).Msg("samples-written")
}
