// Command arena plays networks of one saved generation against another and
// reports the result with a confidence interval.
//
//	arena --gen-a=40 --gen-b=20 --games=200 --individuals=10
//	arena --gen-a=40 --gen-b=-1        # against the advancement heuristic
//	arena --analyze=games.csv          # summarize an earlier game log
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domino14/checkers/automatic"
	"github.com/domino14/checkers/config"
	"github.com/domino14/checkers/heuristic"
	"github.com/domino14/checkers/store"
)

const (
	genAKey        = "gen-a"
	genBKey        = "gen-b"
	gamesKey       = "games"
	individualsKey = "individuals"
	gameLogKey     = "game-log"
	moveLogKey     = "move-log"
	analyzeKey     = "analyze"
)

func main() {
	ex, err := os.Executable()
	if err != nil {
		panic(err)
	}
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("loading-config")
	}
	cfg.AdjustRelativePaths(filepath.Dir(ex))
	cfg.SetDefault(genBKey, -1)
	cfg.SetDefault(gamesKey, 100)
	cfg.SetDefault(individualsKey, 10)

	if cfg.GetBool(config.ConfigDebug) {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if path := cfg.GetString(analyzeKey); path != "" {
		summary, err := automatic.AnalyzeLogFile(path)
		if err != nil {
			log.Fatal().Err(err).Msg("analyzing-log")
		}
		fmt.Println(summary)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("arena-failed")
	}
}

// team loads the first n individuals of a generation. A negative generation
// is the advancement heuristic.
func team(ctx context.Context, st store.Store, gen, n, depth int) ([]automatic.Player, error) {
	if gen < 0 {
		return []automatic.Player{automatic.NewSearchPlayer("advancement", heuristic.Advancement, depth)}, nil
	}
	players := make([]automatic.Player, 0, n)
	for i := 0; i < n; i++ {
		nn, err := st.LoadIndividual(ctx, gen, i)
		if err != nil {
			return nil, err
		}
		players = append(players, automatic.NewNetworkPlayer(fmt.Sprintf("gen%d-%d", gen, i), nn, depth))
	}
	return players, nil
}

func openLog(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	return os.Create(path)
}

func run(ctx context.Context, cfg *config.Config) error {
	st, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	depth := cfg.GetInt(config.ConfigSearchDepth)
	n := cfg.GetInt(individualsKey)
	a, err := team(ctx, st, cfg.GetInt(genAKey), n, depth)
	if err != nil {
		return fmt.Errorf("team a: %w", err)
	}
	b, err := team(ctx, st, cfg.GetInt(genBKey), n, depth)
	if err != nil {
		return fmt.Errorf("team b: %w", err)
	}

	mc := automatic.MatchConfig{
		A:        a,
		B:        b,
		Games:    cfg.GetInt(gamesKey),
		Threads:  cfg.GetInt(config.ConfigThreads),
		MaxPlies: cfg.GetInt(config.ConfigMaxPlies),
	}
	gameLog, err := openLog(cfg.GetString(gameLogKey))
	if err != nil {
		return err
	}
	if gameLog != nil {
		defer gameLog.Close()
		mc.GameLog = gameLog
	}
	moveLog, err := openLog(cfg.GetString(moveLogKey))
	if err != nil {
		return err
	}
	if moveLog != nil {
		defer moveLog.Close()
		mc.MoveLog = moveLog
	}

	tally, err := automatic.PlayMatch(ctx, mc)
	if err != nil {
		return err
	}
	fmt.Printf("%s vs %s: %s\n", a[0].Name(), b[0].Name(), tally.Record())
	fmt.Println(tally.String())
	return nil
}
