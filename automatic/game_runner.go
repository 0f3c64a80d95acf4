// Package automatic plays computer-vs-computer checkers games: single games
// for the trainer, matches between two sets of players, and random games for
// generating evaluator training samples.
package automatic

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/game"
)

// DefaultMaxPlies ends a game as a draw once this many moves were made.
// Every jump of a capture sequence counts as a move.
const DefaultMaxPlies = 100

// GameRunner is the master struct here for the automatic game logic.
type GameRunner struct {
	game     *game.Game
	players  [2]Player
	maxPlies int
	logchan  chan string
}

// NewGameRunner creates a runner. logchan may be nil; otherwise one CSV line
// per move is sent to it.
func NewGameRunner(logchan chan string, white, black Player, maxPlies int) *GameRunner {
	if maxPlies <= 0 {
		maxPlies = DefaultMaxPlies
	}
	return &GameRunner{
		players:  [2]Player{white, black},
		maxPlies: maxPlies,
		logchan:  logchan,
	}
}

// StartGame sets up the initial position with a fresh game ID.
func (r *GameRunner) StartGame() {
	r.game = game.NewGame()
	r.game.SetUid(uuid.NewString())
}

func (r *GameRunner) Game() *game.Game {
	return r.game
}

func playerIdx(c board.Color) int {
	if c == board.White {
		return 0
	}
	return 1
}

// PlayTurn has the player on turn make one move.
func (r *GameRunner) PlayTurn(ctx context.Context) error {
	p := r.players[playerIdx(r.game.PlayerOnTurn())]
	m, err := p.ChooseMove(ctx, r.game)
	if err != nil {
		return fmt.Errorf("%s choosing a move at turn %d: %w", p.Name(), r.game.Turn(), err)
	}
	turn := r.game.MakeMove(m)
	if r.logchan != nil {
		r.logchan <- fmt.Sprintf("%v,%v,%v,%v,%v,%v,%v\n",
			r.game.Uid(),
			p.Name(),
			m.Player,
			r.game.Turn(),
			m.ShortDescription(),
			turn.Promoted,
			turn.Result)
	}
	return nil
}

// PlayFull plays a new game to the end and returns its result. A game that
// reaches the ply limit is a draw.
func (r *GameRunner) PlayFull(ctx context.Context) (game.PlayState, error) {
	r.StartGame()
	for r.game.Playing() == game.Ongoing {
		if r.game.Turn() >= r.maxPlies {
			log.Debug().Str("uid", r.game.Uid()).Int("plies", r.game.Turn()).Msg("ply-limit-draw")
			return game.Draw, nil
		}
		if err := r.PlayTurn(ctx); err != nil {
			return game.Ongoing, err
		}
	}
	return r.game.Playing(), nil
}

// PlayGame is a shortcut for a single unlogged game.
func PlayGame(ctx context.Context, white, black Player, maxPlies int) (game.PlayState, error) {
	return NewGameRunner(nil, white, black, maxPlies).PlayFull(ctx)
}
