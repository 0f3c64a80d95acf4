// Package bot is a NATS request/reply service that answers "what is the best
// move in this position" for other programs, and a client for it.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/checkers/alphabeta"
	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/cache"
	"github.com/domino14/checkers/config"
	"github.com/domino14/checkers/heuristic"
	"github.com/domino14/checkers/neural"
)

const (
	DefaultDepth = 6
	MaxDepth     = 12
	// searchTimeout bounds a single request.
	searchTimeout = 30 * time.Second
)

// Request asks for a move. Notation is in board.FromNotation format; Chain is
// the 0-based index of the piece that must keep capturing, if any. Network
// names an evaluator file under the data path; without it the bot's default
// evaluator is used.
type Request struct {
	Notation []string `json:"notation"`
	Player   string   `json:"player"`
	Chain    *int     `json:"chain,omitempty"`
	Depth    int      `json:"depth,omitempty"`
	Network  string   `json:"network,omitempty"`
}

// MoveData holds 0-based square indices.
type MoveData struct {
	From   int  `json:"from"`
	To     int  `json:"to"`
	Jumped *int `json:"jumped,omitempty"`
}

type Response struct {
	Move  *MoveData `json:"move,omitempty"`
	Error string    `json:"error,omitempty"`
}

// ErrNetworkName is returned for a requested network that is not a plain
// relative name under the data path.
var ErrNetworkName = fmt.Errorf("network must be a relative name under the data path: %w",
	board.ErrInvalidArgument)

type Bot struct {
	config *config.Config
}

func NewBot(cfg *config.Config) *Bot {
	return &Bot{config: cfg}
}

func errorResponse(message string, err error) *Response {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &Response{Error: msg}
}

func loadNetwork(cfg *config.Config, path string) (any, error) {
	return neural.LoadFile(path)
}

// networkPath resolves a requested network name under the data path.
// Absolute names and names that climb out of it are refused.
func (bot *Bot) networkPath(name string) (string, error) {
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("%q: %w", name, ErrNetworkName)
	}
	return filepath.Join(bot.config.GetString(config.ConfigDataPath), name), nil
}

// evaluator returns the requested network, or the configured bot network,
// or the advancement heuristic if neither is set.
func (bot *Bot) evaluator(name string) (heuristic.Func, error) {
	var path string
	if name != "" {
		var err error
		if path, err = bot.networkPath(name); err != nil {
			return nil, err
		}
	} else {
		path = bot.config.GetString(config.ConfigBotNetwork)
	}
	if path == "" {
		return heuristic.Advancement, nil
	}
	obj, err := cache.Load(bot.config, path, loadNetwork)
	if err != nil {
		return nil, err
	}
	return obj.(*neural.Network).Heuristic(), nil
}

// Deserialize parses a request into a search state.
func Deserialize(data []byte) (alphabeta.GameState, *Request, error) {
	req := &Request{}
	if err := json.Unmarshal(data, req); err != nil {
		return alphabeta.GameState{}, nil, err
	}
	b, err := board.FromNotation(req.Notation...)
	if err != nil {
		return alphabeta.GameState{}, nil, err
	}
	player, err := board.ParseColor(req.Player)
	if err != nil {
		return alphabeta.GameState{}, nil, err
	}
	chain := board.NoPosition
	if req.Chain != nil {
		chain, err = board.NewPosition(*req.Chain)
		if err != nil {
			return alphabeta.GameState{}, nil, err
		}
		if b.At(chain).Color() != player {
			return alphabeta.GameState{}, nil, fmt.Errorf("chain square %v is not %v's: %w",
				chain, player, board.ErrInvalidArgument)
		}
	}
	return alphabeta.GameState{Board: b, Player: player, Chain: chain}, req, nil
}

func (bot *Bot) handle(ctx context.Context, data []byte) *Response {
	state, req, err := Deserialize(data)
	if err != nil {
		return errorResponse("could not parse request", err)
	}
	h, err := bot.evaluator(req.Network)
	if err != nil {
		return errorResponse("could not load evaluator", err)
	}
	depth := req.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	depth = min(depth, MaxDepth)

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()
	solver := alphabeta.NewStateSolver(state, h, depth)
	m, err := solver.Solve(ctx)
	if err != nil {
		return errorResponse("could not find a move", err)
	}
	log.Info().Str("move", m.ShortDescription()).Uint64("nodes", solver.Nodes()).
		Msg("generated-move")
	md := &MoveData{From: m.From.Index(), To: m.To.Index()}
	if m.IsCapture() {
		j := m.Jumped.Index()
		md.Jumped = &j
	}
	return &Response{Move: md}
}

// connect dials NATS, retrying with backoff.
func connect(ctx context.Context, url string) (*nats.Conn, error) {
	var nc *nats.Conn
	err := retry.Do(
		func() error {
			var err error
			nc, err = nats.Connect(url)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(5),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Str("url", url).Msg("nats-connect-failed-try-again")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	return nc, err
}

// Main answers requests on channel until ctx is done.
func Main(ctx context.Context, channel string, bot *Bot) error {
	nc, err := connect(ctx, bot.config.GetString(config.ConfigNatsURL))
	if err != nil {
		return err
	}
	defer nc.Close()

	_, err = nc.Subscribe(channel, func(m *nats.Msg) {
		log.Info().Msgf("RECV: %d bytes", len(m.Data))
		resp := bot.handle(ctx, m.Data)
		data, err := json.Marshal(resp)
		if err != nil {
			// Should never happen, ideally, but we need to do something sensible here.
			m.Respond([]byte(err.Error()))
			return
		}
		if err := m.Respond(data); err != nil {
			log.Err(err).Msg("respond-failed")
		}
	})
	if err != nil {
		return err
	}
	if err := nc.Flush(); err != nil {
		return err
	}
	if err := nc.LastError(); err != nil {
		return err
	}
	log.Info().Msgf("Listening on [%s]", channel)

	<-ctx.Done()
	log.Info().Msg("bot-exiting")
	return nc.Drain()
}
