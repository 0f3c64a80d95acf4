package bot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/domino14/checkers/board"
	"github.com/domino14/checkers/config"
	"github.com/domino14/checkers/game"
	"github.com/domino14/checkers/move"
)

const requestTimeout = 40 * time.Second

type Client struct {
	// NATS connection
	nc      *nats.Conn
	channel string
}

func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	nc, err := connect(ctx, cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc, channel: cfg.GetString(config.ConfigBotChannel)}, nil
}

func (c *Client) Close() {
	c.nc.Close()
}

// MakeRequest serializes the position on turn in g.
func MakeRequest(g *game.Game, depth int) ([]byte, error) {
	b := g.Board()
	req := Request{
		Notation: b.Notation(),
		Player:   g.PlayerOnTurn().String(),
		Depth:    depth,
	}
	if chain := g.ForcedChain(); chain != board.NoPosition {
		idx := chain.Index()
		req.Chain = &idx
	}
	return json.Marshal(req)
}

// MoveFromResponse finds the legal move of g that the response describes.
func MoveFromResponse(g *game.Game, data []byte) (move.Move, error) {
	resp := Response{}
	if err := json.Unmarshal(data, &resp); err != nil {
		return move.Move{}, err
	}
	if resp.Error != "" {
		return move.Move{}, errors.New("bot returned: " + resp.Error)
	}
	if resp.Move == nil {
		return move.Move{}, errors.New("bot returned no move")
	}
	for _, m := range g.GetMoves() {
		if m.From.Index() == resp.Move.From && m.To.Index() == resp.Move.To {
			return m, nil
		}
	}
	return move.Move{}, fmt.Errorf("bot move %d-%d is not legal: %w",
		resp.Move.From, resp.Move.To, board.ErrInvalidArgument)
}

// RequestMove sends the game's position to the bot and gets a move back.
func (c *Client) RequestMove(ctx context.Context, g *game.Game, depth int) (move.Move, error) {
	data, err := MakeRequest(g, depth)
	if err != nil {
		return move.Move{}, err
	}
	var res *nats.Msg
	err = retry.Do(
		func() error {
			rctx, cancel := context.WithTimeout(ctx, requestTimeout)
			defer cancel()
			res, err = c.nc.RequestWithContext(rctx, c.channel, data)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(3),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, nats.ErrNoResponders) || errors.Is(err, context.DeadlineExceeded)
		}),
	)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		log.Error().Msgf("%v for request", err)
		return move.Move{}, err
	}
	log.Debug().Msgf("res: %v", string(res.Data))
	return MoveFromResponse(g, res.Data)
}
