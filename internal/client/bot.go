package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"provincewar/internal/game"
	"provincewar/internal/protocol"
)

// Summary describes a finished bot run.
type Summary struct {
	Turns       int         `json:"turns"`
	Investments int         `json:"investments"`
	Recruits    int         `json:"recruits"`
	Attacks     int         `json:"attacks"`
	Conquests   int         `json:"conquests"`
	Owned       int         `json:"owned"`
	Status      game.Status `json:"status"`
}

// Bot plays a game over a NetworkClient with a fixed policy: attack with large
// armies, invest spare gold, recruit with what is left, then end the turn.
type Bot struct {
	client *NetworkClient
	cfg    Config
}

// NewBot creates a bot.
func NewBot(c *NetworkClient, cfg Config) *Bot {
	return &Bot{client: c, cfg: cfg}
}

// Play starts a new game and plays until the turn limit or the game ends.
func (b *Bot) Play(ctx context.Context) (*Summary, error) {
	if _, err := b.client.NewGame(ctx, b.cfg.PlayerName, b.cfg.StartRegion); err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}

	sum := &Summary{Status: game.StatusInProgress}
	for sum.Turns < b.cfg.Turns && sum.Status == game.StatusInProgress {
		state, err := b.client.State(ctx)
		if err != nil {
			return sum, err
		}
		if err := b.playTurn(ctx, state, sum); err != nil {
			return sum, err
		}

		report, err := b.client.EndTurn(ctx)
		if err != nil {
			return sum, fmt.Errorf("end turn: %w", err)
		}
		sum.Turns++
		sum.Status = report.State.Status
		sum.Owned = owned(&report.State)

		log.Debug().
			Int("turn", report.State.Turn).
			Int("owned", sum.Owned).
			Str("status", string(sum.Status)).
			Msg("Bot turn ended")
	}

	if b.cfg.Slot != "" {
		if _, err := b.client.Save(ctx, b.cfg.Slot); err != nil {
			return sum, fmt.Errorf("save: %w", err)
		}
	}
	return sum, nil
}

func (b *Bot) playTurn(ctx context.Context, state *protocol.GameStatePayload, sum *Summary) error {
	devs := game.Developments
	for i, r := range state.Regions {
		if r.Owner != state.PlayerName {
			continue
		}

		if r.Army >= b.cfg.AttackArmy {
			res, err := b.client.Attack(ctx, protocol.AttackPayload{Region: r.Name})
			if err := rejected(err); err != nil {
				return err
			}
			if res != nil {
				sum.Attacks++
				if res.Attack != nil && res.Attack.Outcome == game.OutcomeOccupied {
					sum.Conquests++
				}
			}
		}

		if r.Gold >= b.cfg.ReserveGold {
			res, err := b.client.Invest(ctx, r.Name, devs[(state.Turn+i)%len(devs)])
			if err := rejected(err); err != nil {
				return err
			}
			if res != nil {
				sum.Investments++
			}
		}

		res, err := b.client.Recruit(ctx, r.Name, 0)
		if err := rejected(err); err != nil {
			return err
		}
		if res != nil {
			sum.Recruits++
		}
	}
	return nil
}

// rejected swallows rule rejections and returns every other error.
func rejected(err error) error {
	var e protocol.ErrorPayload
	if errors.As(err, &e) {
		switch e.Code {
		case protocol.ErrCodeInsufficientResources,
			protocol.ErrCodeNoTarget,
			protocol.ErrCodeNoArmy,
			protocol.ErrCodeInvalidSelection:
			return nil
		}
	}
	return err
}

func owned(state *protocol.GameStatePayload) int {
	n := 0
	for _, r := range state.Regions {
		if r.Owner == state.PlayerName {
			n++
		}
	}
	return n
}
