// Package session is the contract between a presentation shell and the game engine.
// A Session owns one world and is not safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"provincewar/internal/game"
	"provincewar/pkg/maps"
)

// ErrNoGame is returned by world operations before a game is started or loaded.
var ErrNoGame = errors.New("no game in progress")

// Options configures a new session.
type Options struct {
	Map     *maps.Map
	Rules   game.Rules
	Random  game.RandomSource
	Store   Store   // optional; Save and Load fail without one
	Journal Journal // optional
	Slot    string  // defaults to DefaultSlot
}

// Session drives one game on behalf of one shell.
type Session struct {
	ID string

	m       *maps.Map
	engine  *game.Engine
	store   Store
	journal Journal
	slot    string
	world   *game.World
	logger  zerolog.Logger
}

// New creates a session without a game. Call NewGame or Load to start playing.
func New(opts Options) (*Session, error) {
	if opts.Map == nil {
		return nil, fmt.Errorf("session needs a map")
	}
	if opts.Random == nil {
		return nil, fmt.Errorf("session needs a random source")
	}
	if err := opts.Rules.Validate(); err != nil {
		return nil, err
	}
	if opts.Slot == "" {
		opts.Slot = DefaultSlot
	}

	id := uuid.New().String()
	return &Session{
		ID:      id,
		m:       opts.Map,
		engine:  game.NewEngine(opts.Rules, opts.Random),
		store:   opts.Store,
		journal: opts.Journal,
		slot:    opts.Slot,
		logger:  log.With().Str("session", id).Logger(),
	}, nil
}

// World returns the current world, or nil before a game exists.
func (s *Session) World() *game.World {
	return s.world
}

// Map returns the map the session plays on.
func (s *Session) Map() *maps.Map {
	return s.m
}

// Rules returns the rules in force.
func (s *Session) Rules() game.Rules {
	return s.engine.Rules
}

// Slot returns the save slot used by Save and Load.
func (s *Session) Slot() string {
	return s.slot
}

// NewGame starts a fresh world. An empty start region uses the map default and a
// blank player name uses game.DefaultPlayerName.
func (s *Session) NewGame(ctx context.Context, playerName, startRegion string) (*Result, error) {
	if startRegion == "" {
		startRegion = s.m.DefaultStart
	}
	if name, ok := s.m.Resolve(startRegion); ok {
		startRegion = name
	}

	world, err := s.engine.InitializeWorld(s.m.Graph(), playerName, startRegion, s.m.Factions)
	if err != nil {
		return s.fail(ActionNewGame, startRegion, err)
	}
	s.world = world

	s.logger.Info().
		Str("player", world.PlayerID).
		Str("start", world.PlayerStartRegion).
		Msg("New game started")
	s.record(ctx, EventNewGame, world.PlayerStartRegion, map[string]string{"player": world.PlayerID})

	return s.succeed(&Result{Action: ActionNewGame, Region: world.PlayerStartRegion}), nil
}

// SelectNextOwnedRegion cycles the selection through the player's regions.
func (s *Session) SelectNextOwnedRegion() (*Result, error) {
	if s.world == nil {
		return s.fail(ActionSelect, "", ErrNoGame)
	}
	name, err := s.world.SelectNextOwnedRegion()
	if err != nil {
		return s.fail(ActionSelect, "", err)
	}
	return s.succeed(&Result{Action: ActionSelect, Region: name}), nil
}

// Invest raises a development track. An empty region means the selected region.
func (s *Session) Invest(ctx context.Context, region string, dev game.Development) (*Result, error) {
	name, err := s.target(region)
	if err != nil {
		return s.fail(ActionInvest, region, err)
	}

	before := s.world.Region(name).Clone()
	if err := s.engine.Invest(s.world, name, dev); err != nil {
		return s.fail(ActionInvest, name, err)
	}
	after := s.world.Region(name)

	s.logger.Info().Str("region", name).Str("development", string(dev)).Msg("Invested")
	s.record(ctx, EventInvest, name, map[string]any{"development": dev, "level": after.Level(dev)})

	return s.succeed(&Result{
		Action:      ActionInvest,
		Region:      name,
		Development: dev,
		Deltas:      diff(before, after),
	}), nil
}

// Recruit raises soldiers. An empty region means the selected region and a zero
// amount means the rules' shell recruit amount.
func (s *Session) Recruit(ctx context.Context, region string, amount int) (*Result, error) {
	name, err := s.target(region)
	if err != nil {
		return s.fail(ActionRecruit, region, err)
	}
	if amount == 0 {
		amount = s.engine.Rules.ShellRecruitAmount
	}

	before := s.world.Region(name).Clone()
	if err := s.engine.Recruit(s.world, name, amount); err != nil {
		return s.fail(ActionRecruit, name, err)
	}
	after := s.world.Region(name)

	s.logger.Info().Str("region", name).Int("amount", amount).Msg("Recruited")
	s.record(ctx, EventRecruit, name, map[string]int{"amount": amount, "army": after.Army})

	return s.succeed(&Result{
		Action: ActionRecruit,
		Region: name,
		Amount: amount,
		Deltas: diff(before, after),
	}), nil
}

// Attack attacks the first enemy neighbor of a region with a random mode.
func (s *Session) Attack(ctx context.Context, region string) (*Result, error) {
	return s.AttackOrder(ctx, game.AttackOrder{From: region})
}

// AttackOrder resolves an attack with an optional explicit target and mode.
// An empty From means the selected region.
func (s *Session) AttackOrder(ctx context.Context, order game.AttackOrder) (*Result, error) {
	name, err := s.target(order.From)
	if err != nil {
		return s.fail(ActionAttack, order.From, err)
	}
	order.From = name
	if order.Target != "" {
		if target, ok := s.m.Resolve(order.Target); ok {
			order.Target = target
		}
	}

	before := s.world.Region(name).Clone()
	attack, err := s.engine.Execute(s.world, order)
	if err != nil {
		return s.fail(ActionAttack, name, err)
	}

	s.logger.Info().
		Str("from", attack.From).
		Str("target", attack.Target).
		Str("mode", string(attack.Mode)).
		Str("outcome", string(attack.Outcome)).
		Msg("Attack resolved")
	s.record(ctx, EventAttack, name, attack)

	res := s.succeed(&Result{
		Action: ActionAttack,
		Region: name,
		Deltas: diff(before, s.world.Region(name)),
		Attack: attack,
	})
	res.Outcome = attack.Outcome
	return res, nil
}

// AdvanceTurn ends the turn: regions grow and the AI acts.
func (s *Session) AdvanceTurn(ctx context.Context) (*Result, error) {
	if s.world == nil {
		return s.fail(ActionEndTurn, "", ErrNoGame)
	}

	report := s.engine.AdvanceTurn(s.world)

	s.logger.Info().
		Int("turn", report.Turn).
		Int("aiDecisions", len(report.Decisions)).
		Str("status", string(report.Status)).
		Msg("Turn ended")
	s.record(ctx, EventTurnEnd, "", report)

	return s.succeed(&Result{Action: ActionEndTurn, TurnReport: report}), nil
}

// Save writes the world to the session's slot.
func (s *Session) Save(ctx context.Context) (*Result, error) {
	return s.SaveTo(ctx, "")
}

// SaveTo writes the world to slot, which becomes the session's slot once the
// save succeeds. An empty slot keeps the current one.
func (s *Session) SaveTo(ctx context.Context, slot string) (*Result, error) {
	if slot == "" {
		slot = s.slot
	}
	if s.world == nil {
		return s.fail(ActionSave, "", ErrNoGame)
	}
	if s.store == nil {
		return s.fail(ActionSave, "", fmt.Errorf("no store configured: %w", game.ErrPersistenceUnavailable))
	}

	if err := s.store.Save(ctx, slot, s.world.Snapshot()); err != nil {
		return s.fail(ActionSave, "", err)
	}
	s.slot = slot

	s.logger.Info().Str("slot", slot).Int("turn", s.world.Turn).Msg("Game saved")
	s.record(ctx, EventSave, "", map[string]any{"slot": slot, "turn": s.world.Turn})

	return s.succeed(&Result{Action: ActionSave, Slot: slot}), nil
}

// Load replaces the world with the snapshot in the session's slot.
func (s *Session) Load(ctx context.Context) (*Result, error) {
	return s.LoadFrom(ctx, "")
}

// LoadFrom replaces the world with the snapshot in slot, which becomes the
// session's slot. A failed load keeps both the current world and slot.
func (s *Session) LoadFrom(ctx context.Context, slot string) (*Result, error) {
	if slot == "" {
		slot = s.slot
	}
	if s.store == nil {
		return s.fail(ActionLoad, "", fmt.Errorf("no store configured: %w", game.ErrPersistenceUnavailable))
	}

	snap, err := s.store.Load(ctx, slot)
	if err != nil {
		return s.fail(ActionLoad, "", err)
	}

	world := game.NewWorld(snap.PlayerName, s.m.Graph())
	for _, name := range world.Restore(snap) {
		if s.m.GetRegion(name) == nil {
			s.logger.Warn().Str("region", name).Str("slot", slot).Msg("Loaded region is not on the map")
		}
	}
	s.world = world
	s.slot = slot

	s.logger.Info().Str("slot", slot).Int("turn", world.Turn).Msg("Game loaded")
	s.record(ctx, EventLoad, "", map[string]any{"slot": slot, "turn": world.Turn})

	return s.succeed(&Result{Action: ActionLoad, Slot: slot}), nil
}

// target resolves the region an action applies to.
func (s *Session) target(region string) (string, error) {
	if s.world == nil {
		return "", ErrNoGame
	}
	if region == "" {
		r, err := s.world.SelectedRegion()
		if err != nil {
			return "", err
		}
		return r.Name, nil
	}
	name, ok := s.m.Resolve(region)
	if !ok {
		name = region
	}
	if s.world.Region(name) == nil {
		return "", fmt.Errorf("region %q: %w", region, game.ErrInvalidSelection)
	}
	return name, nil
}

// record writes to the journal. Journal failures never fail the action.
func (s *Session) record(ctx context.Context, kind, region string, detail any) {
	if s.journal == nil || s.world == nil {
		return
	}
	if err := s.journal.Record(ctx, s.slot, s.world.Turn, kind, region, detail); err != nil {
		s.logger.Warn().Err(err).Str("kind", kind).Msg("Failed to record history")
	}
}

func (s *Session) succeed(r *Result) *Result {
	r.Success = true
	r.Outcome = game.OutcomeOK
	if s.world != nil {
		r.Status = s.world.Status()
	}
	return r
}

func (s *Session) fail(action Action, region string, err error) (*Result, error) {
	s.logger.Debug().Err(err).Str("action", string(action)).Str("region", region).Msg("Action rejected")

	outcome := game.Kind(err)
	if errors.Is(err, ErrNoGame) {
		outcome = OutcomeNoGame
	}
	r := &Result{Action: action, Region: region, Outcome: outcome}
	if s.world != nil {
		r.Status = s.world.Status()
	}
	return r, err
}
