package client

import (
	"context"

	"provincewar/internal/game"
	"provincewar/internal/protocol"
	"provincewar/internal/session"
)

// NewGame starts a game. Empty arguments use the server defaults.
func (c *NetworkClient) NewGame(ctx context.Context, playerName, startRegion string) (*session.Result, error) {
	return c.action(ctx, protocol.TypeNewGame, protocol.NewGamePayload{
		PlayerName:  playerName,
		StartRegion: startRegion,
	})
}

// SelectRegion moves the selection to the next owned region.
func (c *NetworkClient) SelectRegion(ctx context.Context) (*protocol.RegionState, error) {
	var payload protocol.RegionSelectedPayload
	if _, err := c.Call(ctx, protocol.TypeSelectRegion, nil, &payload); err != nil {
		return nil, err
	}
	return &payload.Region, nil
}

// Invest raises a development track in a region, or in the selected region when empty.
func (c *NetworkClient) Invest(ctx context.Context, region string, dev game.Development) (*session.Result, error) {
	return c.action(ctx, protocol.TypeInvest, protocol.InvestPayload{Region: region, Development: dev})
}

// Recruit raises soldiers. A zero amount uses the server default.
func (c *NetworkClient) Recruit(ctx context.Context, region string, amount int) (*session.Result, error) {
	return c.action(ctx, protocol.TypeRecruit, protocol.RecruitPayload{Region: region, Amount: amount})
}

// Attack orders an attack from a region.
func (c *NetworkClient) Attack(ctx context.Context, order protocol.AttackPayload) (*session.Result, error) {
	return c.action(ctx, protocol.TypeAttack, order)
}

// EndTurn advances the turn.
func (c *NetworkClient) EndTurn(ctx context.Context) (*protocol.TurnReportPayload, error) {
	var payload protocol.TurnReportPayload
	if _, err := c.Call(ctx, protocol.TypeEndTurn, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Save writes the game to a slot. An empty slot keeps the session's slot.
func (c *NetworkClient) Save(ctx context.Context, slot string) (*session.Result, error) {
	return c.action(ctx, protocol.TypeSave, protocol.SlotPayload{Slot: slot})
}

// Load restores the game from a slot. An empty slot keeps the session's slot.
func (c *NetworkClient) Load(ctx context.Context, slot string) (*session.Result, error) {
	return c.action(ctx, protocol.TypeLoad, protocol.SlotPayload{Slot: slot})
}

// State fetches the full game state.
func (c *NetworkClient) State(ctx context.Context) (*protocol.GameStatePayload, error) {
	var payload protocol.GameStatePayload
	if _, err := c.Call(ctx, protocol.TypeGetState, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *NetworkClient) action(ctx context.Context, msgType protocol.MessageType, payload interface{}) (*session.Result, error) {
	var resp protocol.ActionResultPayload
	if _, err := c.Call(ctx, msgType, payload, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}
