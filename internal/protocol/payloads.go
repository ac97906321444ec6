package protocol

import (
	"provincewar/internal/game"
	"provincewar/internal/session"
)

// ==================== Server Payloads ====================

// WelcomePayload is sent once when a connection opens.
type WelcomePayload struct {
	ServerVersion string     `json:"server_version"`
	SessionID     string     `json:"session_id"`
	Map           MapSummary `json:"map"`
	Slot          string     `json:"slot"`
}

// MapSummary describes the map a session plays on.
type MapSummary struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	DefaultStart string   `json:"default_start"`
	Regions      []string `json:"regions"`
	Factions     int      `json:"factions"`
}

// ==================== Request Payloads ====================

// NewGamePayload starts a fresh world.
type NewGamePayload struct {
	PlayerName  string `json:"player_name,omitempty"`
	StartRegion string `json:"start_region,omitempty"`
}

// InvestPayload raises a development track. An empty region means the selected one.
type InvestPayload struct {
	Region      string           `json:"region,omitempty"`
	Development game.Development `json:"development"`
}

// RecruitPayload raises soldiers. A zero amount uses the server default.
type RecruitPayload struct {
	Region string `json:"region,omitempty"`
	Amount int    `json:"amount,omitempty"`
}

// AttackPayload orders an attack. Target and mode are optional.
type AttackPayload struct {
	Region string          `json:"region,omitempty"`
	Target string          `json:"target,omitempty"`
	Mode   game.AttackMode `json:"mode,omitempty"`
}

// Order converts the payload to an engine order.
func (p AttackPayload) Order() game.AttackOrder {
	return game.AttackOrder{From: p.Region, Target: p.Target, Mode: p.Mode}
}

// SlotPayload selects a save slot for save and load. Empty keeps the current slot.
type SlotPayload struct {
	Slot string `json:"slot,omitempty"`
}

// ==================== Game State Payloads ====================

// GameStatePayload is the full view of the session's world.
type GameStatePayload struct {
	Started     bool          `json:"started"`
	PlayerName  string        `json:"player_name,omitempty"`
	StartRegion string        `json:"start_region,omitempty"`
	Turn        int           `json:"turn"`
	Selected    string        `json:"selected,omitempty"`
	Status      game.Status   `json:"status,omitempty"`
	Slot        string        `json:"slot"`
	Regions     []RegionState `json:"regions,omitempty"`
}

// RegionState is one region as seen by a client.
type RegionState struct {
	Name        string   `json:"name"`
	LocalName   string   `json:"local_name,omitempty"`
	Owner       string   `json:"owner"`
	Gold        int      `json:"gold"`
	Food        int      `json:"food"`
	Population  int      `json:"population"`
	Agriculture int      `json:"agriculture"`
	Commerce    int      `json:"commerce"`
	Security    int      `json:"security"`
	Army        int      `json:"army"`
	Neighbors   []string `json:"neighbors,omitempty"`
}

// RegionSelectedPayload answers select_region.
type RegionSelectedPayload struct {
	Region RegionState `json:"region"`
}

// ActionResultPayload answers invest, recruit, attack, save, load and new_game.
type ActionResultPayload struct {
	Result *session.Result `json:"result"`
}

// TurnReportPayload answers end_turn.
type TurnReportPayload struct {
	Report *game.TurnReport `json:"report"`
	State  GameStatePayload `json:"state"`
}
