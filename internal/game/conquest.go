package game

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// AttackMode decides what a victorious attacker does with the target.
type AttackMode string

const (
	ModeOccupy  AttackMode = "occupy"
	ModePlunder AttackMode = "plunder"
)

// AttackModes lists the modes in random choice order.
var AttackModes = []AttackMode{ModeOccupy, ModePlunder}

// Valid returns true if m is a known mode.
func (m AttackMode) Valid() bool {
	return m == ModeOccupy || m == ModePlunder
}

// AttackOrder describes an attack. Empty Target picks the first enemy neighbor;
// empty Mode is drawn at random.
type AttackOrder struct {
	From   string     `json:"from"`
	Target string     `json:"target,omitempty"`
	Mode   AttackMode `json:"mode,omitempty"`
}

// AttackResult describes a resolved attack.
type AttackResult struct {
	From               string      `json:"from"`
	Target             string      `json:"target"`
	PreviousOwner      string      `json:"previousOwner"`
	Mode               AttackMode  `json:"mode"`
	Outcome            OutcomeKind `json:"outcome"`
	AttackerArmyBefore int         `json:"attackerArmyBefore"`
	AttackerArmyAfter  int         `json:"attackerArmyAfter"`
	DefenderArmyBefore int         `json:"defenderArmyBefore"`
	DefenderArmyAfter  int         `json:"defenderArmyAfter"`
	GoldPlundered      int         `json:"goldPlundered,omitempty"`
	FoodPlundered      int         `json:"foodPlundered,omitempty"`
	SecurityLost       int         `json:"securityLost,omitempty"`
}

// Won returns true if the attacker defeated the defender.
func (r *AttackResult) Won() bool {
	return r.Outcome == OutcomeOccupied || r.Outcome == OutcomePlundered
}

// EnemyNeighbors returns the neighbors of a region not owned by the player, in adjacency order.
func (e *Engine) EnemyNeighbors(w *World, regionName string) []string {
	var enemies []string
	for _, n := range w.Neighbors(regionName) {
		r := w.Region(n)
		if r != nil && r.Owner != w.PlayerID {
			enemies = append(enemies, n)
		}
	}
	return enemies
}

// Attack attacks the first enemy neighbor of a player region with a random mode.
func (e *Engine) Attack(w *World, regionName string) (*AttackResult, error) {
	return e.Execute(w, AttackOrder{From: regionName})
}

// Execute resolves an attack order. A rejected order leaves the world unchanged.
func (e *Engine) Execute(w *World, order AttackOrder) (*AttackResult, error) {
	attacker, err := w.playerRegion(order.From)
	if err != nil {
		return nil, err
	}

	enemies := e.EnemyNeighbors(w, order.From)
	if len(enemies) == 0 {
		return nil, fmt.Errorf("region %q: %w", order.From, ErrNoTarget)
	}

	targetName := enemies[0]
	if order.Target != "" {
		if !contains(enemies, order.Target) {
			return nil, fmt.Errorf("%q cannot be attacked from %q: %w", order.Target, order.From, ErrInvalidTarget)
		}
		targetName = order.Target
	}

	// The mode is decided before the army check
	mode := order.Mode
	if mode == "" {
		mode = Choose(e.rng, AttackModes)
	} else if !mode.Valid() {
		return nil, fmt.Errorf("attack mode %q: %w", mode, ErrInvalidTarget)
	}

	if attacker.Army <= 0 {
		return nil, fmt.Errorf("region %q: %w", order.From, ErrNoArmy)
	}

	target := w.Region(targetName)
	result := &AttackResult{
		From:               order.From,
		Target:             targetName,
		PreviousOwner:      target.Owner,
		Mode:               mode,
		AttackerArmyBefore: attacker.Army,
		DefenderArmyBefore: target.Army,
	}

	attacker.Army, target.Army = ResolveBattle(attacker.Army, target.Army, e.Rules)
	result.AttackerArmyAfter = attacker.Army
	result.DefenderArmyAfter = target.Army

	switch {
	case attacker.Army > 0 && target.Army == 0 && mode == ModeOccupy:
		target.Owner = w.PlayerID
		result.Outcome = OutcomeOccupied
	case attacker.Army > 0 && target.Army == 0:
		e.plunder(attacker, target, result)
		result.Outcome = OutcomePlundered
	default:
		result.Outcome = OutcomeRepelled
	}

	log.Debug().
		Str("from", result.From).
		Str("target", result.Target).
		Str("mode", string(mode)).
		Str("outcome", string(result.Outcome)).
		Int("attacker", result.AttackerArmyAfter).
		Int("defender", result.DefenderArmyAfter).
		Msg("Battle resolved")

	return result, nil
}

// plunder moves part of the target's stores to the attacker and damages its security.
func (e *Engine) plunder(attacker, target *Region, result *AttackResult) {
	gold := int(float64(target.Gold) * e.Rules.PlunderRatio)
	food := int(float64(target.Food) * e.Rules.PlunderRatio)
	attacker.Gold += gold
	attacker.Food += food
	target.Gold -= gold
	target.Food -= food

	kept := int(float64(target.Security) * e.Rules.SecurityPlunder)
	result.SecurityLost = target.Security - kept
	target.Security = kept

	result.GoldPlundered = gold
	result.FoodPlundered = food
}

func contains(items []string, s string) bool {
	for _, item := range items {
		if item == s {
			return true
		}
	}
	return false
}
