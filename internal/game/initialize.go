package game

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Engine applies the game rules to a World. It holds no world state of its own.
type Engine struct {
	Rules Rules
	rng   RandomSource
}

// NewEngine creates an engine with the given rules and random source.
func NewEngine(rules Rules, rng RandomSource) *Engine {
	return &Engine{Rules: rules, rng: rng}
}

// InitializeWorld creates a new world from the map.
// Every graph region is created in graph order; the start region goes to the player
// with the starting bonus, every other region to a randomly chosen faction.
func (e *Engine) InitializeWorld(graph *AdjacencyGraph, playerName, startRegion string, factions []string) (*World, error) {
	playerName = strings.TrimSpace(playerName)
	if playerName == "" {
		playerName = DefaultPlayerName
	}
	if !graph.Has(startRegion) {
		return nil, fmt.Errorf("start region %q: %w", startRegion, ErrUnknownRegion)
	}
	if len(factions) == 0 {
		return nil, ErrNoFactions
	}

	world := NewWorld(playerName, graph)
	world.PlayerStartRegion = startRegion

	for _, name := range graph.Regions() {
		region := NewRegion(name, e.Rules)
		if name == startRegion {
			region.Owner = playerName
			region.Gold = e.Rules.PlayerStartGold
			region.Food = e.Rules.PlayerStartFood
			region.Population = e.Rules.PlayerStartPopulation
		} else {
			// Factions are drawn with replacement, one may hold several regions
			region.Owner = Choose(e.rng, factions)
		}
		world.AddRegion(region)
	}

	log.Debug().
		Str("player", playerName).
		Str("start", startRegion).
		Int("regions", world.Len()).
		Msg("World initialized")

	return world, nil
}
