package game

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Invest raises a development track of one of the player's regions.
func (e *Engine) Invest(w *World, regionName string, dev Development) error {
	if !dev.Valid() {
		return fmt.Errorf("development %q: %w", dev, ErrInvalidTarget)
	}
	region, err := w.playerRegion(regionName)
	if err != nil {
		return err
	}

	if !region.Invest(dev, e.Rules) {
		return fmt.Errorf("invest %s in %s needs %d gold, have %d: %w",
			dev, regionName, e.Rules.InvestCost, region.Gold, ErrInsufficientResources)
	}

	log.Debug().
		Str("region", regionName).
		Str("development", string(dev)).
		Int("level", region.Level(dev)).
		Msg("Invested")
	return nil
}

// Recruit raises soldiers in one of the player's regions.
func (e *Engine) Recruit(w *World, regionName string, amount int) error {
	region, err := w.playerRegion(regionName)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("recruit %d: %w", amount, ErrInvalidAmount)
	}

	if !region.Recruit(amount, e.Rules) {
		food, pop := RecruitCost(amount, e.Rules)
		return fmt.Errorf("recruit %d in %s needs %d food and %d population: %w",
			amount, regionName, food, pop, ErrInsufficientResources)
	}

	log.Debug().
		Str("region", regionName).
		Int("amount", amount).
		Int("army", region.Army).
		Msg("Recruited")
	return nil
}
