package client

import "fmt"

// Config holds the scripted client's settings.
type Config struct {
	Server      string `mapstructure:"server"`
	PlayerName  string `mapstructure:"player_name"`
	StartRegion string `mapstructure:"start_region"`
	Turns       int    `mapstructure:"turns"`

	// Attack from a region once its army reaches this size.
	AttackArmy int `mapstructure:"attack_army"`
	// Invest only from regions holding at least this much gold.
	ReserveGold int `mapstructure:"reserve_gold"`

	// Save slot written after the last turn. Empty skips saving.
	Slot string `mapstructure:"slot"`
}

// DefaultConfig returns a config with default values.
func DefaultConfig() Config {
	return Config{
		Server:      "localhost:30000",
		PlayerName:  "Bot",
		Turns:       20,
		AttackArmy:  60,
		ReserveGold: 500,
	}
}

// Validate rejects settings the bot cannot play with.
func (c Config) Validate() error {
	if c.Server == "" {
		return fmt.Errorf("bot: server address is required")
	}
	if c.Turns <= 0 {
		return fmt.Errorf("bot: turns must be positive, got %d", c.Turns)
	}
	if c.AttackArmy <= 0 {
		return fmt.Errorf("bot: attack_army must be positive, got %d", c.AttackArmy)
	}
	if c.ReserveGold < 0 {
		return fmt.Errorf("bot: reserve_gold must not be negative, got %d", c.ReserveGold)
	}
	return nil
}
