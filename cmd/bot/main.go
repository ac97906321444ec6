// Command bot plays a scripted game against a running server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"provincewar/internal/client"
	"provincewar/internal/config"
	"provincewar/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "Config file (default: provincewar.yaml if present)")
	serverAddr := flag.String("server", "", "Server address, overrides bot.server")
	name := flag.String("name", "", "Player name, overrides bot.player_name")
	start := flag.String("start", "", "Start region, overrides bot.start_region")
	turns := flag.Int("turns", 0, "Turns to play, overrides bot.turns")
	slot := flag.String("slot", "", "Save slot written at the end")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	closer := logging.Setup(cfg.Log)
	defer closer.Close()

	bot := cfg.Bot
	if *serverAddr != "" {
		bot.Server = *serverAddr
	}
	if *name != "" {
		bot.PlayerName = *name
	}
	if *start != "" {
		bot.StartRegion = *start
	}
	if *turns > 0 {
		bot.Turns = *turns
	}
	if *slot != "" {
		bot.Slot = *slot
	}
	if err := bot.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid bot config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := client.Dial(ctx, bot.Server)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect")
	}
	defer c.Close()

	welcome, err := c.Welcome(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("No welcome from server")
	}
	log.Info().
		Str("server", welcome.ServerVersion).
		Str("session", welcome.SessionID).
		Str("map", welcome.Map.Name).
		Msg("Connected")

	summary, err := client.NewBot(c, bot).Play(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Bot stopped")
	}
	if summary != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(summary)
	}
}
