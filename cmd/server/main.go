package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"provincewar/internal/config"
	"provincewar/internal/database"
	"provincewar/internal/logging"
	"provincewar/internal/savefile"
	"provincewar/internal/server"
	"provincewar/pkg/maps"
)

func main() {
	configPath := flag.String("config", "", "Config file (default: provincewar.yaml if present)")
	addr := flag.String("addr", "", "Listen address, overrides server.addr")
	dbPath := flag.String("db", "", "Database path, overrides storage.db_path")
	mapID := flag.String("map", "", "Map id, overrides game.map")
	debugMap := flag.Bool("debug-map", false, "Print the map and exit")
	flag.Parse()

	// Only the log level is applied on reload; sessions keep the rules they started with
	cfg, err := config.Watch(*configPath, func(next *config.Config) {
		zerolog.SetGlobalLevel(logging.Level(next.Log.Level))
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Storage.DBPath = *dbPath
	}
	if *mapID != "" {
		cfg.Game.Map = *mapID
	}

	closer := logging.Setup(cfg.Log)
	defer closer.Close()

	if err := maps.LoadAll(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load maps")
	}
	m := maps.Get(cfg.Game.Map)
	if m == nil {
		log.Fatal().Str("map", cfg.Game.Map).Msg("Unknown map")
	}
	if *debugMap {
		os.Stdout.WriteString(m.Debug())
		os.Stdout.WriteString(m.PrintAdjacencyMatrix())
		return
	}

	srvCfg := server.Config{
		Addr:  cfg.Server.Addr,
		Map:   m,
		Rules: cfg.Game.Rules,
		Seed:  cfg.Game.Seed,
	}

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := database.New(cfg.Storage.DBPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Storage.DBPath).Msg("Failed to open database")
		}
		defer db.Close()
		srvCfg.Store = db
		srvCfg.Journal = db
		srvCfg.History = db
		log.Info().Str("path", cfg.Storage.DBPath).Msg("Using SQLite storage")
	case config.BackendFile:
		srvCfg.Store = savefile.New(cfg.Storage.SaveDir)
		log.Info().Str("dir", cfg.Storage.SaveDir).Msg("Using file storage")
	default:
		log.Warn().Msg("No storage configured, save and load are disabled")
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// Handle shutdown gracefully
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			log.Error().Err(err).Msg("Server error")
			done <- syscall.SIGTERM
		}
	}()

	<-done
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}

	log.Info().Msg("Server stopped")
}
