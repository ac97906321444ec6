// Package server implements the Province War game server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"provincewar/internal/database"
	"provincewar/internal/game"
	"provincewar/internal/session"
	"provincewar/pkg/maps"
)

// Version is reported in the welcome message.
const Version = "0.1.0"

// HistoryReader reads the action journal of a save slot.
type HistoryReader interface {
	History(ctx context.Context, slot string) ([]*database.HistoryEvent, error)
}

// Config holds server configuration.
type Config struct {
	Addr    string
	Map     *maps.Map
	Rules   game.Rules
	Seed    uint64 // 0 seeds each session from the clock
	Store   session.Store
	Journal session.Journal
	History HistoryReader
}

// Server is the main game server.
type Server struct {
	cfg     Config
	router  *gin.Engine
	mux     *http.ServeMux
	metrics *Metrics
	server  *http.Server

	sessions atomic.Uint64
}

// New creates a new server.
func New(cfg Config) (*Server, error) {
	if cfg.Map == nil {
		return nil, errors.New("server needs a map")
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		cfg:     cfg,
		router:  gin.New(),
		metrics: NewMetrics(),
	}
	s.routes()

	// /ws bypasses gin: its response writer refuses the hijack after the upgrade headers
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.Handle("/", s.router)
	return s, nil
}

func (s *Server) routes() {
	r := s.router
	r.Use(gin.Recovery(), requestLogger(), s.metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/metrics", s.metrics.Handler())

	api := r.Group("/api")
	{
		api.GET("/maps", s.handleListMaps)
		api.GET("/saves", s.handleListSaves)
		api.GET("/saves/:slot", s.handleGetSave)
		api.DELETE("/saves/:slot", s.handleDeleteSave)
		api.GET("/saves/:slot/history", s.handleHistory)
	}
}

// Handler returns the HTTP handler, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start listens on the configured address until Stop is called.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("addr", s.cfg.Addr).
		Str("map", s.cfg.Map.ID).
		Str("websocket", "ws://localhost"+s.cfg.Addr+"/ws").
		Msg("Province War server listening")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// newSession creates the session for one connection.
func (s *Server) newSession() (*session.Session, error) {
	n := s.sessions.Add(1)
	seed := uint64(time.Now().UnixNano())
	if s.cfg.Seed != 0 {
		seed = s.cfg.Seed + n - 1
	}
	return session.New(session.Options{
		Map:     s.cfg.Map,
		Rules:   s.cfg.Rules,
		Random:  game.NewRandom(seed),
		Store:   s.cfg.Store,
		Journal: s.cfg.Journal,
	})
}

// handleListMaps returns the registered maps.
func (s *Server) handleListMaps(c *gin.Context) {
	c.JSON(http.StatusOK, maps.List())
}

// handleListSaves returns the saves the store knows about.
func (s *Server) handleListSaves(c *gin.Context) {
	lister, ok := s.cfg.Store.(session.Lister)
	if !ok {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "save listing not available"})
		return
	}
	saves, err := lister.List(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list saves")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list saves"})
		return
	}
	if saves == nil {
		saves = []session.SaveInfo{}
	}
	c.JSON(http.StatusOK, saves)
}

// handleGetSave returns the snapshot stored in a slot.
func (s *Server) handleGetSave(c *gin.Context) {
	if s.cfg.Store == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no store configured"})
		return
	}
	snap, err := s.cfg.Store.Load(c.Request.Context(), c.Param("slot"))
	if err != nil {
		if errors.Is(err, game.ErrPersistenceUnavailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": "save not found"})
			return
		}
		log.Error().Err(err).Str("slot", c.Param("slot")).Msg("Failed to load save")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load save"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// handleDeleteSave removes a slot and, for stores that keep one, its journal.
func (s *Server) handleDeleteSave(c *gin.Context) {
	deleter, ok := s.cfg.Store.(session.Deleter)
	if !ok {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "save deletion not available"})
		return
	}
	slot := c.Param("slot")
	if err := deleter.Delete(c.Request.Context(), slot); err != nil {
		if errors.Is(err, game.ErrPersistenceUnavailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": "save not found"})
			return
		}
		log.Error().Err(err).Str("slot", slot).Msg("Failed to delete save")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete save"})
		return
	}
	log.Info().Str("slot", slot).Msg("Save deleted")
	c.Status(http.StatusNoContent)
}

// handleHistory returns the action journal of a slot.
func (s *Server) handleHistory(c *gin.Context) {
	if s.cfg.History == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "history not available"})
		return
	}
	events, err := s.cfg.History.History(c.Request.Context(), c.Param("slot"))
	if err != nil {
		log.Error().Err(err).Str("slot", c.Param("slot")).Msg("Failed to read history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read history"})
		return
	}
	if events == nil {
		events = []*database.HistoryEvent{}
	}
	c.JSON(http.StatusOK, events)
}

// requestLogger logs each request through zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := log.Debug()
		if status >= http.StatusInternalServerError {
			evt = log.Warn()
		}
		evt.Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("HTTP request")
	}
}
