package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"provincewar/internal/protocol"
	"provincewar/internal/session"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 65536
)

// Client is one websocket connection and the session it drives.
// Messages are handled in order on the read loop, so the session needs no locking.
type Client struct {
	server  *Server
	conn    *websocket.Conn
	session *session.Session
	logger  zerolog.Logger
}

// handleWebSocket upgrades the request and runs the connection until it closes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true, // Allow all origins
	})
	if err != nil {
		log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxMessageSize)

	sess, err := s.newSession()
	if err != nil {
		log.Error().Err(err).Msg("Failed to create session")
		conn.Close(websocket.StatusInternalError, "session unavailable")
		return
	}

	client := &Client{
		server:  s,
		conn:    conn,
		session: sess,
		logger:  log.With().Str("session", sess.ID).Str("remote", r.RemoteAddr).Logger(),
	}

	s.metrics.sessionsActive.Inc()
	defer s.metrics.sessionsActive.Dec()

	client.logger.Info().Msg("Client connected")
	client.run(r.Context())
	client.logger.Info().Msg("Client disconnected")
}

// run sends the welcome message and then serves requests until the connection closes.
func (c *Client) run(ctx context.Context) {
	m := c.session.Map()
	c.send(ctx, nil, protocol.TypeWelcome, protocol.WelcomePayload{
		ServerVersion: Version,
		SessionID:     c.session.ID,
		Slot:          c.session.Slot(),
		Map: protocol.MapSummary{
			ID:           m.ID,
			Name:         m.Name,
			DefaultStart: m.DefaultStart,
			Regions:      m.RegionNames(),
			Factions:     len(m.Factions),
		},
	})

	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				c.logger.Debug().Err(err).Msg("WebSocket read ended")
			}
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.sendError(ctx, nil, fmt.Errorf("%w: %v", protocol.ErrInvalidPayload, err))
			continue
		}
		c.Handle(ctx, &msg)
	}
}

// Handle routes a message to the appropriate handler.
func (c *Client) Handle(ctx context.Context, msg *protocol.Message) {
	var err error

	switch msg.Type {
	case protocol.TypeNewGame:
		err = c.handleNewGame(ctx, msg)
	case protocol.TypeSelectRegion:
		err = c.handleSelectRegion(ctx, msg)
	case protocol.TypeInvest:
		err = c.handleInvest(ctx, msg)
	case protocol.TypeRecruit:
		err = c.handleRecruit(ctx, msg)
	case protocol.TypeAttack:
		err = c.handleAttack(ctx, msg)
	case protocol.TypeEndTurn:
		err = c.handleEndTurn(ctx, msg)
	case protocol.TypeSave:
		err = c.handleSave(ctx, msg)
	case protocol.TypeLoad:
		err = c.handleLoad(ctx, msg)
	case protocol.TypeGetState:
		c.send(ctx, msg, protocol.TypeGameState, buildGameState(c.session))
	default:
		err = fmt.Errorf("%w: %q", protocol.ErrUnknownMessage, msg.Type)
	}

	if err != nil {
		c.sendError(ctx, msg, err)
	}
}

func (c *Client) handleNewGame(ctx context.Context, msg *protocol.Message) error {
	var payload protocol.NewGamePayload
	if err := parse(msg, &payload); err != nil {
		return err
	}
	res, err := c.observe(c.session.NewGame(ctx, payload.PlayerName, payload.StartRegion))
	return c.reply(ctx, msg, res, err)
}

func (c *Client) handleSelectRegion(ctx context.Context, msg *protocol.Message) error {
	res, err := c.observe(c.session.SelectNextOwnedRegion())
	if err != nil {
		return err
	}
	w := c.session.World()
	c.send(ctx, msg, protocol.TypeRegionSelected, protocol.RegionSelectedPayload{
		Region: regionState(w, c.session.Map(), w.Region(res.Region)),
	})
	return nil
}

func (c *Client) handleInvest(ctx context.Context, msg *protocol.Message) error {
	var payload protocol.InvestPayload
	if err := parse(msg, &payload); err != nil {
		return err
	}
	res, err := c.observe(c.session.Invest(ctx, payload.Region, payload.Development))
	return c.reply(ctx, msg, res, err)
}

func (c *Client) handleRecruit(ctx context.Context, msg *protocol.Message) error {
	var payload protocol.RecruitPayload
	if err := parse(msg, &payload); err != nil {
		return err
	}
	res, err := c.observe(c.session.Recruit(ctx, payload.Region, payload.Amount))
	return c.reply(ctx, msg, res, err)
}

func (c *Client) handleAttack(ctx context.Context, msg *protocol.Message) error {
	var payload protocol.AttackPayload
	if err := parse(msg, &payload); err != nil {
		return err
	}
	res, err := c.observe(c.session.AttackOrder(ctx, payload.Order()))
	return c.reply(ctx, msg, res, err)
}

func (c *Client) handleEndTurn(ctx context.Context, msg *protocol.Message) error {
	res, err := c.observe(c.session.AdvanceTurn(ctx))
	if err != nil {
		return err
	}
	c.send(ctx, msg, protocol.TypeTurnReport, protocol.TurnReportPayload{
		Report: res.TurnReport,
		State:  buildGameState(c.session),
	})
	return nil
}

func (c *Client) handleSave(ctx context.Context, msg *protocol.Message) error {
	var payload protocol.SlotPayload
	if err := parse(msg, &payload); err != nil {
		return err
	}
	res, err := c.observe(c.session.SaveTo(ctx, payload.Slot))
	return c.reply(ctx, msg, res, err)
}

func (c *Client) handleLoad(ctx context.Context, msg *protocol.Message) error {
	var payload protocol.SlotPayload
	if err := parse(msg, &payload); err != nil {
		return err
	}
	res, err := c.observe(c.session.LoadFrom(ctx, payload.Slot))
	return c.reply(ctx, msg, res, err)
}

// observe counts the result in the metrics and passes it through.
func (c *Client) observe(res *session.Result, err error) (*session.Result, error) {
	c.server.metrics.ObserveResult(res)
	return res, err
}

// reply sends an action result, or returns the error for the caller to report.
func (c *Client) reply(ctx context.Context, req *protocol.Message, res *session.Result, err error) error {
	if err != nil {
		return err
	}
	c.send(ctx, req, protocol.TypeActionResult, protocol.ActionResultPayload{Result: res})
	return nil
}

func (c *Client) sendError(ctx context.Context, req *protocol.Message, err error) {
	payload := protocol.NewErrorPayload(err)
	if payload.Code == protocol.ErrCodeInternalError {
		c.logger.Error().Err(err).Msg("Request failed")
	} else {
		c.logger.Debug().Err(err).Str("code", string(payload.Code)).Msg("Request rejected")
	}
	c.send(ctx, req, protocol.TypeError, payload)
}

// send writes one message. Write failures end the connection through the read loop.
func (c *Client) send(ctx context.Context, req *protocol.Message, msgType protocol.MessageType, payload interface{}) {
	msg, err := protocol.NewReply(req, msgType, payload)
	if err != nil {
		c.logger.Error().Err(err).Str("type", string(msgType)).Msg("Failed to marshal message")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	if err := wsjson.Write(ctx, c.conn, msg); err != nil {
		c.logger.Debug().Err(err).Msg("WebSocket write failed")
		c.conn.CloseNow()
	}
}

func parse(msg *protocol.Message, v interface{}) error {
	if err := msg.ParsePayload(v); err != nil {
		return fmt.Errorf("%w: %v", protocol.ErrInvalidPayload, err)
	}
	return nil
}
