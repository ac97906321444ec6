// Package client implements a Province War websocket client.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog/log"

	"provincewar/internal/protocol"
)

// ErrClosed is returned by Call after the connection has closed.
var ErrClosed = errors.New("connection closed")

const dialTimeout = 10 * time.Second

// NetworkClient handles WebSocket communication with the server.
// Call is safe for concurrent use; replies are matched to requests by message id.
type NetworkClient struct {
	conn *websocket.Conn

	mu      sync.Mutex
	pending map[string]chan *protocol.Message
	closed  bool

	events chan *protocol.Message
	done   chan struct{}
	err    error
}

// Dial connects to a server. addr may be host:port, an http(s) URL or a ws(s) URL.
func Dial(ctx context.Context, addr string) (*NetworkClient, error) {
	url := WebSocketURL(addr)
	log.Debug().Str("url", url).Msg("Connecting")

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &NetworkClient{
		conn:    conn,
		pending: make(map[string]chan *protocol.Message),
		events:  make(chan *protocol.Message, 16),
		done:    make(chan struct{}),
	}
	go c.readPump()
	return c, nil
}

// WebSocketURL turns a server address into the websocket endpoint URL.
func WebSocketURL(addr string) string {
	switch {
	case strings.HasPrefix(addr, "ws://"), strings.HasPrefix(addr, "wss://"):
	case strings.HasPrefix(addr, "http://"):
		addr = "ws://" + strings.TrimPrefix(addr, "http://")
	case strings.HasPrefix(addr, "https://"):
		addr = "wss://" + strings.TrimPrefix(addr, "https://")
	default:
		addr = "ws://" + addr
	}
	addr = strings.TrimSuffix(addr, "/")
	if !strings.HasSuffix(addr, "/ws") {
		addr += "/ws"
	}
	return addr
}

// Events returns messages that are not replies, such as the welcome message.
// The channel is closed when the connection ends.
func (c *NetworkClient) Events() <-chan *protocol.Message {
	return c.events
}

// Welcome waits for the server's welcome message.
func (c *NetworkClient) Welcome(ctx context.Context) (*protocol.WelcomePayload, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case msg, ok := <-c.events:
			if !ok {
				return nil, c.closeErr()
			}
			if msg.Type != protocol.TypeWelcome {
				continue
			}
			var payload protocol.WelcomePayload
			if err := msg.ParsePayload(&payload); err != nil {
				return nil, err
			}
			return &payload, nil
		}
	}
}

// Call sends a request and waits for the reply with the same id. An error reply
// is returned as a protocol.ErrorPayload. When out is non-nil the reply payload
// is decoded into it.
func (c *NetworkClient) Call(ctx context.Context, msgType protocol.MessageType, payload, out interface{}) (*protocol.Message, error) {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return nil, err
	}

	reply := make(chan *protocol.Message, 1)
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, c.closeErr()
	}
	c.pending[msg.ID] = reply
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, msg.ID)
		c.mu.Unlock()
	}()

	if err := wsjson.Write(ctx, c.conn, msg); err != nil {
		return nil, fmt.Errorf("write %s: %w", msgType, err)
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, c.closeErr()
	case resp := <-reply:
		if resp.Type == protocol.TypeError {
			var e protocol.ErrorPayload
			if err := resp.ParsePayload(&e); err != nil {
				return resp, err
			}
			return resp, e
		}
		if out != nil {
			if err := resp.ParsePayload(out); err != nil {
				return resp, err
			}
		}
		return resp, nil
	}
}

// Close closes the connection.
func (c *NetworkClient) Close() error {
	err := c.conn.Close(websocket.StatusNormalClosure, "")
	<-c.done
	if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
		return nil
	}
	return err
}

func (c *NetworkClient) closeErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return fmt.Errorf("%w: %v", ErrClosed, c.err)
	}
	return ErrClosed
}

// readPump reads messages and routes replies to their callers.
func (c *NetworkClient) readPump() {
	defer func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
		close(c.events)
	}()

	for {
		msgType, data, err := c.conn.Read(context.Background())
		if err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				log.Debug().Err(err).Msg("WebSocket read error")
				c.mu.Lock()
				c.err = err
				c.mu.Unlock()
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg protocol.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Warn().Err(err).Msg("Failed to unmarshal message")
			continue
		}

		c.mu.Lock()
		reply, ok := c.pending[msg.ID]
		c.mu.Unlock()
		if ok {
			reply <- &msg
			continue
		}

		select {
		case c.events <- &msg:
		default:
			log.Warn().Str("type", string(msg.Type)).Msg("Event channel full, dropping message")
		}
	}
}
