// Package protocol defines the network message types for client-server communication.
package protocol

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// MessageType identifies the type of message.
type MessageType string

// Request message types
const (
	TypeNewGame      MessageType = "new_game"
	TypeSelectRegion MessageType = "select_region"
	TypeInvest       MessageType = "invest"
	TypeRecruit      MessageType = "recruit"
	TypeAttack       MessageType = "attack"
	TypeEndTurn      MessageType = "end_turn"
	TypeSave         MessageType = "save"
	TypeLoad         MessageType = "load"
	TypeGetState     MessageType = "get_state"
)

// Response message types
const (
	TypeWelcome        MessageType = "welcome"
	TypeGameState      MessageType = "game_state"
	TypeRegionSelected MessageType = "region_selected"
	TypeActionResult   MessageType = "action_result"
	TypeTurnReport     MessageType = "turn_report"
	TypeError          MessageType = "error"
)

// Message is the envelope for all messages.
type Message struct {
	Type      MessageType     `json:"type"`
	ID        string          `json:"id"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewMessage creates a new message with the given type and payload.
func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UnixMilli(),
		Payload:   data,
	}, nil
}

// NewReply creates a response that carries the request's id.
func NewReply(req *Message, msgType MessageType, payload interface{}) (*Message, error) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		return nil, err
	}
	if req != nil && req.ID != "" {
		msg.ID = req.ID
	}
	return msg, nil
}

// ParsePayload unmarshals the payload into the given type.
// An absent payload leaves v untouched.
func (m *Message) ParsePayload(v interface{}) error {
	if len(m.Payload) == 0 || string(m.Payload) == "null" {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}
