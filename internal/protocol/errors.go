package protocol

import (
	"errors"
	"fmt"

	"provincewar/internal/game"
	"provincewar/internal/session"
)

// ErrorCode represents an error type.
type ErrorCode string

const (
	ErrCodeInvalidSelection       ErrorCode = "invalid_selection"
	ErrCodeInsufficientResources  ErrorCode = "insufficient_resources"
	ErrCodeNoTarget               ErrorCode = "no_target"
	ErrCodeNoArmy                 ErrorCode = "no_army"
	ErrCodePersistenceUnavailable ErrorCode = "persistence_unavailable"
	ErrCodeInvalidTarget          ErrorCode = "invalid_target"
	ErrCodeInvalidAmount          ErrorCode = "invalid_amount"
	ErrCodeUnknownRegion          ErrorCode = "unknown_region"
	ErrCodeNoGame                 ErrorCode = "no_game"
	ErrCodeInvalidPayload         ErrorCode = "invalid_payload"
	ErrCodeUnknownMessage         ErrorCode = "unknown_message"
	ErrCodeInternalError          ErrorCode = "internal_error"
)

// Protocol-level errors raised before a request reaches the session.
var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrUnknownMessage = errors.New("unknown message type")
)

var codes = []struct {
	err  error
	code ErrorCode
}{
	{game.ErrInvalidSelection, ErrCodeInvalidSelection},
	{game.ErrInsufficientResources, ErrCodeInsufficientResources},
	{game.ErrNoTarget, ErrCodeNoTarget},
	{game.ErrNoArmy, ErrCodeNoArmy},
	{game.ErrPersistenceUnavailable, ErrCodePersistenceUnavailable},
	{game.ErrInvalidTarget, ErrCodeInvalidTarget},
	{game.ErrInvalidAmount, ErrCodeInvalidAmount},
	{game.ErrUnknownRegion, ErrCodeUnknownRegion},
	{session.ErrNoGame, ErrCodeNoGame},
	{ErrInvalidPayload, ErrCodeInvalidPayload},
	{ErrUnknownMessage, ErrCodeUnknownMessage},
}

// CodeFor maps an error to its wire code. Unrecognized errors are internal.
func CodeFor(err error) ErrorCode {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ErrCodeInternalError
}

// ErrorPayload is the payload for error messages.
type ErrorPayload struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// NewErrorPayload builds the payload sent for a failed request.
func NewErrorPayload(err error) ErrorPayload {
	code := CodeFor(err)
	msg := err.Error()
	if code == ErrCodeInternalError {
		msg = "internal error"
	}
	return ErrorPayload{Code: code, Message: msg}
}

// Error implements error so clients can return the payload directly.
func (p ErrorPayload) Error() string {
	return fmt.Sprintf("%s: %s", p.Code, p.Message)
}
