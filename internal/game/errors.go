package game

import "errors"

// Game errors
var (
	ErrInvalidSelection       = errors.New("no owned region selected")
	ErrInsufficientResources  = errors.New("insufficient resources")
	ErrNoTarget               = errors.New("no adjacent enemy region")
	ErrNoArmy                 = errors.New("no army to attack with")
	ErrPersistenceUnavailable = errors.New("save data unavailable")
	ErrInvalidTarget          = errors.New("invalid target")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrUnknownRegion          = errors.New("unknown region")
	ErrNoFactions             = errors.New("no AI factions configured")
)

// OutcomeKind classifies the result of an engine operation for the shell.
type OutcomeKind string

const (
	OutcomeOK                     OutcomeKind = "ok"
	OutcomeOccupied               OutcomeKind = "occupied"
	OutcomePlundered              OutcomeKind = "plundered"
	OutcomeRepelled               OutcomeKind = "repelled"
	OutcomeInvalidSelection       OutcomeKind = "invalid_selection"
	OutcomeInsufficientResources  OutcomeKind = "insufficient_resources"
	OutcomeNoTarget               OutcomeKind = "no_target"
	OutcomeNoArmy                 OutcomeKind = "no_army"
	OutcomePersistenceUnavailable OutcomeKind = "persistence_unavailable"
	OutcomeInvalidTarget          OutcomeKind = "invalid_target"
	OutcomeInvalidAmount          OutcomeKind = "invalid_amount"
	OutcomeUnknownRegion          OutcomeKind = "unknown_region"
	OutcomeFailed                 OutcomeKind = "failed"
)

// Kind maps an error returned by the engine to its outcome kind.
// A nil error is OutcomeOK; errors outside the taxonomy are OutcomeFailed.
func Kind(err error) OutcomeKind {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInvalidSelection):
		return OutcomeInvalidSelection
	case errors.Is(err, ErrInsufficientResources):
		return OutcomeInsufficientResources
	case errors.Is(err, ErrNoTarget):
		return OutcomeNoTarget
	case errors.Is(err, ErrNoArmy):
		return OutcomeNoArmy
	case errors.Is(err, ErrPersistenceUnavailable):
		return OutcomePersistenceUnavailable
	case errors.Is(err, ErrInvalidTarget):
		return OutcomeInvalidTarget
	case errors.Is(err, ErrInvalidAmount):
		return OutcomeInvalidAmount
	case errors.Is(err, ErrUnknownRegion):
		return OutcomeUnknownRegion
	default:
		return OutcomeFailed
	}
}
