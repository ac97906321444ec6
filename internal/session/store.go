package session

import (
	"context"
	"time"

	"provincewar/internal/game"
)

// DefaultSlot is the save slot used when none is given.
const DefaultSlot = "savefile"

// Store persists world snapshots by slot.
// Load returns an error wrapping game.ErrPersistenceUnavailable when the slot has no save.
type Store interface {
	Save(ctx context.Context, slot string, snap *game.Snapshot) error
	Load(ctx context.Context, slot string) (*game.Snapshot, error)
}

// Lister is implemented by stores that can enumerate their saves.
type Lister interface {
	List(ctx context.Context) ([]SaveInfo, error)
}

// Deleter is implemented by stores that can remove a slot.
// Delete returns an error wrapping game.ErrPersistenceUnavailable when the slot does not exist.
type Deleter interface {
	Delete(ctx context.Context, slot string) error
}

// SaveInfo describes one stored save for listings.
type SaveInfo struct {
	Slot        string    `json:"slot" db:"slot"`
	ID          string    `json:"id,omitempty" db:"id"`
	PlayerName  string    `json:"playerName" db:"player_name"`
	StartRegion string    `json:"playerStartRegionName" db:"start_region"`
	Turn        int       `json:"turn" db:"turn"`
	Owned       int       `json:"ownedRegions" db:"owned_regions"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Journal records game events for a slot.
type Journal interface {
	Record(ctx context.Context, slot string, turn int, kind, region string, detail any) error
}

// Event kinds written to the journal.
const (
	EventNewGame = "new_game"
	EventInvest  = "invest"
	EventRecruit = "recruit"
	EventAttack  = "attack"
	EventTurnEnd = "turn_end"
	EventSave    = "save"
	EventLoad    = "load"
)

// OwnedRegions counts the regions in a snapshot held by its player.
func OwnedRegions(snap *game.Snapshot) int {
	n := 0
	for _, r := range snap.Regions {
		if r.Owner == snap.PlayerName {
			n++
		}
	}
	return n
}
