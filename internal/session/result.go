package session

import "provincewar/internal/game"

// Action names a session operation.
type Action string

const (
	ActionNewGame Action = "new_game"
	ActionSelect  Action = "select_region"
	ActionInvest  Action = "invest"
	ActionRecruit Action = "recruit"
	ActionAttack  Action = "attack"
	ActionEndTurn Action = "end_turn"
	ActionSave    Action = "save"
	ActionLoad    Action = "load"
)

// OutcomeNoGame is the outcome of a world operation attempted before a game exists.
const OutcomeNoGame game.OutcomeKind = "no_game"

// Result is the structured outcome of a session operation. It carries no display text.
// Operations always return a Result; the error is non-nil exactly when Success is false.
type Result struct {
	Action      Action             `json:"action"`
	Success     bool               `json:"success"`
	Outcome     game.OutcomeKind   `json:"outcome"`
	Region      string             `json:"region,omitempty"`
	Development game.Development   `json:"development,omitempty"`
	Amount      int                `json:"amount,omitempty"`
	Slot        string             `json:"slot,omitempty"`
	Deltas      *Deltas            `json:"deltas,omitempty"`
	Attack      *game.AttackResult `json:"attack,omitempty"`
	TurnReport  *game.TurnReport   `json:"turnReport,omitempty"`
	Status      game.Status        `json:"status,omitempty"`
}

// Deltas is the change of one region's fields caused by an action.
type Deltas struct {
	Gold        int `json:"gold"`
	Food        int `json:"food"`
	Population  int `json:"population"`
	Agriculture int `json:"agriculture"`
	Commerce    int `json:"commerce"`
	Security    int `json:"security"`
	Army        int `json:"army"`
}

func diff(before, after *game.Region) *Deltas {
	return &Deltas{
		Gold:        after.Gold - before.Gold,
		Food:        after.Food - before.Food,
		Population:  after.Population - before.Population,
		Agriculture: after.Agriculture - before.Agriculture,
		Commerce:    after.Commerce - before.Commerce,
		Security:    after.Security - before.Security,
		Army:        after.Army - before.Army,
	}
}
