package game

import (
	"github.com/rs/zerolog/log"
)

// AIAction is what an AI faction did with one of its regions at the end of a turn.
type AIAction string

const (
	AIInvest  AIAction = "invest"
	AIRecruit AIAction = "recruit"
)

// AIDecision records one AI action taken during an end-of-turn advance.
type AIDecision struct {
	Region      string      `json:"region"`
	Owner       string      `json:"owner"`
	Action      AIAction    `json:"action"`
	Development Development `json:"development,omitempty"`
	Amount      int         `json:"amount,omitempty"`
	Applied     bool        `json:"applied"`
}

// TurnReport summarizes an end-of-turn advance.
type TurnReport struct {
	Turn      int          `json:"turn"`
	Decisions []AIDecision `json:"decisions"`
	Status    Status       `json:"status"`
}

// AdvanceTurn ends the current turn.
// Every region grows first, then each AI region acts once, in world order.
func (e *Engine) AdvanceTurn(w *World) *TurnReport {
	for _, r := range w.Regions() {
		r.AdvanceTurn(e.Rules)
	}

	report := &TurnReport{Decisions: make([]AIDecision, 0)}
	for _, r := range w.Regions() {
		if r.Owner == w.PlayerID {
			continue
		}
		if d, ok := e.decideAI(r); ok {
			report.Decisions = append(report.Decisions, d)
		}
	}

	w.Turn++
	report.Turn = w.Turn
	report.Status = w.Status()

	log.Debug().
		Int("turn", report.Turn).
		Int("aiDecisions", len(report.Decisions)).
		Msg("Turn advanced")

	return report
}

// decideAI applies the AI policy to one region. AI regions never attack.
func (e *Engine) decideAI(r *Region) (AIDecision, bool) {
	switch {
	case r.Gold > e.Rules.AIInvestGold:
		dev := Choose(e.rng, Developments)
		return AIDecision{
			Region:      r.Name,
			Owner:       r.Owner,
			Action:      AIInvest,
			Development: dev,
			Amount:      1,
			Applied:     r.Invest(dev, e.Rules),
		}, true

	case r.Food > e.Rules.AIRecruitFood && r.Population > e.Rules.AIRecruitPopulation:
		amount := e.rng.IntRange(e.Rules.AIRecruitMin, e.Rules.AIRecruitMax)
		return AIDecision{
			Region:  r.Name,
			Owner:   r.Owner,
			Action:  AIRecruit,
			Amount:  amount,
			Applied: r.Recruit(amount, e.Rules),
		}, true

	default:
		return AIDecision{}, false
	}
}
