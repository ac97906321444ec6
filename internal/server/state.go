package server

import (
	"provincewar/internal/game"
	"provincewar/internal/protocol"
	"provincewar/internal/session"
	"provincewar/pkg/maps"
)

// buildGameState renders the session's world for a client.
func buildGameState(s *session.Session) protocol.GameStatePayload {
	state := protocol.GameStatePayload{Slot: s.Slot()}
	w := s.World()
	if w == nil {
		return state
	}

	state.Started = true
	state.PlayerName = w.PlayerID
	state.StartRegion = w.PlayerStartRegion
	state.Turn = w.Turn
	state.Selected = w.Selected()
	state.Status = w.Status()
	for _, r := range w.Regions() {
		state.Regions = append(state.Regions, regionState(w, s.Map(), r))
	}
	return state
}

func regionState(w *game.World, m *maps.Map, r *game.Region) protocol.RegionState {
	if r == nil {
		return protocol.RegionState{}
	}
	rs := protocol.RegionState{
		Name:        r.Name,
		Owner:       r.Owner,
		Gold:        r.Gold,
		Food:        r.Food,
		Population:  r.Population,
		Agriculture: r.Agriculture,
		Commerce:    r.Commerce,
		Security:    r.Security,
		Army:        r.Army,
		Neighbors:   w.Neighbors(r.Name),
	}
	if mr := m.GetRegion(r.Name); mr != nil {
		rs.LocalName = mr.LocalName
	}
	return rs
}
