package game

import "sort"

// Snapshot is the persisted form of a world. The selection cursor is not part of it.
type Snapshot struct {
	PlayerName        string                    `json:"playerName"`
	PlayerStartRegion string                    `json:"playerStartRegionName"`
	Turn              int                       `json:"turn"`
	Regions           map[string]RegionSnapshot `json:"regions"`
}

// RegionSnapshot holds the persisted fields of one region.
type RegionSnapshot struct {
	Owner       string `json:"owner"`
	Gold        int    `json:"gold"`
	Food        int    `json:"food"`
	Population  int    `json:"population"`
	Agriculture int    `json:"agriculture"`
	Commerce    int    `json:"commerce"`
	Security    int    `json:"security"`
	Army        int    `json:"army"`
}

// Snapshot captures every persisted field of the world.
func (w *World) Snapshot() *Snapshot {
	s := &Snapshot{
		PlayerName:        w.PlayerID,
		PlayerStartRegion: w.PlayerStartRegion,
		Turn:              w.Turn,
		Regions:           make(map[string]RegionSnapshot, len(w.order)),
	}
	for _, name := range w.order {
		r := w.regions[name]
		s.Regions[name] = RegionSnapshot{
			Owner:       r.Owner,
			Gold:        r.Gold,
			Food:        r.Food,
			Population:  r.Population,
			Agriculture: r.Agriculture,
			Commerce:    r.Commerce,
			Security:    r.Security,
			Army:        r.Army,
		}
	}
	return s
}

// Restore overwrites the world from a snapshot and clears the selection.
// Regions missing from the world are created; their names are returned so callers
// can report entries the map does not know about.
func (w *World) Restore(s *Snapshot) (created []string) {
	w.PlayerID = s.PlayerName
	w.PlayerStartRegion = s.PlayerStartRegion
	w.Turn = s.Turn
	w.ClearSelection()

	for _, name := range s.orderedNames(w) {
		rs := s.Regions[name]
		r := w.regions[name]
		if r == nil {
			r = &Region{Name: name}
			w.AddRegion(r)
			created = append(created, name)
		}
		r.Owner = rs.Owner
		r.Gold = rs.Gold
		r.Food = rs.Food
		r.Population = rs.Population
		r.Agriculture = rs.Agriculture
		r.Commerce = rs.Commerce
		r.Security = rs.Security
		r.Army = rs.Army
	}
	return created
}

// orderedNames lists the snapshot's regions, world and map order first, then any
// remaining names sorted so restores are deterministic.
func (s *Snapshot) orderedNames(w *World) []string {
	seen := make(map[string]bool, len(s.Regions))
	var names []string
	add := func(name string) {
		if _, ok := s.Regions[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	for _, name := range w.order {
		add(name)
	}
	for _, name := range w.graph.Regions() {
		add(name)
	}

	var rest []string
	for name := range s.Regions {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}
