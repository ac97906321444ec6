// Package game contains the simulation engine for Province War.
// It has no knowledge of rendering or transport; shells drive it through sessions.
package game

import "fmt"

// DefaultPlayerName is used when a new game is started with a blank name.
const DefaultPlayerName = "Player"

// Status describes whether the game is still being played.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusVictory    Status = "victory"
	StatusDefeated   Status = "defeated"
)

// World holds every region plus the player identity and turn counter.
type World struct {
	PlayerID          string
	PlayerStartRegion string
	Turn              int

	graph   *AdjacencyGraph
	order   []string
	regions map[string]*Region

	// Selection cursor, never persisted
	selected  string
	cursorIdx int
}

// NewWorld creates an empty world for a player on the given map.
func NewWorld(playerID string, graph *AdjacencyGraph) *World {
	if graph == nil {
		graph = NewAdjacencyGraph(nil)
	}
	return &World{
		PlayerID: playerID,
		graph:    graph,
		regions:  make(map[string]*Region),
	}
}

// Graph returns the map topology the world was built on.
func (w *World) Graph() *AdjacencyGraph {
	return w.graph
}

// Neighbors returns the ordered neighbors of a region. Regions unknown to the map have none.
func (w *World) Neighbors(name string) []string {
	return w.graph.Neighbors(name)
}

// AddRegion stores a region, appending it to the world order if it is new.
func (w *World) AddRegion(r *Region) {
	if _, ok := w.regions[r.Name]; !ok {
		w.order = append(w.order, r.Name)
	}
	w.regions[r.Name] = r
}

// Region returns a region by name, or nil if it does not exist.
func (w *World) Region(name string) *Region {
	return w.regions[name]
}

// RegionNames returns every region name in world order.
func (w *World) RegionNames() []string {
	return append([]string(nil), w.order...)
}

// Regions returns every region in world order.
func (w *World) Regions() []*Region {
	out := make([]*Region, 0, len(w.order))
	for _, name := range w.order {
		out = append(out, w.regions[name])
	}
	return out
}

// Len returns the number of regions.
func (w *World) Len() int {
	return len(w.order)
}

// IsPlayerRegion returns true if the region exists and belongs to the player.
func (w *World) IsPlayerRegion(name string) bool {
	r := w.regions[name]
	return r != nil && r.Owner == w.PlayerID
}

// OwnedRegions returns the names of the regions owned by owner, in world order.
func (w *World) OwnedRegions(owner string) []string {
	var owned []string
	for _, name := range w.order {
		if w.regions[name].Owner == owner {
			owned = append(owned, name)
		}
	}
	return owned
}

// playerRegion looks up a region the player is allowed to act from.
func (w *World) playerRegion(name string) (*Region, error) {
	if !w.IsPlayerRegion(name) {
		return nil, fmt.Errorf("region %q: %w", name, ErrInvalidSelection)
	}
	return w.regions[name], nil
}

// Status reports victory when the player owns every region and defeat when it owns none.
func (w *World) Status() Status {
	owned := len(w.OwnedRegions(w.PlayerID))
	switch {
	case owned == 0:
		return StatusDefeated
	case owned == len(w.order):
		return StatusVictory
	default:
		return StatusInProgress
	}
}

// Clone returns a deep copy of the world, selection included.
func (w *World) Clone() *World {
	c := &World{
		PlayerID:          w.PlayerID,
		PlayerStartRegion: w.PlayerStartRegion,
		Turn:              w.Turn,
		graph:             w.graph,
		order:             append([]string(nil), w.order...),
		regions:           make(map[string]*Region, len(w.regions)),
		selected:          w.selected,
		cursorIdx:         w.cursorIdx,
	}
	for name, r := range w.regions {
		c.regions[name] = r.Clone()
	}
	return c
}
