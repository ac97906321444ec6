// Package maps handles map loading, validation and lookup.
package maps

import "provincewar/internal/game"

// RawMap is the format stored in JSON files.
type RawMap struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	DefaultStart string      `json:"defaultStart,omitempty"`
	Regions      []RawRegion `json:"regions"`  // Canonical world order
	Factions     []string    `json:"factions"` // AI faction names
}

// RawRegion is region data from the JSON file.
type RawRegion struct {
	Name      string   `json:"name"`
	LocalName string   `json:"localName,omitempty"`
	Adjacent  []string `json:"adjacent"` // Ordered; the first enemy neighbor is the default attack target
}

// Map is the processed, runtime map data.
type Map struct {
	ID           string
	Name         string
	DefaultStart string
	Factions     []string

	// Regions in canonical order
	Regions []*Region

	byName map[string]*Region
	graph  *game.AdjacencyGraph
}

// Region represents a region on the map.
type Region struct {
	Index     int
	Name      string
	LocalName string
	Adjacent  []string
}

// GetRegion returns a region by name.
func (m *Map) GetRegion(name string) *Region {
	return m.byName[name]
}

// RegionNames returns the region names in canonical order.
func (m *Map) RegionNames() []string {
	names := make([]string, len(m.Regions))
	for i, r := range m.Regions {
		names[i] = r.Name
	}
	return names
}

// RegionCount returns the number of regions.
func (m *Map) RegionCount() int {
	return len(m.Regions)
}

// IsAdjacent returns true if b is listed as a neighbor of a.
func (m *Map) IsAdjacent(a, b string) bool {
	return m.graph.IsAdjacent(a, b)
}

// Graph returns the adjacency graph the engine plays on.
func (m *Map) Graph() *game.AdjacencyGraph {
	return m.graph
}
