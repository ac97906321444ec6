package maps

import (
	"provincewar/internal/game"
)

// Process takes a validated raw map and computes all derived data.
func Process(raw *RawMap) *Map {
	m := &Map{
		ID:           raw.ID,
		Name:         raw.Name,
		DefaultStart: raw.DefaultStart,
		Factions:     append([]string(nil), raw.Factions...),
		byName:       make(map[string]*Region, len(raw.Regions)),
	}

	// Step 1: Create regions in file order
	entries := make([]game.GraphEntry, 0, len(raw.Regions))
	for i, rr := range raw.Regions {
		r := &Region{
			Index:     i,
			Name:      rr.Name,
			LocalName: rr.LocalName,
			Adjacent:  append([]string(nil), rr.Adjacent...),
		}
		m.Regions = append(m.Regions, r)
		m.byName[r.Name] = r
		entries = append(entries, game.GraphEntry{Name: r.Name, Neighbors: r.Adjacent})
	}

	// Step 2: Fall back to the first region when no start is given
	if m.DefaultStart == "" && len(m.Regions) > 0 {
		m.DefaultStart = m.Regions[0].Name
	}

	// Step 3: Build the engine graph
	m.graph = game.NewAdjacencyGraph(entries)

	return m
}

// Asymmetries returns every one-way adjacency as [from, to] pairs.
// Adjacency is stored per region and symmetry is not required, but the shipped maps have none.
func (m *Map) Asymmetries() [][2]string {
	var out [][2]string
	for _, r := range m.Regions {
		for _, n := range r.Adjacent {
			if !m.IsAdjacent(n, r.Name) {
				out = append(out, [2]string{r.Name, n})
			}
		}
	}
	return out
}

// Components groups regions into connected components, each in canonical order.
func (m *Map) Components() [][]string {
	visited := make(map[string]bool, len(m.Regions))
	var components [][]string

	for _, start := range m.Regions {
		if visited[start.Name] {
			continue
		}

		// Flood fill over undirected edges
		member := make(map[string]bool)
		stack := []string{start.Name}
		visited[start.Name] = true
		for len(stack) > 0 {
			name := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			member[name] = true
			for _, n := range m.undirectedNeighbors(name) {
				if !visited[n] {
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}

		var comp []string
		for _, r := range m.Regions {
			if member[r.Name] {
				comp = append(comp, r.Name)
			}
		}
		components = append(components, comp)
	}

	return components
}

func (m *Map) undirectedNeighbors(name string) []string {
	out := append([]string(nil), m.byName[name].Adjacent...)
	for _, r := range m.Regions {
		if r.Name != name && contains(r.Adjacent, name) && !contains(out, r.Name) {
			out = append(out, r.Name)
		}
	}
	return out
}
