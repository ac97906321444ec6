package game

// AdjacencyGraph is the static, ordered map topology.
// Both the region order and each neighbor list order are significant.
type AdjacencyGraph struct {
	order     []string
	neighbors map[string][]string
}

// GraphEntry is one region and its ordered neighbors.
type GraphEntry struct {
	Name      string
	Neighbors []string
}

// NewAdjacencyGraph builds a graph from ordered entries.
// A repeated name keeps its first position and takes the last neighbor list.
func NewAdjacencyGraph(entries []GraphEntry) *AdjacencyGraph {
	g := &AdjacencyGraph{
		neighbors: make(map[string][]string, len(entries)),
	}
	for _, e := range entries {
		if _, ok := g.neighbors[e.Name]; !ok {
			g.order = append(g.order, e.Name)
		}
		g.neighbors[e.Name] = append([]string(nil), e.Neighbors...)
	}
	return g
}

// Regions returns the region names in canonical order.
func (g *AdjacencyGraph) Regions() []string {
	return append([]string(nil), g.order...)
}

// Neighbors returns the ordered neighbors of a region, or nil if it is unknown.
func (g *AdjacencyGraph) Neighbors(name string) []string {
	return g.neighbors[name]
}

// Has returns true if the graph knows the region.
func (g *AdjacencyGraph) Has(name string) bool {
	_, ok := g.neighbors[name]
	return ok
}

// IsAdjacent returns true if b is listed as a neighbor of a.
func (g *AdjacencyGraph) IsAdjacent(a, b string) bool {
	for _, n := range g.neighbors[a] {
		if n == b {
			return true
		}
	}
	return false
}

// Len returns the number of regions.
func (g *AdjacencyGraph) Len() int {
	return len(g.order)
}
