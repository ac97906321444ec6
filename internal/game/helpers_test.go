package game

// scriptedRandom replays fixed values. Once a queue is exhausted it returns zero values
// (the low end for IntRange).
type scriptedRandom struct {
	floats []float64
	ints   []int
}

func (s *scriptedRandom) Float64() float64 {
	if len(s.floats) == 0 {
		return 0
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptedRandom) Intn(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptedRandom) IntRange(lo, hi int) int {
	if len(s.ints) == 0 {
		return lo
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < lo || v > hi {
		return lo
	}
	return v
}

// lineGraph builds A - B - C - D.
func lineGraph() *AdjacencyGraph {
	return NewAdjacencyGraph([]GraphEntry{
		{Name: "A", Neighbors: []string{"B"}},
		{Name: "B", Neighbors: []string{"A", "C"}},
		{Name: "C", Neighbors: []string{"B", "D"}},
		{Name: "D", Neighbors: []string{"C"}},
	})
}

// createTestWorld builds a world on lineGraph with the given owners and default resources.
func createTestWorld(owners map[string]string) *World {
	rules := DefaultRules()
	graph := lineGraph()
	w := NewWorld("me", graph)
	for _, name := range graph.Regions() {
		r := NewRegion(name, rules)
		r.Owner = owners[name]
		w.AddRegion(r)
	}
	return w
}

func assertNonNegative(r *Region) bool {
	return r.Gold >= 0 && r.Food >= 0 && r.Population >= 0 &&
		r.Agriculture >= 0 && r.Commerce >= 0 && r.Security >= 0 && r.Army >= 0
}
