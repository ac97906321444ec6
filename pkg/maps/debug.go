package maps

import (
	"fmt"
	"strings"
)

// Debug returns a string visualization of the map.
func (m *Map) Debug() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Map: %s (%s)\n", m.Name, m.ID))
	sb.WriteString(fmt.Sprintf("Regions: %d\n", len(m.Regions)))
	sb.WriteString(fmt.Sprintf("Factions: %d\n", len(m.Factions)))
	sb.WriteString(fmt.Sprintf("Default start: %s\n", m.DefaultStart))

	// Print region details
	sb.WriteString("\nRegions:\n")
	for _, r := range m.Regions {
		if r.LocalName != "" {
			sb.WriteString(fmt.Sprintf("  %2d. %s (%s)\n", r.Index+1, r.Name, r.LocalName))
		} else {
			sb.WriteString(fmt.Sprintf("  %2d. %s\n", r.Index+1, r.Name))
		}
		sb.WriteString(fmt.Sprintf("      Adjacent: %s\n", strings.Join(r.Adjacent, ", ")))
	}

	if asym := m.Asymmetries(); len(asym) > 0 {
		sb.WriteString("\nOne-way adjacencies:\n")
		for _, pair := range asym {
			sb.WriteString(fmt.Sprintf("  %s -> %s\n", pair[0], pair[1]))
		}
	}

	if comps := m.Components(); len(comps) > 1 {
		sb.WriteString(fmt.Sprintf("\nDisconnected: %d components\n", len(comps)))
	}

	return sb.String()
}

// PrintAdjacencyMatrix prints which regions are adjacent.
func (m *Map) PrintAdjacencyMatrix() string {
	var sb strings.Builder

	n := len(m.Regions)
	sb.WriteString("Adjacency Matrix:\n   ")
	for i := 1; i <= n; i++ {
		sb.WriteString(fmt.Sprintf("%2d ", i))
	}
	sb.WriteString("\n")

	for i, from := range m.Regions {
		sb.WriteString(fmt.Sprintf("%2d:", i+1))
		for j, to := range m.Regions {
			if i == j {
				sb.WriteString(" - ")
			} else if contains(from.Adjacent, to.Name) {
				sb.WriteString(" X ")
			} else {
				sb.WriteString(" . ")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
