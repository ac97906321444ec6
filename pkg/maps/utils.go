package maps

import "strings"

// Slug converts a region name to a lowercase dash-separated key.
func Slug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// Resolve finds the canonical region name for user input.
// It accepts the exact name, the local name, or the slug, ignoring case.
func (m *Map) Resolve(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if r, ok := m.byName[input]; ok {
		return r.Name, true
	}

	key := Slug(input)
	for _, r := range m.Regions {
		if r.LocalName == input || Slug(r.Name) == key {
			return r.Name, true
		}
	}
	return "", false
}

func contains(slice []string, val string) bool {
	for _, v := range slice {
		if v == val {
			return true
		}
	}
	return false
}
