package maps

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"sync"
)

//go:embed data/*.json
var mapFiles embed.FS

// DefaultMapID is the map used when none is configured.
const DefaultMapID = "korea"

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Map)
)

// LoadAll loads all embedded maps into the registry.
func LoadAll() error {
	entries, err := mapFiles.ReadDir("data")
	if err != nil {
		return fmt.Errorf("failed to read map directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		mapData, err := Load(entry.Name())
		if err != nil {
			return fmt.Errorf("failed to load map %s: %w", entry.Name(), err)
		}

		Register(mapData)
	}

	return nil
}

// Load loads a single embedded map by filename.
func Load(filename string) (*Map, error) {
	data, err := mapFiles.ReadFile(path.Join("data", filename))
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}
	return LoadFromJSON(data)
}

// LoadFromJSON loads a map from JSON bytes (for custom maps).
func LoadFromJSON(data []byte) (*Map, error) {
	var raw RawMap
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse map JSON: %w", err)
	}

	if err := validate(&raw); err != nil {
		return nil, fmt.Errorf("invalid map: %w", err)
	}

	return Process(&raw), nil
}

// Get retrieves a map from the registry by ID.
func Get(id string) *Map {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return registry[id]
}

// Register adds a map to the registry.
func Register(m *Map) {
	if m == nil || m.ID == "" {
		return
	}
	registryMu.Lock()
	registry[m.ID] = m
	registryMu.Unlock()
}

// List returns basic information on every registered map, sorted by ID.
func List() []MapInfo {
	registryMu.RLock()
	infos := make([]MapInfo, 0, len(registry))
	for _, m := range registry {
		infos = append(infos, MapInfo{
			ID:           m.ID,
			Name:         m.Name,
			DefaultStart: m.DefaultStart,
			RegionCount:  len(m.Regions),
			Regions:      m.RegionNames(),
			FactionCount: len(m.Factions),
		})
	}
	registryMu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// MapInfo contains basic map information for listing.
type MapInfo struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	DefaultStart string   `json:"default_start"`
	RegionCount  int      `json:"region_count"`
	Regions      []string `json:"regions"`
	FactionCount int      `json:"faction_count"`
}

// validate checks a raw map for errors.
func validate(raw *RawMap) error {
	if raw.ID == "" {
		return fmt.Errorf("map ID is required")
	}
	if raw.Name == "" {
		return fmt.Errorf("map name is required")
	}
	if len(raw.Regions) == 0 {
		return fmt.Errorf("map has no regions")
	}
	if len(raw.Factions) == 0 {
		return fmt.Errorf("map has no AI factions")
	}

	known := make(map[string]bool, len(raw.Regions))
	for i, r := range raw.Regions {
		if r.Name == "" {
			return fmt.Errorf("region %d has no name", i)
		}
		if known[r.Name] {
			return fmt.Errorf("duplicate region %q", r.Name)
		}
		known[r.Name] = true
	}

	for _, r := range raw.Regions {
		seen := make(map[string]bool, len(r.Adjacent))
		for _, n := range r.Adjacent {
			if n == r.Name {
				return fmt.Errorf("region %q is adjacent to itself", r.Name)
			}
			if !known[n] {
				return fmt.Errorf("region %q lists unknown neighbor %q", r.Name, n)
			}
			if seen[n] {
				return fmt.Errorf("region %q lists neighbor %q twice", r.Name, n)
			}
			seen[n] = true
		}
	}

	if raw.DefaultStart != "" && !known[raw.DefaultStart] {
		return fmt.Errorf("default start %q is not a region", raw.DefaultStart)
	}
	return nil
}
