// Package savefile stores world snapshots as JSON files, one per slot.
package savefile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"provincewar/internal/game"
	"provincewar/internal/session"
)

const ext = ".json"

// Store keeps each slot in <dir>/<slot>.json.
type Store struct {
	dir string
}

// New creates a store rooted at dir. The directory is created on first save.
func New(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir}
}

// Path returns the file backing a slot.
func (s *Store) Path(slot string) string {
	return filepath.Join(s.dir, slot+ext)
}

// Save writes the snapshot atomically: a temp file in the same directory is renamed over the slot.
func (s *Store) Save(ctx context.Context, slot string, snap *game.Snapshot) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create save directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+slot+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmp.Name(), s.Path(slot)); err != nil {
		return fmt.Errorf("replace %s: %w", s.Path(slot), err)
	}
	return nil
}

// Load reads the snapshot of a slot. A missing or unreadable file is ErrPersistenceUnavailable.
func (s *Store) Load(ctx context.Context, slot string) (*game.Snapshot, error) {
	if err := validSlot(slot); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("slot %q: %w", slot, game.ErrPersistenceUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %v: %w", s.Path(slot), err, game.ErrPersistenceUnavailable)
	}

	var snap game.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse %s: %v: %w", s.Path(slot), err, game.ErrPersistenceUnavailable)
	}
	if snap.Regions == nil {
		snap.Regions = make(map[string]game.RegionSnapshot)
	}
	return &snap, nil
}

// Delete removes the file of a slot.
func (s *Store) Delete(ctx context.Context, slot string) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.Path(slot))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("slot %q: %w", slot, game.ErrPersistenceUnavailable)
	}
	return err
}

// List returns every readable save in the directory, sorted by slot.
func (s *Store) List(ctx context.Context) ([]session.SaveInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []session.SaveInfo{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read save directory: %w", err)
	}

	saves := make([]session.SaveInfo, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ext) || strings.HasPrefix(name, ".") {
			continue
		}
		slot := strings.TrimSuffix(name, ext)

		snap, err := s.Load(ctx, slot)
		if err != nil {
			continue // Not a save file
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}

		saves = append(saves, session.SaveInfo{
			Slot:        slot,
			PlayerName:  snap.PlayerName,
			StartRegion: snap.PlayerStartRegion,
			Turn:        snap.Turn,
			Owned:       session.OwnedRegions(snap),
			UpdatedAt:   info.ModTime(),
		})
	}

	sort.Slice(saves, func(i, j int) bool { return saves[i].Slot < saves[j].Slot })
	return saves, nil
}

// validSlot rejects names that would escape the save directory.
func validSlot(slot string) error {
	if slot == "" || strings.ContainsAny(slot, `/\`) || slot == "." || slot == ".." || strings.HasPrefix(slot, ".") {
		return fmt.Errorf("invalid save slot %q", slot)
	}
	return nil
}
