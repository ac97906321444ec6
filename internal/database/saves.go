package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"provincewar/internal/game"
	"provincewar/internal/session"
)

// regionRow is one row of save_regions.
type regionRow struct {
	Slot        string `db:"slot"`
	Position    int    `db:"position"`
	Name        string `db:"name"`
	Owner       string `db:"owner"`
	Gold        int    `db:"gold"`
	Food        int    `db:"food"`
	Population  int    `db:"population"`
	Agriculture int    `db:"agriculture"`
	Commerce    int    `db:"commerce"`
	Security    int    `db:"security"`
	Army        int    `db:"army"`
}

// Save writes a snapshot to a slot, replacing any previous save in that slot.
// The save keeps its ID across overwrites.
func (db *DB) Save(ctx context.Context, slot string, snap *game.Snapshot) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.GetContext(ctx, &id, `SELECT id FROM saves WHERE slot = ?`, slot)
	if errors.Is(err, sql.ErrNoRows) {
		id = uuid.New().String()
	} else if err != nil {
		return fmt.Errorf("lookup save %q: %w", slot, err)
	}

	now := time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO saves (slot, id, player_name, start_region, turn, owned_regions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			player_name = excluded.player_name,
			start_region = excluded.start_region,
			turn = excluded.turn,
			owned_regions = excluded.owned_regions,
			updated_at = excluded.updated_at
	`, slot, id, snap.PlayerName, snap.PlayerStartRegion, snap.Turn, session.OwnedRegions(snap), now, now)
	if err != nil {
		return fmt.Errorf("write save %q: %w", slot, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM save_regions WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("clear regions of %q: %w", slot, err)
	}

	for i, name := range sortedRegionNames(snap) {
		r := snap.Regions[name]
		row := regionRow{
			Slot:        slot,
			Position:    i,
			Name:        name,
			Owner:       r.Owner,
			Gold:        r.Gold,
			Food:        r.Food,
			Population:  r.Population,
			Agriculture: r.Agriculture,
			Commerce:    r.Commerce,
			Security:    r.Security,
			Army:        r.Army,
		}
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO save_regions (slot, position, name, owner, gold, food, population, agriculture, commerce, security, army)
			VALUES (:slot, :position, :name, :owner, :gold, :food, :population, :agriculture, :commerce, :security, :army)
		`, row)
		if err != nil {
			return fmt.Errorf("write region %q: %w", name, err)
		}
	}

	return tx.Commit()
}

// Load reads the snapshot stored in a slot.
func (db *DB) Load(ctx context.Context, slot string) (*game.Snapshot, error) {
	info, err := db.GetSave(ctx, slot)
	if err != nil {
		return nil, err
	}

	var rows []regionRow
	err = db.conn.SelectContext(ctx, &rows, `
		SELECT slot, position, name, owner, gold, food, population, agriculture, commerce, security, army
		FROM save_regions WHERE slot = ?
		ORDER BY position ASC
	`, slot)
	if err != nil {
		return nil, fmt.Errorf("read regions of %q: %v: %w", slot, err, game.ErrPersistenceUnavailable)
	}

	snap := &game.Snapshot{
		PlayerName:        info.PlayerName,
		PlayerStartRegion: info.StartRegion,
		Turn:              info.Turn,
		Regions:           make(map[string]game.RegionSnapshot, len(rows)),
	}
	for _, r := range rows {
		snap.Regions[r.Name] = game.RegionSnapshot{
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
	return snap, nil
}

// GetSave returns the metadata of a slot.
func (db *DB) GetSave(ctx context.Context, slot string) (*session.SaveInfo, error) {
	var info session.SaveInfo
	err := db.conn.GetContext(ctx, &info, `
		SELECT slot, id, player_name, start_region, turn, owned_regions, updated_at
		FROM saves WHERE slot = ?
	`, slot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("slot %q: %w", slot, game.ErrPersistenceUnavailable)
	}
	if err != nil {
		return nil, fmt.Errorf("read save %q: %v: %w", slot, err, game.ErrPersistenceUnavailable)
	}
	return &info, nil
}

// List returns every save, most recently updated first.
func (db *DB) List(ctx context.Context) ([]session.SaveInfo, error) {
	saves := make([]session.SaveInfo, 0)
	err := db.conn.SelectContext(ctx, &saves, `
		SELECT slot, id, player_name, start_region, turn, owned_regions, updated_at
		FROM saves
		ORDER BY updated_at DESC, slot ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	return saves, nil
}

// Delete removes a slot together with its regions and history. A slot with
// neither a save nor history is ErrPersistenceUnavailable.
func (db *DB) Delete(ctx context.Context, slot string) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM save_regions WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("delete regions of %q: %w", slot, err)
	}
	events, err := clearHistory(ctx, tx, slot)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM saves WHERE slot = ?`, slot)
	if err != nil {
		return fmt.Errorf("delete save %q: %w", slot, err)
	}
	saves, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if saves == 0 && events == 0 {
		return fmt.Errorf("slot %q: %w", slot, game.ErrPersistenceUnavailable)
	}
	return tx.Commit()
}

// sortedRegionNames orders snapshot regions for storage. Snapshots carry a map, so
// the stored position only has to be stable, not meaningful.
func sortedRegionNames(snap *game.Snapshot) []string {
	names := make([]string, 0, len(snap.Regions))
	for name := range snap.Regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
