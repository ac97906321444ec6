package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// HistoryEvent represents a single game event in the history log.
type HistoryEvent struct {
	ID        int64           `json:"id"`
	Slot      string          `json:"slot"`
	Turn      int             `json:"turn"`
	Kind      string          `json:"kind"`
	Region    string          `json:"region,omitempty"`
	Message   json.RawMessage `json:"message"`
	CreatedAt time.Time       `json:"createdAt"`
}

// historyRow is one row of the history table. The message column is TEXT.
type historyRow struct {
	ID        int64     `db:"id"`
	Slot      string    `db:"slot"`
	Turn      int       `db:"turn"`
	Kind      string    `db:"kind"`
	Region    string    `db:"region"`
	Message   string    `db:"message"`
	CreatedAt time.Time `db:"created_at"`
}

// Record adds a new event to the history of a slot. detail is stored as JSON.
func (db *DB) Record(ctx context.Context, slot string, turn int, kind, region string, detail any) error {
	message, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", kind, err)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO history (slot, turn, kind, region, message, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, slot, turn, kind, region, string(message), time.Now())
	return err
}

// History retrieves all events of a slot, ordered chronologically.
func (db *DB) History(ctx context.Context, slot string) ([]*HistoryEvent, error) {
	return db.HistorySince(ctx, slot, 0)
}

// HistorySince retrieves the events of a slot after a given ID (for incremental updates).
func (db *DB) HistorySince(ctx context.Context, slot string, afterID int64) ([]*HistoryEvent, error) {
	var rows []historyRow
	err := db.conn.SelectContext(ctx, &rows, `
		SELECT id, slot, turn, kind, region, message, created_at
		FROM history
		WHERE slot = ? AND id > ?
		ORDER BY id ASC
	`, slot, afterID)
	if err != nil {
		return nil, fmt.Errorf("read history of %q: %w", slot, err)
	}

	events := make([]*HistoryEvent, 0, len(rows))
	for _, r := range rows {
		events = append(events, &HistoryEvent{
			ID:        r.ID,
			Slot:      r.Slot,
			Turn:      r.Turn,
			Kind:      r.Kind,
			Region:    r.Region,
			Message:   json.RawMessage(r.Message),
			CreatedAt: r.CreatedAt,
		})
	}
	return events, nil
}

// clearHistory deletes all history of a slot and reports how many events went.
func clearHistory(ctx context.Context, ex sqlx.ExecerContext, slot string) (int64, error) {
	res, err := ex.ExecContext(ctx, `DELETE FROM history WHERE slot = ?`, slot)
	if err != nil {
		return 0, fmt.Errorf("clear history of %q: %w", slot, err)
	}
	return res.RowsAffected()
}
