package database

type migration struct {
	id   int
	name string
	sql  string
}

var migrations = []migration{
	{
		id:   1,
		name: "initial_schema",
		sql: `
			-- Saves table: one row per save slot
			CREATE TABLE saves (
				slot TEXT PRIMARY KEY,
				id TEXT UNIQUE NOT NULL,
				player_name TEXT NOT NULL,
				start_region TEXT NOT NULL,
				turn INTEGER NOT NULL DEFAULT 0,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);

			-- Save regions: persisted fields of every region in a save
			CREATE TABLE save_regions (
				slot TEXT NOT NULL,
				position INTEGER NOT NULL,
				name TEXT NOT NULL,
				owner TEXT NOT NULL,
				gold INTEGER NOT NULL,
				food INTEGER NOT NULL,
				population INTEGER NOT NULL,
				agriculture INTEGER NOT NULL,
				commerce INTEGER NOT NULL,
				security INTEGER NOT NULL,
				army INTEGER NOT NULL,
				PRIMARY KEY (slot, name),
				FOREIGN KEY (slot) REFERENCES saves(slot) ON DELETE CASCADE
			);
			CREATE INDEX idx_save_regions_slot ON save_regions(slot, position);

			-- History: log of actions and outcomes per slot
			CREATE TABLE history (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				slot TEXT NOT NULL,
				turn INTEGER NOT NULL,
				kind TEXT NOT NULL,
				region TEXT NOT NULL DEFAULT '',
				message TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP
			);
			CREATE INDEX idx_history_slot ON history(slot, id);
		`,
	},
	{
		id:   2,
		name: "add_owned_regions_column",
		sql: `
			-- Cached count of player-owned regions for listings
			ALTER TABLE saves ADD COLUMN owned_regions INTEGER NOT NULL DEFAULT 0;
		`,
	},
}
