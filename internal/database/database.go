// Package database provides SQLite persistence for saves and game history.
package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const filePragmas = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// DB is a SQLite-backed save store and action journal.
type DB struct {
	conn *sqlx.DB
}

// New opens the database at dbPath, creating the file and its directory when
// missing, and brings the schema up to date.
func New(dbPath string) (*DB, error) {
	dsn, err := dataSource(dbPath)
	if err != nil {
		return nil, err
	}

	conn, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}
	// One connection: SQLite serializes writers anyway, and :memory: lives per connection
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate database %s: %w", dbPath, err)
	}
	return db, nil
}

func dataSource(dbPath string) (string, error) {
	if dbPath == MemoryPath {
		return MemoryPath + "?_pragma=foreign_keys(1)", nil
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return "", fmt.Errorf("create database directory: %w", err)
	}
	return dbPath + "?" + filePragmas, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate applies every migration not yet recorded in schema_migrations.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	var ids []int
	if err := db.conn.Select(&ids, "SELECT id FROM schema_migrations"); err != nil {
		return err
	}
	applied := make(map[int]bool, len(ids))
	for _, id := range ids {
		applied[id] = true
	}

	for _, m := range migrations {
		if applied[m.id] {
			continue
		}
		if err := db.apply(m); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.id, m.name, err)
		}
		log.Debug().Int("id", m.id).Str("name", m.name).Msg("Applied migration")
	}
	return nil
}

func (db *DB) apply(m migration) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.sql); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (id, name) VALUES (?, ?)", m.id, m.name); err != nil {
		return err
	}
	return tx.Commit()
}
