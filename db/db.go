// Package db persists session snapshots in SQLite. The store is opaque to
// the rest of the application: it accepts a session.Snapshot and hands the
// same shape back on load.
package db

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Open opens or creates the SQLite database at the default location.
// The database file is created at ~/.local/share/metropolis/session.db.
// Parent directories are created if they don't exist.
func Open() (*sql.DB, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens or creates the SQLite database at an explicit path and runs
// migrations.
func OpenPath(dbPath string) (*sql.DB, error) {
	// Create parent directories if they don't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	// Open the database connection
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// Run migrations
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// migrate runs all database migrations.
// Migrations are idempotent (safe to run multiple times).
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS session_meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			active_tab_id TEXT NOT NULL,
			rate REAL NOT NULL DEFAULT 1.0,
			saved_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tabs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			position INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS clips (
			tab_id TEXT NOT NULL REFERENCES tabs(id) ON DELETE CASCADE,
			slot INTEGER NOT NULL,
			name TEXT NOT NULL,
			source TEXT NOT NULL,
			PRIMARY KEY (tab_id, slot)
		)`,
		`CREATE TABLE IF NOT EXISTS cue_points (
			tab_id TEXT NOT NULL,
			slot INTEGER NOT NULL,
			cue_id TEXT NOT NULL,
			time_seconds REAL NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (tab_id, slot, cue_id),
			FOREIGN KEY (tab_id, slot) REFERENCES clips(tab_id, slot) ON DELETE CASCADE
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// getDBPath returns the path to the database file.
func getDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".local", "share", "metropolis", "session.db"), nil
}
