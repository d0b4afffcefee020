// ABOUTME: SQLite database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection.
type DB struct {
	db     *sql.DB
	dbPath string
}

// Compile-time check that DB implements Repository.
var _ Repository = (*DB)(nil)

// Open opens or creates a SQLite database at the given path.
func Open(dbPath string) (*DB, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	// Set file permissions
	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	d := &DB{db: db, dbPath: dbPath}

	if err := d.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if err := d.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return d, nil
}

// DataDir returns the default data directory following the XDG base directory layout.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "nutrition")
}

// DBPath returns the SQLite file inside dataDir.
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "nutrition.db")
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// configurePragmas sets up SQLite for optimal performance.
func (d *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}
