// Package db manages the local snapshot cache database.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
)

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	path string
}

// New creates a new database connection and initializes the schema.
func New(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// configure sets up database pragmas for optimal performance.
func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-64000", // 64MB cache
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (db *DB) createSchema() error {
	if err := db.createSnapshotMetaTable(); err != nil {
		return err
	}
	if err := db.createSnapshotEndpointsTable(); err != nil {
		return err
	}
	return db.createUsageSnapshotsTable()
}

func (db *DB) createSnapshotMetaTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS snapshot_meta (
		key_id TEXT PRIMARY KEY,
		fetched_at TEXT NOT NULL,
		grand_total INTEGER DEFAULT 0,
		credits_remaining INTEGER DEFAULT 0,
		metrics TEXT
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createSnapshotEndpointsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS snapshot_endpoints (
		key_id TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		total INTEGER DEFAULT 0,
		PRIMARY KEY (key_id, endpoint)
	);
	CREATE INDEX IF NOT EXISTS idx_snapshot_endpoints_key ON snapshot_endpoints(key_id);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createUsageSnapshotsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS usage_snapshots (
		key_id TEXT NOT NULL,
		endpoint TEXT NOT NULL,
		day TEXT NOT NULL,
		total INTEGER DEFAULT 0,
		hours TEXT,
		PRIMARY KEY (key_id, endpoint, day)
	);
	CREATE INDEX IF NOT EXISTS idx_usage_snapshots_key ON usage_snapshots(key_id);
	CREATE INDEX IF NOT EXISTS idx_usage_snapshots_day ON usage_snapshots(key_id, day);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// Close closes the database connection gracefully.
func (db *DB) Close() error {
	// Checkpoint WAL before closing
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}

// Vacuum performs database maintenance to reclaim space.
func (db *DB) Vacuum() error {
	_, err := db.ExecContext(context.Background(), "VACUUM")
	return err
}
