package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// dsn adds the pragmas every connection needs. _busy_timeout makes concurrent
// writers wait for the lock instead of failing with SQLITE_BUSY.
func dsn(path string) string {
	return "file:" + path + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
}

// OpenDB opens the SQLite database at path and checks the connection
func OpenDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// InitializePublicDatabase opens the shared database and runs the public migrations
func InitializePublicDatabase(path string) (*sql.DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db, PublicMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run public migrations: %w", err)
	}

	return db, nil
}

// InitializeTenantDatabase opens a tenant partition and runs the tenant migrations
func InitializeTenantDatabase(path string) (*sql.DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db, TenantMigrations); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run tenant migrations: %w", err)
	}

	return db, nil
}
