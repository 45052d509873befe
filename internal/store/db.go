package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrMetricsNotFound is returned when no daily metrics exist for a date
var ErrMetricsNotFound = errors.New("daily metrics not found")

// ErrWorkoutNotFound is returned when a workout doesn't exist
var ErrWorkoutNotFound = errors.New("workout not found")

// ErrGearNotFound is returned when a gear item doesn't exist
var ErrGearNotFound = errors.New("gear item not found")

// Store is the application's data access layer.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at dir/data.db, creating it if necessary.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dir, "data.db"))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return initStore(db)
}

// OpenMemory opens an in-memory database, used by tests.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return initStore(db)
}

func initStore(db *sql.DB) (*Store, error) {
	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// dateKey is the canonical TEXT encoding for calendar-day keys.
const dateKey = "2006-01-02"
