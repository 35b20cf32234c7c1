// Package sqlite keeps slots in a single-table SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/crmlite/crm/internal/core/ports"
)

const defaultPath = "crm.db"

// SlotStore stores one row per slot.
type SlotStore struct {
	db   *sql.DB
	path string
}

// Open creates the database file and the slots table if missing.
func Open(ctx context.Context, path string) (*SlotStore, error) {
	if path == "" {
		path = defaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection serialises writers and avoids SQLITE_BUSY between slots.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS slots (
		name TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create slots table: %w", err)
	}
	return &SlotStore{db: db, path: path}, nil
}

func (s *SlotStore) Get(ctx context.Context, slot string) ([]byte, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM slots WHERE name = ?`, slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite get %s: %w", slot, err)
	}
	return payload, nil
}

func (s *SlotStore) Put(ctx context.Context, slot string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO slots(name, payload) VALUES(?, ?) ON CONFLICT(name) DO UPDATE SET payload = excluded.payload`,
		slot, payload)
	if err != nil {
		return fmt.Errorf("sqlite put %s: %w", slot, err)
	}
	return nil
}

func (s *SlotStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Path returns the database file location.
func (s *SlotStore) Path() string { return s.path }

func (s *SlotStore) Close() error { return s.db.Close() }
