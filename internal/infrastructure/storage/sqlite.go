package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const kvSchema = `
CREATE TABLE IF NOT EXISTS shop_state(
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT
);`

// SQLite stores values in a single-table SQLite database
type SQLite struct {
	db *sqlx.DB
}

// OpenSQLite opens (and creates if needed) the database at dsn. Use
// ":memory:" for a throwaway store.
func OpenSQLite(dsn string) (*SQLite, error) {
	if dsn != ":memory:" {
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create sqlite directory: %w", err)
			}
		}
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// :memory: databases are per connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create shop_state table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM shop_state WHERE key=?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
	  INSERT INTO shop_state(key, value, updated_at)
	  VALUES(?, ?, ?)
	  ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}
