package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteBackend stores the record as a row of the campaign_state table.
type SQLiteBackend struct {
	db  *sql.DB
	key string
}

// NewSQLiteBackend opens (and migrates) the database at dsn. A plain path gets
// its parent directory created; "file:" URIs are passed through untouched.
func NewSQLiteBackend(dsn, key string) (*SQLiteBackend, error) {
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	b := &SQLiteBackend{db: db, key: key}
	if err := b.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *SQLiteBackend) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS campaign_state (
		key TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);`
	if _, err := b.db.Exec(query); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) Get(ctx context.Context) ([]byte, error) {
	var data string
	err := b.db.QueryRowContext(ctx, `SELECT data FROM campaign_state WHERE key = ?`, b.key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

func (b *SQLiteBackend) Put(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO campaign_state (key, data, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
	_, err := b.db.ExecContext(ctx, query, b.key, string(data))
	return err
}

func (b *SQLiteBackend) Delete(ctx context.Context) error {
	res, err := b.db.ExecContext(ctx, `DELETE FROM campaign_state WHERE key = ?`, b.key)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}
