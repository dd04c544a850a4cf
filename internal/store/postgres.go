package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBackend stores the record in a JSONB column keyed by the store key.
type PostgresBackend struct {
	db  *pgxpool.Pool
	key string
}

func NewPostgresBackend(ctx context.Context, connString, key string) (*PostgresBackend, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	query := `
		CREATE TABLE IF NOT EXISTS campaign_state (
			key TEXT PRIMARY KEY,
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`
	if _, err := pool.Exec(ctx, query); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &PostgresBackend{db: pool, key: key}, nil
}

func (b *PostgresBackend) Get(ctx context.Context) ([]byte, error) {
	var data []byte
	err := b.db.QueryRow(ctx, `SELECT data FROM campaign_state WHERE key = $1`, b.key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return data, err
}

func (b *PostgresBackend) Put(ctx context.Context, data []byte) error {
	query := `
		INSERT INTO campaign_state (key, data, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET
			data = EXCLUDED.data,
			updated_at = EXCLUDED.updated_at;
	`
	_, err := b.db.Exec(ctx, query, b.key, data)
	return err
}

func (b *PostgresBackend) Delete(ctx context.Context) error {
	tag, err := b.db.Exec(ctx, `DELETE FROM campaign_state WHERE key = $1`, b.key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (b *PostgresBackend) Close() error {
	b.db.Close()
	return nil
}
