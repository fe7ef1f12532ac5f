// Package postgres wraps database/sql with the lib/pq driver and owns the
// search_shards table that holds one artifact per (category, shard key).
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/config"
	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS search_shards (
	category   TEXT        NOT NULL,
	shard_key  TEXT        NOT NULL,
	data       BYTEA       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (category, shard_key)
)`

type Client struct {
	DB  *sql.DB
	cfg config.PostgresConfig
}

func New(ctx context.Context, cfg config.PostgresConfig) (*Client, error) {
	return Open(ctx, cfg.DSN(), cfg)
}

// Open connects using an explicit DSN; pool settings still come from cfg.
func Open(ctx context.Context, dsn string, cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Client{DB: db, cfg: cfg}, nil
}

// EnsureSchema creates the search_shards table if it does not exist.
func (c *Client) EnsureSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating search_shards table: %w", err)
	}
	return nil
}

// GetShard returns the artifact bytes for (category, key). A missing row is
// reported as sql.ErrNoRows.
func (c *Client) GetShard(ctx context.Context, category, key string) ([]byte, error) {
	var data []byte
	err := c.DB.QueryRowContext(ctx,
		`SELECT data FROM search_shards WHERE category = $1 AND shard_key = $2`,
		category, key,
	).Scan(&data)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// PutShard upserts the artifact bytes for (category, key).
func (c *Client) PutShard(ctx context.Context, category, key string, data []byte) error {
	return c.InTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO search_shards (category, shard_key, data, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (category, shard_key)
			DO UPDATE SET data = EXCLUDED.data, updated_at = now()`,
			category, key, data,
		)
		if err != nil {
			return fmt.Errorf("upserting shard %s/%s: %w", category, key, err)
		}
		return nil
	})
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func (c *Client) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
