package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/docsearch/pkg/postgres"
)

// Postgres stores artifacts in the search_shards table.
type Postgres struct {
	client *postgres.Client
}

// OpenPostgres connects and makes sure the table exists.
func OpenPostgres(ctx context.Context, cfg config.PostgresConfig) (*Postgres, error) {
	client, err := postgres.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewPostgres(ctx, client)
}

func NewPostgres(ctx context.Context, client *postgres.Client) (*Postgres, error) {
	if err := client.EnsureSchema(ctx); err != nil {
		client.Close()
		return nil, err
	}
	return &Postgres{client: client}, nil
}

func (p *Postgres) Name() string { return config.SourcePostgres }

func (p *Postgres) Fetch(ctx context.Context, category, key string) ([]byte, error) {
	if err := checkAddress(category, key); err != nil {
		return nil, err
	}
	data, err := p.client.GetShard(ctx, category, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(category, key)
	}
	if err != nil {
		return nil, fmt.Errorf("querying shard %s/%s: %w", category, key, err)
	}
	return data, nil
}

func (p *Postgres) Put(ctx context.Context, category, key string, data []byte) error {
	if err := checkAddress(category, key); err != nil {
		return err
	}
	return p.client.PutShard(ctx, category, key, data)
}

func (p *Postgres) Ping(ctx context.Context) error { return p.client.Ping(ctx) }

func (p *Postgres) Close() error { return p.client.Close() }
