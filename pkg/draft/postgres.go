package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createBlobTable = `CREATE TABLE IF NOT EXISTS cvbuilder_blobs (
	key        TEXT PRIMARY KEY,
	value      BYTEA NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	selectBlob = `SELECT value FROM cvbuilder_blobs WHERE key = $1`
	upsertBlob = `INSERT INTO cvbuilder_blobs (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
)

// Querier is the subset of *pgxpool.Pool the backend needs. pgx.Conn and
// pgx.Tx satisfy it too.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (*pgx.Conn)(nil)
)

// PostgresBackend keeps one row per key in the cvbuilder_blobs table.
type PostgresBackend struct {
	db Querier
}

var _ Backend = (*PostgresBackend)(nil)

// NewPostgresPool connects a pgx pool and verifies it with a ping.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, errors.New("draft: database url is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("draft: connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("draft: ping postgres: %w", err)
	}
	return pool, nil
}

// NewPostgresBackend wraps a pool (or any compatible querier).
func NewPostgresBackend(db Querier) *PostgresBackend {
	return &PostgresBackend{db: db}
}

// EnsureSchema creates the blob table when missing.
func (p *PostgresBackend) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createBlobTable); err != nil {
		return fmt.Errorf("draft: create blob table: %w", err)
	}
	return nil
}

func (p *PostgresBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.db.QueryRow(ctx, selectBlob, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoBlob
	}
	if err != nil {
		return nil, fmt.Errorf("draft: select blob %s: %w", key, err)
	}
	return value, nil
}

func (p *PostgresBackend) Put(ctx context.Context, key string, value []byte) error {
	if _, err := p.db.Exec(ctx, upsertBlob, key, value); err != nil {
		return fmt.Errorf("draft: upsert blob %s: %w", key, err)
	}
	return nil
}
