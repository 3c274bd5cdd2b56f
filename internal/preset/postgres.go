package preset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx used by PostgresStore.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS cost_presets (
    id          TEXT PRIMARY KEY,
    owner_id    TEXT NOT NULL,
    name        TEXT NOT NULL,
    matrices    JSONB NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS cost_presets_owner_idx ON cost_presets (owner_id, created_at);
`

// PostgresPoolConfig tunes the connection pool.
type PostgresPoolConfig struct {
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// PostgresStore persists records in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
	db   DBTX
}

// OpenPostgres connects to url, verifies the connection and creates the
// schema if needed.
func OpenPostgres(ctx context.Context, url string, pc PostgresPoolConfig) (*PostgresStore, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if pc.MaxConns > 0 {
		poolConfig.MaxConns = pc.MaxConns
	}
	if pc.MinConns > 0 {
		poolConfig.MinConns = pc.MinConns
	}
	if pc.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = pc.MaxConnLifetime
	}
	if pc.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = pc.MaxConnIdleTime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	s := &PostgresStore{pool: pool, db: pool}
	if _, err := s.db.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return s, nil
}

// NewPostgresStore wraps an existing connection or transaction. The schema
// must already exist.
func NewPostgresStore(db DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context, owner string) ([]Record, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, owner_id, name, matrices, created_at, updated_at
		   FROM cost_presets
		  WHERE owner_id = $1
		  ORDER BY created_at, id`, owner)
	if err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list presets: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Get(ctx context.Context, owner, id string) (Record, error) {
	row := s.db.QueryRow(ctx,
		`SELECT id, owner_id, name, matrices, created_at, updated_at
		   FROM cost_presets
		  WHERE owner_id = $1 AND id = $2`, owner, id)
	r, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return r, err
}

func (s *PostgresStore) Save(ctx context.Context, r Record) error {
	data, err := encodeMatrices(r.Profile)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO cost_presets (id, owner_id, name, matrices, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE
		    SET name = EXCLUDED.name,
		        matrices = EXCLUDED.matrices,
		        updated_at = EXCLUDED.updated_at`,
		r.ID, r.OwnerID, r.Profile.Name, data, r.CreatedAt.UTC(), r.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save preset: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, owner, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM cost_presets WHERE owner_id = $1 AND id = $2`, owner, id)
	if err != nil {
		return fmt.Errorf("delete preset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Close releases the pool if the store opened it.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		r    Record
		data []byte
	)
	if err := row.Scan(&r.ID, &r.OwnerID, &r.Profile.Name, &data, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan preset: %w", err)
	}
	if err := decodeMatrices(data, &r.Profile); err != nil {
		return Record{}, err
	}
	r.Profile.ID = r.ID
	return r, nil
}
