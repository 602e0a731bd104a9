package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is the durable Store, grounded directly on the teacher's
// internal/db/postgres.go PostgresStore: a pgxpool.Pool, a Connect/Close
// pair, and an InitSchema step that loads a schema.sql file before any
// writes are attempted.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect opens a pooled connection to connStr (a postgres:// URL).
func Connect(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// InitSchema applies schemaPath's DDL, creating chain_blocks if it does
// not already exist.
func (s *PostgresStore) InitSchema(ctx context.Context, schemaPath string) error {
	ddl, err := os.ReadFile(schemaPath)
	if err != nil {
		return fmt.Errorf("store: read schema: %w", err)
	}
	if _, err := s.pool.Exec(ctx, string(ddl)); err != nil {
		return fmt.Errorf("store: apply schema: %w", err)
	}
	return nil
}

// PutBlock inserts one block row inside a transaction, enforcing the
// append-only height invariant with a row lock on the chain's current
// latest height before accepting the write (mirrors postgres.go's
// tx.Begin/Exec/Commit pattern in SaveAnalysisResult).
func (s *PostgresStore) PutBlock(ctx context.Context, ref ChainRef, height uint64, data []byte) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var latest int64 = -1
	row := tx.QueryRow(ctx,
		`SELECT height FROM chain_blocks WHERE chain_kind = $1 AND chain_id = $2
		 ORDER BY height DESC LIMIT 1 FOR UPDATE`,
		int16(ref.Kind), ref.ID)
	if err := row.Scan(&latest); err != nil && !isNoRows(err) {
		return fmt.Errorf("store: lock latest: %w", err)
	}
	if (latest == -1 && height != 0) || (latest != -1 && int64(height) != latest+1) {
		return ErrNonSequentialHeight
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO chain_blocks (chain_kind, chain_id, height, data) VALUES ($1, $2, $3, $4)`,
		int16(ref.Kind), ref.ID, int64(height), data,
	); err != nil {
		return fmt.Errorf("store: insert block: %w", err)
	}
	return tx.Commit(ctx)
}

// GetBlock fetches one block's bytes.
func (s *PostgresStore) GetBlock(ctx context.Context, ref ChainRef, height uint64) ([]byte, error) {
	var data []byte
	row := s.pool.QueryRow(ctx,
		`SELECT data FROM chain_blocks WHERE chain_kind = $1 AND chain_id = $2 AND height = $3`,
		int16(ref.Kind), ref.ID, int64(height))
	if err := row.Scan(&data); err != nil {
		if isNoRows(err) {
			return nil, ErrNoSuchBlock
		}
		return nil, fmt.Errorf("store: get block: %w", err)
	}
	return data, nil
}

// LatestHeight returns ref's highest stored height.
func (s *PostgresStore) LatestHeight(ctx context.Context, ref ChainRef) (uint64, bool, error) {
	var height int64
	row := s.pool.QueryRow(ctx,
		`SELECT height FROM chain_blocks WHERE chain_kind = $1 AND chain_id = $2
		 ORDER BY height DESC LIMIT 1`,
		int16(ref.Kind), ref.ID)
	if err := row.Scan(&height); err != nil {
		if isNoRows(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("store: latest height: %w", err)
	}
	return uint64(height), true, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
