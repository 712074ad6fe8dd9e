package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists matches in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the schema.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) init(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS rr_matches (
			puuid TEXT NOT NULL,
			match_id TEXT NOT NULL,
			raw BYTEA NOT NULL,
			stored_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (puuid, match_id)
		);

		CREATE TABLE IF NOT EXISTS rr_processed (
			puuid TEXT PRIMARY KEY,
			csv BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) SaveMatch(ctx context.Context, puuid, matchID string, raw []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rr_matches (puuid, match_id, raw) VALUES ($1, $2, $3)
		ON CONFLICT (puuid, match_id) DO UPDATE SET
			raw = EXCLUDED.raw,
			stored_at = now()
	`, puuid, matchID, raw)
	return err
}

func (s *PostgresStore) GetMatch(ctx context.Context, puuid, matchID string) ([]byte, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx,
		"SELECT raw FROM rr_matches WHERE puuid = $1 AND match_id = $2", puuid, matchID,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return raw, err
}

func (s *PostgresStore) ListMatches(ctx context.Context, puuid string) ([][]byte, error) {
	rows, err := s.pool.Query(ctx, "SELECT match_id, raw FROM rr_matches WHERE puuid = $1", puuid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string][]byte)
	var ids []string
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		byID[id] = raw
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortMatchIDsDesc(ids)
	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}

func (s *PostgresStore) SaveProcessed(ctx context.Context, puuid string, csv []byte) (string, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rr_processed (puuid, csv) VALUES ($1, $2)
		ON CONFLICT (puuid) DO UPDATE SET
			csv = EXCLUDED.csv,
			updated_at = now()
	`, puuid, csv)
	if err != nil {
		return "", err
	}
	return "postgres://processed/" + puuid, nil
}

func (s *PostgresStore) GetProcessed(ctx context.Context, puuid string) ([]byte, string, error) {
	var csv []byte
	err := s.pool.QueryRow(ctx, "SELECT csv FROM rr_processed WHERE puuid = $1", puuid).Scan(&csv)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return csv, "postgres://processed/" + puuid, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
