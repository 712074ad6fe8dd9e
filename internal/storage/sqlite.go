package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists matches in a local SQLite file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) the database at path and ensures the schema.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, path: path}
	if err := s.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS matches (
			puuid TEXT NOT NULL,
			match_id TEXT NOT NULL,
			raw BLOB NOT NULL,
			stored_at TEXT NOT NULL,
			PRIMARY KEY (puuid, match_id)
		);

		CREATE TABLE IF NOT EXISTS processed (
			puuid TEXT PRIMARY KEY,
			csv BLOB NOT NULL,
			updated_at TEXT NOT NULL
		);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) location(puuid string) string {
	return fmt.Sprintf("sqlite://%s#users/%s/processed", s.path, puuid)
}

func (s *SQLiteStore) SaveMatch(ctx context.Context, puuid, matchID string, raw []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO matches (puuid, match_id, raw, stored_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(puuid, match_id) DO UPDATE SET
			raw = excluded.raw,
			stored_at = excluded.stored_at
	`, puuid, matchID, raw, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *SQLiteStore) GetMatch(ctx context.Context, puuid, matchID string) ([]byte, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT raw FROM matches WHERE puuid = ? AND match_id = ?", puuid, matchID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return raw, err
}

func (s *SQLiteStore) ListMatches(ctx context.Context, puuid string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT match_id, raw FROM matches WHERE puuid = ?", puuid)
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

func (s *SQLiteStore) SaveProcessed(ctx context.Context, puuid string, csv []byte) (string, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO processed (puuid, csv, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(puuid) DO UPDATE SET
			csv = excluded.csv,
			updated_at = excluded.updated_at
	`, puuid, csv, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return s.location(puuid), nil
}

func (s *SQLiteStore) GetProcessed(ctx context.Context, puuid string) ([]byte, string, error) {
	var csv []byte
	err := s.db.QueryRowContext(ctx, "SELECT csv FROM processed WHERE puuid = ?", puuid).Scan(&csv)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return csv, s.location(puuid), nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
