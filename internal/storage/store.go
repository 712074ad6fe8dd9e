package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/riftrewind/internal/config"
)

// ErrNotFound is returned when a match or processed file does not exist.
var ErrNotFound = errors.New("not found")

// MatchStore persists raw match documents and processed stats per player.
type MatchStore interface {
	SaveMatch(ctx context.Context, puuid, matchID string, raw []byte) error
	GetMatch(ctx context.Context, puuid, matchID string) ([]byte, error)
	// ListMatches returns every stored match for puuid, most recent first.
	ListMatches(ctx context.Context, puuid string) ([][]byte, error)
	SaveProcessed(ctx context.Context, puuid string, csv []byte) (string, error)
	GetProcessed(ctx context.Context, puuid string) ([]byte, string, error)
	Ping(ctx context.Context) error
	Close() error
}

// Open creates the store selected by STORAGE_BACKEND.
func Open(ctx context.Context, cfg *config.Config) (MatchStore, error) {
	switch cfg.StorageBackend {
	case config.StorageMemory, "":
		return NewMemoryStore(), nil
	case config.StorageRedis:
		client := NewRedisClient(ctx, cfg.RedisURL)
		if !client.Enabled() {
			return nil, fmt.Errorf("redis storage unavailable at %s", cfg.RedisURL)
		}
		return NewRedisStore(client, cfg.RedisKeyPrefix), nil
	case config.StorageSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case config.StoragePostgres:
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// AccountCache returns the Redis client used to cache account lookups.
// A Redis match store shares its own client. Otherwise a new client is
// connected to redisURL (disabled when empty) and owned is true: the caller closes it.
func AccountCache(ctx context.Context, store MatchStore, redisURL string) (cache *RedisClient, owned bool) {
	if rs, ok := store.(*RedisStore); ok {
		return rs.rc, false
	}
	return NewRedisClient(ctx, redisURL), true
}

// MatchPrefix is the logical key under which a player's raw matches live.
func MatchPrefix(puuid string) string {
	return "users/" + puuid + "/matches/"
}

// ProcessedKey is the logical key of a player's processed stats file.
func ProcessedKey(puuid string) string {
	return "users/" + puuid + "/processed/match_stats.csv"
}

// sortMatchIDsDesc orders ids like "NA1_5012345678" by game number, newest first.
func sortMatchIDsDesc(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		pi, ni := splitMatchID(ids[i])
		pj, nj := splitMatchID(ids[j])
		if ni != nj {
			return ni > nj
		}
		return pi > pj
	})
}

func splitMatchID(id string) (string, int64) {
	idx := strings.LastIndex(id, "_")
	if idx < 0 {
		return id, 0
	}
	n, err := strconv.ParseInt(id[idx+1:], 10, 64)
	if err != nil {
		return id, 0
	}
	return id[:idx], n
}
