package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps matches in one hash per player and the processed CSV in a string key.
type RedisStore struct {
	rc     *RedisClient
	prefix string
}

// NewRedisStore creates a store on top of a connected RedisClient.
func NewRedisStore(rc *RedisClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "riftrewind"
	}
	return &RedisStore{rc: rc, prefix: prefix}
}

func (s *RedisStore) matchesKey(puuid string) string {
	return fmt.Sprintf("%s:users:%s:matches", s.prefix, puuid)
}

func (s *RedisStore) processedKey(puuid string) string {
	return fmt.Sprintf("%s:users:%s:processed", s.prefix, puuid)
}

func (s *RedisStore) SaveMatch(ctx context.Context, puuid, matchID string, raw []byte) error {
	return s.rc.client.HSet(ctx, s.matchesKey(puuid), matchID, raw).Err()
}

func (s *RedisStore) GetMatch(ctx context.Context, puuid, matchID string) ([]byte, error) {
	raw, err := s.rc.client.HGet(ctx, s.matchesKey(puuid), matchID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return raw, err
}

func (s *RedisStore) ListMatches(ctx context.Context, puuid string) ([][]byte, error) {
	all, err := s.rc.client.HGetAll(ctx, s.matchesKey(puuid)).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sortMatchIDsDesc(ids)

	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, []byte(all[id]))
	}
	return out, nil
}

func (s *RedisStore) SaveProcessed(ctx context.Context, puuid string, csv []byte) (string, error) {
	key := s.processedKey(puuid)
	if err := s.rc.client.Set(ctx, key, csv, 0).Err(); err != nil {
		return "", err
	}
	return "redis://" + key, nil
}

func (s *RedisStore) GetProcessed(ctx context.Context, puuid string) ([]byte, string, error) {
	key := s.processedKey(puuid)
	csv, err := s.rc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}
	return csv, "redis://" + key, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rc.Ping(ctx)
}

func (s *RedisStore) Close() error {
	return s.rc.Close()
}
