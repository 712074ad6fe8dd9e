package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	matches   map[string]map[string][]byte // puuid -> matchID -> raw
	processed map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		matches:   make(map[string]map[string][]byte),
		processed: make(map[string][]byte),
	}
}

func (s *MemoryStore) SaveMatch(_ context.Context, puuid, matchID string, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.matches[puuid] == nil {
		s.matches[puuid] = make(map[string][]byte)
	}
	s.matches[puuid][matchID] = append([]byte(nil), raw...)
	return nil
}

func (s *MemoryStore) GetMatch(_ context.Context, puuid, matchID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.matches[puuid][matchID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), raw...), nil
}

func (s *MemoryStore) ListMatches(_ context.Context, puuid string) ([][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.matches[puuid]))
	for id := range s.matches[puuid] {
		ids = append(ids, id)
	}
	sortMatchIDsDesc(ids)

	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		out = append(out, append([]byte(nil), s.matches[puuid][id]...))
	}
	return out, nil
}

func (s *MemoryStore) SaveProcessed(_ context.Context, puuid string, csv []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processed[puuid] = append([]byte(nil), csv...)
	return "memory://" + ProcessedKey(puuid), nil
}

func (s *MemoryStore) GetProcessed(_ context.Context, puuid string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	csv, ok := s.processed[puuid]
	if !ok {
		return nil, "", ErrNotFound
	}
	return append([]byte(nil), csv...), "memory://" + ProcessedKey(puuid), nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
