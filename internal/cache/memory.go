package cache

import (
	"context"
	"sync"
	"time"

	"github.com/tubeten/playlist-trivia-go/internal/models"
)

// MemoryStore is an in-process PoolStore with the same expiry semantics as
// the redis backend. It backs tests and single-node deployments without
// redis; pools do not survive restarts.
type MemoryStore struct {
	mu    sync.Mutex
	pools map[string]memoryEntry
	now   func() time.Time
}

type memoryEntry struct {
	entries   []models.PoolEntry
	expiresAt time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pools: make(map[string]memoryEntry),
		now:   time.Now,
	}
}

func (s *MemoryStore) GetPool(_ context.Context, playlistID string) ([]models.PoolEntry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pools[Key(playlistID)]
	if !ok {
		return nil, false, nil
	}
	if s.now().After(entry.expiresAt) {
		delete(s.pools, Key(playlistID))
		return nil, false, nil
	}

	pool := make([]models.PoolEntry, len(entry.entries))
	copy(pool, entry.entries)
	return pool, true, nil
}

func (s *MemoryStore) PutPool(_ context.Context, playlistID string, entries []models.PoolEntry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]models.PoolEntry, len(entries))
	copy(stored, entries)

	s.pools[Key(playlistID)] = memoryEntry{
		entries:   stored,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}
