package resultstore

import (
	"context"
	"time"

	"debtplan/internal/cache"
	"debtplan/internal/core"
)

// MemoryStore keeps plan results in an in-process LRU cache with TTL.
type MemoryStore struct {
	cache *cache.LRUCache[*core.PlanResult]
}

// NewMemoryStore creates a memory-backed result store.
func NewMemoryStore(maxSize int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: cache.NewLRUCache[*core.PlanResult](maxSize, ttl),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*core.PlanResult, bool) {
	return s.cache.Get(key)
}

func (s *MemoryStore) Set(_ context.Context, key string, result *core.PlanResult) error {
	s.cache.Set(key, result)
	return nil
}

// CleanExpired removes expired entries; it lets the store register with the
// cache manager's periodic cleanup.
func (s *MemoryStore) CleanExpired() int {
	return s.cache.CleanExpired()
}

// Size returns the number of cached results.
func (s *MemoryStore) Size() int {
	return s.cache.Size()
}
