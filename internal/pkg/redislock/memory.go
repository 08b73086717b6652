package redislock

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process fallback with the same contract as Store.
// Used in tests and when Redis is not configured; it only guards against
// overlap within a single process.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (s *MemoryStore) setNX(key string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if expiry, ok := s.entries[key]; ok && expiry.After(now) {
		return false
	}
	s.entries[key] = now.Add(ttl)
	return true
}

func (s *MemoryStore) AcquireLease(_ context.Context, name string, ttl time.Duration) (bool, error) {
	return s.setNX("lease:"+name, ttl), nil
}

func (s *MemoryStore) ReleaseLease(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, "lease:"+name)
	return nil
}

func (s *MemoryStore) MarkOnce(_ context.Context, key string, window time.Duration) (bool, error) {
	return s.setNX("dedup:"+key, window), nil
}
