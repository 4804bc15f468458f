package cache

import (
	"context"
	"sync"
	"time"
)

type dedupeEntry struct {
	expiresAt time.Time
}

// InMemoryDedupeStore implements DedupeStore with a plain map. Suitable for
// single-instance deployments and tests; state is lost on restart.
type InMemoryDedupeStore struct {
	mu        sync.RWMutex
	entries   map[string]dedupeEntry
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryDedupeStore creates the store and starts a background goroutine
// that evicts expired entries.
func NewInMemoryDedupeStore() *InMemoryDedupeStore {
	store := &InMemoryDedupeStore{
		entries:  make(map[string]dedupeEntry),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// MarkDone records the key with a TTL and reports whether it was newly
// recorded.
func (s *InMemoryDedupeStore) MarkDone(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, exists := s.entries[key]; exists && time.Now().Before(e.expiresAt) {
		return false, nil
	}

	s.entries[key] = dedupeEntry{
		expiresAt: time.Now().Add(ttl),
	}

	return true, nil
}

// IsDone reports whether the key is present and unexpired.
func (s *InMemoryDedupeStore) IsDone(ctx context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[key]
	if !exists {
		return false, nil
	}
	if time.Now().After(e.expiresAt) {
		return false, nil
	}

	return true, nil
}

// Close stops the eviction goroutine. Safe to call multiple times.
func (s *InMemoryDedupeStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryDedupeStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryDedupeStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
		}
	}
}

// Size returns the number of entries in the store. Used by tests.
func (s *InMemoryDedupeStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ DedupeStore = (*InMemoryDedupeStore)(nil)
