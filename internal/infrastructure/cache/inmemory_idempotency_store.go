package cache

import (
	"context"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

const defaultSweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps keys in a process-local map. Expired keys
// are swept lazily by the writes that follow the sweep interval, so the store
// needs no goroutine.
type InMemoryIdempotencyStore struct {
	mu            sync.Mutex
	expiry        map[string]time.Time
	now           func() time.Time
	sweepInterval time.Duration
	nextSweep     time.Time
}

func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return newInMemoryIdempotencyStore(defaultSweepInterval, time.Now)
}

func newInMemoryIdempotencyStore(sweepInterval time.Duration, now func() time.Time) *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		expiry:        make(map[string]time.Time),
		now:           now,
		sweepInterval: sweepInterval,
		nextSweep:     now().Add(sweepInterval),
	}
}

func (s *InMemoryIdempotencyStore) live(key string, now time.Time) bool {
	expiresAt, ok := s.expiry[key]
	return ok && now.Before(expiresAt)
}

// MarkProcessed claims key for ttl and reports whether this call claimed it
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if !now.Before(s.nextSweep) {
		s.sweep(now)
	}
	if s.live(key, now) {
		return false, nil
	}
	s.expiry[key] = now.Add(ttl)
	return true, nil
}

func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live(key, s.now()), nil
}

func (s *InMemoryIdempotencyStore) Forget(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.expiry, key)
	s.mu.Unlock()
	return nil
}

// Close is a no-op; the store holds nothing outside its map.
func (s *InMemoryIdempotencyStore) Close() error { return nil }

// sweep drops expired keys. Callers hold mu.
func (s *InMemoryIdempotencyStore) sweep(now time.Time) {
	for key, expiresAt := range s.expiry {
		if !now.Before(expiresAt) {
			delete(s.expiry, key)
		}
	}
	s.nextSweep = now.Add(s.sweepInterval)
}

// Len counts stored keys, including expired ones not yet swept
func (s *InMemoryIdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.expiry)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
