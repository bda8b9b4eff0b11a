package ttlcache

import (
	"context"
	"sync"
	"time"
)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// MemoryStore keeps values in process memory. Expired entries are dropped lazily on read.
type MemoryStore[T any] struct {
	mu      sync.RWMutex
	entries map[string]entry[T]
	now     func() time.Time
}

type MemoryOption func(*memoryOptions)

type memoryOptions struct {
	now func() time.Time
}

// WithClock overrides the wall clock used for expiry.
func WithClock(now func() time.Time) MemoryOption {
	return func(o *memoryOptions) {
		o.now = now
	}
}

func NewMemoryStore[T any](opts ...MemoryOption) *MemoryStore[T] {
	o := memoryOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryStore[T]{
		entries: make(map[string]entry[T]),
		now:     o.now,
	}
}

func (s *MemoryStore[T]) Get(_ context.Context, key string) (T, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		var zero T
		return zero, false, nil
	}
	if !s.now().Before(e.expiresAt) {
		s.mu.Lock()
		// re-check, the entry may have been replaced meanwhile
		if cur, ok := s.entries[key]; ok && !s.now().Before(cur.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		var zero T
		return zero, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore[T]) Set(_ context.Context, key string, value T, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry[T]{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
	return nil
}

func (s *MemoryStore[T]) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}
