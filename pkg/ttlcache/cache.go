// Package ttlcache provides a read-through cache with a bounded time-to-live and at most one
// in-flight load per key.
package ttlcache

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the time-to-live used when none is configured.
const DefaultTTL = 60 * time.Second

// Store holds cached values. Implementations must be safe for concurrent use.
type Store[T any] interface {
	// Get returns the value of key, or false if it's absent or expired.
	Get(ctx context.Context, key string) (T, bool, error)

	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value T, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error
}

// LoadFunc produces the value of a key on a cache miss.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Cache is a read-through cache on top of a Store.
type Cache[T any] struct {
	store Store[T]
	ttl   time.Duration
	group singleflight.Group

	// generations are bumped by Invalidate; a load started before the bump is not stored
	mu          sync.Mutex
	generations map[string]uint64
}

// New creates a cache. A non-positive ttl means DefaultTTL.
func New[T any](store Store[T], ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{
		store: store,
		ttl:   ttl,
	}
}

// TTL returns the time-to-live of cached values.
func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}

// GetOrLoad returns the cached value of key. On a miss, load is called once for all concurrent
// callers of the same key and its result is stored. Failed loads are not cached.
//
// The load runs detached from the caller's cancellation, so a caller giving up doesn't fail the
// others waiting on the same key.
func (c *Cache[T]) GetOrLoad(ctx context.Context, key string, load LoadFunc[T]) (T, error) {
	var zero T
	if value, ok, err := c.store.Get(ctx, key); err != nil {
		return zero, errors.Wrapf(err, "can't get cached value of %q", key)
	} else if ok {
		return value, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		generation := c.generation(key)

		// another flight may have filled the key between the first lookup and this one
		if value, ok, err := c.store.Get(ctx, key); err != nil {
			return nil, errors.Wrapf(err, "can't get cached value of %q", key)
		} else if ok {
			return value, nil
		}

		value, err := load(ctx)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if c.generation(key) != generation {
			return value, nil
		}
		if err := c.store.Set(ctx, key, value, c.ttl); err != nil {
			return nil, errors.Wrapf(err, "can't cache value of %q", key)
		}
		return value, nil
	})

	select {
	case result := <-ch:
		if result.Err != nil {
			return zero, result.Err
		}
		return result.Val.(T), nil
	case <-ctx.Done():
		return zero, errors.WithStack(ctx.Err())
	}
}

// Invalidate drops the cached values of keys. The next GetOrLoad reloads them.
// A load already in flight still answers its own callers but is not stored.
func (c *Cache[T]) Invalidate(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	if c.generations == nil {
		c.generations = make(map[string]uint64, len(keys))
	}
	for _, key := range keys {
		c.generations[key]++
		c.group.Forget(key)
	}
	c.mu.Unlock()

	if err := c.store.Delete(ctx, keys...); err != nil {
		return errors.Wrap(err, "can't delete cached values")
	}
	return nil
}

func (c *Cache[T]) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}
