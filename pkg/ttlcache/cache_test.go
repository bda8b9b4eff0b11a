package ttlcache

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCacheGetOrLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("single_flight", func(t *testing.T) {
		cache := New[int](NewMemoryStore[int](), time.Minute)

		var calls atomic.Int32
		release := make(chan struct{})
		load := func(context.Context) (int, error) {
			calls.Add(1)
			<-release
			return 42, nil
		}

		const callers = 16
		var wg sync.WaitGroup
		results := make([]int, callers)
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				v, err := cache.GetOrLoad(ctx, "key", load)
				assert.NoError(t, err)
				results[i] = v
			}(i)
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.EqualValues(t, 1, calls.Load())
		for _, v := range results {
			assert.Equal(t, 42, v)
		}
	})
	t.Run("ttl_expiry", func(t *testing.T) {
		c := &clock{now: time.Unix(1_700_000_000, 0)}
		cache := New[int](NewMemoryStore[int](WithClock(c.Now)), time.Minute)

		var calls int
		load := func(context.Context) (int, error) {
			calls++
			return calls, nil
		}

		v, err := cache.GetOrLoad(ctx, "key", load)
		require.NoError(t, err)
		assert.Equal(t, 1, v)

		c.Advance(59 * time.Second)
		v, err = cache.GetOrLoad(ctx, "key", load)
		require.NoError(t, err)
		assert.Equal(t, 1, v)

		c.Advance(time.Second)
		v, err = cache.GetOrLoad(ctx, "key", load)
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})
	t.Run("errors_are_not_cached", func(t *testing.T) {
		cache := New[int](NewMemoryStore[int](), time.Minute)

		_, err := cache.GetOrLoad(ctx, "key", func(context.Context) (int, error) {
			return 0, errors.New("node unreachable")
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "node unreachable")

		v, err := cache.GetOrLoad(ctx, "key", func(context.Context) (int, error) { return 7, nil })
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})
	t.Run("invalidate", func(t *testing.T) {
		cache := New[int](NewMemoryStore[int](), time.Minute)

		var calls int
		load := func(context.Context) (int, error) {
			calls++
			return calls, nil
		}
		_, err := cache.GetOrLoad(ctx, "key", load)
		require.NoError(t, err)
		require.NoError(t, cache.Invalidate(ctx, "key"))

		v, err := cache.GetOrLoad(ctx, "key", load)
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})
	t.Run("invalidate_during_load", func(t *testing.T) {
		cache := New[int](NewMemoryStore[int](), time.Minute)

		started := make(chan struct{})
		release := make(chan struct{})
		done := make(chan int)
		go func() {
			v, err := cache.GetOrLoad(ctx, "key", func(context.Context) (int, error) {
				close(started)
				<-release
				return 1, nil
			})
			assert.NoError(t, err)
			done <- v
		}()

		<-started
		require.NoError(t, cache.Invalidate(ctx, "key"))
		close(release)
		assert.Equal(t, 1, <-done, "the stale load still answers its own caller")

		v, err := cache.GetOrLoad(ctx, "key", func(context.Context) (int, error) { return 2, nil })
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	})
	t.Run("caller_cancelled", func(t *testing.T) {
		cache := New[int](NewMemoryStore[int](), time.Minute)

		release := make(chan struct{})
		load := func(context.Context) (int, error) {
			<-release
			return 1, nil
		}

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := cache.GetOrLoad(cctx, "key", load)
		assert.ErrorIs(t, err, context.Canceled)

		close(release)
		v, err := cache.GetOrLoad(ctx, "key", load)
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})
	t.Run("default_ttl", func(t *testing.T) {
		assert.Equal(t, DefaultTTL, New[int](NewMemoryStore[int](), 0).TTL())
	})
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL is not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	type value struct {
		Name  string
		Items []int
	}

	ctx := context.Background()
	store := NewRedisStore[value](client, "ttlcache-test:")
	key := time.Now().Format(time.RFC3339Nano)
	t.Cleanup(func() { _ = store.Delete(ctx, key) })

	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, key, value{Name: "a", Items: []int{1, 2}}, time.Minute))
	got, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, value{Name: "a", Items: []int{1, 2}}, got)

	require.NoError(t, store.Delete(ctx, key))
	_, ok, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
