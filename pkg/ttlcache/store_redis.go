package ttlcache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps JSON-encoded values in redis, so that several service instances share one
// cached view. Expiry is enforced by redis.
type RedisStore[T any] struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store whose keys are prefixed with prefix.
func NewRedisStore[T any](client redis.UniversalClient, prefix string) *RedisStore[T] {
	return &RedisStore[T]{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisStore[T]) Get(ctx context.Context, key string) (T, bool, error) {
	var value T
	raw, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, errors.Wrap(err, "redis get")
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, errors.Wrap(err, "can't decode cached value")
	}
	return value, true, nil
}

func (s *RedisStore[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "can't encode value")
	}
	if err := s.client.Set(ctx, s.prefix+key, raw, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (s *RedisStore[T]) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, s.prefix+key)
	}
	if err := s.client.Del(ctx, prefixed...).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}
