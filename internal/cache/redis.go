package cache

import (
	"context"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/linkit/relay/internal/observability"
)

// redisCache stores msgpack encoded values under prefix+key.
type redisCache[T any] struct {
	client   *redis.Client
	prefix   string
	defaults []Option
}

func CreateRedisCache[T any](redisClient *RedisClient, prefix string, defaultOpts ...Option) Cache[T] {
	return &redisCache[T]{
		client:   redisClient.Client(),
		prefix:   prefix,
		defaults: defaultOpts,
	}
}

func (r *redisCache[T]) key(key string) string {
	return r.prefix + key
}

func (r *redisCache[T]) span(ctx context.Context, op string, key string) func() {
	span := observability.StartSpan(ctx, op, map[string]any{"db.system": "redis", "cache.key": r.key(key)})
	return func() { observability.FinishSpan(span) }
}

func (r *redisCache[T]) Set(ctx context.Context, key string, value T, opts ...Option) error {
	encoded, err := msgpack.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "unable to encode cache entry %s", key)
	}

	finish := r.span(ctx, "cache.put", key)
	defer finish()
	if err := r.client.Set(ctx, r.key(key), encoded, resolveTTL(r.defaults, opts)).Err(); err != nil {
		return errors.Wrapf(err, "unable to store cache entry %s", key)
	}
	return nil
}

func (r *redisCache[T]) Get(ctx context.Context, key string) (*T, error) {
	finish := r.span(ctx, "cache.get_item", key)
	encoded, err := r.client.Get(ctx, r.key(key)).Bytes()
	finish()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read cache entry %s", key)
	}

	var value T
	if err := msgpack.Unmarshal(encoded, &value); err != nil {
		return nil, errors.Wrapf(err, "unable to decode cache entry %s", key)
	}
	return &value, nil
}
