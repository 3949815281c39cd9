package cache

import (
	"context"

	"github.com/go-redis/redis/v9"
	"github.com/pkg/errors"
)

// RedisClient is shared by the incident cache and the boot health check.
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(opts *redis.Options) *RedisClient {
	return &RedisClient{client: redis.NewClient(opts)}
}

func (r RedisClient) Client() *redis.Client {
	return r.client
}

func (r RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return errors.Wrapf(err, "redis at %s is unreachable", r.client.Options().Addr)
	}
	return nil
}

func (r RedisClient) Close() error {
	return errors.Wrap(r.client.Close(), "unable to close redis client")
}
