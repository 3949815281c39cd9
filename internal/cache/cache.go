package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

type Option any
type OptionDefaultTTL time.Duration

var ErrMiss = errors.New("cache key not found")

//go:generate mockery --with-expecter --name Cache
type Cache[T any] interface {
	Set(ctx context.Context, key string, value T, opts ...Option) error
	Get(ctx context.Context, key string) (*T, error)
}

func resolveTTL(defaultOpts []Option, opts []Option) time.Duration {
	var ttl time.Duration
	for _, v := range append(append([]Option{}, defaultOpts...), opts...) {
		if t, ok := v.(OptionDefaultTTL); ok {
			ttl = time.Duration(t)
		}
	}
	return ttl
}
