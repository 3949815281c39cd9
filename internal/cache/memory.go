package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

type memoryEntry[T any] struct {
	value     T
	expiresAt time.Time
}

type memoryCache[T any] struct {
	entries        *lru.Cache[string, memoryEntry[T]]
	defaultOptions []Option
	now            func() time.Time
}

// CreateMemoryCache keeps at most size entries in process, evicting the least recently used.
func CreateMemoryCache[T any](size int, defaultOpts ...Option) (Cache[T], error) {
	entries, err := lru.New[string, memoryEntry[T]](size)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create lru cache")
	}
	return &memoryCache[T]{
		entries:        entries,
		defaultOptions: defaultOpts,
		now:            time.Now,
	}, nil
}

func (m *memoryCache[T]) Set(_ context.Context, key string, value T, opts ...Option) error {
	entry := memoryEntry[T]{value: value}
	if ttl := resolveTTL(m.defaultOptions, opts); ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries.Add(key, entry)
	return nil
}

func (m *memoryCache[T]) Get(_ context.Context, key string) (*T, error) {
	entry, ok := m.entries.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		m.entries.Remove(key)
		return nil, ErrMiss
	}
	value := entry.value
	return &value, nil
}
