package storage

import (
	"bytes"
	"context"
	"log/slog"

	"shoplist/internal/cache"
)

var _ Store = (*CachedStore)(nil)

// CachedStore is a read-through, write-through cache in front of another
// Store. Writes update the cache only after the inner store accepts them,
// so a Get after a successful Set always observes the new value.
type CachedStore struct {
	inner  Store
	cache  cache.Cache[[]byte]
	logger *slog.Logger
}

func NewCachedStore(inner Store, c cache.Cache[[]byte], logger *slog.Logger) *CachedStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{inner: inner, cache: c, logger: logger}
}

func (s *CachedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok := s.cache.Get(key); ok {
		s.logger.DebugContext(ctx, "Cache hit", "key", key)
		return bytes.Clone(v), true, nil
	}

	v, found, err := s.inner.Get(ctx, key)
	if err != nil || !found {
		return v, found, err
	}
	s.cache.Set(key, bytes.Clone(v))
	return v, true, nil
}

func (s *CachedStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.inner.Set(ctx, key, value); err != nil {
		s.cache.Delete(key)
		return err
	}
	s.cache.Set(key, bytes.Clone(value))
	return nil
}

func (s *CachedStore) Delete(ctx context.Context, key string) error {
	err := s.inner.Delete(ctx, key)
	s.cache.Delete(key)
	return err
}

func (s *CachedStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.Keys(ctx, prefix)
}
