package cache

import (
	"context"
	"time"
)

// ScopedStore wraps a Store with a key prefix.
//
// Used when one physical store is shared by several API hosts, for example
// github.com and a GitHub Enterprise instance:
//
//	ghe := cache.Scoped(store, "ghe.example.com|")
//	ghe.Set(ctx, "github:/repos/a/b/forks", data, ttl) // key becomes "ghe.example.com|github:/repos/a/b/forks"
type ScopedStore struct {
	inner  Store
	prefix string
}

// Scoped returns a store that prepends prefix to every key.
// An empty prefix returns inner unchanged.
func Scoped(inner Store, prefix string) Store {
	if prefix == "" {
		return inner
	}
	return &ScopedStore{inner: inner, prefix: prefix}
}

func (s *ScopedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *ScopedStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.prefix+key, data, ttl)
}

func (s *ScopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close closes the wrapped store.
func (s *ScopedStore) Close() error {
	return s.inner.Close()
}

var _ Store = (*ScopedStore)(nil)
