package cache

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// DefaultMemoryMaxEntries bounds the in-memory store when no limit is given.
const DefaultMemoryMaxEntries = 1024

// MemoryStore is a bounded in-process store backed by ristretto.
//
// Each entry costs 1, so the store holds at most maxEntries values and
// evicts by frequency beyond that. Evicted entries read as misses.
type MemoryStore struct {
	rc *ristretto.Cache[string, []byte]
}

// NewMemoryStore creates an in-memory store holding up to maxEntries
// values. A non-positive maxEntries uses [DefaultMemoryMaxEntries].
func NewMemoryStore(maxEntries int64) (*MemoryStore, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMemoryMaxEntries
	}
	rc, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &MemoryStore{rc: rc}, nil
}

// Get returns a copy of the stored bytes.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := s.rc.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set stores a copy of data. Writes are applied before Set returns so a
// following Get observes them.
func (s *MemoryStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	buf := append([]byte(nil), data...)
	if ttl > 0 {
		s.rc.SetWithTTL(key, buf, 1, ttl)
	} else {
		s.rc.Set(key, buf, 1)
	}
	s.rc.Wait()
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.rc.Del(key)
	return nil
}

// Close stops ristretto's background goroutines.
func (s *MemoryStore) Close() error {
	s.rc.Close()
	return nil
}

var _ Store = (*MemoryStore)(nil)
