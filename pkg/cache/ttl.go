package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrInvalidTTL is returned by [TTLCache.Set] for a non-positive TTL.
var ErrInvalidTTL = errors.New("ttl must be at least one minute")

// Entry is the envelope stored for every cached value.
type Entry struct {
	Value      json.RawMessage `json:"value"`
	StoredAt   time.Time       `json:"storedAt"`
	TTLMinutes int             `json:"ttlMinutes"`
}

// Fresh reports whether the entry is still valid at now: an entry is fresh
// iff now - StoredAt < TTLMinutes.
func (e Entry) Fresh(now time.Time) bool {
	return now.Sub(e.StoredAt) < time.Duration(e.TTLMinutes)*time.Minute
}

// TTLCache stores JSON values with a per-entry time-to-live on top of a
// [Store]. It owns the expiry decision: callers never see a stale value.
//
// Expired entries are not deleted; the next Set for the key supersedes them.
type TTLCache struct {
	store Store
	now   func() time.Time
}

// TTLOption configures a TTLCache.
type TTLOption func(*TTLCache)

// WithClock sets the time source used for StoredAt and freshness checks.
func WithClock(now func() time.Time) TTLOption {
	return func(c *TTLCache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewTTLCache wraps store. A nil store behaves like [NullStore].
func NewTTLCache(store Store, opts ...TTLOption) *TTLCache {
	if store == nil {
		store = NewNullStore()
	}
	c := &TTLCache{store: store, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the underlying store.
func (c *TTLCache) Store() Store { return c.store }

// Get decodes the fresh value stored under key into v.
//
// It returns (true, nil) on a hit. Absent, evicted, expired, and
// undecodable entries all return (false, nil). A store failure returns
// (false, err); callers should treat it as a miss and may log err.
func (c *TTLCache) Get(ctx context.Context, key string, v any) (bool, error) {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return false, nil
	}
	if !entry.Fresh(c.now()) {
		return false, nil
	}
	if err := json.Unmarshal(entry.Value, v); err != nil {
		return false, nil
	}
	return true, nil
}

// Delete removes key from the underlying store.
func (c *TTLCache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

// Set stores v under key, fresh for ttlMinutes from now.
func (c *TTLCache) Set(ctx context.Context, key string, v any, ttlMinutes int) error {
	if ttlMinutes <= 0 {
		return ErrInvalidTTL
	}
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := json.Marshal(Entry{
		Value:      value,
		StoredAt:   c.now(),
		TTLMinutes: ttlMinutes,
	})
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, data, time.Duration(ttlMinutes)*time.Minute)
}
