package github

import (
	"context"
	"encoding/json"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/fleetingdev/fleeting/pkg/cache"
	"github.com/fleetingdev/fleeting/pkg/observability"
)

const (
	// KeyPrefix namespaces GitHub entries in the shared cache.
	KeyPrefix = "github:"

	// DefaultTTLMinutes is how long a fetched collection stays fresh.
	DefaultTTLMinutes = 10

	cacheKeyType = "github"
)

// CacheKey returns the cache key for a resource path. One key covers the
// whole aggregated collection regardless of how many pages it spans.
func CacheKey(path string) string {
	return KeyPrefix + path
}

// Pager fetches every record of a paginated resource.
type Pager interface {
	FetchAll(ctx context.Context, path string) ([]json.RawMessage, error)
}

// ResourceClient serves paginated resources through a TTL cache.
//
// A fresh cache entry is returned without touching the network. On a miss
// the full collection is fetched, stored for the configured TTL, and
// returned. Failed fetches are never cached. Concurrent misses for the same
// key share one fetch unless coalescing is disabled, in which case every
// miss fetches and the last write wins.
type ResourceClient struct {
	pager    Pager
	cache    *cache.TTLCache
	ttl      int
	coalesce bool
	group    singleflight.Group
	logger   *log.Logger
}

// ResourceOption configures a ResourceClient.
type ResourceOption func(*ResourceClient)

// WithTTL sets the entry lifetime in minutes. Non-positive values keep
// [DefaultTTLMinutes].
func WithTTL(minutes int) ResourceOption {
	return func(r *ResourceClient) {
		if minutes > 0 {
			r.ttl = minutes
		}
	}
}

// WithCoalescing enables or disables sharing one fetch between concurrent
// misses for the same key. Enabled by default.
func WithCoalescing(on bool) ResourceOption {
	return func(r *ResourceClient) { r.coalesce = on }
}

// WithLogger sets the logger for cache and fetch diagnostics.
func WithLogger(logger *log.Logger) ResourceOption {
	return func(r *ResourceClient) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResourceClient creates a client reading through c and fetching with
// pager. A nil cache disables caching.
func NewResourceClient(pager Pager, c *cache.TTLCache, opts ...ResourceOption) *ResourceClient {
	if c == nil {
		c = cache.NewTTLCache(nil)
	}
	r := &ResourceClient{
		pager:    pager,
		cache:    c,
		ttl:      DefaultTTLMinutes,
		coalesce: true,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// TTLMinutes returns the configured entry lifetime.
func (r *ResourceClient) TTLMinutes() int { return r.ttl }

// FetchResource returns every record of path, from cache when fresh.
func (r *ResourceClient) FetchResource(ctx context.Context, path string) ([]json.RawMessage, error) {
	key := CacheKey(path)
	hooks := observability.Cache()

	var records []json.RawMessage
	hit, err := r.cache.Get(ctx, key, &records)
	if err != nil {
		r.logger.Warn("cache read failed", "key", key, "err", err)
	}
	if hit {
		hooks.OnCacheHit(ctx, cacheKeyType)
		r.logger.Debug("cache hit", "key", key, "records", len(records))
		return records, nil
	}
	hooks.OnCacheMiss(ctx, cacheKeyType)

	if !r.coalesce {
		return r.fetchAndStore(ctx, path, key)
	}

	// The shared fetch outlives any single caller's cancellation; each
	// caller still returns as soon as its own context is done.
	ch := r.group.DoChan(key, func() (any, error) {
		return r.fetchAndStore(context.WithoutCancel(ctx), path, key)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			r.logger.Debug("joined in-flight fetch", "key", key)
		}
		return slices.Clone(res.Val.([]json.RawMessage)), nil
	}
}

// Invalidate drops the cached collection for path so the next
// FetchResource goes to the network.
func (r *ResourceClient) Invalidate(ctx context.Context, path string) error {
	return r.cache.Delete(ctx, CacheKey(path))
}

func (r *ResourceClient) fetchAndStore(ctx context.Context, path, key string) ([]json.RawMessage, error) {
	records, err := r.pager.FetchAll(ctx, path)
	if err != nil {
		r.logger.Debug("fetch failed", "path", path, "err", err)
		return nil, err
	}

	if err := r.cache.Set(ctx, key, records, r.ttl); err != nil {
		r.logger.Warn("cache write failed", "key", key, "err", err)
	} else {
		size := 0
		for _, rec := range records {
			size += len(rec)
		}
		observability.Cache().OnCacheSet(ctx, cacheKeyType, size)
	}
	r.logger.Debug("fetched", "path", path, "records", len(records))
	return records, nil
}
