package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fleetingdev/fleeting/pkg/cache"
)

func TestFetchResourceCachesWithinTTL(t *testing.T) {
	gh := newFakeGitHub(t, map[string]fakePage{
		"/repos/o/r/forks": {body: `[{"owner":{"login":"alice"}}]`},
	})
	clock := newTestClock()
	store := newMapStore()
	rc := NewResourceClient(gh.fetcher(), cache.NewTTLCache(store, cache.WithClock(clock.Now)))
	ctx := context.Background()

	first, err := rc.FetchResource(ctx, "/repos/o/r/forks")
	if err != nil {
		t.Fatal(err)
	}
	if !store.has("github:/repos/o/r/forks") {
		t.Error("result should be stored under github:/repos/o/r/forks")
	}

	clock.Advance(9 * time.Minute)
	second, err := rc.FetchResource(ctx, "/repos/o/r/forks")
	if err != nil {
		t.Fatal(err)
	}
	if gh.total() != 1 {
		t.Errorf("requests within TTL = %d, want 1", gh.total())
	}
	if got, want := logins(t, second), logins(t, first); len(got) != 1 || got[0] != want[0] {
		t.Errorf("cached result = %v, want %v", got, want)
	}

	clock.Advance(time.Minute)
	if _, err := rc.FetchResource(ctx, "/repos/o/r/forks"); err != nil {
		t.Fatal(err)
	}
	if gh.total() != 2 {
		t.Errorf("requests after TTL = %d, want 2", gh.total())
	}
}

func TestFetchResourceCustomTTL(t *testing.T) {
	gh := newFakeGitHub(t, map[string]fakePage{"/x": {body: `[]`}})
	clock := newTestClock()
	rc := NewResourceClient(gh.fetcher(), cache.NewTTLCache(newMapStore(), cache.WithClock(clock.Now)), WithTTL(1))

	ctx := context.Background()
	rc.FetchResource(ctx, "/x")
	clock.Advance(time.Minute)
	rc.FetchResource(ctx, "/x")
	if gh.total() != 2 {
		t.Errorf("requests = %d, want 2 with a one minute TTL", gh.total())
	}
}

func TestFetchResourceDoesNotCacheFailures(t *testing.T) {
	gh := newFakeGitHub(t, map[string]fakePage{
		"/repos/o/r/forks":  {body: `[{"owner":{"login":"a"}}]`, next: "/repos/o/r/forks2"},
		"/repos/o/r/forks2": {status: http.StatusBadGateway},
	})
	store := newMapStore()
	rc := NewResourceClient(gh.fetcher(), cache.NewTTLCache(store))
	ctx := context.Background()

	if _, err := rc.FetchResource(ctx, "/repos/o/r/forks"); err == nil {
		t.Fatal("expected error")
	}
	if store.has("github:/repos/o/r/forks") {
		t.Fatal("failed fetch must not be cached")
	}

	gh.setPage("/repos/o/r/forks2", fakePage{body: `[{"owner":{"login":"b"}}]`})
	records, err := rc.FetchResource(ctx, "/repos/o/r/forks")
	if err != nil {
		t.Fatalf("retry after failure: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("len = %d, want 2", len(records))
	}
}

func TestFetchResourceInvalidate(t *testing.T) {
	gh := newFakeGitHub(t, map[string]fakePage{"/x": {body: `[]`}})
	rc := NewResourceClient(gh.fetcher(), cache.NewTTLCache(newMapStore()))
	ctx := context.Background()

	rc.FetchResource(ctx, "/x")
	if err := rc.Invalidate(ctx, "/x"); err != nil {
		t.Fatal(err)
	}
	rc.FetchResource(ctx, "/x")
	if gh.total() != 2 {
		t.Errorf("requests = %d, want 2 after Invalidate", gh.total())
	}
}

// blockingPager counts FetchAll calls and holds them until released.
type blockingPager struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
}

func (p *blockingPager) FetchAll(ctx context.Context, path string) ([]json.RawMessage, error) {
	p.calls.Add(1)
	<-p.release
	if p.err != nil {
		return nil, p.err
	}
	return []json.RawMessage{json.RawMessage(`{"name":"main"}`)}, nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestFetchResourceCoalescesConcurrentMisses(t *testing.T) {
	pager := &blockingPager{release: make(chan struct{})}
	rc := NewResourceClient(pager, cache.NewTTLCache(newMapStore()))

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			records, err := rc.FetchResource(context.Background(), "/repos/o/r/branches")
			if err == nil && len(records) != 1 {
				err = errors.New("unexpected record count")
			}
			errs <- err
		}()
	}

	waitFor(t, func() bool { return pager.calls.Load() >= 1 })
	// Give the remaining goroutines time to join the in-flight call.
	time.Sleep(20 * time.Millisecond)
	close(pager.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
	if got := pager.calls.Load(); got != 1 {
		t.Errorf("FetchAll calls = %d, want 1", got)
	}
}

func TestFetchResourceWithoutCoalescing(t *testing.T) {
	pager := &blockingPager{release: make(chan struct{})}
	rc := NewResourceClient(pager, cache.NewTTLCache(newMapStore()), WithCoalescing(false))

	const n = 3
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rc.FetchResource(context.Background(), "/repos/o/r/branches")
		}()
	}

	waitFor(t, func() bool { return pager.calls.Load() == n })
	close(pager.release)
	wg.Wait()
}

func TestFetchResourceCallerCancellation(t *testing.T) {
	pager := &blockingPager{release: make(chan struct{})}
	defer close(pager.release)
	rc := NewResourceClient(pager, cache.NewTTLCache(newMapStore()))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := rc.FetchResource(ctx, "/slow")
		done <- err
	}()

	waitFor(t, func() bool { return pager.calls.Load() == 1 })
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("FetchResource did not return after cancellation")
	}
}

func TestCacheKey(t *testing.T) {
	if got := CacheKey("/repos/mozilla/openbadges/forks"); got != "github:/repos/mozilla/openbadges/forks" {
		t.Errorf("CacheKey = %q", got)
	}
}
