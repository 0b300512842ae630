package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fleetingdev/fleeting/pkg/integrations"
)

// fakePage is one response served by fakeGitHub.
type fakePage struct {
	status int
	body   string
	next   string // path of the next page, if any
}

// fakeGitHub serves fixed pages keyed by request URI and counts requests.
type fakeGitHub struct {
	*httptest.Server
	mu     sync.Mutex
	pages  map[string]fakePage
	hits   map[string]int
	header http.Header
}

func newFakeGitHub(t *testing.T, pages map[string]fakePage) *fakeGitHub {
	t.Helper()
	f := &fakeGitHub{pages: pages, hits: map[string]int{}}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.RequestURI()]++
		f.header = r.Header.Clone()
		p, ok := f.pages[r.URL.RequestURI()]
		f.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		if p.next != "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s%s>; rel="next", <%s/last>; rel="last"`, f.URL, p.next, f.URL))
		}
		if p.status != 0 {
			w.WriteHeader(p.status)
		}
		w.Write([]byte(p.body))
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeGitHub) count(uri string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[uri]
}

func (f *fakeGitHub) lastHeader() http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.header
}

func (f *fakeGitHub) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.hits {
		n += c
	}
	return n
}

func (f *fakeGitHub) setPage(uri string, p fakePage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[uri] = p
}

func (f *fakeGitHub) fetcher(opts ...FetcherOption) *Fetcher {
	return NewFetcher(integrations.NewClient(integrations.Options{HTTPClient: f.Client()}), f.URL, opts...)
}

// mapStore is an in-memory cache.Store without its own expiry.
type mapStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapStore() *mapStore { return &mapStore{data: map[string][]byte{}} }

func (m *mapStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapStore) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *mapStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mapStore) Close() error { return nil }

func (m *mapStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func logins(t *testing.T, records []json.RawMessage) []string {
	t.Helper()
	out := make([]string, len(records))
	for i, rec := range records {
		var f Fork
		if err := json.Unmarshal(rec, &f); err != nil {
			t.Fatalf("decode record %d: %v", i, err)
		}
		out[i] = f.Owner.Login
	}
	return out
}
