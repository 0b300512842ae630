package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"go.opentelemetry.io/otel/trace"

	"github.com/fleetingdev/fleeting/pkg/buildinfo"
	"github.com/fleetingdev/fleeting/pkg/cache"
	"github.com/fleetingdev/fleeting/pkg/httputil"
	"github.com/fleetingdev/fleeting/pkg/integrations"
)

// DefaultBaseURL is the public GitHub REST API.
const DefaultBaseURL = "https://api.github.com"

// Config configures a [Client]. Zero values select the defaults.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// MaxPages caps pagination per resource (default 100).
	MaxPages int

	// Attempts per request; values below 2 disable retry.
	Attempts int

	// RequestsPerSecond paces requests; 0 means unlimited.
	RequestsPerSecond float64

	// TTLMinutes is the cache lifetime of fetched collections (default 10).
	TTLMinutes int

	// DisableCoalescing lets concurrent misses for one key fetch separately.
	DisableCoalescing bool

	Logger         *log.Logger
	HTTPClient     *http.Client
	TracerProvider trace.TracerProvider
}

// Client provides typed access to the fork and branch collections of
// GitHub repositories, cached through a [cache.TTLCache].
type Client struct {
	*ResourceClient
}

// NewClient creates an anonymous GitHub client reading through c.
func NewClient(c *cache.TTLCache, cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	hc := integrations.NewClient(integrations.Options{
		Headers: map[string]string{
			"Accept":               "application/vnd.github+json",
			"X-GitHub-Api-Version": "2022-11-28",
			"User-Agent":           buildinfo.UserAgent(),
		},
		Timeout:    cfg.Timeout,
		Attempts:   cfg.Attempts,
		Gate:       httputil.NewGate(cfg.RequestsPerSecond),
		HTTPClient: cfg.HTTPClient,
	})

	fetcher := NewFetcher(hc, baseURL,
		WithMaxPages(cfg.MaxPages),
		WithTracerProvider(cfg.TracerProvider))

	return &Client{
		ResourceClient: NewResourceClient(fetcher, c,
			WithTTL(cfg.TTLMinutes),
			WithCoalescing(!cfg.DisableCoalescing),
			WithLogger(cfg.Logger)),
	}
}

// ForksPath returns the API path listing the forks of owner/repo.
func ForksPath(owner, repo string) string {
	return fmt.Sprintf("/repos/%s/%s/forks", owner, repo)
}

// BranchesPath returns the API path listing the branches of owner/repo.
func BranchesPath(owner, repo string) string {
	return fmt.Sprintf("/repos/%s/%s/branches", owner, repo)
}

// Forks returns every fork of owner/repo.
func (c *Client) Forks(ctx context.Context, owner, repo string) ([]Fork, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	return fetchTyped[Fork](ctx, c.ResourceClient, ForksPath(owner, repo))
}

// Branches returns every branch of owner/repo.
func (c *Client) Branches(ctx context.Context, owner, repo string) ([]Branch, error) {
	if err := ValidateRepoRef(owner, repo); err != nil {
		return nil, err
	}
	return fetchTyped[Branch](ctx, c.ResourceClient, BranchesPath(owner, repo))
}

func fetchTyped[T any](ctx context.Context, r *ResourceClient, path string) ([]T, error) {
	records, err := r.FetchResource(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(records))
	for i, rec := range records {
		var v T
		if err := json.Unmarshal(rec, &v); err != nil {
			return nil, fmt.Errorf("decode %s record %d: %w", path, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}
