package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/fleetingdev/fleeting/pkg/httputil"
	"github.com/fleetingdev/fleeting/pkg/observability"
)

// Options configures a [Client]. The zero value is usable: a 10 second
// timeout, one attempt per request, and no pacing.
type Options struct {
	// Headers are applied to every request.
	Headers map[string]string

	// Timeout bounds each HTTP attempt. Zero uses the default.
	Timeout time.Duration

	// Attempts is the maximum number of tries for transient failures.
	// Values below 2 disable retry.
	Attempts int

	// RetryDelay is the initial backoff between attempts.
	RetryDelay time.Duration

	// Gate paces outgoing requests. Nil sends immediately.
	Gate *httputil.Gate

	// HTTPClient overrides the underlying client (tests use the
	// httptest server's client).
	HTTPClient *http.Client
}

// Client provides shared HTTP functionality for API clients.
// It handles retry, pacing, common request headers, and HTTP hooks.
type Client struct {
	http     *http.Client
	headers  map[string]string
	attempts int
	delay    time.Duration
	gate     *httputil.Gate
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = NewHTTPClient(opts.Timeout)
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = time.Second
	}
	return &Client{
		http:     hc,
		headers:  opts.Headers,
		attempts: max(opts.Attempts, 1),
		delay:    delay,
		gate:     opts.Gate,
	}
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, rawURL string, v any) error {
	_, err := c.GetPage(ctx, rawURL, v)
	return err
}

// GetPage performs an HTTP GET, JSON-decodes the body into v, and returns
// the response headers so callers can follow Link pagination.
func (c *Client) GetPage(ctx context.Context, rawURL string, v any) (http.Header, error) {
	var header http.Header
	err := c.do(ctx, rawURL, func(resp *http.Response) error {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			return fmt.Errorf("decode %s: %w", redact(rawURL), err)
		}
		header = resp.Header
		return nil
	})
	return header, err
}

// GetText performs an HTTP GET request and returns the response body as a string.
func (c *Client) GetText(ctx context.Context, rawURL string) (string, error) {
	var text string
	err := c.do(ctx, rawURL, func(resp *http.Response) error {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
		}
		text = string(data)
		return nil
	})
	return text, err
}

// do runs one logical request, retrying transient failures up to the
// configured number of attempts. read consumes a successful response.
func (c *Client) do(ctx context.Context, rawURL string, read func(*http.Response) error) error {
	return httputil.Retry(ctx, c.attempts, c.delay, func() error {
		if err := c.gate.Wait(ctx); err != nil {
			return err
		}
		resp, err := c.doRequest(ctx, rawURL)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		return read(resp)
	})
}

func (c *Client) doRequest(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, httputil.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// checkStatus converts a non-2xx response into an *HTTPError. Server
// errors are marked retryable.
func checkStatus(resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	err := newHTTPError(code, resp.Header, body)
	if code >= 500 {
		return httputil.Retryable(err)
	}
	return err
}

// redact drops the query string, which may carry tokens, from error text.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	return u.String()
}
