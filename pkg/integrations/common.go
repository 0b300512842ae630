package integrations

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when a resource doesn't exist (HTTP 404).
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for transport failures and 5xx responses.
	ErrNetwork = errors.New("network error")

	// ErrRateLimited is returned when the API refuses a request because the
	// caller's rate limit is exhausted.
	ErrRateLimited = errors.New("rate limited")
)

// HTTPError is a non-2xx API response.
type HTTPError struct {
	StatusCode int
	Message    string

	// RetryAfter is the server's hint for when to try again, if any.
	RetryAfter time.Duration
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("status %d", e.StatusCode)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps the status onto the package's sentinel errors so callers can
// use errors.Is(err, ErrNotFound) and friends.
func (e *HTTPError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	case e.StatusCode == http.StatusForbidden && strings.Contains(strings.ToLower(e.Message), "rate limit"):
		return ErrRateLimited
	case e.StatusCode >= 500:
		return ErrNetwork
	default:
		return nil
	}
}

// newHTTPError builds an HTTPError, reading the message from a JSON
// {"message": ...} body when present and falling back to the raw body.
func newHTTPError(code int, header http.Header, body []byte) *HTTPError {
	e := &HTTPError{StatusCode: code}

	var wire struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &wire) == nil && wire.Message != "" {
		e.Message = wire.Message
	} else {
		e.Message = strings.TrimSpace(string(body))
	}

	if header.Get("X-RateLimit-Remaining") == "0" && code == http.StatusForbidden && e.Message == "" {
		e.Message = "API rate limit exceeded"
	}
	if s := header.Get("Retry-After"); s != "" {
		var secs int
		if _, err := fmt.Sscanf(s, "%d", &secs); err == nil && secs > 0 {
			e.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return e
}

// NewHTTPClient creates an HTTP client with the given timeout.
// A non-positive timeout uses 10 seconds.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = httpTimeout
	}
	return &http.Client{Timeout: timeout}
}

var repoURLReplacer = strings.NewReplacer(
	"git@github.com:", "https://github.com/",
	"git://github.com/", "https://github.com/",
)

// NormalizeRepoURL converts various repository URL formats to canonical HTTPS form.
// Handles git@, git://, and git+ prefixes, and removes .git suffixes.
// Returns empty string if raw is empty.
func NormalizeRepoURL(raw string) string {
	if raw == "" {
		return ""
	}
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "git+")
	s = repoURLReplacer.Replace(s)
	return strings.TrimSuffix(s, ".git")
}

// RepoSpec reduces a repository reference to "owner/name". It accepts the
// short form itself as well as any URL form understood by
// [NormalizeRepoURL] on github.com. Returns "" if raw names no repository.
func RepoSpec(raw string) string {
	s := NormalizeRepoURL(raw)
	for _, prefix := range []string{"https://github.com/", "http://github.com/", "https://www.github.com/"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	s = strings.Trim(s, "/")
	parts := strings.Split(s, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" || strings.Contains(parts[0], ":") {
		return ""
	}
	return parts[0] + "/" + parts[1]
}
