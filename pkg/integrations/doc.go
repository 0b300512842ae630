// Package integrations provides the shared HTTP client used by API clients.
//
// # Overview
//
// [Client] wraps net/http with the behavior every API client needs:
//
//   - default headers on every request
//   - optional retry of transient failures via [httputil.Retry]
//   - optional request pacing via [httputil.Gate]
//   - HTTP hooks from [observability] around each request
//   - typed errors for non-2xx responses ([HTTPError])
//
// [Client.GetPage] returns the response headers alongside the decoded body,
// which the [github] package uses to follow Link pagination.
//
// # Errors
//
// Non-2xx responses become *[HTTPError]. It unwraps to [ErrNotFound] for
// 404, [ErrRateLimited] for 429 and rate-limit 403s, and [ErrNetwork] for
// 5xx. Transport failures wrap [ErrNetwork] directly.
//
// [github]: github.com/fleetingdev/fleeting/pkg/integrations/github
// [observability]: github.com/fleetingdev/fleeting/pkg/observability
// [httputil.Retry]: github.com/fleetingdev/fleeting/pkg/httputil.Retry
// [httputil.Gate]: github.com/fleetingdev/fleeting/pkg/httputil.Gate
package integrations
