// Package pkg provides the libraries behind fleeting's fork and branch picker.
//
// # Overview
//
// Fleeting suggests the forks of an upstream GitHub repository and the
// branches of a chosen fork. Every API collection is fetched across all of
// its pages, cached for a fixed lifetime, and served to two dependent
// autocomplete fields. The pkg directory is organized into these areas:
//
//  1. [integrations] - Shared HTTP client and the GitHub resource client
//  2. [cache] - TTL cache over pluggable stores (sqlite, file, memory, Redis, MongoDB)
//  3. [autocomplete] - Typeahead fields and the dependent fork/branch pair
//  4. [project] and [refresh] - Project scripts and periodic re-fetching
//
// # Architecture
//
// The data flow of one suggestion lookup:
//
//	autocomplete field (input changed or focused)
//	         ↓
//	    [autocomplete] Typeahead (stale guard, filtering)
//	         ↓
//	    [integrations/github] ResourceClient (cache check, coalescing)
//	         ↓
//	    [cache] TTLCache  ── miss ──→  [integrations/github] Fetcher (Link pagination)
//	                                            ↓
//	                                   [integrations] Client (retry, pacing, hooks)
//
// # Quick Start
//
//	store, _ := cache.NewSQLiteStore(ctx, "/tmp/fleeting/cache.db")
//	client := github.NewClient(cache.NewTTLCache(store), github.Config{})
//
//	forks, _ := client.Forks(ctx, "mozilla", "openbadges")
//	for _, owner := range github.ForkOwners(forks) {
//	    fmt.Println(owner)
//	}
//
// # Main Packages
//
// [integrations] - HTTP client with retry, request pacing, status mapping
// and observability hooks. [integrations/github] adds Link-header
// pagination, the cached resource client and fork/branch types.
//
// [cache] - [cache.TTLCache] stores JSON entries with their storage time and
// lifetime; freshness is decided on read. Stores: SQLite (default), file,
// ristretto memory, Redis and MongoDB.
//
// [autocomplete] - Fields that attach a typeahead on first focus, and a
// [autocomplete.Pair] whose branch field re-validates the fork owner before
// listing branches.
//
// [errors] - Coded errors and input validation shared by all packages.
//
// [observability] - Hook interfaces for metrics; the CLI registers
// Prometheus implementations.
//
// # Testing
//
//	go test ./...                                  # All tests
//	REDIS_ADDR=localhost:6379 go test ./pkg/cache  # Include Redis store tests
//	MONGO_URI=mongodb://localhost go test ./pkg/cache
//
// [integrations]: https://pkg.go.dev/github.com/fleetingdev/fleeting/pkg/integrations
// [integrations/github]: https://pkg.go.dev/github.com/fleetingdev/fleeting/pkg/integrations/github
// [cache]: https://pkg.go.dev/github.com/fleetingdev/fleeting/pkg/cache
// [autocomplete]: https://pkg.go.dev/github.com/fleetingdev/fleeting/pkg/autocomplete
// [project]: https://pkg.go.dev/github.com/fleetingdev/fleeting/pkg/project
// [refresh]: https://pkg.go.dev/github.com/fleetingdev/fleeting/pkg/refresh
// [errors]: https://pkg.go.dev/github.com/fleetingdev/fleeting/pkg/errors
// [observability]: https://pkg.go.dev/github.com/fleetingdev/fleeting/pkg/observability
package pkg
