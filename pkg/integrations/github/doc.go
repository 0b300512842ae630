// Package github fetches fork and branch collections from the GitHub REST API.
//
// # Overview
//
// The package is layered:
//
//   - [NextPagePath] reads the rel="next" target from a Link header
//   - [Fetcher] walks a paginated collection page by page
//   - [ResourceClient] serves whole collections through a [cache.TTLCache]
//   - [Client] decodes forks and branches on top
//
// # Usage
//
//	store, _ := cache.NewSQLiteStore(ctx, path)
//	client := github.NewClient(cache.NewTTLCache(store), github.Config{})
//
//	forks, err := client.Forks(ctx, "mozilla", "openbadges")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(github.ForkOwners(forks))
//
// # Caching
//
// Each collection is cached under "github:" + path for ten minutes by
// default. A hit performs no network request. A failed fetch, including a
// failure on any later page, is never cached and nothing partial is
// returned.
//
// # Pagination
//
// Pages are followed in server order until the Link header carries no next
// relation. A next link that revisits a fetched page, or a collection longer
// than [DefaultMaxPages], fails with code PAGINATION_LOOP.
//
// # Authentication
//
// Requests are anonymous and subject to GitHub's unauthenticated rate
// limit (60 requests per hour per address).
//
// [cache.TTLCache]: github.com/fleetingdev/fleeting/pkg/cache.TTLCache
package github
