package github_test

import (
	"fmt"

	"github.com/fleetingdev/fleeting/pkg/integrations/github"
)

func ExampleNextPagePath() {
	header := `<https://api.github.com/repositories/1726649/forks?page=2>; rel="next", ` +
		`<https://api.github.com/repositories/1726649/forks?page=4>; rel="last"`
	fmt.Println(github.NextPagePath(header))

	path, ok := github.NextPagePath(`<https://api.github.com/repositories/1726649/forks?page=2>; rel="prev"`)
	fmt.Printf("%q %v\n", path, ok)
	// Output:
	// /repositories/1726649/forks?page=2 true
	// "" false
}

func ExampleCacheKey() {
	fmt.Println(github.CacheKey(github.ForksPath("mozilla", "openbadges")))
	// Output:
	// github:/repos/mozilla/openbadges/forks
}
