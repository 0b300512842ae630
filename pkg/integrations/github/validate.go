package github

import (
	"github.com/fleetingdev/fleeting/pkg/errors"
	"github.com/fleetingdev/fleeting/pkg/integrations"
)

// ParseRepoRef parses a repository reference and validates both parts.
// Besides "owner/repo" it accepts GitHub URLs in any form understood by
// [integrations.NormalizeRepoURL].
func ParseRepoRef(ref string) (owner, repo string, err error) {
	if spec := integrations.RepoSpec(ref); spec != "" {
		ref = spec
	}
	return errors.SplitRepo(ref)
}

// ValidateRepoRef validates an owner login and a repository name.
func ValidateRepoRef(owner, repo string) error {
	if err := errors.ValidateLogin(owner); err != nil {
		return err
	}
	return errors.ValidateRepoName(repo)
}
