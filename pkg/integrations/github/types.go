package github

// User is the account summary embedded in repository records.
type User struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Type  string `json:"type,omitempty"`
}

// Fork is one record of GET /repos/{owner}/{repo}/forks.
type Fork struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Owner         User   `json:"owner"`
	DefaultBranch string `json:"default_branch,omitempty"`
	HTMLURL       string `json:"html_url,omitempty"`
	PushedAt      string `json:"pushed_at,omitempty"`
}

// Branch is one record of GET /repos/{owner}/{repo}/branches.
type Branch struct {
	Name      string `json:"name"`
	Commit    Commit `json:"commit"`
	Protected bool   `json:"protected"`
}

// Commit identifies the head of a branch.
type Commit struct {
	SHA string `json:"sha"`
}

// ForkOwners returns the owner login of each fork, in order.
func ForkOwners(forks []Fork) []string {
	out := make([]string, len(forks))
	for i, f := range forks {
		out[i] = f.Owner.Login
	}
	return out
}

// BranchNames returns the name of each branch, in order.
func BranchNames(branches []Branch) []string {
	out := make([]string, len(branches))
	for i, b := range branches {
		out[i] = b.Name
	}
	return out
}
