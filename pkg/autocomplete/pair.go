package autocomplete

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/fleetingdev/fleeting/pkg/errors"
	"github.com/fleetingdev/fleeting/pkg/integrations/github"
)

// ErrUpstreamNotSelected is returned by a dependent field's source when its
// upstream field has never been focused. Lookups turn it into an empty
// suggestion list.
var ErrUpstreamNotSelected = errors.New(errors.ErrCodeUpstreamNotSelected, "upstream field has not been focused")

// Field names used in logs and metrics.
const (
	ForkField   = "fork"
	BranchField = "branch"
)

// Resources serves cached GitHub collections. *github.Client satisfies it.
type Resources interface {
	FetchResource(ctx context.Context, path string) ([]json.RawMessage, error)
}

// PairConfig configures a [Pair].
type PairConfig struct {
	// Upstream is the "owner/repo" whose forks the fork field suggests.
	Upstream string

	// BranchRepo is the repository name looked up under the chosen fork
	// owner. Defaults to the upstream repository's name.
	BranchRepo string

	ForkInput   Input
	BranchInput Input

	Resources Resources

	// FieldOptions apply to both fields.
	FieldOptions []FieldOption
}

// Pair is a fork owner field and a branch field that depends on it.
type Pair struct {
	Fork     *Field
	Branch   *Field
	Registry *Registry

	owner      string
	repo       string
	branchRepo string
	resources  Resources
}

// NewPair creates both fields, unfocused, and binds the branch field to the
// fork field.
func NewPair(cfg PairConfig) (*Pair, error) {
	owner, repo, err := errors.SplitRepo(cfg.Upstream)
	if err != nil {
		return nil, err
	}
	branchRepo := cfg.BranchRepo
	if branchRepo == "" {
		branchRepo = repo
	} else if err := errors.ValidateRepoName(branchRepo); err != nil {
		return nil, err
	}
	if cfg.ForkInput == nil || cfg.BranchInput == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "both fields need an input")
	}
	if cfg.Resources == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no resource client")
	}

	p := &Pair{
		Registry:   NewRegistry(),
		owner:      owner,
		repo:       repo,
		branchRepo: branchRepo,
		resources:  cfg.Resources,
	}
	p.Fork = NewField(ForkField, cfg.ForkInput, p.forkSource, cfg.FieldOptions...)
	p.Branch = NewField(BranchField, cfg.BranchInput, p.branchSource, cfg.FieldOptions...)
	p.Branch.extraTag = p.upstreamValue
	p.Registry.Bind(p.Branch, p.Fork)
	return p, nil
}

// Upstream returns the upstream repository as "owner/repo".
func (p *Pair) Upstream() string { return p.owner + "/" + p.repo }

// Selection returns the chosen fork owner and branch once both fields hold
// one of their offered suggestions.
func (p *Pair) Selection() (fork, branch string, ok bool) {
	if p.Fork.State() != StateSelected || p.Branch.State() != StateSelected {
		return "", "", false
	}
	return p.Fork.Input().Value(), p.Branch.Input().Value(), true
}

func (p *Pair) upstreamValue() string {
	if up, ok := p.Registry.Upstream(p.Branch); ok {
		return up.Input().Value()
	}
	return ""
}

func (p *Pair) forkSource() Source {
	path := github.ForksPath(p.owner, p.repo)
	return func(ctx context.Context, _ string) ([]string, error) {
		forks, err := decodeAll[github.Fork](ctx, p.resources, path)
		if err != nil {
			return nil, err
		}
		return github.ForkOwners(forks), nil
	}
}

// branchSource re-validates the upstream value against the upstream
// field's own source before listing branches.
func (p *Pair) branchSource() Source {
	return func(ctx context.Context, _ string) ([]string, error) {
		up, ok := p.Registry.Upstream(p.Branch)
		if !ok {
			return nil, ErrUpstreamNotSelected
		}
		ta, ok := up.Typeahead()
		if !ok {
			return nil, ErrUpstreamNotSelected
		}

		user := up.Input().Value()
		done := p.Branch.beginValidation()
		owners, err := ta.Source()(ctx, user)
		done()
		if err != nil {
			return nil, err
		}
		if !slices.Contains(owners, user) {
			return nil, nil
		}

		branches, err := decodeAll[github.Branch](ctx, p.resources, github.BranchesPath(user, p.branchRepo))
		if err != nil {
			return nil, err
		}
		return github.BranchNames(branches), nil
	}
}

func decodeAll[T any](ctx context.Context, r Resources, path string) ([]T, error) {
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
