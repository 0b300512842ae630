package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fleetingdev/fleeting/pkg/integrations/github"
)

// listOptions holds the flags shared by forks and branches.
type listOptions struct {
	refresh bool
	json    bool
}

func (o *listOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "drop the cached collection before fetching")
	cmd.Flags().BoolVar(&o.json, "json", false, "print records as JSON")
}

// forksCommand creates the forks command.
func (c *CLI) forksCommand() *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "forks <owner/repo>",
		Short: "List the forks of a repository",
		Example: `  fleeting forks mozilla/openbadges
  fleeting forks https://github.com/mozilla/openbadges --refresh`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runForks(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runForks(ctx context.Context, ref string, opts listOptions, w io.Writer) error {
	owner, repo, err := github.ParseRepoRef(ref)
	if err != nil {
		return err
	}
	client, store, err := c.newGitHubClient(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	forks, err := fetchList(ctx, client, github.ForksPath(owner, repo), opts.refresh, "Fetching forks", func(ctx context.Context) ([]github.Fork, error) {
		return client.Forks(ctx, owner, repo)
	})
	if err != nil {
		return err
	}

	if opts.json {
		return writeJSON(w, forks)
	}
	if len(forks) == 0 {
		printInfo("%s has no forks", StyleHighlight.Render(owner+"/"+repo))
		return nil
	}
	printSuccess("%s of %s", countLabel(len(forks), "fork", "forks"), StyleHighlight.Render(owner+"/"+repo))
	notes := make([]string, len(forks))
	for i, f := range forks {
		if f.PushedAt != "" {
			notes[i] = "pushed " + f.PushedAt
		}
	}
	printItems(github.ForkOwners(forks), notes)
	return nil
}

// branchesCommand creates the branches command.
func (c *CLI) branchesCommand() *cobra.Command {
	var opts listOptions
	cmd := &cobra.Command{
		Use:   "branches <owner/repo>",
		Short: "List the branches of a repository",
		Example: `  fleeting branches alice/openbadges
  fleeting branches alice/openbadges --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBranches(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}
	opts.register(cmd)
	return cmd
}

func (c *CLI) runBranches(ctx context.Context, ref string, opts listOptions, w io.Writer) error {
	owner, repo, err := github.ParseRepoRef(ref)
	if err != nil {
		return err
	}
	client, store, err := c.newGitHubClient(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	branches, err := fetchList(ctx, client, github.BranchesPath(owner, repo), opts.refresh, "Fetching branches", func(ctx context.Context) ([]github.Branch, error) {
		return client.Branches(ctx, owner, repo)
	})
	if err != nil {
		return err
	}

	if opts.json {
		return writeJSON(w, branches)
	}
	if len(branches) == 0 {
		printInfo("%s has no branches", StyleHighlight.Render(owner+"/"+repo))
		return nil
	}
	printSuccess("%s of %s", countLabel(len(branches), "branch", "branches"), StyleHighlight.Render(owner+"/"+repo))
	notes := make([]string, len(branches))
	for i, b := range branches {
		notes[i] = shortSHA(b.Commit.SHA)
		if b.Protected {
			notes[i] += " protected"
		}
	}
	printItems(github.BranchNames(branches), notes)
	return nil
}

// fetchList runs fetch behind a spinner, invalidating path first when
// refresh is set.
func fetchList[T any](ctx context.Context, client *github.Client, path string, refresh bool, msg string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	logger := loggerFromContext(ctx)
	if refresh {
		if err := client.Invalidate(ctx, path); err != nil {
			logger.Warn("could not drop cached collection", "path", path, "err", err)
		}
	}

	prog := newProgress(logger)
	spinner := newSpinner(ctx, msg)
	spinner.Start()
	items, err := fetch(ctx)
	spinner.Stop()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Fetched %d records from %s", len(items), path))
	return items, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
