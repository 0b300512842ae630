package cli

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fleetingdev/fleeting/pkg/autocomplete"
	"github.com/fleetingdev/fleeting/pkg/errors"
	"github.com/fleetingdev/fleeting/pkg/integrations/github"
	"github.com/fleetingdev/fleeting/pkg/project"
)

// pickOptions holds the flags of the pick command.
type pickOptions struct {
	project    string
	branchRepo string
	logFile    string
	maxItems   int
}

// pickCommand creates the interactive fork and branch picker.
func (c *CLI) pickCommand() *cobra.Command {
	var opts pickOptions
	cmd := &cobra.Command{
		Use:   "pick [owner/repo]",
		Short: "Interactively pick a fork and one of its branches",
		Long: `Pick opens a two-field form. The first field suggests the owners of the
upstream repository's forks; the second suggests the branches of the fork
whose owner was typed, once that owner is confirmed to be a real fork.

The chosen owner and branch are printed on exit.`,
		Example: `  fleeting pick mozilla/openbadges
  fleeting pick --project openbadges`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upstream, err := c.pickUpstream(args, opts.project)
			if err != nil {
				return err
			}
			return c.runPick(cmd, upstream, opts)
		},
	}
	cmd.Flags().StringVar(&opts.project, "project", "", "take the upstream repository from a project script")
	cmd.Flags().StringVar(&opts.branchRepo, "branch-repo", "", "repository name to list branches of (default: upstream name)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write logs here while the form is open")
	cmd.Flags().IntVar(&opts.maxItems, "max-items", autocomplete.DefaultMaxItems, "suggestions shown per field")
	return cmd
}

// pickUpstream resolves the upstream from the argument or the project.
func (c *CLI) pickUpstream(args []string, projectName string) (string, error) {
	switch {
	case len(args) == 1 && projectName != "":
		return "", errors.New(errors.ErrCodeInvalidInput, "give a repository or --project, not both")
	case len(args) == 1:
		owner, repo, err := github.ParseRepoRef(args[0])
		if err != nil {
			return "", err
		}
		return owner + "/" + repo, nil
	case projectName != "":
		p, err := project.Load(c.cfg.Projects.Dir, projectName)
		if err != nil {
			return "", err
		}
		owner, repo, err := p.Repo()
		if err != nil {
			return "", err
		}
		return owner + "/" + repo, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "pick needs a repository or --project")
	}
}

func (c *CLI) runPick(cmd *cobra.Command, upstream string, opts pickOptions) error {
	ctx := cmd.Context()

	// Log lines would corrupt the form, so they go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(logOut, c.Logger.GetLevel())

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	client := c.githubClientFor(store, logger)

	forkText, branchText := autocomplete.NewText(""), autocomplete.NewText("")
	pair, err := autocomplete.NewPair(autocomplete.PairConfig{
		Upstream:    upstream,
		BranchRepo:  opts.branchRepo,
		ForkInput:   forkText,
		BranchInput: branchText,
		Resources:   client,
		FieldOptions: []autocomplete.FieldOption{
			autocomplete.WithMaxItems(opts.maxItems),
			autocomplete.WithLogger(logger),
		},
	})
	if err != nil {
		return err
	}

	prog := tea.NewProgram(newPickModel(ctx, pair, forkText, branchText),
		tea.WithContext(ctx),
		tea.WithOutput(os.Stderr))
	if _, err := prog.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}

	fork, branch, ok := pair.Selection()
	if !ok {
		printInfo("Nothing picked")
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", fork, branch)
	return nil
}
