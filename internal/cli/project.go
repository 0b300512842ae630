package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fleetingdev/fleeting/pkg/project"
)

// projectCommand creates the project command.
func (c *CLI) projectCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Inspect project scripts and their upstream repositories",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "projects directory (default from config)")

	projectsDir := func() string {
		if dir != "" {
			return dir
		}
		return c.cfg.Projects.Dir
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List project names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := project.Names(projectsDir())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				printInfo("No projects in %s", projectsDir())
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Show a project's script path and metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := project.Load(projectsDir(), args[0])
			if err != nil {
				return err
			}
			printKeyValue("name", p.Name)
			printKeyValue("path", p.Path)
			if owner, repo, err := p.Repo(); err == nil {
				printKeyValue("upstream", owner+"/"+repo)
			} else {
				printWarning("%v", err)
			}

			keys := make([]string, 0, len(p.Meta))
			for k := range p.Meta {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				printDetail("%s = %s", k, p.Meta[k])
			}
			return nil
		},
	})

	return cmd
}
