package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fleetingdev/fleeting/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the API response cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatusCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.cacheOptions()
			if err != nil {
				return err
			}
			store, err := cache.Open(ctx, opts)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printWarning("The %s backend cannot be cleared from here", opts.Backend)
				return nil
			}
			n, err := clearer.Clear(ctx)
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if n == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %s", countLabel(n, "cached entry", "cached entries"))
			printDetail("Backend: %s", opts.Backend)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached entries are stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.cacheOptions()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cacheLocation(opts))
			return nil
		},
	}
}

// cacheStatusCommand creates the "cache status" subcommand.
func (c *CLI) cacheStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the cache contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.cacheOptions()
			if err != nil {
				return err
			}
			printKeyValue("backend", string(opts.Backend))
			printKeyValue("location", cacheLocation(opts))
			printKeyValue("ttl", fmt.Sprintf("%d minutes", c.cfg.Cache.TTLMinutes))
			if opts.Backend != cache.BackendSQLite {
				return nil
			}

			store, err := cache.NewSQLiteStore(cmd.Context(), cache.SQLitePath(opts.Dir))
			if err != nil {
				return err
			}
			defer store.Close()
			st, err := store.Status(cmd.Context())
			if err != nil {
				return err
			}
			printKeyValue("entries", fmt.Sprint(st.Entries))
			printKeyValue("size", fmt.Sprintf("%d bytes", st.Size))
			if st.Entries > 0 {
				printKeyValue("oldest", st.Oldest.Format("2006-01-02 15:04:05"))
				printKeyValue("newest", st.Newest.Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

// cacheLocation describes where opts stores entries.
func cacheLocation(opts cache.Options) string {
	switch opts.Backend {
	case cache.BackendSQLite:
		return cache.SQLitePath(opts.Dir)
	case cache.BackendFile:
		return cache.FilesDir(opts.Dir)
	case cache.BackendRedis:
		return opts.RedisURL
	case cache.BackendMongo:
		return opts.MongoURI + " (" + opts.MongoDatabase + ")"
	default:
		return "(in memory)"
	}
}
