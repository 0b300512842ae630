// Package cli implements the fleeting command-line interface.
package cli

import (
	"context"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fleetingdev/fleeting/pkg/buildinfo"
	"github.com/fleetingdev/fleeting/pkg/cache"
	"github.com/fleetingdev/fleeting/pkg/integrations/github"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "fleeting"

	// configFile is the config file name inside the config directory.
	configFile = "config.toml"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose     bool
	configPath  string
	noCache     bool
	trace       bool
	metricsFile string

	cfg       Config
	telemetry *telemetry
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Fleeting picks a fork and branch of a GitHub repository",
		Long: `Fleeting lists the forks of a GitHub repository and the branches of those forks,
caching every API collection locally so repeated lookups stay off the network.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/fleeting/config.toml)")
	flags.BoolVar(&c.noCache, "no-cache", false, "bypass the response cache")
	flags.BoolVar(&c.trace, "trace", false, "print OpenTelemetry spans to stderr")
	flags.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")

	root.AddCommand(c.forksCommand())
	root.AddCommand(c.branchesCommand())
	root.AddCommand(c.pickCommand())
	root.AddCommand(c.projectCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies flag overrides and starts telemetry.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
	}

	path, explicit := c.configPath, c.configPath != ""
	if !explicit {
		dir, err := configDir()
		if err == nil {
			path = filepath.Join(dir, configFile)
		}
	}
	cfg, err := LoadConfig(path, explicit)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("trace") {
		cfg.Telemetry.Trace = c.trace
	}
	if flags.Changed("metrics-file") {
		cfg.Telemetry.MetricsFile = c.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "path", path, "backend", cfg.Cache.Backend)

	t, err := startTelemetry(cfg.Telemetry, os.Stderr)
	if err != nil {
		return err
	}
	c.telemetry = t

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// Close flushes telemetry. It is safe to call when setup never ran.
func (c *CLI) Close() error {
	if c.telemetry == nil {
		return nil
	}
	err := c.telemetry.Close(context.Background())
	c.telemetry = nil
	return err
}

// =============================================================================
// Client Factory
// =============================================================================

// openStore opens the configured cache backend, or a null store when
// caching is disabled. Entries are namespaced by API host when the base URL
// is not the public API.
func (c *CLI) openStore(ctx context.Context) (cache.Store, error) {
	if c.noCache {
		return cache.NewNullStore(), nil
	}
	opts, err := c.cacheOptions()
	if err != nil {
		return nil, err
	}
	store, err := cache.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	return cache.Scoped(store, cacheScope(c.cfg.GitHub.BaseURL)), nil
}

// cacheOptions translates the cache config section into store options.
func (c *CLI) cacheOptions() (cache.Options, error) {
	backend, err := cache.ParseBackend(c.cfg.Cache.Backend)
	if err != nil {
		return cache.Options{}, err
	}
	dir := c.cfg.Cache.Dir
	if dir == "" {
		if dir, err = cacheDir(); err != nil {
			return cache.Options{}, err
		}
	}
	return cache.Options{
		Backend:          backend,
		Dir:              dir,
		MemoryMaxEntries: c.cfg.Cache.MemoryMaxEntries,
		RedisURL:         c.cfg.Cache.RedisURL,
		MongoURI:         c.cfg.Cache.MongoURI,
		MongoDatabase:    c.cfg.Cache.MongoDatabase,
	}, nil
}

// newGitHubClient builds a GitHub client reading through the configured
// cache. The returned store must be closed by the caller.
func (c *CLI) newGitHubClient(ctx context.Context) (*github.Client, cache.Store, error) {
	store, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	return c.githubClientFor(store, loggerFromContext(ctx)), store, nil
}

func (c *CLI) githubClientFor(store cache.Store, logger *log.Logger) *github.Client {
	gh := c.cfg.GitHub
	return github.NewClient(cache.NewTTLCache(store), github.Config{
		BaseURL:           gh.BaseURL,
		Timeout:           gh.timeout(),
		MaxPages:          gh.MaxPages,
		Attempts:          gh.Retries,
		RequestsPerSecond: gh.RequestsPerSecond,
		TTLMinutes:        c.cfg.Cache.TTLMinutes,
		DisableCoalescing: !gh.Coalesce,
		Logger:            logger,
		TracerProvider:    c.telemetry.tracerProvider(),
	})
}

// cacheScope returns the key prefix for baseURL, empty for the public API.
func cacheScope(baseURL string) string {
	if baseURL == "" || baseURL == github.DefaultBaseURL {
		return ""
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return baseURL + "|"
	}
	return u.Host + "|"
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/fleeting/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/fleeting/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
