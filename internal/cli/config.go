package cli

import (
	stderrors "errors"
	"io/fs"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/fleetingdev/fleeting/pkg/cache"
	"github.com/fleetingdev/fleeting/pkg/errors"
	"github.com/fleetingdev/fleeting/pkg/integrations/github"
)

// Config is the on-disk configuration. Zero-valued keys keep their defaults.
type Config struct {
	GitHub    GitHubConfig    `toml:"github"`
	Cache     CacheConfig     `toml:"cache"`
	Projects  ProjectsConfig  `toml:"projects"`
	Telemetry TelemetryConfig `toml:"telemetry"`
}

// GitHubConfig configures API access.
type GitHubConfig struct {
	BaseURL           string  `toml:"base_url"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	MaxPages          int     `toml:"max_pages"`
	Retries           int     `toml:"retries"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Coalesce          bool    `toml:"coalesce"`
}

func (g GitHubConfig) timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend          string `toml:"backend"`
	Dir              string `toml:"dir"`
	TTLMinutes       int    `toml:"ttl_minutes"`
	MemoryMaxEntries int64  `toml:"memory_max_entries"`
	RedisURL         string `toml:"redis_url"`
	MongoURI         string `toml:"mongo_uri"`
	MongoDatabase    string `toml:"mongo_database"`
}

// ProjectsConfig locates the project scripts.
type ProjectsConfig struct {
	Dir string `toml:"dir"`
}

// TelemetryConfig enables tracing and metrics export.
type TelemetryConfig struct {
	Trace       bool   `toml:"trace"`
	MetricsFile string `toml:"metrics_file"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		GitHub: GitHubConfig{
			BaseURL:        github.DefaultBaseURL,
			TimeoutSeconds: 10,
			MaxPages:       github.DefaultMaxPages,
			Retries:        1,
			Coalesce:       true,
		},
		Cache: CacheConfig{
			Backend:          string(cache.BackendSQLite),
			TTLMinutes:       github.DefaultTTLMinutes,
			MemoryMaxEntries: cache.DefaultMemoryMaxEntries,
			RedisURL:         "redis://localhost:6379/0",
			MongoURI:         "mongodb://localhost:27017",
			MongoDatabase:    cache.DefaultMongoDatabase,
		},
		Projects: ProjectsConfig{
			Dir: "projects",
		},
	}
}

// LoadConfig reads path over the defaults. A missing file is only an error
// when the path was given explicitly.
func LoadConfig(path string, explicit bool) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks value ranges and the backend name.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.GitHub.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "github.base_url")
	}
	switch {
	case c.GitHub.TimeoutSeconds <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "github.timeout_seconds must be positive")
	case c.GitHub.MaxPages <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "github.max_pages must be positive")
	case c.GitHub.Retries <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "github.retries must be at least 1")
	case c.GitHub.RequestsPerSecond < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "github.requests_per_second cannot be negative")
	case c.Cache.TTLMinutes <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl_minutes must be positive")
	case c.Cache.MemoryMaxEntries <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.memory_max_entries must be positive")
	}
	if _, err := cache.ParseBackend(c.Cache.Backend); err != nil {
		return err
	}
	return nil
}
