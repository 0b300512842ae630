package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fleetingdev/fleeting/pkg/errors"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
	BackendMongo  Backend = "mongo"
	BackendNone   Backend = "none"
)

// Backends lists every supported backend, default first.
var Backends = []Backend{BackendSQLite, BackendFile, BackendMemory, BackendRedis, BackendMongo, BackendNone}

// ParseBackend converts a configuration string to a Backend.
// The empty string selects [BackendSQLite].
func ParseBackend(s string) (Backend, error) {
	if s == "" {
		return BackendSQLite, nil
	}
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Backends {
		if b == known {
			return b, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidBackend, "unknown cache backend %q", s)
}

// Options selects and configures a backend for [Open].
type Options struct {
	Backend Backend

	// Dir holds the sqlite database and file-store entries.
	Dir string

	MemoryMaxEntries int64

	RedisURL string

	MongoURI      string
	MongoDatabase string
}

// SQLitePath returns the database path used by the sqlite backend.
func SQLitePath(dir string) string {
	return filepath.Join(dir, "cache.db")
}

// FilesDir returns the entry directory used by the file backend.
func FilesDir(dir string) string {
	return filepath.Join(dir, "entries")
}

// Open builds the Store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case BackendSQLite, "":
		if opts.Dir == "" {
			return nil, fmt.Errorf("sqlite cache needs a directory")
		}
		return NewSQLiteStore(ctx, SQLitePath(opts.Dir))
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache needs a directory")
		}
		return NewFileStore(FilesDir(opts.Dir))
	case BackendMemory:
		return NewMemoryStore(opts.MemoryMaxEntries)
	case BackendRedis:
		if opts.RedisURL == "" {
			return nil, fmt.Errorf("redis cache needs redis_url")
		}
		s, err := NewRedisStore(opts.RedisURL)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return s, nil
	case BackendMongo:
		if opts.MongoURI == "" {
			return nil, fmt.Errorf("mongo cache needs mongo_uri")
		}
		return NewMongoStore(ctx, opts.MongoURI, opts.MongoDatabase)
	case BackendNone:
		return NewNullStore(), nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidBackend, "unknown cache backend %q", opts.Backend)
	}
}
