package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS fleeting_cache (
		cache_key TEXT PRIMARY KEY,
		cache_value BLOB NOT NULL,
		cache_timestamp INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	);
`

// SQLiteStore keeps entries in a single SQLite database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Status summarizes the contents of a SQLite store.
type Status struct {
	Path    string
	Entries int
	Oldest  time.Time
	Newest  time.Time
	Size    int64
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache at %q: %w", path, err)
	}
	// A single connection avoids "database is locked" errors.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sqlite cache at %q: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache table: %w", err)
	}
	return &SQLiteStore{db: db, path: path, now: time.Now}, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string { return s.path }

// Get returns the stored bytes. Rows past their reclaim deadline are misses.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value     []byte
		expiresAt int64
	)
	row := s.db.QueryRowContext(ctx,
		`SELECT cache_value, expires_at FROM fleeting_cache WHERE cache_key = ?`, key)
	if err := row.Scan(&value, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if expiresAt != 0 && s.now().UnixMilli() >= expiresAt {
		return nil, false, nil
	}
	return value, true, nil
}

// Set inserts or replaces the row for key.
func (s *SQLiteStore) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	now := s.now()
	var expiresAt int64
	if ttl > 0 {
		expiresAt = now.Add(ttl).UnixMilli()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO fleeting_cache (cache_key, cache_value, cache_timestamp, expires_at) VALUES (?, ?, ?, ?)`,
		key, data, now.UnixMilli(), expiresAt)
	return err
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM fleeting_cache WHERE cache_key = ?`, key)
	return err
}

// Clear deletes every row.
func (s *SQLiteStore) Clear(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM fleeting_cache`)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Status reports the entry count, the oldest and newest write, and the
// database file size.
func (s *SQLiteStore) Status(ctx context.Context) (Status, error) {
	st := Status{Path: s.path}

	var oldest, newest sql.NullInt64
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), MIN(cache_timestamp), MAX(cache_timestamp) FROM fleeting_cache`)
	if err := row.Scan(&st.Entries, &oldest, &newest); err != nil {
		return st, err
	}
	if oldest.Valid {
		st.Oldest = time.UnixMilli(oldest.Int64)
	}
	if newest.Valid {
		st.Newest = time.UnixMilli(newest.Int64)
	}
	if info, err := os.Stat(s.path); err == nil {
		st.Size = info.Size()
	}
	return st, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var (
	_ Store   = (*SQLiteStore)(nil)
	_ Clearer = (*SQLiteStore)(nil)
)
