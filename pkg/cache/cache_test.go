package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	ferrors "github.com/fleetingdev/fleeting/pkg/errors"
)

func TestNullStore(t *testing.T) {
	ctx := context.Background()
	s := NewNullStore()
	defer s.Close()

	data, hit, err := s.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullStore.Get should always return miss")
	}
	if data != nil {
		t.Error("NullStore.Get should return nil data")
	}

	if err := s.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ = s.Get(ctx, "key"); hit {
		t.Error("NullStore should not store data")
	}
	if err := s.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestKeyHash(t *testing.T) {
	forks := keyHash("github:/repos/mozilla/openbadges/forks")
	if forks != keyHash("github:/repos/mozilla/openbadges/forks") {
		t.Error("keyHash should be deterministic")
	}
	if forks == keyHash("ghe.example.com|github:/repos/mozilla/openbadges/forks") {
		t.Error("scoped and unscoped keys should hash differently")
	}
	if len(forks) != 64 {
		t.Errorf("keyHash length = %d, want 64", len(forks))
	}
	if strings.ContainsAny(forks, "/:|") {
		t.Errorf("keyHash(%q) = %q is not a safe file name", "github:/repos/...", forks)
	}
}

func TestScopedStore(t *testing.T) {
	ctx := context.Background()
	inner, err := NewMemoryStore(16)
	if err != nil {
		t.Fatal(err)
	}
	defer inner.Close()

	a := Scoped(inner, "a|")
	b := Scoped(inner, "b|")

	if err := a.Set(ctx, "github:/x", []byte("from a"), 0); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := b.Get(ctx, "github:/x"); hit {
		t.Error("scopes should not share keys")
	}
	got, hit, _ := inner.Get(ctx, "a|github:/x")
	if !hit || string(got) != "from a" {
		t.Errorf("inner key = %q, %v; want prefixed entry", got, hit)
	}

	if Scoped(inner, "") != Store(inner) {
		t.Error("empty prefix should return the inner store")
	}
}

func TestParseBackend(t *testing.T) {
	tests := []struct {
		in      string
		want    Backend
		wantErr bool
	}{
		{"", BackendSQLite, false},
		{"sqlite", BackendSQLite, false},
		{"FILE", BackendFile, false},
		{" memory ", BackendMemory, false},
		{"redis", BackendRedis, false},
		{"mongo", BackendMongo, false},
		{"none", BackendNone, false},
		{"memcached", "", true},
	}
	for _, tt := range tests {
		got, err := ParseBackend(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBackend(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !ferrors.Is(err, ferrors.ErrCodeInvalidBackend) {
			t.Errorf("ParseBackend(%q) error code = %q, want %q", tt.in, ferrors.GetCode(err), ferrors.ErrCodeInvalidBackend)
		}
		if got != tt.want {
			t.Errorf("ParseBackend(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name    string
		opts    Options
		check   func(Store) bool
		wantErr bool
	}{
		{"sqlite", Options{Backend: BackendSQLite, Dir: dir}, func(s Store) bool { _, ok := s.(*SQLiteStore); return ok }, false},
		{"file", Options{Backend: BackendFile, Dir: dir}, func(s Store) bool { _, ok := s.(*FileStore); return ok }, false},
		{"memory", Options{Backend: BackendMemory}, func(s Store) bool { _, ok := s.(*MemoryStore); return ok }, false},
		{"none", Options{Backend: BackendNone}, func(s Store) bool { _, ok := s.(*NullStore); return ok }, false},
		{"sqlite without dir", Options{Backend: BackendSQLite}, nil, true},
		{"redis without url", Options{Backend: BackendRedis}, nil, true},
		{"mongo without uri", Options{Backend: BackendMongo}, nil, true},
		{"unknown", Options{Backend: "tape"}, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.opts)
			if tt.wantErr {
				if err == nil {
					s.Close()
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Open error: %v", err)
			}
			defer s.Close()
			if !tt.check(s) {
				t.Errorf("Open returned %T", s)
			}
		})
	}
}
