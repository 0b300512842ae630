package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join("/tmp/xdg-cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", "")
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		dir, err := cacheDir()
		if err != nil {
			t.Fatalf("cacheDir() error: %v", err)
		}
		if want := filepath.Join(home, ".cache", appName); dir != want {
			t.Errorf("cacheDir() = %q, want %q", dir, want)
		}
	})
}

func TestConfigDir(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
		dir, err := configDir()
		if err != nil {
			t.Fatalf("configDir() error: %v", err)
		}
		if want := filepath.Join("/tmp/xdg-config", appName); dir != want {
			t.Errorf("configDir() = %q, want %q", dir, want)
		}
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		dir, err := configDir()
		if err != nil {
			t.Fatalf("configDir() error: %v", err)
		}
		if want := filepath.Join(home, ".config", appName); dir != want {
			t.Errorf("configDir() = %q, want %q", dir, want)
		}
	})
}

func TestCacheScope(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"", ""},
		{"https://api.github.com", ""},
		{"https://ghe.example.com/api/v3", "ghe.example.com|"},
		{"http://127.0.0.1:8080", "127.0.0.1:8080|"},
	}
	for _, tt := range tests {
		if got := cacheScope(tt.base); got != tt.want {
			t.Errorf("cacheScope(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}
