package errors

import (
	"strings"
	"testing"
)

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "alice", false},
		{"valid with dash", "mozilla-foundation", false},
		{"valid digits", "user123", false},
		{"valid single char", "a", false},

		{"empty", "", true},
		{"leading dash", "-alice", true},
		{"trailing dash", "alice-", true},
		{"double dash", "al--ice", true},
		{"underscore", "al_ice", true},
		{"slash", "alice/bob", true},
		{"too long", strings.Repeat("a", 40), true},
		{"space", "al ice", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLogin(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateLogin(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSplitRepo(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantOwner string
		wantName  string
		wantErr   bool
	}{
		{"valid", "mozilla/openbadges", "mozilla", "openbadges", false},
		{"valid with dots", "alice/my.repo", "alice", "my.repo", false},
		{"surrounding space", "  alice/repo ", "alice", "repo", false},

		{"missing slash", "mozilla", "", "", true},
		{"extra segment", "a/b/c", "", "", true},
		{"empty owner", "/repo", "", "", true},
		{"empty name", "alice/", "", "", true},
		{"dotdot name", "alice/..", "", "", true},
		{"bad owner", "-x/repo", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, name, err := SplitRepo(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitRepo(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				if !Is(err, ErrCodeInvalidRepo) {
					t.Errorf("SplitRepo(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidRepo)
				}
				return
			}
			if owner != tt.wantOwner || name != tt.wantName {
				t.Errorf("SplitRepo(%q) = %q, %q; want %q, %q", tt.input, owner, name, tt.wantOwner, tt.wantName)
			}
		})
	}
}

func TestValidateAPIPath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"forks", "/repos/mozilla/openbadges/forks", false},
		{"with query", "/repositories/123/forks?page=2", false},

		{"empty", "", true},
		{"relative", "repos/a/b", true},
		{"protocol relative", "//evil.example.com/x", true},
		{"traversal", "/repos/../user", true},
		{"control char", "/repos/a\nb", true},
		{"too long", "/" + strings.Repeat("a", 2048), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAPIPath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAPIPath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://example.com/status", false},
		{"http", "http://localhost:8080/fragment", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
