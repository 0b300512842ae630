package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// loginRegex matches GitHub user and organization logins: alphanumerics and
// single hyphens, not starting or ending with a hyphen, at most 39 characters.
var loginRegex = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9]){0,38}$`)

// repoNameRegex matches GitHub repository names.
var repoNameRegex = regexp.MustCompile(`^[A-Za-z0-9._-]{1,100}$`)

// ValidateLogin validates a GitHub user or organization login.
func ValidateLogin(login string) error {
	if login == "" {
		return New(ErrCodeInvalidInput, "login cannot be empty")
	}
	if !loginRegex.MatchString(login) {
		return New(ErrCodeInvalidInput, "invalid GitHub login: %q", login)
	}
	return nil
}

// ValidateRepoName validates a bare repository name (without owner).
// The names "." and ".." are rejected since they would alter API paths.
func ValidateRepoName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidRepo, "repository name cannot be empty")
	}
	if name == "." || name == ".." || !repoNameRegex.MatchString(name) {
		return New(ErrCodeInvalidRepo, "invalid repository name: %q", name)
	}
	return nil
}

// SplitRepo validates an "owner/name" repository spec and returns its parts.
func SplitRepo(spec string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(spec), "/")
	if !ok || strings.Contains(name, "/") {
		return "", "", New(ErrCodeInvalidRepo, "repository must be in owner/name form: %q", spec)
	}
	if err := ValidateLogin(owner); err != nil {
		return "", "", Wrap(ErrCodeInvalidRepo, err, "invalid repository owner in %q", spec)
	}
	if err := ValidateRepoName(name); err != nil {
		return "", "", err
	}
	return owner, name, nil
}

// ValidateAPIPath validates a GitHub API path such as "/repos/o/r/forks?page=2".
//
// Validation rules:
//   - Path cannot be empty
//   - Must be absolute (start with /)
//   - Maximum length of 2048 characters
//   - No control characters
//   - No dot segments (. or ..)
//   - No scheme or host (the API base URL is fixed)
func ValidateAPIPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 2048
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") {
		return New(ErrCodeInvalidPath, "path must be absolute and host-less: %q", path)
	}

	p, _, _ := strings.Cut(path, "?")
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." || seg == "." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal segments (..)")
		}
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
