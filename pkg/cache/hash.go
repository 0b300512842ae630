package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// keyHash maps a cache key to a file-name-safe name. Keys such as
// "github:/repos/mozilla/openbadges/forks" carry slashes and colons, and a
// scoped key may carry a host and port, so the file store never uses them
// as paths directly.
func keyHash(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
