package redis

import (
	"crypto/sha256"
	"encoding/hex"
)

const (
	// KeyPrefixShareLock is the prefix for per-URL share locks
	KeyPrefixShareLock = "keeplater:share:lock:"
)

// ShareLockKey returns the lock key for a URL.
// The URL is hashed so arbitrary lengths and bytes map to a fixed-size key.
func ShareLockKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return KeyPrefixShareLock + hex.EncodeToString(sum[:])
}
