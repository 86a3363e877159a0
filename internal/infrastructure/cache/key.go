package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// PostHash returns the hex SHA-256 of a post
func PostHash(post string) string {
	sum := sha256.Sum256([]byte(post))
	return hex.EncodeToString(sum[:])
}

// Key builds the cache key for a post under a model fingerprint
func Key(fingerprint, post string) string {
	return fingerprint + ":" + PostHash(post)
}
