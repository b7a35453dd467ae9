// Package apikey issues and verifies the sr_-prefixed API keys used by the
// public API. Only SHA-256 hashes of keys are ever stored or configured;
// the raw key is shown once at generation time.
package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	LivePrefix = "sr_live_"
	TestPrefix = "sr_test_"

	// PrefixDisplayLength is how much of a key is safe to show in listings.
	PrefixDisplayLength = 16
)

// Key is a freshly generated API key together with its storable hash.
type Key struct {
	Key    string
	Hash   string
	Prefix string
}

// Generate creates a new random API key. live selects the sr_live_ prefix,
// otherwise sr_test_ is used.
func Generate(live bool) (*Key, error) {
	token := make([]byte, 32)
	if _, err := rand.Read(token); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}

	prefix := TestPrefix
	if live {
		prefix = LivePrefix
	}
	fullKey := prefix + hex.EncodeToString(token)

	return &Key{
		Key:    fullKey,
		Hash:   Hash(fullKey),
		Prefix: fullKey[:PrefixDisplayLength],
	}, nil
}

// Hash returns the hex-encoded SHA-256 digest of a key.
func Hash(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether key matches any of the configured hashes, in
// constant time per comparison.
func Verify(key string, hashes []string) bool {
	keyHash := []byte(Hash(key))
	matched := false
	for _, h := range hashes {
		if subtle.ConstantTimeCompare(keyHash, []byte(strings.ToLower(h))) == 1 {
			matched = true
		}
	}
	return matched
}

// FromAuthHeader extracts an API key from an Authorization header value,
// accepting both "Bearer sr_..." and a bare key.
func FromAuthHeader(header string) string {
	key := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if strings.HasPrefix(key, LivePrefix) || strings.HasPrefix(key, TestPrefix) {
		return key
	}
	return ""
}
