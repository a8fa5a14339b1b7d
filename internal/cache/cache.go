// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache is a time-bounded key-value store for validated analysis
// results. Entries are keyed by a digest of the canonical input string,
// namespaced by the provider role that produced the value. Identical claims
// are re-submitted frequently, so caching avoids redundant paid API calls
// and stabilizes answers for a TTL window.
package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"
)

// DefaultTTL is how long a validated result stays fresh.
const DefaultTTL = time.Hour

// Role namespaces cache entries by the provider that produced the value.
type Role string

const (
	RoleClassification   Role = "classification"
	RoleArticlesPrimary  Role = "articles_primary"
	RoleArticlesFallback Role = "articles_fallback"
)

// Store is the cache contract shared by the SQLite and in-memory
// implementations. Get reports a miss for absent or expired entries and
// never fails the caller; storage errors are logged and degrade to a miss.
// Put overwrites any existing entry under the same (role, key).
type Store interface {
	Get(ctx context.Context, role Role, key string) ([]byte, bool)
	Put(ctx context.Context, role Role, key string, value []byte, ttl time.Duration)
	Clear(ctx context.Context) error
	Close() error
}

// Key returns the deterministic fingerprint of a canonical input string.
func Key(input string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(input)))
}
