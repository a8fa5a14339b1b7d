// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultTokenTTL = 15 * time.Minute

// tokenStore issues single-use submission tokens. A token is consumed on
// first redemption; reuse or expiry fails verification and short-circuits
// the request before any core logic runs.
type tokenStore struct {
	mu     sync.Mutex
	issued map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

func newTokenStore(ttl time.Duration) *tokenStore {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &tokenStore{
		issued: make(map[string]time.Time),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a fresh token and records its expiry. Expired tokens are
// swept opportunistically on each issue.
func (t *tokenStore) Issue() string {
	token := uuid.NewString()

	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	for tok, exp := range t.issued {
		if now.After(exp) {
			delete(t.issued, tok)
		}
	}
	t.issued[token] = now.Add(t.ttl)
	return token
}

// Redeem consumes the token. It reports false for unknown, expired, or
// already-redeemed tokens.
func (t *tokenStore) Redeem(token string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	exp, ok := t.issued[token]
	if !ok {
		return false
	}
	delete(t.issued, token)
	return !t.now().After(exp)
}
