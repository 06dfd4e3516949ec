// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// tokenBytes is the byte length of the random token (32 bytes = 64 hex chars).
const tokenBytes = 32

// MemoryStore holds at most one live admin token in process memory. Issuing
// a new token overwrites the previous one, so logging in anywhere invalidates
// every other session. State is intentionally volatile: a restart logs the
// admin out.
type MemoryStore struct {
	mu        sync.Mutex
	token     string
	identity  Identity
	issuedAt  time.Time
	expiresAt time.Time // zero when the no-expiry policy is active

	ttl time.Duration
	now func() time.Time
}

// NewMemoryStore creates an in-memory token store. A zero ttl means issued
// tokens never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now}
}

// Issue generates a fresh token for the identity, replacing any live token.
func (s *MemoryStore) Issue(_ context.Context, identity Identity) (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("token generate: %w", err)
	}
	token := hex.EncodeToString(b)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.identity = identity
	s.issuedAt = s.now()
	if s.ttl > 0 {
		s.expiresAt = s.issuedAt.Add(s.ttl)
	} else {
		s.expiresAt = time.Time{}
	}
	return token, nil
}

// Validate reports whether token is the current live token. A token past its
// expiry also clears the store, so the stale session does not linger until
// the next login.
func (s *MemoryStore) Validate(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token == "" || subtle.ConstantTimeCompare([]byte(s.token), []byte(token)) != 1 {
		return nil, nil
	}
	if !s.expiresAt.IsZero() && !s.now().Before(s.expiresAt) {
		s.clearLocked()
		return nil, nil
	}

	identity := s.identity
	return &identity, nil
}

// Revoke clears the stored token unconditionally. Idempotent.
func (s *MemoryStore) Revoke(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	return nil
}

func (s *MemoryStore) clearLocked() {
	s.token = ""
	s.identity = Identity{}
	s.issuedAt = time.Time{}
	s.expiresAt = time.Time{}
}
