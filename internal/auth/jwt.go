// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// adminClaims is the payload signed into a stateless admin token. The
// password is never part of the token.
type adminClaims struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTStore implements TokenStore with self-contained HS256-signed tokens.
// Nothing is stored server-side: validity is entirely a signature (and
// optional expiry) check, so Revoke is a no-op and previously issued tokens
// stay valid until they expire.
type JWTStore struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewJWTStore creates a stateless token store signing with secret. A zero
// ttl means issued tokens carry no expiry claim.
func NewJWTStore(secret string, ttl time.Duration) *JWTStore {
	return &JWTStore{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token carrying the admin role and username.
func (s *JWTStore) Issue(_ context.Context, identity Identity) (string, error) {
	claims := adminClaims{
		Role:     "admin",
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	}
	if s.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(s.now().Add(s.ttl))
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwt sign: %w", err)
	}
	return token, nil
}

// Validate checks signature, expiry, and the admin role claim. Any parse or
// verification failure is a normal nil result, not an error.
func (s *JWTStore) Validate(_ context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(s.now),
	)
	var claims adminClaims
	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Role != "admin" {
		return nil, nil
	}

	return &Identity{Username: claims.Username, Role: claims.Role}, nil
}

// Revoke is a no-op: there is no server-side state to clear.
func (s *JWTStore) Revoke(context.Context) error {
	return nil
}
