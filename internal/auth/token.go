// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import "context"

// HeaderName is the HTTP header carrying the admin session token.
const HeaderName = "x-admin-token"

// TokenStore is the admin session-token lifecycle. Implementations:
//
//   - MemoryStore: opaque token in process memory, single live session.
//   - JWTStore:    self-contained signed token, nothing stored server-side.
//   - RedisStore:  the opaque single-session contract in Valkey, for
//     deployments running more than one replica.
//
// Validate returns the identity bound to a live token, or nil when the token
// is missing, unknown, or expired — an invalid token is a normal nil result,
// never an error. The error return is reserved for backend failures
// (e.g. Valkey unreachable).
type TokenStore interface {
	Issue(ctx context.Context, identity Identity) (string, error)
	Validate(ctx context.Context, token string) (*Identity, error)
	Revoke(ctx context.Context) error
}
