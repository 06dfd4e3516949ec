// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"recettes/internal/auth"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// identityKey is the context key for the validated admin identity.
const identityKey contextKey = "identity"

// RequireAdmin rejects requests whose x-admin-token header does not carry a
// live admin token. On success the validated identity is stored in the
// request context for downstream handlers.
func RequireAdmin(tokens auth.TokenStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(auth.HeaderName)

			identity, err := tokens.Validate(r.Context(), token)
			if err != nil {
				slog.Error("token validation failed", "error", err)
				writeAuthError(w, http.StatusInternalServerError, "An internal error occurred.")
				return
			}
			if identity == nil {
				slog.Warn("unauthorized access attempt", "method", r.Method, "path", r.URL.Path)
				writeAuthError(w, http.StatusUnauthorized, "Unauthorized. Please log in again.")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromCtx extracts the validated admin identity from the request
// context. Returns nil outside a RequireAdmin-protected route.
func IdentityFromCtx(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(identityKey).(*auth.Identity)
	return identity
}

func writeAuthError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
