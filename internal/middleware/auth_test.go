// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"recettes/internal/auth"
)

func TestRequireAdmin(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewMemoryStore(0)
	token, err := tokens.Issue(ctx, auth.Identity{Username: "admin1", Role: "admin"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var seen *auth.Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = IdentityFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := RequireAdmin(tokens)(next)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"valid token", token, http.StatusOK},
		{"missing token", "", http.StatusUnauthorized},
		{"wrong token", "not-the-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodPost, "/api/recipes", nil)
			if tt.token != "" {
				req.Header.Set(auth.HeaderName, tt.token)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if seen == nil || seen.Username != "admin1" {
					t.Errorf("identity in context = %+v, want admin1", seen)
				}
			} else if seen != nil {
				t.Error("next handler ran on a rejected request")
			}
		})
	}
}

// TestRequireAdmin_ErrorResponseShape pins the JSON envelope the frontend
// keys on for forced re-login.
func TestRequireAdmin_ErrorResponseShape(t *testing.T) {
	tokens := auth.NewMemoryStore(0)
	handler := RequireAdmin(tokens)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/api/recipes", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	want := `{"message":"Unauthorized. Please log in again."}` + "\n"
	if rec.Body.String() != want {
		t.Errorf("body = %q, want %q", rec.Body.String(), want)
	}
}
