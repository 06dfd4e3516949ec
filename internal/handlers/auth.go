package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"recettes/internal/auth"
)

// Auth groups the login/logout/status HTTP handlers.
type Auth struct {
	checker *auth.Checker
	tokens  auth.TokenStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(checker *auth.Checker, tokens auth.TokenStore) *Auth {
	return &Auth{checker: checker, tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates an admin and issues a session token. The username is
// optional: legacy single-admin frontends only ever send a password.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Password is required.")
		return
	}

	identity := a.checker.Authenticate(req.Username, req.Password)
	if identity == nil {
		slog.Warn("admin login failed", "username", req.Username)
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	token, err := a.tokens.Issue(r.Context(), *identity)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred.")
		return
	}

	slog.Info("admin login successful", "username", identity.Username)
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Authentication successful.",
		"token":    token,
		"username": identity.Username,
	})
}

// Logout revokes the current session. With the stateless token backend this
// is a no-op server-side; the client discards its token either way.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.tokens.Revoke(r.Context()); err != nil {
		slog.Error("token revoke failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred.")
		return
	}
	writeMessage(w, http.StatusOK, "Logged out.")
}

// Status reports whether the x-admin-token header carries a live admin
// session, including the username when one is known.
func (a *Auth) Status(w http.ResponseWriter, r *http.Request) {
	identity, err := a.tokens.Validate(r.Context(), r.Header.Get(auth.HeaderName))
	if err != nil {
		slog.Error("token validation failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "An internal error occurred.")
		return
	}

	if identity == nil {
		writeJSON(w, http.StatusOK, map[string]any{"isAdmin": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"isAdmin":  true,
		"username": identity.Username,
	})
}
