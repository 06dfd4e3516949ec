// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth implements the admin credential check and the session-token
// stores gating write operations on the catalog.
package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"recettes/internal/config"
)

// Identity is the authenticated administrator. The admin list is a static,
// env-loaded set — there is no user storage and no runtime mutation.
type Identity struct {
	Username string
	Role     string
}

// Checker validates supplied credentials against the fixed admin list.
type Checker struct {
	admins []config.Admin
}

// NewChecker returns a Checker over the configured admin accounts.
func NewChecker(admins []config.Admin) *Checker {
	return &Checker{admins: admins}
}

// Authenticate matches the supplied credentials against the admin list and
// returns the matching identity, or nil when nothing matches.
//
// When username is empty the match is on password alone, returning the first
// admin whose password matches — compatibility mode for the original
// single-admin deployments that only ever sent a password.
func (c *Checker) Authenticate(username, password string) *Identity {
	if password == "" {
		return nil
	}

	for _, admin := range c.admins {
		if username != "" && admin.Username != username {
			continue
		}
		if passwordMatches(admin.Password, password) {
			return &Identity{Username: admin.Username, Role: "admin"}
		}
	}
	return nil
}

// passwordMatches compares a supplied password against the stored value.
// Stored values starting with a bcrypt prefix are treated as hashes;
// anything else is compared in constant time as plaintext.
func passwordMatches(stored, supplied string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
