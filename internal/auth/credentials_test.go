package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"recettes/internal/config"
)

func TestChecker_Authenticate(t *testing.T) {
	checker := NewChecker([]config.Admin{
		{Username: "admin1", Password: "first-secret"},
		{Username: "admin2", Password: "second-secret"},
	})

	tests := []struct {
		name     string
		username string
		password string
		want     string // expected username, "" means rejected
	}{
		{
			name:     "first admin with username",
			username: "admin1",
			password: "first-secret",
			want:     "admin1",
		},
		{
			name:     "second admin with username",
			username: "admin2",
			password: "second-secret",
			want:     "admin2",
		},
		{
			name:     "wrong password",
			username: "admin1",
			password: "second-secret",
			want:     "",
		},
		{
			name:     "unknown username",
			username: "root",
			password: "first-secret",
			want:     "",
		},
		{
			name:     "empty password",
			username: "admin1",
			password: "",
			want:     "",
		},
		// Legacy single-admin frontends only send a password.
		{
			name:     "password-only match on first admin",
			username: "",
			password: "first-secret",
			want:     "admin1",
		},
		{
			name:     "password-only match on second admin",
			username: "",
			password: "second-secret",
			want:     "admin2",
		},
		{
			name:     "password-only no match",
			username: "",
			password: "nope",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := checker.Authenticate(tt.username, tt.password)
			if tt.want == "" {
				if identity != nil {
					t.Errorf("Authenticate accepted, identity = %+v", identity)
				}
				return
			}
			if identity == nil {
				t.Fatal("Authenticate rejected valid credentials")
			}
			if identity.Username != tt.want || identity.Role != "admin" {
				t.Errorf("identity = %+v, want username %q role admin", identity, tt.want)
			}
		})
	}
}

func TestChecker_BcryptPasswords(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-secret"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	checker := NewChecker([]config.Admin{
		{Username: "admin1", Password: string(hash)},
	})

	if identity := checker.Authenticate("admin1", "hashed-secret"); identity == nil {
		t.Error("bcrypt-hashed password rejected")
	}
	if identity := checker.Authenticate("admin1", "wrong"); identity != nil {
		t.Error("wrong password accepted against bcrypt hash")
	}
	// The stored hash itself must never work as a password.
	if identity := checker.Authenticate("admin1", string(hash)); identity != nil {
		t.Error("stored hash accepted as the password")
	}
}

func TestChecker_NoAdmins(t *testing.T) {
	checker := NewChecker(nil)
	if identity := checker.Authenticate("admin1", "anything"); identity != nil {
		t.Error("empty admin list authenticated someone")
	}
}
