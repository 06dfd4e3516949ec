// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// sessionKey is the single Valkey key holding the live admin session.
// One key, overwritten on every login, keeps the single-live-session
// semantics of the in-memory store across replicas.
const sessionKey = "admin:session"

// redisSession is the JSON payload stored in Valkey.
type redisSession struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	IssuedAt time.Time `json:"issued_at"`
}

// RedisStore implements the opaque single-session TokenStore on Valkey.
// Expiry is delegated to the key TTL, so lazy cleanup happens server-side.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// ConnectValkey creates a Valkey client and verifies the connection with a ping.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("valkey ping: %w", err)
	}

	slog.Info("valkey connected", "addr", fmt.Sprintf("%s:%s", host, port))
	return client, nil
}

// NewRedisStore creates a Valkey-backed token store. A zero ttl stores the
// session without expiry.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Issue generates a fresh token and overwrites the session key.
func (s *RedisStore) Issue(ctx context.Context, identity Identity) (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("token generate: %w", err)
	}
	token := hex.EncodeToString(b)

	payload, err := json.Marshal(redisSession{
		Token:    token,
		Username: identity.Username,
		IssuedAt: time.Now(),
	})
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.client.Set(ctx, sessionKey, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}
	return token, nil
}

// Validate compares token against the stored session. A missing or expired
// key is a normal nil result; only transport failures surface as errors.
func (s *RedisStore) Validate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, sessionKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var sess redisSession
	if err := json.Unmarshal(payload, &sess); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	if subtle.ConstantTimeCompare([]byte(sess.Token), []byte(token)) != 1 {
		return nil, nil
	}
	return &Identity{Username: sess.Username, Role: "admin"}, nil
}

// Revoke deletes the session key. Idempotent.
func (s *RedisStore) Revoke(ctx context.Context) error {
	if err := s.client.Del(ctx, sessionKey).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}
