// File: internal/infra/redis/session_store.go
package redis

import (
	"context"
	"errors"
	"time"

	"propfirm-web/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.SessionStore = (*SessionStore)(nil)

// SessionStore holds the per-visitor key-value channel pages use to hand
// selections to one another. Each write refreshes the key's lifetime so an
// active session never loses its checkout context mid-flow.
type SessionStore struct {
	client *redClient
	ttl    time.Duration
}

func NewSessionStore(client *redClient, ttl time.Duration) repository.SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) sessionKey(sessionID, key string) string {
	return "session:" + sessionID + ":" + key
}

func (s *SessionStore) Set(ctx context.Context, sessionID, key, value string) error {
	return s.client.Set(ctx, s.sessionKey(sessionID, key), value, s.ttl)
}

func (s *SessionStore) Get(ctx context.Context, sessionID, key string) (string, error) {
	v, err := s.client.Get(ctx, s.sessionKey(sessionID, key))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, s.sessionKey(sessionID, k))
	}
	if len(full) == 0 {
		return nil
	}
	return s.client.Del(ctx, full...)
}
