package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks live sessions server-side so logout revokes tokens
// before they expire. When Redis is not configured the store degrades to
// accepting any syntactically valid token.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore wraps the Redis client. A nil client disables revocation.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Put registers a session for the subject with the token lifetime.
func (s *SessionStore) Put(ctx context.Context, sessionID string, subjectID int64, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Set(ctx, sessionKey(sessionID), strconv.FormatInt(subjectID, 10), ttl).Err()
}

// Alive reports whether the session is still registered.
func (s *SessionStore) Alive(ctx context.Context, sessionID string) (bool, error) {
	if s == nil || s.client == nil {
		return true, nil
	}
	n, err := s.client.Exists(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Revoke removes the session. Logout clears all session-scoped state.
func (s *SessionStore) Revoke(ctx context.Context, sessionID string) error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Del(ctx, sessionKey(sessionID)).Err()
}
