package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clearbooks/ledger-api/internal/core/domain"
)

const sessionPrefix = "session:"

// SessionStore keeps active sessions in Redis with a TTL matching their
// expiry. Deleting a key is how a bearer token is invalidated: the auth
// middleware treats a missing session as a 401.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, sess domain.Session) error {
	if sess.ID == "" {
		return errors.New("session id cannot be empty")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.client.Set(ctx, sessionPrefix+sess.ID, data, ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, id string) (domain.Session, error) {
	if id == "" {
		return domain.Session{}, domain.ErrSessionExpired
	}

	data, err := s.client.Get(ctx, sessionPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Session{}, domain.ErrSessionExpired
		}
		return domain.Session{}, fmt.Errorf("session get: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return domain.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	// Redis TTL should have expired the key already; check anyway.
	if sess.Expired() {
		_ = s.Delete(ctx, id)
		return domain.Session{}, domain.ErrSessionExpired
	}
	return sess, nil
}

func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.client.Del(ctx, sessionPrefix+id).Err()
}
