package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	SessionTTL    = 14 * 24 * time.Hour
	SessionCookie = "sessionid"
)

// SessionStore wraps Redis for session management.
type SessionStore struct {
	rdb *redis.Client
}

func NewSessionStore(rdb *redis.Client) *SessionStore {
	return &SessionStore{rdb: rdb}
}

// Create stores a new session mapping sessionID -> userID.
func (s *SessionStore) Create(ctx context.Context, userID int64) (string, error) {
	sid := uuid.New().String()
	err := s.rdb.Set(ctx, key(sid), strconv.FormatInt(userID, 10), SessionTTL).Err()
	return sid, err
}

// Get returns the userID for a session, or 0 if not found / expired.
func (s *SessionStore) Get(ctx context.Context, sessionID string) (int64, error) {
	val, err := s.rdb.Get(ctx, key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		// Unparseable payloads are treated as an expired session.
		return 0, nil
	}
	return id, nil
}

// Delete removes a session.
func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, key(sessionID)).Err()
}

func key(sessionID string) string {
	return "session:" + sessionID
}
