package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const defaultTTL = 7 * 24 * time.Hour

// RedisStore keeps wizard sessions in Redis with a sliding TTL, so abandoned
// configurations expire on their own.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps a Redis client. A non-positive TTL falls back to the
// seven-day default.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return "mycards:session:" + id
}

// Load returns the saved state and refreshes the TTL.
func (s *RedisStore) Load(ctx context.Context, id string) (State, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, ErrNotFound
		}
		return State{}, fmt.Errorf("session: redis get: %w", err)
	}

	var state State
	if errDecode := json.Unmarshal(raw, &state); errDecode != nil {
		return State{}, fmt.Errorf("session: decode state: %w", errDecode)
	}

	// Activity keeps the session alive. A failed refresh only shortens the
	// session's remaining life; it must not fail the load itself.
	if errExpire := s.client.Expire(ctx, sessionKey(id), s.ttl).Err(); errExpire != nil {
		log.WithError(errExpire).Warnf("session %s: ttl refresh failed", id)
	}
	return state, nil
}

// Save overwrites the state and resets the TTL.
func (s *RedisStore) Save(ctx context.Context, id string, state State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("session: encode state: %w", err)
	}
	if errSet := s.client.Set(ctx, sessionKey(id), raw, s.ttl).Err(); errSet != nil {
		return fmt.Errorf("session: redis set: %w", errSet)
	}
	return nil
}

// Clear removes the session.
func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
