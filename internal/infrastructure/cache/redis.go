package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"kbcportal/internal/domain"
)

const sessionPrefix = "session:"

// SessionStore keeps live sessions on redis. A session is gone once its key
// expires or is deleted, which is what makes logout immediate.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) Save(ctx context.Context, sessionID string, userID uint, ttl time.Duration) error {
	return s.client.Set(ctx, sessionPrefix+sessionID, strconv.FormatUint(uint64(userID), 10), ttl).Err()
}

func (s *SessionStore) Get(ctx context.Context, sessionID string) (uint, error) {
	val, err := s.client.Get(ctx, sessionPrefix+sessionID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrSessionNotFound
		}
		return 0, err
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, domain.ErrSessionNotFound
	}
	return uint(id), nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionPrefix+sessionID).Err()
}

// VideoCache stores JSON values for the video read-through cache.
type VideoCache struct {
	client *redis.Client
}

func NewVideoCache(client *redis.Client) *VideoCache {
	return &VideoCache{client: client}
}

func (c *VideoCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (c *VideoCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl).Err()
}
