package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"tinkbyte-api/internal/domain"
)

// RedisProfileCache shares cached profiles between replicas.
// Keys expire after ttl so a missed invalidation heals on its own.
type RedisProfileCache struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisProfileCache wraps an existing client
func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisProfileCache{client: client, ttl: ttl, now: time.Now}
}

func (c *RedisProfileCache) Get(ctx context.Context, userID uuid.UUID) (Entry, error) {
	data, err := c.client.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Entry{}, ErrMiss
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get cached profile: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		// unreadable entries are treated as absent and overwritten on the next Set
		return Entry{}, ErrMiss
	}
	if !entry.Fresh(c.now(), c.ttl) {
		return Entry{}, ErrMiss
	}
	return entry, nil
}

func (c *RedisProfileCache) Set(ctx context.Context, profile *domain.Profile) error {
	if profile == nil {
		return nil
	}
	data, err := json.Marshal(Entry{Profile: *profile, FetchedAt: c.now()})
	if err != nil {
		return fmt.Errorf("marshal cached profile: %w", err)
	}
	if err := c.client.Set(ctx, key(profile.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached profile: %w", err)
	}
	return nil
}

func (c *RedisProfileCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached profile: %w", err)
	}
	return nil
}
