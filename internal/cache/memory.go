package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"tinkbyte-api/internal/domain"
)

// MemoryProfileCache is an in-process LRU with a TTL per entry
type MemoryProfileCache struct {
	lru *lru.Cache[string, Entry]
	ttl time.Duration
	now func() time.Time
}

// NewMemoryProfileCache creates a cache holding at most size profiles
func NewMemoryProfileCache(size int, ttl time.Duration) (*MemoryProfileCache, error) {
	if size <= 0 {
		size = 1000
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	l, err := lru.New[string, Entry](size)
	if err != nil {
		return nil, fmt.Errorf("create lru cache: %w", err)
	}
	return &MemoryProfileCache{lru: l, ttl: ttl, now: time.Now}, nil
}

func (c *MemoryProfileCache) Get(ctx context.Context, userID uuid.UUID) (Entry, error) {
	k := key(userID)
	entry, ok := c.lru.Get(k)
	if !ok {
		return Entry{}, ErrMiss
	}
	if !entry.Fresh(c.now(), c.ttl) {
		c.lru.Remove(k)
		return Entry{}, ErrMiss
	}
	return entry, nil
}

func (c *MemoryProfileCache) Set(ctx context.Context, profile *domain.Profile) error {
	if profile == nil {
		return nil
	}
	c.lru.Add(key(profile.ID), Entry{Profile: *profile, FetchedAt: c.now()})
	return nil
}

func (c *MemoryProfileCache) Invalidate(ctx context.Context, userID uuid.UUID) error {
	c.lru.Remove(key(userID))
	return nil
}

// Len returns the number of cached entries, stale ones included
func (c *MemoryProfileCache) Len() int {
	return c.lru.Len()
}
