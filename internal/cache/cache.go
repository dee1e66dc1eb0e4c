// Package cache holds recently loaded profiles so the admin gate and comment
// writes do not hit the profiles table on every request.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"tinkbyte-api/internal/domain"
)

// ErrMiss is returned when no fresh entry exists for a profile
var ErrMiss = errors.New("cache miss")

// DefaultTTL bounds how long a cached profile is trusted
const DefaultTTL = 5 * time.Minute

// Entry is a cached profile and the time it was read from the database
type Entry struct {
	Profile   domain.Profile `json:"profile"`
	FetchedAt time.Time      `json:"fetchedAt"`
}

// Fresh reports whether the entry is younger than ttl at now
func (e Entry) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

// ProfileCache stores profiles by user id. Every profile mutation must call Invalidate.
type ProfileCache interface {
	Get(ctx context.Context, userID uuid.UUID) (Entry, error)
	Set(ctx context.Context, profile *domain.Profile) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

func key(userID uuid.UUID) string {
	return "profile:" + userID.String()
}
