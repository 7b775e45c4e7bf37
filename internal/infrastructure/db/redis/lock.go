package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockTTL = time.Minute

// SeedLock is a coarse distributed lock guarding the bootstrap seeding run.
// Seeding is idempotent on its own; the lock only keeps multiple replicas
// from hammering the store with the same writes at startup.
// Key format: seedlock:<name>
type SeedLock struct {
	client *redis.Client
}

// NewSeedLock creates a SeedLock wrapping the given Redis client.
func NewSeedLock(client *redis.Client) *SeedLock {
	return &SeedLock{client: client}
}

// Acquire attempts to take the named lock. It reports false without error
// when another holder already owns it.
func (l *SeedLock) Acquire(ctx context.Context, name string) (bool, error) {
	ok, err := l.client.SetNX(ctx, l.key(name), "1", lockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("acquire seed lock: %w", err)
	}
	return ok, nil
}

// Release drops the named lock. Safe to call when the lock has already
// expired.
func (l *SeedLock) Release(ctx context.Context, name string) error {
	if err := l.client.Del(ctx, l.key(name)).Err(); err != nil {
		return fmt.Errorf("release seed lock: %w", err)
	}
	return nil
}

func (l *SeedLock) key(name string) string {
	return "seedlock:" + name
}
