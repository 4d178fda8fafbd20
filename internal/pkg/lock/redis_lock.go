package lock

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// JobLocker keeps horizontally scaled instances from running the same job
// tick twice. Acquire is best-effort: a lost lock means at-least-once, never
// zero-times.
type JobLocker interface {
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string)
}

type RedisJobLocker struct {
	client *redis.Client
}

func NewRedisJobLocker(client *redis.Client) *RedisJobLocker {
	return &RedisJobLocker{client: client}
}

func (l *RedisJobLocker) key(name string) string {
	return "jobs:lock:" + name
}

func (l *RedisJobLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return l.client.SetNX(ctx, l.key(name), time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

func (l *RedisJobLocker) Release(ctx context.Context, name string) {
	l.client.Del(ctx, l.key(name))
}

// NoopJobLocker is the fallback when redis is unavailable; every acquire
// succeeds, so scheduling degrades to single-instance semantics.
type NoopJobLocker struct{}

func (NoopJobLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (NoopJobLocker) Release(ctx context.Context, name string) {}
