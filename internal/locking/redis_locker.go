package locking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLockNotAcquired is returned when the lock could not be taken before ctx ended.
var ErrLockNotAcquired = errors.New("lock not acquired")

const defaultRetryInterval = 25 * time.Millisecond

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker is a Locker shared by every process pointing at the same Redis.
// The TTL bounds how long a crashed holder can block others.
type RedisLocker struct {
	client        *redis.Client
	prefix        string
	ttl           time.Duration
	retryInterval time.Duration
	local         *LocalLocker
}

// NewRedisLocker creates a Redis-backed locker. With a nil client it degrades to
// an in-process lock.
func NewRedisLocker(client *redis.Client, prefix string, ttl time.Duration) *RedisLocker {
	return &RedisLocker{
		client:        client,
		prefix:        prefix,
		ttl:           ttl,
		retryInterval: defaultRetryInterval,
		local:         NewLocalLocker(),
	}
}

// GetLockKey generates a lock key with prefix
func (l *RedisLocker) GetLockKey(name string) string {
	return fmt.Sprintf("%slock:%s", l.prefix, name)
}

func (l *RedisLocker) WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if l.client == nil {
		return l.local.WithLock(ctx, name, fn)
	}

	key := l.GetLockKey(name)
	token := uuid.New().String()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}
	defer l.release(key, token)

	return fn(ctx)
}

func (l *RedisLocker) acquire(ctx context.Context, key, token string) error {
	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return fmt.Errorf("%w: %s: %w", ErrLockNotAcquired, key, ctxErr)
			}
			return fmt.Errorf("lock acquire error: %w", err)
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %w", ErrLockNotAcquired, key, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) release(key, token string) {
	// release even when the request context is already canceled
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
		slog.ErrorContext(ctx, "Failed to release lock",
			"error", err,
			"key", key)
	}
}

// HealthCheck verifies Redis connectivity
func (l *RedisLocker) HealthCheck(ctx context.Context) error {
	if l.client == nil {
		return nil
	}
	if _, err := l.client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("lock backend health check failed: %w", err)
	}
	return nil
}
