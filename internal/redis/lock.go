package redisclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockNotAcquired = errors.New("allocation lock not acquired")
)

// Locker guards the check-and-insert critical section of the allocator.
// The lock is scoped to one (service, date, slot) key so allocations for
// different slots never contend with each other.
type Locker interface {
	WithAllocationLock(ctx context.Context, serviceID uuid.UUID, date time.Time, slot string, fn func(ctx context.Context) error) error
}

type redisAllocationLocker struct {
	client         *redis.Client
	ttl            time.Duration
	acquireTimeout time.Duration
}

// NewRedisAllocationLocker creates a locker backed by a per-key Redis value.
// A contender polls until acquireTimeout so that the second of two racing
// requests waits for the winner and then decides against the committed state.
func NewRedisAllocationLocker(client *redis.Client, ttl, acquireTimeout time.Duration) Locker {
	return &redisAllocationLocker{
		client:         client,
		ttl:            ttl,
		acquireTimeout: acquireTimeout,
	}
}

const acquirePollInterval = 25 * time.Millisecond

func (l *redisAllocationLocker) WithAllocationLock(ctx context.Context, serviceID uuid.UUID, date time.Time, slot string, fn func(ctx context.Context) error) error {
	key := fmt.Sprintf("lock:alloc:%s:%s:%s", serviceID.String(), date.Format("2006-01-02"), slot)
	token := uuid.NewString()

	if err := l.acquire(ctx, key, token); err != nil {
		return err
	}

	defer func() {
		_ = l.release(ctx, key, token)
	}()

	ctxWithTimeout, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(ctxWithTimeout)
}

func (l *redisAllocationLocker) acquire(ctx context.Context, key, token string) error {
	deadline := time.Now().Add(l.acquireTimeout)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return fmt.Errorf("acquire allocation lock: %w", err)
		}
		if ok {
			return nil
		}
		if time.Now().After(deadline) {
			return ErrLockNotAcquired
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(acquirePollInterval):
		}
	}
}

var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisAllocationLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("release allocation lock: %w", err)
	}
	return nil
}
