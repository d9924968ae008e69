package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

// ErrLockTimeout is returned when a share lock is still held after the wait budget.
var ErrLockTimeout = errors.New("share lock wait exceeded")

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ShareGuard serializes ingestion of the same URL across processes sharing a Redis.
type ShareGuard struct {
	store *Store
	ttl   time.Duration
	wait  time.Duration
	poll  time.Duration
}

// NewShareGuard creates a guard. Non-positive durations fall back to the defaults.
func NewShareGuard(store *Store, ttl, wait time.Duration) *ShareGuard {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	if wait <= 0 {
		wait = DefaultLockWait
	}
	return &ShareGuard{
		store: store,
		ttl:   ttl,
		wait:  wait,
		poll:  lockPollInterval,
	}
}

// Lock acquires the lock for url (SET NX with a TTL), polling until the wait
// budget runs out. The returned unlock releases it only if still owned.
func (g *ShareGuard) Lock(ctx context.Context, url string) (func(), error) {
	key := ShareLockKey(url)
	token := domain.NewEntryID()

	ctx, cancel := context.WithTimeout(ctx, g.wait)
	defer cancel()

	ticker := time.NewTicker(g.poll)
	defer ticker.Stop()

	for {
		ok, err := g.store.client.SetNX(ctx, key, token, g.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s", ErrLockTimeout, url)
			}
			return nil, fmt.Errorf("failed to acquire share lock: %w", err)
		}
		if ok {
			return func() { g.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, url)
		case <-ticker.C:
		}
	}
}

// release runs detached from the request context, which may already be cancelled.
func (g *ShareGuard) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if err := releaseScript.Run(ctx, g.store.client, []string{key}, token).Err(); err != nil {
		g.store.logger.Warn("failed to release share lock",
			logger.String("key", key),
			logger.Error(err))
	}
}
