package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
	"github.com/MrSnakeDoc/keeplater/internal/intake"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
	"github.com/MrSnakeDoc/keeplater/internal/store/memory"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, logger.NewNop()), mr
}

func TestShareLockKey(t *testing.T) {
	key := ShareLockKey("https://example.com")

	assert.True(t, strings.HasPrefix(key, KeyPrefixShareLock))
	assert.Len(t, key, len(KeyPrefixShareLock)+64)
	assert.Equal(t, key, ShareLockKey("https://example.com"))
	assert.NotEqual(t, key, ShareLockKey("https://example.com/"))
}

func TestGuardLockAndUnlock(t *testing.T) {
	store, mr := newTestStore(t)
	g := NewShareGuard(store, time.Second, 100*time.Millisecond)

	unlock, err := g.Lock(context.Background(), "https://a.com")
	require.NoError(t, err)
	assert.True(t, mr.Exists(ShareLockKey("https://a.com")))
	assert.Greater(t, mr.TTL(ShareLockKey("https://a.com")), time.Duration(0))

	unlock()
	assert.False(t, mr.Exists(ShareLockKey("https://a.com")))
}

func TestGuardSecondLockWaits(t *testing.T) {
	store, _ := newTestStore(t)
	g := NewShareGuard(store, time.Second, 80*time.Millisecond)

	unlock, err := g.Lock(context.Background(), "https://a.com")
	require.NoError(t, err)

	_, err = g.Lock(context.Background(), "https://a.com")
	assert.ErrorIs(t, err, ErrLockTimeout)

	// Different URLs do not contend
	unlockB, err := g.Lock(context.Background(), "https://b.com")
	require.NoError(t, err)
	unlockB()

	unlock()
	unlockAgain, err := g.Lock(context.Background(), "https://a.com")
	require.NoError(t, err)
	unlockAgain()
}

func TestGuardLockAcquiredAfterRelease(t *testing.T) {
	store, _ := newTestStore(t)
	g := NewShareGuard(store, time.Second, time.Second)

	unlock, err := g.Lock(context.Background(), "https://a.com")
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		unlock()
	}()

	start := time.Now()
	unlock2, err := g.Lock(context.Background(), "https://a.com")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	unlock2()
}

func TestGuardUnlockKeepsForeignLock(t *testing.T) {
	store, mr := newTestStore(t)
	g := NewShareGuard(store, time.Second, 50*time.Millisecond)
	key := ShareLockKey("https://a.com")

	unlockStale, err := g.Lock(context.Background(), "https://a.com")
	require.NoError(t, err)

	// The first holder's lock expires and someone else takes it
	mr.FastForward(2 * time.Second)
	require.False(t, mr.Exists(key))
	unlockFresh, err := g.Lock(context.Background(), "https://a.com")
	require.NoError(t, err)
	fresh, err := mr.Get(key)
	require.NoError(t, err)

	unlockStale()
	got, err := mr.Get(key)
	require.NoError(t, err, "stale unlock must not delete the new holder's lock")
	assert.Equal(t, fresh, got)

	unlockFresh()
	assert.False(t, mr.Exists(key))
}

func TestGuardRedisDown(t *testing.T) {
	store, mr := newTestStore(t)
	g := NewShareGuard(store, time.Second, 100*time.Millisecond)
	mr.Close()

	_, err := g.Lock(context.Background(), "https://a.com")
	assert.Error(t, err)
}

func TestGuardDefaults(t *testing.T) {
	store, _ := newTestStore(t)
	g := NewShareGuard(store, 0, -1)

	assert.Equal(t, DefaultLockTTL, g.ttl)
	assert.Equal(t, DefaultLockWait, g.wait)
}

func TestStorePing(t *testing.T) {
	store, mr := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}

func TestGuardedIngestSavesOnce(t *testing.T) {
	const workers = 20

	store, _ := newTestStore(t)
	entries := memory.NewStore()
	ing := intake.NewIngestor(entries, logger.NewNop(),
		intake.WithGuard(NewShareGuard(store, 5*time.Second, 5*time.Second)))

	u := "https://race.example.com"
	g, ctx := errgroup.WithContext(context.Background())
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			_, err := ing.Ingest(ctx, domain.ShareQuery{URL: &u})
			return err
		})
	}
	require.NoError(t, g.Wait())

	n, err := entries.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
