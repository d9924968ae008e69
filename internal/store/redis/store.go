package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

const (
	// DefaultLockTTL bounds how long a crashed holder can block a URL
	DefaultLockTTL = 5 * time.Second
	// DefaultLockWait is how long Lock polls before giving up
	DefaultLockWait = 2 * time.Second

	lockPollInterval = 20 * time.Millisecond
	releaseTimeout   = time.Second
)

// Store wraps the Redis client shared by keeplater's coordination features.
type Store struct {
	client *redis.Client
	logger logger.Logger
}

// NewStore creates a Redis store over an already connected client.
func NewStore(client *redis.Client, log logger.Logger) *Store {
	return &Store{
		client: client,
		logger: log,
	}
}

// Client returns the underlying Redis client
func (s *Store) Client() *redis.Client {
	return s.client
}

// Ping checks the Redis link
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
