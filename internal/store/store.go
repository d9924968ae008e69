// Package store selects the entry store backend from DATABASE_URL.
package store

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
	"github.com/MrSnakeDoc/keeplater/internal/store/database"
	"github.com/MrSnakeDoc/keeplater/internal/store/memory"
)

// Store is an EntryStore plus the maintenance operations used by the CLI and ops endpoints.
type Store interface {
	domain.EntryStore
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
	Migrate(ctx context.Context) error
	Truncate(ctx context.Context) (int64, error)
	Drop(ctx context.Context) error
	Close() error
}

var (
	_ Store = (*database.Store)(nil)
	_ Store = (*memory.Store)(nil)
)

// Open returns the backend named by opts.URL.
func Open(opts database.Options, log logger.Logger) (Store, database.Driver, error) {
	driver, _, err := database.ParseURL(opts.URL)
	if err != nil {
		return nil, "", err
	}

	if driver == database.DriverMemory {
		log.Warn("using in-memory entry store, entries are lost on restart")
		return memory.NewStore(), driver, nil
	}

	db, err := database.Open(opts, log)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open entry store: %w", err)
	}
	return db, driver, nil
}
