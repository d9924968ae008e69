package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

var _ domain.EntryStore = (*Store)(nil)

// Store is the relational EntryStore (Postgres or SQLite through gorm).
type Store struct {
	db     *gorm.DB
	driver Driver
	logger logger.Logger

	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// Open connects to the database described by opts.URL and configures the pool.
// It does not migrate; call Migrate explicitly.
func Open(opts Options, log logger.Logger) (*Store, error) {
	driver, dsn, err := ParseURL(opts.URL)
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("driver %q is not backed by a database", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:  newGormLogger(log, opts.SlowQuery),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	log.Info("database opened",
		logger.String("driver", string(driver)),
		logger.String("url", redact(opts.URL)))

	return &Store{
		db:     db,
		driver: driver,
		logger: log,
		now:    time.Now,
	}, nil
}

// Driver returns the backend in use.
func (s *Store) Driver() Driver {
	return s.driver
}

// Migrate creates or extends the entries table. Additive only.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&entryRecord{}); err != nil {
		return fmt.Errorf("failed to migrate entries: %w", err)
	}
	return nil
}

func (s *Store) FindByURL(ctx context.Context, url string) ([]domain.Entry, error) {
	var records []entryRecord
	err := s.db.WithContext(ctx).
		Where("url = ?", url).
		Order("created_at, id").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find entries by url: %w", err)
	}
	return toDomain(records), nil
}

func (s *Store) Insert(ctx context.Context, url string) (domain.Entry, error) {
	rec := entryRecord{
		ID:        domain.NewEntryID(),
		URL:       url,
		CreatedAt: s.nextCreatedAt(),
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return domain.Entry{}, fmt.Errorf("failed to insert entry: %w", err)
	}
	return rec.toDomain(), nil
}

func (s *Store) ListAll(ctx context.Context) ([]domain.Entry, error) {
	var records []entryRecord
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return toDomain(records), nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&entryRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

// Truncate deletes every entry and keeps the schema.
func (s *Store) Truncate(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&entryRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to truncate entries: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// Drop removes the entries table.
func (s *Store) Drop(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Migrator().DropTable(&entryRecord{}); err != nil {
		return fmt.Errorf("failed to drop entries: %w", err)
	}
	return nil
}

// Ping checks the database link.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// nextCreatedAt keeps CreatedAt non-decreasing for this process.
// Truncated to microseconds, the Postgres timestamp resolution.
func (s *Store) nextCreatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.now().UTC().Truncate(time.Microsecond)
	if t.Before(s.last) {
		t = s.last
	}
	s.last = t
	return t
}
