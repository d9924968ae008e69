package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
)

var _ domain.EntryStore = (*Store)(nil)

// Store provides in-memory storage for entries.
// It backs DATABASE_URL=memory:// and the tests; nothing survives a restart.
type Store struct {
	mu      sync.RWMutex
	entries []domain.Entry   // insertion order
	byURL   map[string][]int // URL -> positions in entries
	last    time.Time        // CreatedAt of the newest entry
	now     func() time.Time
}

// NewStore creates a new, empty memory store
func NewStore() *Store {
	return &Store{
		byURL: make(map[string][]int),
		now:   time.Now,
	}
}

// FindByURL returns entries whose URL equals url, oldest first
func (s *Store) FindByURL(_ context.Context, url string) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	positions := s.byURL[url]
	matches := make([]domain.Entry, 0, len(positions))
	for _, pos := range positions {
		matches = append(matches, s.entries[pos])
	}
	return matches, nil
}

// Insert appends a new entry for url
func (s *Store) Insert(_ context.Context, url string) (domain.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep CreatedAt non-decreasing even if the wall clock steps back
	createdAt := s.now().UTC()
	if createdAt.Before(s.last) {
		createdAt = s.last
	}
	s.last = createdAt

	entry := domain.Entry{
		ID:        domain.NewEntryID(),
		URL:       url,
		CreatedAt: createdAt,
	}

	s.byURL[url] = append(s.byURL[url], len(s.entries))
	s.entries = append(s.entries, entry)

	return entry, nil
}

// ListAll returns all entries in insertion order
func (s *Store) ListAll(_ context.Context) ([]domain.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]domain.Entry, len(s.entries))
	copy(entries, s.entries)
	return entries, nil
}

// Count returns the number of stored entries
func (s *Store) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.entries)), nil
}

// Truncate removes every entry
func (s *Store) Truncate(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.entries))
	s.entries = nil
	s.byURL = make(map[string][]int)
	return n, nil
}

// Ping always succeeds
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Migrate is a no-op; there is no schema.
func (s *Store) Migrate(_ context.Context) error {
	return nil
}

// Drop discards every entry, like Truncate.
func (s *Store) Drop(ctx context.Context) error {
	_, err := s.Truncate(ctx)
	return err
}

func (s *Store) Close() error {
	return nil
}
