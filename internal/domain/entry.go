package domain

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entry represents one saved URL.
//
// Entries are created once and never updated or deleted by the application.
// The URL is NOT unique at the storage level: duplicate detection happens in
// the intake layer before insert.
type Entry struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is an opaque identifier generated at creation (ULID).
	ID string

	// URL is the saved http(s) URL, stored verbatim.
	URL string

	// ─────────────────────────────
	// Metadata
	// ─────────────────────────────

	// CreatedAt is set by the store at insert time.
	CreatedAt time.Time
}

// EntryStore is the persistence contract consumed by the intake layer.
// Implementations must be safe for concurrent use.
type EntryStore interface {
	// FindByURL returns every entry whose URL equals url exactly
	// (case-sensitive), in store order. No match is not an error.
	FindByURL(ctx context.Context, url string) ([]Entry, error)

	// Insert persists a new entry for url and returns it.
	Insert(ctx context.Context, url string) (Entry, error)

	// ListAll returns all entries in store order.
	ListAll(ctx context.Context) ([]Entry, error)
}

// NewEntryID returns a new lexicographically sortable entry ID.
func NewEntryID() string {
	return ulid.Make().String()
}
