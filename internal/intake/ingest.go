package intake

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
)

// Ingest runs extraction, duplicate detection and insert for one query.
//
// Expected conditions come back as an Outcome; store errors are returned
// as-is (wrapped) and never retried. On the new path exactly one Insert is
// issued, on the other paths none.
func Ingest(ctx context.Context, q domain.ShareQuery, store domain.EntryStore) (Outcome, error) {
	candidate, ok := ExtractFromQuery(q)
	if !ok {
		return rejected(ReasonNoURLFound), nil
	}
	return ingestURL(ctx, candidate, store)
}

func ingestURL(ctx context.Context, candidate string, store domain.EntryStore) (Outcome, error) {
	class, err := Classify(ctx, candidate, store)
	if err != nil {
		return Outcome{}, err
	}
	if class.Duplicate {
		return alreadySaved(class.Existing), nil
	}

	entry, err := store.Insert(ctx, candidate)
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to insert entry: %w", err)
	}
	return saved(entry), nil
}

// ListEntries returns every stored entry in store order.
func ListEntries(ctx context.Context, store domain.EntryStore) ([]domain.Entry, error) {
	entries, err := store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	if entries == nil {
		entries = []domain.Entry{}
	}
	return entries, nil
}
