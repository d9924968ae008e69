package intake

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
)

// Classification is the duplicate check result for one candidate URL.
type Classification struct {
	Duplicate bool
	Existing  domain.Entry // first stored match, zero when !Duplicate
}

// Classify looks candidate up by exact string equality (no normalization).
//
// The check is not atomic with a later insert: two concurrent callers may
// both see "new". Use a Guard to serialize them.
func Classify(ctx context.Context, candidate string, store domain.EntryStore) (Classification, error) {
	matches, err := store.FindByURL(ctx, candidate)
	if err != nil {
		return Classification{}, fmt.Errorf("failed to look up url: %w", err)
	}

	if len(matches) == 0 {
		return Classification{}, nil
	}

	return Classification{Duplicate: true, Existing: matches[0]}, nil
}
