package intake

import (
	"context"

	"github.com/MrSnakeDoc/keeplater/internal/domain"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

// Guard serializes ingestion of the same URL across callers.
// unlock must be safe to call once after a successful Lock.
type Guard interface {
	Lock(ctx context.Context, url string) (unlock func(), err error)
}

// Ingestor wires Ingest to a store, an optional Guard and logging.
type Ingestor struct {
	store  domain.EntryStore
	guard  Guard
	logger logger.Logger
}

// Option configures an Ingestor.
type Option func(*Ingestor)

// WithGuard enables per-URL serialization of classify+insert.
// A nil guard keeps the unguarded behavior.
func WithGuard(g Guard) Option {
	return func(i *Ingestor) { i.guard = g }
}

// NewIngestor creates a new ingestor over store.
func NewIngestor(store domain.EntryStore, log logger.Logger, opts ...Option) *Ingestor {
	i := &Ingestor{
		store:  store,
		logger: log,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Store returns the underlying entry store.
func (i *Ingestor) Store() domain.EntryStore {
	return i.store
}

// Guarded reports whether a guard is configured.
func (i *Ingestor) Guarded() bool {
	return i.guard != nil
}

// Ingest is the package-level Ingest, run under the guard when one is set.
// A guard failure is logged and ingestion continues unguarded.
func (i *Ingestor) Ingest(ctx context.Context, q domain.ShareQuery) (Outcome, error) {
	candidate, ok := ExtractFromQuery(q)
	if !ok {
		i.logger.Debug("share rejected",
			logger.String("reason", ReasonNoURLFound))
		return rejected(ReasonNoURLFound), nil
	}

	if i.guard != nil {
		unlock, err := i.guard.Lock(ctx, candidate)
		if err != nil {
			i.logger.Warn("share guard unavailable, ingesting unguarded",
				logger.String("url", candidate),
				logger.Error(err))
		} else {
			defer unlock()
		}
	}

	out, err := ingestURL(ctx, candidate, i.store)
	if err != nil {
		return Outcome{}, err
	}

	i.logger.Info("share ingested",
		logger.String("status", out.Status.String()),
		logger.String("entry_id", out.Entry.ID),
		logger.String("url", out.Entry.URL))

	return out, nil
}

// List returns all entries.
func (i *Ingestor) List(ctx context.Context) ([]domain.Entry, error) {
	return ListEntries(ctx, i.store)
}
