package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MrSnakeDoc/keeplater/internal/intake"
	"github.com/MrSnakeDoc/keeplater/internal/logger"
	"github.com/MrSnakeDoc/keeplater/internal/sources/homepage"
)

// ImportStats summarizes one import run
type ImportStats struct {
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
	Total        int       `json:"total"`
	Saved        int       `json:"saved"`
	AlreadySaved int       `json:"already_saved"`
	Rejected     int       `json:"rejected"`
	Failed       int       `json:"failed"`
	Error        string    `json:"error,omitempty"`
}

// Importer pushes a Homepage bookmarks file through ingestion, at start,
// periodically and on manual trigger. Seeds already stored come back as
// AlreadySaved, so re-imports never duplicate.
type Importer struct {
	loader        *homepage.Loader
	ingestor      *intake.Ingestor
	logger        logger.Logger
	interval      time.Duration
	manualTrigger chan struct{}
	stopCh        chan struct{}
	done          chan struct{}
	stopOnce      sync.Once

	mu   sync.RWMutex
	last ImportStats
	runs int
}

// NewImporter creates a new importer. manualTrigger may be nil.
func NewImporter(
	seedFile string,
	ingestor *intake.Ingestor,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *Importer {
	return &Importer{
		loader:        homepage.NewLoader(seedFile),
		ingestor:      ingestor,
		logger:        log,
		interval:      interval,
		manualTrigger: manualTrigger,
		stopCh:        make(chan struct{}),
		done:          make(chan struct{}),
	}
}

// Start runs an initial import and then the periodic loop.
// An initial failure is logged; the loop still starts so a fixed file is
// picked up by the next tick or trigger.
func (im *Importer) Start(ctx context.Context) {
	if _, err := im.Import(ctx); err != nil {
		im.logger.Error("initial seed import failed",
			logger.String("file", im.loader.Path()),
			logger.Error(err))
	}

	ticker := time.NewTicker(im.interval)
	go func() {
		defer close(im.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				im.runLogged(ctx)
			case <-im.manualTrigger:
				im.logger.Info("manual seed import triggered")
				im.runLogged(ctx)
			case <-im.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the loop and waits for it to exit. Only valid after Start.
func (im *Importer) Stop() {
	im.stopOnce.Do(func() { close(im.stopCh) })
	<-im.done
}

func (im *Importer) runLogged(ctx context.Context) {
	if _, err := im.Import(ctx); err != nil {
		im.logger.Error("failed to import seed file",
			logger.String("file", im.loader.Path()),
			logger.Error(err))
	}
}

// Import loads the file once and ingests every seed.
// Per-seed store errors are counted, not fatal.
func (im *Importer) Import(ctx context.Context) (ImportStats, error) {
	stats := ImportStats{StartedAt: time.Now()}

	seeds, err := im.load()
	if err != nil {
		stats.FinishedAt = time.Now()
		stats.Error = err.Error()
		im.record(stats)
		return stats, err
	}

	stats = Ingest(ctx, im.ingestor, seeds, im.logger)
	im.record(stats)

	im.logger.Info("seed import finished",
		logger.String("file", im.loader.Path()),
		logger.Int("total", stats.Total),
		logger.Int("saved", stats.Saved),
		logger.Int("already_saved", stats.AlreadySaved),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed))

	return stats, nil
}

func (im *Importer) load() ([]homepage.Seed, error) {
	config, err := im.loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load seed file: %w", err)
	}
	seeds, err := homepage.Seeds(config)
	if err != nil {
		return nil, fmt.Errorf("failed to map seed file: %w", err)
	}
	return seeds, nil
}

func (im *Importer) record(stats ImportStats) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.last = stats
	im.runs++
}

// Stats returns the last run and the number of runs so far
func (im *Importer) Stats() (ImportStats, int) {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.last, im.runs
}

// File returns the seed file path
func (im *Importer) File() string {
	return im.loader.Path()
}

// Ingest runs seeds through the ingestor and tallies the outcomes.
// Shared by the scheduler and the import command.
func Ingest(ctx context.Context, ing *intake.Ingestor, seeds []homepage.Seed, log logger.Logger) ImportStats {
	stats := ImportStats{StartedAt: time.Now(), Total: len(seeds)}

	for _, seed := range seeds {
		if ctx.Err() != nil {
			stats.Failed += stats.Total - stats.Saved - stats.AlreadySaved - stats.Rejected - stats.Failed
			stats.Error = ctx.Err().Error()
			break
		}

		out, err := ing.Ingest(ctx, seed.Query())
		if err != nil {
			stats.Failed++
			log.Warn("failed to import bookmark",
				logger.String("name", seed.Name),
				logger.String("href", seed.Href),
				logger.Error(err))
			continue
		}

		switch out.Status {
		case intake.StatusSaved:
			stats.Saved++
		case intake.StatusAlreadySaved:
			stats.AlreadySaved++
		case intake.StatusRejected:
			stats.Rejected++
			log.Debug("bookmark has no valid url",
				logger.String("name", seed.Name),
				logger.String("href", seed.Href))
		}
	}

	stats.FinishedAt = time.Now()
	return stats
}
