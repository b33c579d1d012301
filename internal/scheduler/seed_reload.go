package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/subtrack/internal/index"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
	"github.com/MrSnakeDoc/subtrack/internal/sources/seed"
	redisstore "github.com/MrSnakeDoc/subtrack/internal/store/redis"
)

// SeedReloader periodically re-reads the seed file and reconciles the
// collection: seed records are upserted in place, seed records that
// disappeared from the file are soft-deleted, API-created records are left
// alone.
type SeedReloader struct {
	loader        *seed.Loader
	mapper        *seed.Mapper
	store         *redisstore.Store
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	timeNow       func() time.Time
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewSeedReloader creates a new seed reloader
func NewSeedReloader(
	loader *seed.Loader,
	mapper *seed.Mapper,
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	trigger chan struct{},
) *SeedReloader {
	if trigger == nil {
		trigger = make(chan struct{}, 1)
	}
	return &SeedReloader{
		loader:        loader,
		mapper:        mapper,
		store:         store,
		index:         idx,
		logger:        log,
		interval:      interval,
		timeNow:       time.Now,
		stopCh:        make(chan struct{}),
		manualTrigger: trigger,
	}
}

// Start begins the periodic reload
func (sr *SeedReloader) Start(ctx context.Context) error {
	// Run immediately on start
	if err := sr.Reload(ctx); err != nil {
		sr.logger.Warn("initial seed reload failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(sr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("periodic seed reload failed",
						logger.Error(err))
				}
			case <-sr.manualTrigger:
				if err := sr.Reload(ctx); err != nil {
					sr.logger.Error("manual seed reload failed",
						logger.Error(err))
				}
			case <-sr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (sr *SeedReloader) Stop() {
	close(sr.stopCh)
}

// Trigger requests an immediate reload without waiting for the ticker.
func (sr *SeedReloader) Trigger() {
	select {
	case sr.manualTrigger <- struct{}{}:
	default:
		// A reload is already pending
	}
}

// Reload runs one reconciliation pass against the seed file.
func (sr *SeedReloader) Reload(ctx context.Context) error {
	start := sr.timeNow()

	file, err := sr.loader.Load()
	if err != nil {
		return err
	}

	fromFile, err := sr.mapper.Map(file)
	if err != nil {
		return err
	}

	inFile := make(map[string]bool, len(fromFile))
	var upserted, removed int

	for _, sub := range fromFile {
		inFile[sub.ID] = true
		if existing, ok := sr.index.Get(sub.ID); ok {
			// Keep the original creation time so collection order is stable
			// across reloads. A record back in the file is live again.
			sub.CreatedAt = existing.CreatedAt
		}
		sr.index.Put(sub)
		upserted++
	}

	// Seed records no longer in the file get soft-deleted; the purge
	// scheduler removes them for good later.
	for _, sub := range sr.index.All() {
		if sub.Source != seed.SourceName || sub.Deleted || inFile[sub.ID] {
			continue
		}
		sub.Deleted = true
		sub.Active = false
		sub.UpdatedAt = start
		sr.index.Put(sub)
		fromFile = append(fromFile, sub)
		removed++
	}

	if sr.store != nil {
		if err := sr.store.SaveMany(ctx, fromFile); err != nil {
			sr.logger.Warn("failed to persist reloaded seed records",
				logger.Error(err))
		}
	}

	sr.logger.Info("seed file reloaded",
		logger.Int("upserted", upserted),
		logger.Int("soft_deleted", removed),
		logger.Duration("took", time.Since(start)))

	return nil
}
