package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/subtrack/internal/index"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
	redisstore "github.com/MrSnakeDoc/subtrack/internal/store/redis"
)

// Purger permanently removes soft-deleted subscriptions once they have been
// deleted for longer than the threshold. Until then a delete can be undone
// by recreating the record or putting it back in the seed file.
type Purger struct {
	store     *redisstore.Store
	index     *index.MemoryIndex
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	timeNow   func() time.Time
	stopCh    chan struct{}
}

// NewPurger creates a new purger
func NewPurger(
	store *redisstore.Store,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *Purger {
	return &Purger{
		store:     store,
		index:     idx,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		timeNow:   time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic purge
func (p *Purger) Start(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := p.Purge(ctx); err != nil {
					p.logger.Error("purge pass failed",
						logger.Error(err))
				}
			case <-p.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the purger
func (p *Purger) Stop() {
	close(p.stopCh)
}

// Purge removes soft-deleted records older than the threshold from both the
// index and the store.
func (p *Purger) Purge(ctx context.Context) error {
	now := p.timeNow()
	var purged int

	for _, sub := range p.index.All() {
		if !sub.Deleted || now.Sub(sub.UpdatedAt) < p.threshold {
			continue
		}

		if p.store != nil {
			if err := p.store.Delete(ctx, sub.ID); err != nil {
				p.logger.Warn("failed to purge subscription from store",
					logger.String("subscription_id", sub.ID),
					logger.Error(err))
				continue
			}
		}

		p.index.Delete(sub.ID)
		purged++

		p.logger.Debug("purged soft-deleted subscription",
			logger.String("subscription_id", sub.ID),
			logger.String("name", sub.Name))
	}

	if purged > 0 {
		p.logger.Info("purge pass completed",
			logger.Int("purged", purged))
	}

	return nil
}
