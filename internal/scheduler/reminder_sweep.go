package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
	"github.com/MrSnakeDoc/subtrack/internal/index"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
	"github.com/MrSnakeDoc/subtrack/internal/notify"
	redisstore "github.com/MrSnakeDoc/subtrack/internal/store/redis"
)

// DedupeStore is the slice of the Redis store the sweep needs: one marker
// per (subscription, occurrence) so reminders go out once.
type DedupeStore interface {
	MarkNotified(ctx context.Context, id, occurrence string, ttl time.Duration) (bool, error)
}

// ReminderSweep periodically walks the collection, finds subscriptions due
// within the window and hands them to the notifier. The recurrence math
// lives in domain; this only schedules and dedupes.
type ReminderSweep struct {
	index      *index.MemoryIndex
	dedupe     DedupeStore
	notifier   notify.Notifier
	logger     logger.Logger
	interval   time.Duration
	windowDays int
	urgentDays int
	timeNow    func() time.Time
	stopCh     chan struct{}
}

// NewReminderSweep creates a new reminder sweep
func NewReminderSweep(
	idx *index.MemoryIndex,
	dedupe DedupeStore,
	notifier notify.Notifier,
	log logger.Logger,
	interval time.Duration,
	windowDays int,
	urgentDays int,
) *ReminderSweep {
	return &ReminderSweep{
		index:      idx,
		dedupe:     dedupe,
		notifier:   notifier,
		logger:     log,
		interval:   interval,
		windowDays: windowDays,
		urgentDays: urgentDays,
		timeNow:    time.Now,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the periodic sweep
func (rs *ReminderSweep) Start(ctx context.Context) error {
	// Run immediately on start
	if err := rs.Sweep(ctx); err != nil {
		rs.logger.Warn("initial reminder sweep failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(rs.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := rs.Sweep(ctx); err != nil {
					rs.logger.Error("reminder sweep failed",
						logger.Error(err))
				}
			case <-rs.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the sweep
func (rs *ReminderSweep) Stop() {
	close(rs.stopCh)
}

// Sweep runs one pass: window aggregation, dedupe, dispatch.
func (rs *ReminderSweep) Sweep(ctx context.Context) error {
	now := rs.timeNow()
	upcoming := domain.UpcomingWithin(rs.index.Visible(), rs.windowDays, now)
	if len(upcoming) == 0 {
		rs.logger.Debug("no upcoming renewals in window",
			logger.Int("window_days", rs.windowDays))
		return nil
	}

	if upcoming[0].DaysLeft <= rs.urgentDays {
		rs.logger.Warn("renewal due soon",
			logger.String("subscription_id", upcoming[0].Sub.ID),
			logger.String("name", upcoming[0].Sub.Name),
			logger.Time("next_bill", upcoming[0].NextDate),
			logger.Int("days_left", upcoming[0].DaysLeft))
	}

	// Drop entries already announced for this occurrence.
	toSend := make([]domain.Upcoming, 0, len(upcoming))
	for _, item := range upcoming {
		fresh, err := rs.markNotified(ctx, item)
		if err != nil {
			rs.logger.Warn("failed to record reminder marker, skipping entry",
				logger.String("subscription_id", item.Sub.ID),
				logger.Error(err))
			continue
		}
		if fresh {
			toSend = append(toSend, item)
		}
	}

	if len(toSend) == 0 {
		rs.logger.Debug("all upcoming renewals already announced",
			logger.Int("in_window", len(upcoming)))
		return nil
	}

	if err := rs.notifier.Remind(ctx, toSend); err != nil {
		return err
	}

	rs.logger.Info("reminders dispatched",
		logger.Int("sent", len(toSend)),
		logger.Int("in_window", len(upcoming)))

	return nil
}

func (rs *ReminderSweep) markNotified(ctx context.Context, item domain.Upcoming) (bool, error) {
	if rs.dedupe == nil {
		return true, nil
	}
	occurrence := item.NextDate.Format("2006-01-02")
	return rs.dedupe.MarkNotified(ctx, item.Sub.ID, occurrence, redisstore.DefaultNotifiedTTL)
}
