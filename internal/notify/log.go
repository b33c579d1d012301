package notify

import (
	"context"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
)

// LogNotifier writes reminders to the structured log. It is the fallback
// when no mail provider is configured, and keeps the sweep observable in
// development.
type LogNotifier struct {
	logger logger.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{logger: log}
}

// Remind logs one line per reminder.
func (n *LogNotifier) Remind(_ context.Context, items []domain.Upcoming) error {
	for _, item := range items {
		n.logger.Info("subscription renewal reminder",
			logger.String("subscription_id", item.Sub.ID),
			logger.String("reminder", domain.FormatReminder(item.Sub, item.DaysLeft, item.NextDate)),
			logger.Int("days_left", item.DaysLeft))
	}
	return nil
}
