package notify

import (
	"context"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
)

// Notifier delivers a batch of upcoming-renewal reminders. The reminder
// sweep decides WHAT to send and how often; implementations only decide
// HOW it reaches the user.
type Notifier interface {
	Remind(ctx context.Context, items []domain.Upcoming) error
}
