package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
)

// EmailNotifier sends reminder batches as a single plain-text mail via
// SendGrid.
type EmailNotifier struct {
	client *sendgrid.Client
	from   string
	to     string
}

// NewEmailNotifier creates a SendGrid-backed notifier.
func NewEmailNotifier(apiKey, from, to string) (*EmailNotifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("sendgrid api key is required")
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("sender and recipient addresses are required")
	}
	return &EmailNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		to:     to,
	}, nil
}

// Remind sends one mail covering the whole batch. An empty batch is a no-op.
func (n *EmailNotifier) Remind(ctx context.Context, items []domain.Upcoming) error {
	if len(items) == 0 {
		return nil
	}

	subject := fmt.Sprintf("%d subscription renewal(s) coming up", len(items))
	body := BuildBody(items)

	from := mail.NewEmail("subtrack", n.from)
	to := mail.NewEmail("", n.to)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send reminder mail: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected reminder mail: status %d", resp.StatusCode)
	}
	return nil
}

// BuildBody renders the plain-text mail body, one reminder line per entry.
func BuildBody(items []domain.Upcoming) string {
	var b strings.Builder
	b.WriteString("Upcoming subscription renewals:\n\n")
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(domain.FormatReminder(item.Sub, item.DaysLeft, item.NextDate))
		b.WriteString("\n")
	}
	return b.String()
}
