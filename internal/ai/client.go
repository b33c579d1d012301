package ai

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
)

// Draft is the structured result of free-text extraction. Fields are kept
// as plain strings/numbers; the HTTP layer validates them like any other
// user input before a real Subscription is constructed.
type Draft struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	BillingCycle  string  `json:"billing_cycle"`
	FirstBillDate string  `json:"first_bill_date"` // "2006-01-02" or empty
	Category      string  `json:"category"`
	Description   string  `json:"description"`
}

// Client is the generative-AI boundary: free text in, structured draft or
// one-line commentary out. Implementations must not touch the subscription
// store.
type Client interface {
	// ExtractSubscription parses a free-text description
	// ("netflix premium, 17.99 a month since march 3rd") into a Draft.
	ExtractSubscription(ctx context.Context, text string) (*Draft, error)

	// Commentary produces a single-sentence remark about a month of spend.
	Commentary(ctx context.Context, summary domain.MonthSummary) (string, error)
}

// Config holds settings for the OpenAI-compatible client.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string // ex: https://api.openai.com/v1
	Temperature float64
	MaxTokens   int
}

// New creates a Client for the configured provider.
func New(cfg Config) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI assist requires an API key")
	}
	return newOpenAIClient(cfg)
}
