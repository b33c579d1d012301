package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
	"github.com/MrSnakeDoc/subtrack/internal/utils"
)

const extractSystemPrompt = "You extract subscription records from free text. " +
	"You MUST respond with ONLY a valid JSON object with the keys " +
	`"name", "price", "currency", "billing_cycle" (weekly|monthly|yearly), ` +
	`"first_bill_date" (YYYY-MM-DD or empty), ` +
	`"category" (entertainment|software|utilities|insurance|other), "description". ` +
	"Do not include any explanatory text, markdown formatting, or commentary " +
	"before or after the JSON. Start your response directly with { and end with }."

const commentarySystemPrompt = "You are a frugal but friendly personal-finance assistant. " +
	"Given a month of subscription spending, reply with exactly one short sentence " +
	"of commentary. No lists, no JSON, no emoji."

// openAIClient implements the Client interface for OpenAI-compatible APIs.
type openAIClient struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

func newOpenAIClient(cfg Config) (Client, error) {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 300
	}

	return &openAIClient{
		apiKey:      cfg.APIKey,
		model:       model,
		baseURL:     baseURL,
		temperature: temperature,
		maxTokens:   maxTokens,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}, nil
}

// ExtractSubscription sends the free text through the extraction prompt and
// parses the strict-JSON answer.
func (c *openAIClient) ExtractSubscription(ctx context.Context, text string) (*Draft, error) {
	// Relative phrases like "since last month" need an anchor.
	user := fmt.Sprintf("Today is %s.\n\nText: %s", time.Now().Format("2006-01-02"), text)

	content, err := c.chat(ctx, extractSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	var draft Draft
	if err := json.Unmarshal([]byte(extractJSON(content)), &draft); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}
	return &draft, nil
}

// Commentary asks for a one-line remark about the month's spend.
func (c *openAIClient) Commentary(ctx context.Context, summary domain.MonthSummary) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Month: %s\n", summary.Month.Format("January 2006"))
	fmt.Fprintf(&b, "Total: %.2f across %d charges\n", summary.Total, summary.Charges)
	for category, amount := range summary.ByCategory {
		fmt.Fprintf(&b, "- %s: %.2f\n", category, amount)
	}

	content, err := c.chat(ctx, commentarySystemPrompt, b.String())
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(content), nil
}

func (c *openAIClient) chat(ctx context.Context, system, user string) (string, error) {
	requestBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", strings.NewReader(string(jsonBody)))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer utils.Close(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var response openAIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}
	return response.Choices[0].Message.Content, nil
}

// extractJSON strips markdown fences and surrounding prose, keeping the
// outermost JSON object. Models occasionally ignore the strict-JSON
// instruction.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return content
	}
	return content[start : end+1]
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
