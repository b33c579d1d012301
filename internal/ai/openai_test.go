package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
)

func fakeCompletion(t *testing.T, content string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("invalid request body: %v", err)
		}
		if body["model"] != "test-model" {
			t.Errorf("model = %v", body["model"])
		}

		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		})
	}))
}

func testClient(t *testing.T, baseURL string) Client {
	t.Helper()
	c, err := New(Config{APIKey: "test-key", Model: "test-model", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return c
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Errorf("New() without API key should fail")
	}
}

func TestExtractSubscription(t *testing.T) {
	content := `{"name":"Netflix","price":17.99,"currency":"EUR","billing_cycle":"monthly","first_bill_date":"2025-03-03","category":"entertainment","description":"premium plan"}`
	ts := fakeCompletion(t, content, http.StatusOK)
	defer ts.Close()

	c := testClient(t, ts.URL+"/v1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	draft, err := c.ExtractSubscription(ctx, "netflix premium, 17.99 a month since march 3rd")
	if err != nil {
		t.Fatalf("ExtractSubscription() error: %v", err)
	}
	if draft.Name != "Netflix" || draft.Price != 17.99 {
		t.Errorf("draft = %+v", draft)
	}
	if draft.BillingCycle != "monthly" || draft.FirstBillDate != "2025-03-03" {
		t.Errorf("draft = %+v", draft)
	}
}

func TestExtractSubscriptionFencedJSON(t *testing.T) {
	// Models occasionally wrap the object despite the strict prompt.
	content := "```json\n{\"name\":\"Spotify\",\"price\":10.99,\"currency\":\"EUR\",\"billing_cycle\":\"monthly\",\"first_bill_date\":\"\",\"category\":\"entertainment\",\"description\":\"\"}\n```"
	ts := fakeCompletion(t, content, http.StatusOK)
	defer ts.Close()

	c := testClient(t, ts.URL+"/v1")

	draft, err := c.ExtractSubscription(context.Background(), "spotify")
	if err != nil {
		t.Fatalf("ExtractSubscription() error: %v", err)
	}
	if draft.Name != "Spotify" {
		t.Errorf("draft = %+v", draft)
	}
}

func TestCommentary(t *testing.T) {
	ts := fakeCompletion(t, "  A quiet month for your wallet.  ", http.StatusOK)
	defer ts.Close()

	c := testClient(t, ts.URL+"/v1")

	got, err := c.Commentary(context.Background(), domain.MonthSummary{
		Month:   time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		Total:   42.50,
		Charges: 6,
		ByCategory: map[domain.Category]float64{
			domain.CategoryEntertainment: 42.50,
		},
	})
	if err != nil {
		t.Fatalf("Commentary() error: %v", err)
	}
	if got != "A quiet month for your wallet." {
		t.Errorf("Commentary() = %q", got)
	}
}

func TestChatAPIError(t *testing.T) {
	ts := fakeCompletion(t, "", http.StatusTooManyRequests)
	defer ts.Close()

	c := testClient(t, ts.URL+"/v1")

	_, err := c.ExtractSubscription(context.Background(), "anything")
	if err == nil {
		t.Fatalf("ExtractSubscription() should surface API errors")
	}
	if !strings.Contains(err.Error(), "status 429") {
		t.Errorf("error = %v, want status 429 mentioned", err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare object", input: `{"a":1}`, expected: `{"a":1}`},
		{name: "fenced", input: "```json\n{\"a\":1}\n```", expected: `{"a":1}`},
		{name: "prose around", input: `Sure! {"a":1} Hope that helps.`, expected: `{"a":1}`},
		{name: "no object", input: "nothing here", expected: "nothing here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.input); got != tt.expected {
				t.Errorf("extractJSON(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
