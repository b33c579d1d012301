package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/subtrack/internal/index"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
)

var testNow = time.Date(2025, time.June, 29, 10, 0, 0, 0, time.UTC)

func testDeps() deps.Deps {
	return deps.Deps{
		Logger:          logger.New("error", false),
		MemoryIndex:     index.NewMemoryIndex(),
		TimeNow:         func() time.Time { return testNow },
		WindowDays:      7,
		UrgentDays:      3,
		DefaultCurrency: "EUR",
	}
}

func testRouter(d deps.Deps) chi.Router {
	r := chi.NewRouter()
	r.Route("/api/subscriptions", func(r chi.Router) {
		r.Get("/", ListSubscriptions(d))
		r.Post("/", CreateSubscription(d))
		r.Get("/{id}", GetSubscription(d))
		r.Put("/{id}", UpdateSubscription(d))
		r.Delete("/{id}", DeleteSubscription(d))
		r.Put("/{id}/active", SetActive(d))
		r.Get("/{id}/message", Message(d))
	})
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func putSub(d deps.Deps, id string) *domain.Subscription {
	sub := &domain.Subscription{
		ID:            id,
		Name:          "Netflix",
		Price:         9.99,
		Currency:      "EUR",
		Cycle:         domain.CycleMonthly,
		FirstBillDate: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		Category:      domain.CategoryEntertainment,
		Active:        true,
		Source:        APISource,
		CreatedAt:     testNow.Add(-time.Hour),
		UpdatedAt:     testNow.Add(-time.Hour),
	}
	d.MemoryIndex.Put(sub)
	return sub
}

func TestCreateSubscription(t *testing.T) {
	d := testDeps()
	r := testRouter(d)

	rec := doJSON(t, r, http.MethodPost, "/api/subscriptions", `{
		"name": "Spotify",
		"price": 10.99,
		"billing_cycle": "monthly",
		"first_bill_date": "2024-03-15",
		"category": "entertainment"
	}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp subscriptionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if resp.ID == "" {
		t.Errorf("response has no id")
	}
	if resp.Currency != "EUR" {
		t.Errorf("Currency = %q, want default EUR", resp.Currency)
	}
	if !resp.Active {
		t.Errorf("new subscription should default to active")
	}
	if resp.Source != APISource {
		t.Errorf("Source = %q, want %q", resp.Source, APISource)
	}
	// Monthly from Mar 15 seen from Jun 29 renews Jul 15.
	if resp.NextBillDate != "2025-07-15" {
		t.Errorf("NextBillDate = %q, want 2025-07-15", resp.NextBillDate)
	}
	if _, ok := d.MemoryIndex.Get(resp.ID); !ok {
		t.Errorf("created subscription missing from index")
	}
}

func TestCreateSubscriptionRejectsBadInput(t *testing.T) {
	d := testDeps()
	r := testRouter(d)

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "unknown cycle", body: `{"price": 5, "billing_cycle": "fortnightly"}`, want: http.StatusUnprocessableEntity},
		{name: "missing cycle", body: `{"price": 5}`, want: http.StatusUnprocessableEntity},
		{name: "negative price", body: `{"price": -1, "billing_cycle": "monthly"}`, want: http.StatusUnprocessableEntity},
		{name: "bad date", body: `{"price": 5, "billing_cycle": "monthly", "first_bill_date": "15/03/2024"}`, want: http.StatusUnprocessableEntity},
		{name: "unknown field", body: `{"price": 5, "billing_cycle": "monthly", "nope": 1}`, want: http.StatusBadRequest},
		{name: "not json", body: `plain text`, want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, r, http.MethodPost, "/api/subscriptions", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestCreateSubscriptionDefaultsName(t *testing.T) {
	d := testDeps()
	r := testRouter(d)

	rec := doJSON(t, r, http.MethodPost, "/api/subscriptions", `{"price": 5, "billing_cycle": "monthly"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp subscriptionResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Name != domain.DefaultName {
		t.Errorf("Name = %q, want %q", resp.Name, domain.DefaultName)
	}
}

func TestGetSubscriptionNotFound(t *testing.T) {
	d := testDeps()
	r := testRouter(d)

	rec := doJSON(t, r, http.MethodGet, "/api/subscriptions/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateSubscription(t *testing.T) {
	d := testDeps()
	putSub(d, "sub-1")
	r := testRouter(d)

	rec := doJSON(t, r, http.MethodPut, "/api/subscriptions/sub-1", `{
		"name": "Netflix Premium",
		"price": 17.99,
		"billing_cycle": "monthly",
		"first_bill_date": "2024-01-01",
		"category": "entertainment"
	}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	sub, _ := d.MemoryIndex.Get("sub-1")
	if sub.Name != "Netflix Premium" || sub.Price != 17.99 {
		t.Errorf("update not applied: %+v", sub)
	}
	if sub.Source != APISource {
		t.Errorf("update must not change provenance, got %q", sub.Source)
	}
}

func TestDeleteSubscriptionSoftDeletes(t *testing.T) {
	d := testDeps()
	putSub(d, "sub-1")
	r := testRouter(d)

	rec := doJSON(t, r, http.MethodDelete, "/api/subscriptions/sub-1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}

	// Hidden from reads, still present in the index for the purge scheduler.
	if rec := doJSON(t, r, http.MethodGet, "/api/subscriptions/sub-1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("deleted subscription still readable, status = %d", rec.Code)
	}
	sub, ok := d.MemoryIndex.Get("sub-1")
	if !ok || !sub.Deleted {
		t.Errorf("expected soft-deleted record in index, got %+v", sub)
	}

	if rec := doJSON(t, r, http.MethodDelete, "/api/subscriptions/sub-1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestSetActive(t *testing.T) {
	d := testDeps()
	putSub(d, "sub-1")
	r := testRouter(d)

	rec := doJSON(t, r, http.MethodPut, "/api/subscriptions/sub-1/active", `{"active": false}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	sub, _ := d.MemoryIndex.Get("sub-1")
	if sub.Active {
		t.Errorf("subscription should be paused")
	}
	if sub.Deleted {
		t.Errorf("pausing must not delete")
	}
}

func TestMessage(t *testing.T) {
	d := testDeps()
	putSub(d, "sub-1")
	r := testRouter(d)

	rec := doJSON(t, r, http.MethodGet, "/api/subscriptions/sub-1/message", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp messageResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	// Monthly from Jan 1 seen from Jun 29 renews Jul 1, two days out.
	if resp.Message != "Netflix is due in 2 days: 9.99 EUR (2025-07-01)" {
		t.Errorf("Message = %q", resp.Message)
	}
	if resp.DaysLeft != 2 {
		t.Errorf("DaysLeft = %d, want 2", resp.DaysLeft)
	}
}

func TestMessageWithoutFirstBillDate(t *testing.T) {
	d := testDeps()
	d.MemoryIndex.Put(&domain.Subscription{
		ID:       "no-date",
		Name:     "Mystery",
		Cycle:    domain.CycleMonthly,
		Category: domain.CategoryOther,
		Active:   true,
	})
	r := testRouter(d)

	rec := doJSON(t, r, http.MethodGet, "/api/subscriptions/no-date/message", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestListExcludesDeleted(t *testing.T) {
	d := testDeps()
	putSub(d, "sub-1")
	d.MemoryIndex.Put(&domain.Subscription{
		ID:      "gone",
		Name:    "Gone",
		Cycle:   domain.CycleMonthly,
		Deleted: true,
	})
	r := testRouter(d)

	rec := doJSON(t, r, http.MethodGet, "/api/subscriptions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp []subscriptionResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp) != 1 || resp[0].ID != "sub-1" {
		t.Errorf("list = %+v, want only sub-1", resp)
	}
}
