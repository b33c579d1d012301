package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
	"github.com/MrSnakeDoc/subtrack/internal/httpserver/deps"
	"github.com/MrSnakeDoc/subtrack/internal/logger"
)

// APISource marks records created through the HTTP API.
const APISource = "api"

var validate = validator.New()

type subscriptionRequest struct {
	Name          string  `json:"name" validate:"max=200"`
	Price         float64 `json:"price" validate:"gte=0"`
	Currency      string  `json:"currency" validate:"omitempty,alpha,len=3"`
	BillingCycle  string  `json:"billing_cycle" validate:"required,oneof=weekly monthly yearly"`
	FirstBillDate string  `json:"first_bill_date" validate:"omitempty,datetime=2006-01-02"`
	Category      string  `json:"category" validate:"omitempty,oneof=entertainment software utilities insurance other"`
	Description   string  `json:"description" validate:"max=2000"`
	WebsiteURL    string  `json:"website_url" validate:"omitempty,url"`
	Active        *bool   `json:"active"`
}

type subscriptionResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	BillingCycle  string  `json:"billing_cycle"`
	FirstBillDate string  `json:"first_bill_date,omitempty"`
	Category      string  `json:"category"`
	Description   string  `json:"description,omitempty"`
	WebsiteURL    string  `json:"website_url,omitempty"`
	Active        bool    `json:"active"`
	Source        string  `json:"source,omitempty"`
	NextBillDate  string  `json:"next_bill_date,omitempty"`
	DaysLeft      *int    `json:"days_left,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

func toResponse(sub *domain.Subscription, now time.Time) subscriptionResponse {
	resp := subscriptionResponse{
		ID:           sub.ID,
		Name:         sub.Name,
		Price:        sub.Price,
		Currency:     sub.Currency,
		BillingCycle: string(sub.Cycle),
		Category:     string(sub.Category),
		Description:  sub.Description,
		WebsiteURL:   sub.WebsiteURL,
		Active:       sub.Active,
		Source:       sub.Source,
		CreatedAt:    sub.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    sub.UpdatedAt.Format(time.RFC3339),
	}
	if !sub.FirstBillDate.IsZero() {
		resp.FirstBillDate = sub.FirstBillDate.Format("2006-01-02")
		if sub.Active {
			next := domain.NextOccurrence(sub, now)
			left := domain.DaysBetween(next, now)
			resp.NextBillDate = next.Format("2006-01-02")
			resp.DaysLeft = &left
		}
	}
	return resp
}

// apply copies request fields onto a subscription. Identity and provenance
// fields are left alone, so it works for create and update alike.
func (req *subscriptionRequest) apply(sub *domain.Subscription, defaultCurrency string) error {
	cycle, err := domain.ParseBillingCycle(req.BillingCycle)
	if err != nil {
		return err
	}
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return err
	}

	var first time.Time
	if req.FirstBillDate != "" {
		first, err = time.Parse("2006-01-02", req.FirstBillDate)
		if err != nil {
			return err
		}
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = domain.DefaultName
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	sub.Name = name
	sub.Price = req.Price
	sub.Currency = currency
	sub.Cycle = cycle
	sub.FirstBillDate = first
	sub.Category = category
	sub.Description = req.Description
	sub.WebsiteURL = req.WebsiteURL
	if req.Active != nil {
		sub.Active = *req.Active
	}
	return nil
}

// persist writes a record through to Redis, best effort. The index is the
// runtime source of truth; a failed write costs durability, not correctness.
func persist(ctx context.Context, d deps.Deps, sub *domain.Subscription) {
	if d.Store == nil {
		return
	}
	if err := d.Store.Save(ctx, sub); err != nil {
		d.Logger.Warn("failed to persist subscription",
			logger.String("subscription_id", sub.ID),
			logger.Error(err))
	}
	// Any mutation invalidates cached month commentary.
	if err := d.Store.FlushCommentary(ctx); err != nil {
		d.Logger.Debug("failed to flush commentary cache",
			logger.Error(err))
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (*subscriptionRequest, bool) {
	var req subscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return nil, false
	}
	return &req, true
}

// visibleByID fetches a non-deleted subscription or writes a 404.
func visibleByID(w http.ResponseWriter, r *http.Request, d deps.Deps) (*domain.Subscription, bool) {
	id := chi.URLParam(r, "id")
	sub, ok := d.MemoryIndex.Get(id)
	if !ok || sub.Deleted {
		writeError(w, http.StatusNotFound, "subscription not found")
		return nil, false
	}
	return sub, true
}

// ListSubscriptions returns the visible collection.
func ListSubscriptions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := d.Now()
		subs := d.MemoryIndex.Visible()
		out := make([]subscriptionResponse, 0, len(subs))
		for _, sub := range subs {
			out = append(out, toResponse(sub, now))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GetSubscription returns a single subscription by ID.
func GetSubscription(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := visibleByID(w, r, d)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, toResponse(sub, d.Now()))
	}
}

// CreateSubscription adds a new record to the collection.
func CreateSubscription(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}

		now := d.Now()
		sub := &domain.Subscription{
			ID:        uuid.NewString(),
			Active:    true,
			Source:    APISource,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := req.apply(sub, d.DefaultCurrency); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		if err := sub.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		d.MemoryIndex.Put(sub)
		persist(r.Context(), d, sub)

		d.Logger.Info("subscription created",
			logger.String("subscription_id", sub.ID),
			logger.String("name", sub.Name),
			logger.Float64("price", sub.Price),
			logger.String("cycle", string(sub.Cycle)))

		writeJSON(w, http.StatusCreated, toResponse(sub, now))
	}
}

// UpdateSubscription replaces the mutable fields of an existing record.
func UpdateSubscription(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		existing, ok := visibleByID(w, r, d)
		if !ok {
			return
		}
		req, ok := decodeRequest(w, r)
		if !ok {
			return
		}

		updated := *existing
		if err := req.apply(&updated, d.DefaultCurrency); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		updated.UpdatedAt = d.Now()
		if err := updated.Validate(); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		d.MemoryIndex.Put(&updated)
		persist(r.Context(), d, &updated)

		writeJSON(w, http.StatusOK, toResponse(&updated, d.Now()))
	}
}

// DeleteSubscription soft-deletes a record. The purge scheduler removes it
// for good after the retention threshold.
func DeleteSubscription(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := visibleByID(w, r, d)
		if !ok {
			return
		}

		deleted := *sub
		deleted.Deleted = true
		deleted.Active = false
		deleted.UpdatedAt = d.Now()

		d.MemoryIndex.Put(&deleted)
		persist(r.Context(), d, &deleted)

		d.Logger.Info("subscription soft-deleted",
			logger.String("subscription_id", deleted.ID),
			logger.String("name", deleted.Name))

		w.WriteHeader(http.StatusNoContent)
	}
}

type activeRequest struct {
	Active bool `json:"active"`
}

// SetActive pauses or resumes a subscription without touching anything else.
func SetActive(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := visibleByID(w, r, d)
		if !ok {
			return
		}

		var req activeRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		updated := *sub
		updated.Active = req.Active
		updated.UpdatedAt = d.Now()

		d.MemoryIndex.Put(&updated)
		persist(r.Context(), d, &updated)

		writeJSON(w, http.StatusOK, toResponse(&updated, d.Now()))
	}
}

type messageResponse struct {
	Message      string `json:"message"`
	NextBillDate string `json:"next_bill_date"`
	DaysLeft     int    `json:"days_left"`
}

// Message renders the shareable one-line reminder for a subscription.
func Message(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, ok := visibleByID(w, r, d)
		if !ok {
			return
		}
		if sub.FirstBillDate.IsZero() {
			writeError(w, http.StatusUnprocessableEntity, "subscription has no first bill date")
			return
		}

		now := d.Now()
		next := domain.NextOccurrence(sub, now)
		left := domain.DaysBetween(next, now)

		writeJSON(w, http.StatusOK, messageResponse{
			Message:      domain.FormatReminder(sub, left, next),
			NextBillDate: next.Format("2006-01-02"),
			DaysLeft:     left,
		})
	}
}
