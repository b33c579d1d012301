package domain

import (
	"fmt"
	"time"
)

// BillingCycle is the fixed period between two occurrences of a charge.
// It is a closed enumeration: there are no daily, biweekly or custom cycles.
type BillingCycle string

const (
	CycleWeekly  BillingCycle = "weekly"
	CycleMonthly BillingCycle = "monthly"
	CycleYearly  BillingCycle = "yearly"
)

// ParseBillingCycle converts a raw string into a BillingCycle.
// Unknown values are a construction-time error, never a runtime fallback.
func ParseBillingCycle(s string) (BillingCycle, error) {
	switch BillingCycle(s) {
	case CycleWeekly, CycleMonthly, CycleYearly:
		return BillingCycle(s), nil
	}
	return "", fmt.Errorf("unknown billing cycle: %q", s)
}

// Valid reports whether the cycle is a member of the closed enumeration.
func (c BillingCycle) Valid() bool {
	switch c {
	case CycleWeekly, CycleMonthly, CycleYearly:
		return true
	}
	return false
}

// Category groups subscriptions for aggregation and display only.
// It has no effect on recurrence.
type Category string

const (
	CategoryEntertainment Category = "entertainment"
	CategorySoftware      Category = "software"
	CategoryUtilities     Category = "utilities"
	CategoryInsurance     Category = "insurance"
	CategoryOther         Category = "other"
)

// ParseCategory converts a raw string into a Category.
// The empty string maps to CategoryOther.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryOther, nil
	}
	switch Category(s) {
	case CategoryEntertainment, CategorySoftware, CategoryUtilities, CategoryInsurance, CategoryOther:
		return Category(s), nil
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// Valid reports whether the category is a member of the closed enumeration.
func (c Category) Valid() bool {
	switch c {
	case CategoryEntertainment, CategorySoftware, CategoryUtilities, CategoryInsurance, CategoryOther:
		return true
	}
	return false
}

// DefaultName is used when a subscription is created without a name.
const DefaultName = "Unnamed subscription"

// Subscription represents a single recurring payment.
//
// It is NOT tied to Redis, the seed file or the HTTP layer.
// All inputs (API writes, seed imports, AI drafts) are merged into this structure.
type Subscription struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier, assigned at creation.
	ID string `json:"id"`

	// ─────────────────────────────
	// Billing description
	// ─────────────────────────────

	// Name is the display name. Never empty; defaults to DefaultName.
	Name string `json:"name"`

	// Price is the amount charged once per billing cycle. Non-negative.
	Price float64 `json:"price"`

	// Currency is a short free-form code (no ISO-4217 validation).
	// Example: "EUR", "USD"
	Currency string `json:"currency"`

	// Cycle is the billing cycle. Always a valid enum member.
	Cycle BillingCycle `json:"billing_cycle"`

	// FirstBillDate is the calendar day of the first charge ever,
	// normalized to midnight. The zero value means "unknown": the
	// recurrence engine then degrades to its reference-date fallback.
	FirstBillDate time.Time `json:"first_bill_date"`

	// Category groups the subscription for spend aggregation.
	Category Category `json:"category"`

	// Description and WebsiteURL are optional free text.
	Description string `json:"description,omitempty"`
	WebsiteURL  string `json:"website_url,omitempty"`

	// ─────────────────────────────
	// Lifecycle
	// ─────────────────────────────

	// Active excludes the subscription from reminders, spend totals and
	// calendar occurrences when false. It stays visible in the full list.
	Active bool `json:"active"`

	// Deleted marks a subscription as soft-deleted.
	// It is hidden from all views and purged later by the scheduler.
	Deleted bool `json:"deleted,omitempty"`

	// ─────────────────────────────
	// Provenance & metadata
	// ─────────────────────────────

	// Source indicates where the record came from. Example: api, seed
	Source string `json:"source,omitempty"`

	// CreatedAt is set once at creation.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is bumped on any mutation.
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the structural invariants that every stored record must
// hold. Request DTO validation catches user mistakes earlier; this is the
// last line of defense before a record enters the index or the store.
func (s *Subscription) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("subscription has no id")
	}
	if s.Name == "" {
		return fmt.Errorf("subscription %s has no name", s.ID)
	}
	if s.Price < 0 {
		return fmt.Errorf("subscription %s has negative price %f", s.ID, s.Price)
	}
	if !s.Cycle.Valid() {
		return fmt.Errorf("subscription %s has invalid billing cycle %q", s.ID, s.Cycle)
	}
	if !s.Category.Valid() {
		return fmt.Errorf("subscription %s has invalid category %q", s.ID, s.Category)
	}
	return nil
}
