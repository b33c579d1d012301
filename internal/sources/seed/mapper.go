package seed

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/MrSnakeDoc/subtrack/internal/domain"
)

// SourceName marks records that came from the seed file.
const SourceName = "seed"

// Mapper converts seed entries to domain.Subscription records
type Mapper struct {
	defaultCurrency string
}

// NewMapper creates a new mapper instance
func NewMapper(defaultCurrency string) *Mapper {
	return &Mapper{defaultCurrency: defaultCurrency}
}

// Map converts a parsed seed file to []*domain.Subscription.
// Entries get deterministic IDs derived from their names so that a reload
// updates records in place instead of duplicating them.
func (m *Mapper) Map(f *File) ([]*domain.Subscription, error) {
	if f == nil || len(f.Subscriptions) == 0 {
		return nil, fmt.Errorf("no subscriptions found in seed file")
	}

	now := time.Now()
	subs := make([]*domain.Subscription, 0, len(f.Subscriptions))
	seen := make(map[string]bool, len(f.Subscriptions))

	for i, entry := range f.Subscriptions {
		sub, err := m.mapEntry(entry, now)
		if err != nil {
			return nil, fmt.Errorf("seed entry %d (%q): %w", i, entry.Name, err)
		}
		if seen[sub.ID] {
			return nil, fmt.Errorf("seed entry %d (%q): duplicate name", i, entry.Name)
		}
		seen[sub.ID] = true
		subs = append(subs, sub)
	}

	return subs, nil
}

func (m *Mapper) mapEntry(entry Entry, now time.Time) (*domain.Subscription, error) {
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		name = domain.DefaultName
	}

	cycle, err := domain.ParseBillingCycle(entry.BillingCycle)
	if err != nil {
		return nil, err
	}

	category, err := domain.ParseCategory(entry.Category)
	if err != nil {
		return nil, err
	}

	var first time.Time
	if entry.FirstBillDate != "" {
		first, err = time.Parse("2006-01-02", entry.FirstBillDate)
		if err != nil {
			return nil, fmt.Errorf("invalid first_bill_date %q: %w", entry.FirstBillDate, err)
		}
	}

	if entry.Price < 0 {
		return nil, fmt.Errorf("negative price %v", entry.Price)
	}

	currency := strings.TrimSpace(entry.Currency)
	if currency == "" {
		currency = m.defaultCurrency
	}

	active := true
	if entry.Active != nil {
		active = *entry.Active
	}

	sub := &domain.Subscription{
		ID:            SeedID(name),
		Name:          name,
		Price:         entry.Price,
		Currency:      currency,
		Cycle:         cycle,
		FirstBillDate: first,
		Category:      category,
		Description:   entry.Description,
		WebsiteURL:    entry.WebsiteURL,
		Active:        active,
		Source:        SourceName,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}
	return sub, nil
}

// SeedID derives a stable identifier from a display name.
// Example: "Docker Hub" -> "seed:docker-hub"
func SeedID(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return SourceName + ":" + strings.Trim(b.String(), "-")
}
