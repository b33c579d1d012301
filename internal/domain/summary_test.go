package domain

import (
	"math"
	"testing"
	"time"
)

func TestSummarizeMonth(t *testing.T) {
	anchor := date(2025, time.March, 1)

	monthly := sub(CycleMonthly, date(2025, time.January, 15))
	monthly.Price, monthly.Category = 12.00, CategorySoftware

	weekly := sub(CycleWeekly, date(2023, time.January, 2)) // five Mondays in March 2025
	weekly.Price, weekly.Category = 2.50, CategoryEntertainment

	inactive := sub(CycleMonthly, date(2025, time.January, 1))
	inactive.Price, inactive.Active = 99.00, false

	notYetStarted := sub(CycleMonthly, date(2025, time.June, 1))
	notYetStarted.Price = 50.00

	got := SummarizeMonth([]*Subscription{monthly, weekly, inactive, notYetStarted}, anchor)

	wantTotal := 12.00 + 5*2.50
	if math.Abs(got.Total-wantTotal) > 1e-9 {
		t.Errorf("Total = %.2f, want %.2f", got.Total, wantTotal)
	}
	if got.Charges != 6 {
		t.Errorf("Charges = %d, want 6", got.Charges)
	}
	if math.Abs(got.ByCategory[CategorySoftware]-12.00) > 1e-9 {
		t.Errorf("software spend = %.2f, want 12.00", got.ByCategory[CategorySoftware])
	}
	if math.Abs(got.ByCategory[CategoryEntertainment]-12.50) > 1e-9 {
		t.Errorf("entertainment spend = %.2f, want 12.50", got.ByCategory[CategoryEntertainment])
	}
	if !got.Month.Equal(date(2025, time.March, 1)) {
		t.Errorf("Month = %v, want 2025-03-01", got.Month)
	}
}

func TestSummarizeMonthEmpty(t *testing.T) {
	got := SummarizeMonth(nil, date(2025, time.March, 1))
	if got.Total != 0 || got.Charges != 0 {
		t.Errorf("empty collection: Total=%.2f Charges=%d, want zeros", got.Total, got.Charges)
	}
}
