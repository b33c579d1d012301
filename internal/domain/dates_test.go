package domain

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "simple month add",
			start:    date(2024, time.March, 15),
			months:   1,
			expected: date(2024, time.April, 15),
		},
		{
			name:     "clamp jan 31 to leap february",
			start:    date(2024, time.January, 31),
			months:   1,
			expected: date(2024, time.February, 29),
		},
		{
			name:     "clamp jan 31 to non-leap february",
			start:    date(2023, time.January, 31),
			months:   1,
			expected: date(2023, time.February, 28),
		},
		{
			name:     "original day restored after clamped month",
			start:    date(2024, time.January, 31),
			months:   2,
			expected: date(2024, time.March, 31),
		},
		{
			name:     "year rollover",
			start:    date(2024, time.November, 10),
			months:   3,
			expected: date(2025, time.February, 10),
		},
		{
			name:     "many years forward",
			start:    date(2015, time.June, 15),
			months:   120,
			expected: date(2025, time.June, 15),
		},
		{
			name:     "negative months",
			start:    date(2024, time.March, 31),
			months:   -1,
			expected: date(2024, time.February, 29),
		},
		{
			name:     "zero months normalizes to midnight",
			start:    time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC),
			months:   0,
			expected: date(2024, time.March, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddMonths(tt.start, tt.months)
			if !got.Equal(tt.expected) {
				t.Errorf("AddMonths(%v, %d) = %v, want %v", tt.start, tt.months, got, tt.expected)
			}
		})
	}
}

func TestAddYears(t *testing.T) {
	// Feb 29 starts clamp to Feb 28 in non-leap years.
	got := AddYears(date(2024, time.February, 29), 1)
	want := date(2025, time.February, 28)
	if !got.Equal(want) {
		t.Errorf("AddYears(2024-02-29, 1) = %v, want %v", got, want)
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name     string
		a, b     time.Time
		expected int
	}{
		{name: "same day", a: date(2025, time.March, 1), b: date(2025, time.March, 1), expected: 0},
		{name: "forward", a: date(2025, time.March, 8), b: date(2025, time.March, 1), expected: 7},
		{name: "negative when a before b", a: date(2025, time.January, 1), b: date(2025, time.January, 5), expected: -4},
		{name: "across leap day", a: date(2024, time.March, 1), b: date(2024, time.February, 28), expected: 2},
		{name: "ignores time of day", a: time.Date(2025, time.March, 2, 23, 59, 0, 0, time.UTC), b: time.Date(2025, time.March, 1, 0, 1, 0, 0, time.UTC), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b); got != tt.expected {
				t.Errorf("DaysBetween(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year     int
		month    time.Month
		expected int
	}{
		{2024, time.February, 29},
		{2025, time.February, 28},
		{2025, time.April, 30},
		{2025, time.December, 31},
	}

	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.expected {
			t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.expected)
		}
	}
}

func TestMonthBounds(t *testing.T) {
	anchor := date(2024, time.February, 14)
	if got := StartOfMonth(anchor); !got.Equal(date(2024, time.February, 1)) {
		t.Errorf("StartOfMonth = %v", got)
	}
	if got := EndOfMonth(anchor); !got.Equal(date(2024, time.February, 29)) {
		t.Errorf("EndOfMonth = %v", got)
	}
}
