package domain

import (
	"testing"
	"time"
)

func TestUpcomingWithin(t *testing.T) {
	today := date(2025, time.March, 10)

	dueToday := sub(CycleMonthly, date(2025, time.January, 10))
	dueToday.ID, dueToday.Name = "today", "Due Today"

	dueIn3 := sub(CycleMonthly, date(2025, time.January, 13))
	dueIn3.ID, dueIn3.Name = "in3", "Due In Three"

	dueIn7 := sub(CycleWeekly, date(2025, time.March, 17))
	dueIn7.ID, dueIn7.Name = "in7", "Due In Seven"

	dueIn8 := sub(CycleMonthly, date(2025, time.January, 18))
	dueIn8.ID, dueIn8.Name = "in8", "Outside Window"

	inactive := sub(CycleMonthly, date(2025, time.January, 10))
	inactive.ID, inactive.Active = "inactive", false

	noStart := sub(CycleMonthly, time.Time{})
	noStart.ID = "nostart"

	subs := []*Subscription{dueIn8, dueIn7, dueToday, inactive, dueIn3, noStart}

	got := UpcomingWithin(subs, 7, today)

	expectedIDs := []string{"today", "in3", "in7"}
	if len(got) != len(expectedIDs) {
		t.Fatalf("got %d entries, want %d", len(got), len(expectedIDs))
	}
	for i, id := range expectedIDs {
		if got[i].Sub.ID != id {
			t.Errorf("entry[%d] = %s, want %s", i, got[i].Sub.ID, id)
		}
	}

	if got[0].DaysLeft != 0 {
		t.Errorf("due-today entry has DaysLeft = %d, want 0", got[0].DaysLeft)
	}
	for i := 1; i < len(got); i++ {
		if got[i].DaysLeft < got[i-1].DaysLeft {
			t.Errorf("result not sorted: DaysLeft[%d]=%d < DaysLeft[%d]=%d",
				i, got[i].DaysLeft, i-1, got[i-1].DaysLeft)
		}
	}
	for _, u := range got {
		if u.DaysLeft < 0 || u.DaysLeft > 7 {
			t.Errorf("entry %s outside window: DaysLeft=%d", u.Sub.ID, u.DaysLeft)
		}
	}
}

func TestUpcomingWithinStableTieBreak(t *testing.T) {
	today := date(2025, time.March, 10)

	a := sub(CycleMonthly, date(2025, time.January, 13))
	a.ID = "first-in-collection"
	b := sub(CycleMonthly, date(2025, time.February, 13))
	b.ID = "second-in-collection"

	got := UpcomingWithin([]*Subscription{a, b}, 7, today)
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Sub.ID != "first-in-collection" || got[1].Sub.ID != "second-in-collection" {
		t.Errorf("tie not broken by collection order: %s, %s", got[0].Sub.ID, got[1].Sub.ID)
	}
	if got[0].DaysLeft != got[1].DaysLeft {
		t.Fatalf("test setup broken: DaysLeft %d vs %d, want a tie", got[0].DaysLeft, got[1].DaysLeft)
	}
}

func TestUpcomingWithinZeroWindow(t *testing.T) {
	today := date(2025, time.March, 10)

	dueToday := sub(CycleMonthly, date(2025, time.January, 10))
	dueTomorrow := sub(CycleMonthly, date(2025, time.January, 11))
	dueTomorrow.ID = "tomorrow"

	got := UpcomingWithin([]*Subscription{dueToday, dueTomorrow}, 0, today)
	if len(got) != 1 || got[0].DaysLeft != 0 {
		t.Errorf("zero-day window should keep only the due-today entry, got %v", got)
	}
}
