package catalog

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"10:00", 600, true},
		{"00:00", 0, true},
		{"23:59", 1439, true},
		{" 09:30 ", 570, true},
		{"24:00", 0, false},
		{"10", 0, false},
		{"", 0, false},
		{"xx:yy", 0, false},
	}

	for _, c := range cases {
		got, ok := ParseClock(c.in)
		if ok != c.ok || got != c.minutes {
			t.Errorf("ParseClock(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.minutes, c.ok)
		}
	}
}

func TestParseSlot(t *testing.T) {
	start, end, ok := ParseSlot("10:00-12:00")
	if !ok || start != 600 || end != 720 {
		t.Fatalf("ParseSlot = (%d, %d, %v), want (600, 720, true)", start, end, ok)
	}

	for _, bad := range []string{"10:00", "12:00-10:00", "10:00-10:00", "banana", ""} {
		if _, _, ok := ParseSlot(bad); ok {
			t.Errorf("ParseSlot(%q) unexpectedly ok", bad)
		}
	}

	if got := FormatSlot(600, 720); got != "10:00-12:00" {
		t.Errorf("FormatSlot = %q, want 10:00-12:00", got)
	}
}

func TestTimeWindowBounds(t *testing.T) {
	if _, _, ok := (TimeWindow{Open: "14:00", Close: "12:00"}).Bounds(); ok {
		t.Error("window closing before opening should not be ok")
	}
	if _, _, ok := (TimeWindow{Open: "nope", Close: "12:00"}).Bounds(); ok {
		t.Error("malformed open should not be ok")
	}

	open, close, ok := (TimeWindow{Open: "10:00", Close: "22:00"}).Bounds()
	if !ok || open != 600 || close != 1320 {
		t.Errorf("Bounds = (%d, %d, %v), want (600, 1320, true)", open, close, ok)
	}
}

func TestWeeklyHoursFor(t *testing.T) {
	h := WeeklyHours{
		"tuesday": {{Open: "10:00", Close: "14:00"}},
	}

	// 2025-06-10 is a Tuesday.
	if got := h.For(date(2025, time.June, 10)); len(got) != 1 {
		t.Fatalf("expected 1 window on tuesday, got %d", len(got))
	}
	// 2025-06-11 is a Wednesday with no configuration.
	if got := h.For(date(2025, time.June, 11)); got != nil {
		t.Fatalf("expected no windows on wednesday, got %v", got)
	}
}

func TestWeeklyHoursCovers(t *testing.T) {
	h := WeeklyHours{
		"tuesday": {{Open: "09:00", Close: "18:00"}},
	}
	tue := date(2025, time.June, 10)

	if !h.Covers(tue, "10:00-12:00") {
		t.Error("slot inside the window should be covered")
	}
	if h.Covers(tue, "17:00-19:00") {
		t.Error("slot ending past close should not be covered")
	}
	if h.Covers(tue.AddDate(0, 0, 1), "10:00-12:00") {
		t.Error("unconfigured weekday should not be covered")
	}
	if h.Covers(tue, "not-a-slot") {
		t.Error("malformed slot should not be covered")
	}
}

func TestResourceUnitCovers(t *testing.T) {
	room := ResourceUnit{Kind: ResourceRoom, RoomCapacity: 2}
	if !room.Covers(date(2025, time.June, 10), "10:00-12:00") {
		t.Error("rooms have no schedule and cover every slot")
	}

	provider := ResourceUnit{
		Kind: ResourceProvider,
		Schedule: WeeklyHours{
			"tuesday": {{Open: "09:00", Close: "13:00"}},
		},
	}
	if !provider.Covers(date(2025, time.June, 10), "10:00-12:00") {
		t.Error("provider scheduled for the slot should cover it")
	}
	if provider.Covers(date(2025, time.June, 10), "12:00-14:00") {
		t.Error("slot outside the provider schedule should not be covered")
	}
}

func TestHasSpecialty(t *testing.T) {
	u := ResourceUnit{Specialties: []string{"relaxation", "Deep-Tissue"}}

	if !u.HasSpecialty("relaxation") || !u.HasSpecialty("deep-tissue") {
		t.Error("specialty match should be case-insensitive")
	}
	if u.HasSpecialty("stone") {
		t.Error("unknown specialty should not match")
	}
}
