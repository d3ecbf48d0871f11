package availability

import (
	"reflect"
	"testing"
	"time"

	"github.com/termasol/booking-engine/internal/catalog"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func hotTub(duration int, hours catalog.WeeklyHours) *catalog.Service {
	return &catalog.Service{
		Name:            "Hot Tub A",
		DurationMinutes: duration,
		MaxConcurrent:   1,
		ResourceKind:    catalog.ResourceNone,
		Hours:           hours,
	}
}

func TestSlotsForDividesWindow(t *testing.T) {
	svc := hotTub(120, catalog.WeeklyHours{
		"tuesday": {{Open: "10:00", Close: "14:00"}},
	})

	got := SlotsFor(svc, date(2025, time.June, 10))
	want := []string{"10:00-12:00", "12:00-14:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SlotsFor = %v, want %v", got, want)
	}
}

func TestSlotsForDiscardsTrailingPartial(t *testing.T) {
	svc := hotTub(120, catalog.WeeklyHours{
		"tuesday": {{Open: "10:00", Close: "13:00"}},
	})

	got := SlotsFor(svc, date(2025, time.June, 10))
	want := []string{"10:00-12:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SlotsFor = %v, want %v", got, want)
	}
}

func TestSlotsForUnconfiguredWeekday(t *testing.T) {
	svc := hotTub(120, catalog.WeeklyHours{
		"tuesday": {{Open: "10:00", Close: "14:00"}},
	})

	// Wednesday has no windows: the service is not offered that day.
	if got := SlotsFor(svc, date(2025, time.June, 11)); len(got) != 0 {
		t.Fatalf("expected no slots, got %v", got)
	}
}

func TestSlotsForMalformedWindow(t *testing.T) {
	svc := hotTub(120, catalog.WeeklyHours{
		"tuesday": {
			{Open: "14:00", Close: "10:00"},
			{Open: "garbage", Close: "12:00"},
		},
	})

	// Malformed windows degrade to an empty slot list, never an error.
	if got := SlotsFor(svc, date(2025, time.June, 10)); len(got) != 0 {
		t.Fatalf("expected no slots, got %v", got)
	}
}

func TestSlotsForNonPositiveDuration(t *testing.T) {
	svc := hotTub(0, catalog.WeeklyHours{
		"tuesday": {{Open: "10:00", Close: "14:00"}},
	})

	if got := SlotsFor(svc, date(2025, time.June, 10)); len(got) != 0 {
		t.Fatalf("expected no slots, got %v", got)
	}
}

func TestSlotsForMultipleWindowsOrdered(t *testing.T) {
	svc := hotTub(60, catalog.WeeklyHours{
		"tuesday": {
			{Open: "16:00", Close: "18:00"},
			{Open: "09:00", Close: "11:00"},
		},
	})

	got := SlotsFor(svc, date(2025, time.June, 10))
	want := []string{"09:00-10:00", "10:00-11:00", "16:00-17:00", "17:00-18:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SlotsFor = %v, want %v", got, want)
	}
}

func TestSlotsForDeterministic(t *testing.T) {
	svc := hotTub(90, catalog.WeeklyHours{
		"tuesday": {{Open: "10:00", Close: "16:00"}},
	})
	d := date(2025, time.June, 10)

	first := SlotsFor(svc, d)
	second := SlotsFor(svc, d)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same inputs produced different slots: %v vs %v", first, second)
	}
}

func TestHasSlot(t *testing.T) {
	svc := hotTub(120, catalog.WeeklyHours{
		"tuesday": {{Open: "10:00", Close: "14:00"}},
	})
	d := date(2025, time.June, 10)

	if !HasSlot(svc, d, "10:00-12:00") {
		t.Error("generated slot should be accepted")
	}
	if HasSlot(svc, d, "11:00-13:00") {
		t.Error("slot not in the generated sequence should be rejected")
	}
}
