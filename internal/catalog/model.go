package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResourceKind says what a service needs bound to each booking: nothing, a
// room, or a qualified provider (e.g. a masseuse).
type ResourceKind string

const (
	ResourceNone     ResourceKind = "none"
	ResourceRoom     ResourceKind = "room"
	ResourceProvider ResourceKind = "provider"
)

type Category struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TimeWindow is one open/close range within a day, "HH:MM" 24h clock.
type TimeWindow struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// Bounds returns the window as minutes since midnight. ok is false for a
// window that cannot be parsed or that closes at or before it opens; callers
// skip such windows instead of failing.
func (w TimeWindow) Bounds() (open, close int, ok bool) {
	open, okOpen := ParseClock(w.Open)
	close, okClose := ParseClock(w.Close)
	if !okOpen || !okClose || close <= open {
		return 0, 0, false
	}
	return open, close, true
}

// WeeklyHours maps a lowercase english weekday name ("monday") to its open
// windows. A missing weekday means the service or provider is off that day.
type WeeklyHours map[string][]TimeWindow

// For returns the windows configured for the date's weekday.
func (h WeeklyHours) For(date time.Time) []TimeWindow {
	return h[strings.ToLower(date.Weekday().String())]
}

// Covers reports whether any window on the date's weekday fully contains the
// slot interval.
func (h WeeklyHours) Covers(date time.Time, slot string) bool {
	start, end, ok := ParseSlot(slot)
	if !ok {
		return false
	}
	for _, w := range h.For(date) {
		open, close, ok := w.Bounds()
		if ok && start >= open && end <= close {
			return true
		}
	}
	return false
}

type Service struct {
	ID                   uuid.UUID
	CategoryID           uuid.UUID
	Name                 string
	DurationMinutes      int
	MaxConcurrent        int // simultaneous confirmed bookings per slot
	ResourceKind         ResourceKind
	RequiredSpecialty    *string
	ParticipatesInMatrix bool
	Hours                WeeklyHours
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ResourceUnit is a concrete room or provider bookable through a service.
// Rooms carry an occupant capacity; providers carry a weekly schedule and the
// specialties they are qualified to serve.
type ResourceUnit struct {
	ID           uuid.UUID
	Name         string
	Kind         ResourceKind
	RoomCapacity int
	Schedule     WeeklyHours
	Specialties  []string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *ResourceUnit) HasSpecialty(name string) bool {
	for _, s := range u.Specialties {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// Covers reports whether the unit can serve the slot on the date. Rooms have
// no schedule of their own, so they cover every slot.
func (u *ResourceUnit) Covers(date time.Time, slot string) bool {
	if u.Kind != ResourceProvider {
		return true
	}
	return u.Schedule.Covers(date, slot)
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ParseSlot parses a slot label "HH:MM-HH:MM" into start and end minutes.
func ParseSlot(slot string) (start, end int, ok bool) {
	parts := strings.SplitN(slot, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, okStart := ParseClock(parts[0])
	end, okEnd := ParseClock(parts[1])
	if !okStart || !okEnd || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

// FormatSlot renders a slot label "HH:MM-HH:MM".
func FormatSlot(start, end int) string {
	return FormatClock(start) + "-" + FormatClock(end)
}
