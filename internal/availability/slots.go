// Package availability computes the read-side view of the booking engine:
// which slots a service offers on a date, how much capacity each slot has
// left, and the full per-category matrix the calendar renders. Everything
// here is side-effect free; correctness under concurrency is the allocator's
// job, which re-runs the resolver inside its critical section.
package availability

import (
	"sort"
	"time"

	"github.com/termasol/booking-engine/internal/catalog"
)

// SlotsFor divides each of the service's open windows for the date's weekday
// into duration-sized slots, discarding a trailing partial segment. The
// result is ordered and deterministic. A weekday without windows, malformed
// windows, or a non-positive duration all yield an empty list, never an
// error.
func SlotsFor(svc *catalog.Service, date time.Time) []string {
	if svc.DurationMinutes <= 0 {
		return nil
	}

	var slots []string
	seen := make(map[string]struct{})

	for _, w := range svc.Hours.For(date) {
		open, close, ok := w.Bounds()
		if !ok {
			continue
		}
		for start := open; start+svc.DurationMinutes <= close; start += svc.DurationMinutes {
			label := catalog.FormatSlot(start, start+svc.DurationMinutes)
			if _, dup := seen[label]; dup {
				continue
			}
			seen[label] = struct{}{}
			slots = append(slots, label)
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		si, _, _ := catalog.ParseSlot(slots[i])
		sj, _, _ := catalog.ParseSlot(slots[j])
		return si < sj
	})

	return slots
}

// HasSlot reports whether the label is one of the service's slots for the
// date. Allocation requests with any other label are stale or malformed.
func HasSlot(svc *catalog.Service, date time.Time, slot string) bool {
	for _, s := range SlotsFor(svc, date) {
		if s == slot {
			return true
		}
	}
	return false
}
