package booking

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking occupies one unit of a service's slot capacity, optionally bound
// to a concrete resource unit. Cancelled rows are kept so historical
// occupancy stays queryable.
type Booking struct {
	ID             uuid.UUID
	ServiceID      uuid.UUID
	Date           time.Time
	Slot           string
	ResourceUnitID *uuid.UUID
	CapacityUnits  int
	Status         BookingStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DayBlock takes a service out of operation for a whole date range,
// regardless of slot. Invariant: DateStart <= DateEnd.
type DayBlock struct {
	ID        uuid.UUID
	ServiceID uuid.UUID
	DateStart time.Time
	DateEnd   time.Time
	Reason    string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotBlock takes a single (date, slot) out of operation. Deactivation is a
// soft delete; a new block for the same key may be created afterwards.
type SlotBlock struct {
	ID        uuid.UUID
	ServiceID uuid.UUID
	Date      time.Time
	Slot      string
	Reason    string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateOnly strips the time-of-day so all slot math works on civil dates.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
