package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/termasol/booking-engine/internal/catalog"
)

// Ledger is the slice of the booking store that capacity resolution reads:
// active blocks and confirmed occupancy. The booking package's repository
// satisfies it, both pool-backed and transaction-backed.
type Ledger interface {
	// ActiveBlockReason returns the reason of an active day block covering
	// the date or an active slot block on the exact (date, slot), and
	// whether one exists.
	ActiveBlockReason(ctx context.Context, serviceID uuid.UUID, date time.Time, slot string) (string, bool, error)

	// CountConfirmed sums the capacity units of confirmed bookings for the
	// (service, date, slot) key.
	CountConfirmed(ctx context.Context, serviceID uuid.UUID, date time.Time, slot string) (int, error)

	// ConfirmedUnitIDs lists resource units holding a confirmed booking at
	// (date, slot) across all services; a provider busy with one service is
	// busy for every other.
	ConfirmedUnitIDs(ctx context.Context, date time.Time, slot string) ([]uuid.UUID, error)
}

// Capacity is the resolved state of one (service, date, slot) key.
type Capacity struct {
	Remaining int
	Blocked   bool
	Reason    string
}

type Resolver struct {
	ledger Ledger
}

func NewResolver(ledger Ledger) *Resolver {
	return &Resolver{ledger: ledger}
}

// Resolve recomputes remaining capacity from the ledger. units are the
// service's qualified resource units (empty unless resource-bound); for a
// room-bound service the largest active room caps the base capacity.
//
// Display paths may cache the result; the allocator must call this again
// inside its critical section and never trust a caller-supplied value.
func (r *Resolver) Resolve(ctx context.Context, svc *catalog.Service, units []catalog.ResourceUnit, date time.Time, slot string) (Capacity, error) {
	reason, blocked, err := r.ledger.ActiveBlockReason(ctx, svc.ID, date, slot)
	if err != nil {
		return Capacity{}, fmt.Errorf("check blocks: %w", err)
	}
	if blocked {
		return Capacity{Remaining: 0, Blocked: true, Reason: reason}, nil
	}

	base := svc.MaxConcurrent
	if svc.ResourceKind == catalog.ResourceRoom {
		base = min(base, maxRoomCapacity(units))
	}

	count, err := r.ledger.CountConfirmed(ctx, svc.ID, date, slot)
	if err != nil {
		return Capacity{}, fmt.Errorf("count confirmed bookings: %w", err)
	}

	remaining := base - count
	if remaining < 0 {
		remaining = 0
	}

	return Capacity{Remaining: remaining}, nil
}

func maxRoomCapacity(units []catalog.ResourceUnit) int {
	capacity := 0
	for i := range units {
		u := &units[i]
		if u.Kind == catalog.ResourceRoom && u.Active && u.RoomCapacity > capacity {
			capacity = u.RoomCapacity
		}
	}
	return capacity
}
