package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/termasol/booking-engine/internal/availability"
	"github.com/termasol/booking-engine/internal/catalog"
)

// CatalogReader is the configuration the allocator needs from the catalog.
type CatalogReader interface {
	GetServiceByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error)
	ListUnitsForService(ctx context.Context, serviceID uuid.UUID) ([]catalog.ResourceUnit, error)
}

// Locker serializes allocations targeting the same (service, date, slot).
type Locker interface {
	WithAllocationLock(ctx context.Context, serviceID uuid.UUID, date time.Time, slot string, fn func(ctx context.Context) error) error
}

type AllocationRequest struct {
	ServiceID         uuid.UUID
	Date              time.Time
	Slot              string
	RequiredSpecialty string     // optional, narrows provider selection
	PreferredUnitID   *uuid.UUID // optional, pins selection to one unit
}

// Allocator is the only component that writes the booking ledger. Every
// allocation holds the per-key lock and re-resolves capacity inside a
// transaction, so two racing requests for the last unit can never both
// commit.
type Allocator struct {
	repo    Repository
	catalog CatalogReader
	locker  Locker
	logger  *zap.Logger
}

func NewAllocator(repo Repository, cat CatalogReader, locker Locker, logger *zap.Logger) *Allocator {
	return &Allocator{
		repo:    repo,
		catalog: cat,
		locker:  locker,
		logger:  logger,
	}
}

// Allocate performs the atomic check-and-reserve: validate the slot against
// the service's generated slots, then under the allocation lock re-run
// capacity resolution, pick a resource unit if the service needs one, and
// insert the confirmed booking. Any failure leaves the ledger untouched.
func (a *Allocator) Allocate(ctx context.Context, req AllocationRequest) (*Booking, error) {
	svc, err := a.catalog.GetServiceByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	date := DateOnly(req.Date)

	if !availability.HasSlot(svc, date, req.Slot) {
		return nil, ErrInvalidSlot
	}

	var units []catalog.ResourceUnit
	if svc.ResourceKind != catalog.ResourceNone {
		units, err = a.catalog.ListUnitsForService(ctx, svc.ID)
		if err != nil {
			return nil, fmt.Errorf("list units: %w", err)
		}
	}

	var created *Booking

	err = a.locker.WithAllocationLock(ctx, svc.ID, date, req.Slot, func(lockCtx context.Context) error {
		return a.repo.WithTx(lockCtx, func(tx Repository) error {
			resolver := availability.NewResolver(tx)

			capa, err := resolver.Resolve(lockCtx, svc, units, date, req.Slot)
			if err != nil {
				return fmt.Errorf("resolve capacity: %w", err)
			}
			if capa.Blocked {
				return &BlockedError{Reason: capa.Reason}
			}
			if capa.Remaining <= 0 {
				return ErrCapacityExceeded
			}

			var unitID *uuid.UUID
			if svc.ResourceKind != catalog.ResourceNone {
				chosen, err := a.selectUnit(lockCtx, tx, svc, units, req, date)
				if err != nil {
					return err
				}
				unitID = &chosen.ID
			}

			b := &Booking{
				ServiceID:      svc.ID,
				Date:           date,
				Slot:           req.Slot,
				ResourceUnitID: unitID,
				CapacityUnits:  1,
				Status:         StatusConfirmed,
			}

			created, err = tx.CreateBooking(lockCtx, b)
			if err != nil {
				return fmt.Errorf("create booking: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	a.logger.Info("booking allocated",
		zap.String("booking_id", created.ID.String()),
		zap.String("service", svc.Name),
		zap.String("date", date.Format("2006-01-02")),
		zap.String("slot", req.Slot),
	)

	return created, nil
}

// selectUnit picks the concrete unit for a resource-bound booking: active
// units qualified for every required specialty whose schedule covers the
// slot, minus units already holding a confirmed booking at that (date, slot).
// The winner is the unit with the fewest confirmed bookings that day, ties
// broken by lowest id, so load spreads evenly and the choice is
// deterministic.
func (a *Allocator) selectUnit(ctx context.Context, tx Repository, svc *catalog.Service, units []catalog.ResourceUnit, req AllocationRequest, date time.Time) (*catalog.ResourceUnit, error) {
	occupiedIDs, err := tx.ConfirmedUnitIDs(ctx, date, req.Slot)
	if err != nil {
		return nil, fmt.Errorf("occupied units: %w", err)
	}
	occupied := make(map[uuid.UUID]bool, len(occupiedIDs))
	for _, id := range occupiedIDs {
		occupied[id] = true
	}

	var candidates []*catalog.ResourceUnit
	for i := range units {
		u := &units[i]
		if !u.Active || occupied[u.ID] || !u.Covers(date, req.Slot) {
			continue
		}
		if req.PreferredUnitID != nil && u.ID != *req.PreferredUnitID {
			continue
		}
		if u.Kind == catalog.ResourceProvider {
			if svc.RequiredSpecialty != nil && !u.HasSpecialty(*svc.RequiredSpecialty) {
				continue
			}
			if req.RequiredSpecialty != "" && !u.HasSpecialty(req.RequiredSpecialty) {
				continue
			}
		}
		candidates = append(candidates, u)
	}

	if len(candidates) == 0 {
		return nil, ErrNoResourceAvailable
	}

	load, err := tx.UnitLoadForDay(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("unit load: %w", err)
	}

	sort.Slice(candidates, func(i, j int) bool {
		li, lj := load[candidates[i].ID], load[candidates[j].ID]
		if li != lj {
			return li < lj
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})

	return candidates[0], nil
}

// Cancel marks a confirmed booking cancelled. The freed capacity unit is
// visible to the next capacity resolution as soon as the update commits.
func (a *Allocator) Cancel(ctx context.Context, id uuid.UUID) (*Booking, error) {
	cancelled, err := a.repo.CancelBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	a.logger.Info("booking cancelled",
		zap.String("booking_id", cancelled.ID.String()),
		zap.String("date", cancelled.Date.Format("2006-01-02")),
		zap.String("slot", cancelled.Slot),
	)

	return cancelled, nil
}

// GetBooking retrieves a booking by id for back-office screens.
func (a *Allocator) GetBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	return a.repo.GetBookingByID(ctx, id)
}
