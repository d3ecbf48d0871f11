package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/termasol/booking-engine/internal/catalog"
)

// fakeRepo is an in-memory Repository. WithTx serializes transactions with a
// mutex, which is the property the allocator relies on from Postgres.
type fakeRepo struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	bookings   map[uuid.UUID]*Booking
	dayBlocks  map[uuid.UUID]*DayBlock
	slotBlocks map[uuid.UUID]*SlotBlock
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		bookings:   map[uuid.UUID]*Booking{},
		dayBlocks:  map[uuid.UUID]*DayBlock{},
		slotBlocks: map[uuid.UUID]*SlotBlock{},
	}
}

func (r *fakeRepo) WithTx(_ context.Context, fn func(Repository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(r)
}

func (r *fakeRepo) ActiveBlockReason(_ context.Context, serviceID uuid.UUID, date time.Time, slot string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.dayBlocks {
		if b.Active && b.ServiceID == serviceID && !date.Before(b.DateStart) && !date.After(b.DateEnd) {
			return b.Reason, true, nil
		}
	}
	for _, b := range r.slotBlocks {
		if b.Active && b.ServiceID == serviceID && b.Date.Equal(date) && b.Slot == slot {
			return b.Reason, true, nil
		}
	}
	return "", false, nil
}

func (r *fakeRepo) CountConfirmed(_ context.Context, serviceID uuid.UUID, date time.Time, slot string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, b := range r.bookings {
		if b.Status == StatusConfirmed && b.ServiceID == serviceID && b.Date.Equal(date) && b.Slot == slot {
			count += b.CapacityUnits
		}
	}
	return count, nil
}

func (r *fakeRepo) ConfirmedUnitIDs(_ context.Context, date time.Time, slot string) ([]uuid.UUID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []uuid.UUID
	for _, b := range r.bookings {
		if b.Status == StatusConfirmed && b.ResourceUnitID != nil && b.Date.Equal(date) && b.Slot == slot {
			ids = append(ids, *b.ResourceUnitID)
		}
	}
	return ids, nil
}

func (r *fakeRepo) UnitLoadForDay(_ context.Context, date time.Time) (map[uuid.UUID]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	load := map[uuid.UUID]int{}
	for _, b := range r.bookings {
		if b.Status == StatusConfirmed && b.ResourceUnitID != nil && b.Date.Equal(date) {
			load[*b.ResourceUnitID]++
		}
	}
	return load, nil
}

func (r *fakeRepo) CreateBooking(_ context.Context, b *Booking) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *b
	stored.ID = uuid.New()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.bookings[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (r *fakeRepo) GetBookingByID(_ context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	result := *b
	return &result, nil
}

func (r *fakeRepo) CancelBooking(_ context.Context, id uuid.UUID) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	b.Status = StatusCancelled
	b.UpdatedAt = time.Now()

	result := *b
	return &result, nil
}

func (r *fakeRepo) CreateDayBlock(_ context.Context, b *DayBlock) (*DayBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *b
	stored.ID = uuid.New()
	stored.Active = true
	r.dayBlocks[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (r *fakeRepo) CreateSlotBlock(_ context.Context, b *SlotBlock) (*SlotBlock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.slotBlocks {
		if existing.Active && existing.ServiceID == b.ServiceID && existing.Date.Equal(b.Date) && existing.Slot == b.Slot {
			return nil, ErrSlotBlockExists
		}
	}

	stored := *b
	stored.ID = uuid.New()
	stored.Active = true
	r.slotBlocks[stored.ID] = &stored

	result := stored
	return &result, nil
}

func (r *fakeRepo) DeactivateDayBlock(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.dayBlocks[id]
	if !ok {
		return ErrDayBlockNotFound
	}
	b.Active = false
	return nil
}

func (r *fakeRepo) DeactivateSlotBlock(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.slotBlocks[id]
	if !ok {
		return ErrSlotBlockNotFound
	}
	b.Active = false
	return nil
}

// fakeCatalog serves catalog config for the allocator.
type fakeCatalog struct {
	services map[uuid.UUID]*catalog.Service
	units    map[uuid.UUID][]catalog.ResourceUnit
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		services: map[uuid.UUID]*catalog.Service{},
		units:    map[uuid.UUID][]catalog.ResourceUnit{},
	}
}

func (c *fakeCatalog) GetServiceByID(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	svc, ok := c.services[id]
	if !ok {
		return nil, catalog.ErrServiceNotFound
	}
	return svc, nil
}

func (c *fakeCatalog) ListUnitsForService(_ context.Context, serviceID uuid.UUID) ([]catalog.ResourceUnit, error) {
	return c.units[serviceID], nil
}

// fakeLocker blocks until the critical section is free, mirroring the
// poll-until-acquired behavior of the redis locker.
type fakeLocker struct {
	mu sync.Mutex
}

func (l *fakeLocker) WithAllocationLock(ctx context.Context, _ uuid.UUID, _ time.Time, _ string, fn func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(ctx)
}
