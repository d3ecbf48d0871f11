package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/termasol/booking-engine/internal/catalog"
)

// fakeLedger is a canned-answer Ledger for read-path tests.
type fakeLedger struct {
	blockReasons map[string]string      // slotKey -> reason
	counts       map[string]int         // slotKey -> confirmed capacity units
	occupied     map[string][]uuid.UUID // dateSlotKey -> busy unit ids
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		blockReasons: map[string]string{},
		counts:       map[string]int{},
		occupied:     map[string][]uuid.UUID{},
	}
}

func slotKey(serviceID uuid.UUID, date time.Time, slot string) string {
	return fmt.Sprintf("%s|%s|%s", serviceID, date.Format("2006-01-02"), slot)
}

func dateSlotKey(date time.Time, slot string) string {
	return fmt.Sprintf("%s|%s", date.Format("2006-01-02"), slot)
}

func (l *fakeLedger) ActiveBlockReason(_ context.Context, serviceID uuid.UUID, date time.Time, slot string) (string, bool, error) {
	reason, ok := l.blockReasons[slotKey(serviceID, date, slot)]
	return reason, ok, nil
}

func (l *fakeLedger) CountConfirmed(_ context.Context, serviceID uuid.UUID, date time.Time, slot string) (int, error) {
	return l.counts[slotKey(serviceID, date, slot)], nil
}

func (l *fakeLedger) ConfirmedUnitIDs(_ context.Context, date time.Time, slot string) ([]uuid.UUID, error) {
	return l.occupied[dateSlotKey(date, slot)], nil
}

// fakeCatalog is an in-memory CatalogReader.
type fakeCatalog struct {
	categories map[uuid.UUID]*catalog.Category
	services   map[uuid.UUID][]catalog.Service      // keyed by category
	units      map[uuid.UUID][]catalog.ResourceUnit // keyed by service
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		categories: map[uuid.UUID]*catalog.Category{},
		services:   map[uuid.UUID][]catalog.Service{},
		units:      map[uuid.UUID][]catalog.ResourceUnit{},
	}
}

func (c *fakeCatalog) GetCategoryByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	cat, ok := c.categories[id]
	if !ok {
		return nil, catalog.ErrCategoryNotFound
	}
	return cat, nil
}

func (c *fakeCatalog) ListMatrixServices(_ context.Context, categoryID uuid.UUID) ([]catalog.Service, error) {
	return c.services[categoryID], nil
}

func (c *fakeCatalog) ListUnitsForService(_ context.Context, serviceID uuid.UUID) ([]catalog.ResourceUnit, error) {
	return c.units[serviceID], nil
}

// fakeCache records matrix cache traffic.
type fakeCache struct {
	entries map[string]*Matrix
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]*Matrix{}}
}

func (c *fakeCache) cacheKey(categoryID uuid.UUID, date time.Time) string {
	return categoryID.String() + "|" + date.Format("2006-01-02")
}

func (c *fakeCache) GetMatrix(_ context.Context, categoryID uuid.UUID, date time.Time) (*Matrix, bool) {
	m, ok := c.entries[c.cacheKey(categoryID, date)]
	if ok {
		c.hits++
	}
	return m, ok
}

func (c *fakeCache) SetMatrix(_ context.Context, categoryID uuid.UUID, date time.Time, m *Matrix) {
	c.entries[c.cacheKey(categoryID, date)] = m
}
