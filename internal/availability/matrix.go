package availability

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/termasol/booking-engine/internal/catalog"
)

// CatalogReader is the configuration the matrix needs from the catalog.
type CatalogReader interface {
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error)
	ListMatrixServices(ctx context.Context, categoryID uuid.UUID) ([]catalog.Service, error)
	ListUnitsForService(ctx context.Context, serviceID uuid.UUID) ([]catalog.ResourceUnit, error)
}

// Cache is a best-effort display cache in front of Build. A stale entry is
// acceptable because the allocator re-resolves capacity at commit time.
type Cache interface {
	GetMatrix(ctx context.Context, categoryID uuid.UUID, date time.Time) (*Matrix, bool)
	SetMatrix(ctx context.Context, categoryID uuid.UUID, date time.Time, m *Matrix)
}

type SlotAvailability struct {
	Slot        string      `json:"slot"`
	Remaining   int         `json:"remaining"`
	Blocked     bool        `json:"blocked"`
	Reason      string      `json:"reason,omitempty"`
	FreeUnitIDs []uuid.UUID `json:"free_unit_ids,omitempty"`
}

type ServiceAvailability struct {
	ServiceID   uuid.UUID          `json:"service_id"`
	ServiceName string             `json:"service_name"`
	Slots       []SlotAvailability `json:"slots"`
}

// Summary aggregates occupancy over the whole grid for the calendar header.
type Summary struct {
	TotalSlots   int     `json:"total_slots"`
	Occupied     int     `json:"occupied"`
	Free         int     `json:"free"`
	OccupancyPct float64 `json:"occupancy_pct"`
}

type Matrix struct {
	CategoryID   uuid.UUID             `json:"category_id"`
	CategoryName string                `json:"category_name"`
	Date         string                `json:"date"`
	Slots        []string              `json:"slots"`
	Services     []ServiceAvailability `json:"services"`
	Summary      Summary               `json:"summary"`
}

type MatrixBuilder struct {
	catalog  CatalogReader
	resolver *Resolver
	ledger   Ledger
	cache    Cache // optional
	logger   *zap.Logger
}

func NewMatrixBuilder(cat CatalogReader, ledger Ledger, cache Cache, logger *zap.Logger) *MatrixBuilder {
	return &MatrixBuilder{
		catalog:  cat,
		resolver: NewResolver(ledger),
		ledger:   ledger,
		cache:    cache,
		logger:   logger,
	}
}

// Build assembles the availability grid for the category on the date: every
// matrix-participating service, its slots, the remaining capacity per slot
// and, for resource-bound services, which concrete units are still free.
// This is a pure read; it may run against a snapshot that is already stale
// by the time the caller renders it.
func (b *MatrixBuilder) Build(ctx context.Context, categoryID uuid.UUID, date time.Time) (*Matrix, error) {
	if b.cache != nil {
		if m, ok := b.cache.GetMatrix(ctx, categoryID, date); ok {
			return m, nil
		}
	}

	category, err := b.catalog.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	services, err := b.catalog.ListMatrixServices(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	m := &Matrix{
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Date:         date.Format("2006-01-02"),
	}

	allSlots := make(map[string]struct{})
	// occupied units per slot label, shared across services on this date
	occupiedBySlot := make(map[string]map[uuid.UUID]bool)

	for i := range services {
		svc := &services[i]

		var units []catalog.ResourceUnit
		if svc.ResourceKind != catalog.ResourceNone {
			units, err = b.catalog.ListUnitsForService(ctx, svc.ID)
			if err != nil {
				return nil, fmt.Errorf("list units for service %s: %w", svc.ID, err)
			}
		}

		sa := ServiceAvailability{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
		}

		for _, slot := range SlotsFor(svc, date) {
			allSlots[slot] = struct{}{}

			capa, err := b.resolver.Resolve(ctx, svc, units, date, slot)
			if err != nil {
				return nil, fmt.Errorf("resolve %s %s %s: %w", svc.ID, m.Date, slot, err)
			}

			cell := SlotAvailability{
				Slot:      slot,
				Remaining: capa.Remaining,
				Blocked:   capa.Blocked,
				Reason:    capa.Reason,
			}

			if svc.ResourceKind != catalog.ResourceNone && !capa.Blocked {
				occupied, err := b.occupiedUnits(ctx, occupiedBySlot, date, slot)
				if err != nil {
					return nil, err
				}
				cell.FreeUnitIDs = freeUnits(svc, units, date, slot, occupied)
			}

			sa.Slots = append(sa.Slots, cell)

			m.Summary.TotalSlots++
			if capa.Blocked || capa.Remaining == 0 {
				m.Summary.Occupied++
			}
		}

		m.Services = append(m.Services, sa)
	}

	m.Slots = sortedSlots(allSlots)
	m.Summary.Free = m.Summary.TotalSlots - m.Summary.Occupied
	if m.Summary.TotalSlots > 0 {
		pct := float64(m.Summary.Occupied) / float64(m.Summary.TotalSlots) * 100
		m.Summary.OccupancyPct = math.Round(pct*10) / 10
	}

	if b.cache != nil {
		b.cache.SetMatrix(ctx, categoryID, date, m)
	}

	b.logger.Debug("matrix built",
		zap.String("category", category.Name),
		zap.String("date", m.Date),
		zap.Int("services", len(m.Services)),
		zap.Int("slots", m.Summary.TotalSlots),
	)

	return m, nil
}

func (b *MatrixBuilder) occupiedUnits(ctx context.Context, memo map[string]map[uuid.UUID]bool, date time.Time, slot string) (map[uuid.UUID]bool, error) {
	if occupied, ok := memo[slot]; ok {
		return occupied, nil
	}

	ids, err := b.ledger.ConfirmedUnitIDs(ctx, date, slot)
	if err != nil {
		return nil, fmt.Errorf("occupied units at %s: %w", slot, err)
	}

	occupied := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		occupied[id] = true
	}
	memo[slot] = occupied
	return occupied, nil
}

func freeUnits(svc *catalog.Service, units []catalog.ResourceUnit, date time.Time, slot string, occupied map[uuid.UUID]bool) []uuid.UUID {
	var free []uuid.UUID
	for i := range units {
		u := &units[i]
		if !u.Active || occupied[u.ID] || !u.Covers(date, slot) {
			continue
		}
		if svc.RequiredSpecialty != nil && u.Kind == catalog.ResourceProvider && !u.HasSpecialty(*svc.RequiredSpecialty) {
			continue
		}
		free = append(free, u.ID)
	}
	sort.Slice(free, func(i, j int) bool { return free[i].String() < free[j].String() })
	return free
}

func sortedSlots(set map[string]struct{}) []string {
	slots := make([]string, 0, len(set))
	for s := range set {
		slots = append(slots, s)
	}
	sort.Slice(slots, func(i, j int) bool {
		si, _, _ := catalog.ParseSlot(slots[i])
		sj, _, _ := catalog.ParseSlot(slots[j])
		if si != sj {
			return si < sj
		}
		return slots[i] < slots[j]
	})
	return slots
}
