package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/termasol/booking-engine/internal/catalog"
	"github.com/termasol/booking-engine/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedCatalog(context.Background(), pool); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	log.Println("seed complete")
}

var everyDay = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func hoursAllWeek(open, close string) catalog.WeeklyHours {
	h := catalog.WeeklyHours{}
	for _, day := range everyDay {
		h[day] = []catalog.TimeWindow{{Open: open, Close: close}}
	}
	return h
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	hotTubs := uuid.New()
	cabins := uuid.New()
	massages := uuid.New()

	for id, name := range map[uuid.UUID]string{
		hotTubs:  "Hot Tubs",
		cabins:   "Cabins",
		massages: "Massages",
	} {
		if _, err := tx.Exec(ctx, `
			INSERT INTO categories (id, name, created_at, updated_at)
			VALUES ($1, $2, now(), now())
		`, id, name); err != nil {
			return err
		}
	}

	insertService := func(categoryID uuid.UUID, name string, duration, maxConcurrent int, kind catalog.ResourceKind, specialty *string, hours catalog.WeeklyHours) (uuid.UUID, error) {
		id := uuid.New()
		raw, err := json.Marshal(hours)
		if err != nil {
			return uuid.Nil, err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO services (id, category_id, name, duration_minutes, max_concurrent,
				resource_kind, required_specialty, participates_in_matrix, operating_hours,
				created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8, now(), now())
		`, id, categoryID, name, duration, maxConcurrent, kind, specialty, raw)
		return id, err
	}

	insertUnit := func(name string, kind catalog.ResourceKind, roomCapacity int, schedule catalog.WeeklyHours, specialties []string) (uuid.UUID, error) {
		id := uuid.New()
		if schedule == nil {
			schedule = catalog.WeeklyHours{}
		}
		if specialties == nil {
			specialties = []string{}
		}
		raw, err := json.Marshal(schedule)
		if err != nil {
			return uuid.Nil, err
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO resource_units (id, name, kind, room_capacity, schedule, specialties,
				active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
		`, id, name, kind, roomCapacity, raw, specialties)
		return id, err
	}

	link := func(serviceID, unitID uuid.UUID) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO service_resource_units (service_id, resource_unit_id)
			VALUES ($1, $2)
		`, serviceID, unitID)
		return err
	}

	// Hot tubs: one service per tub, single party per slot.
	for _, name := range []string{"Hot Tub Osorno", "Hot Tub Calbuco", "Hot Tub Tronador", "Hot Tub Puyehue"} {
		if _, err := insertService(hotTubs, name, 120, 1, catalog.ResourceNone, nil, hoursAllWeek("10:00", "22:00")); err != nil {
			return err
		}
	}

	// Cabins: room-bound, one check-in slot per day.
	cabinHours := hoursAllWeek("16:00", "18:00")
	for _, name := range []string{"Cabin Llaima", "Cabin Villarrica"} {
		svcID, err := insertService(cabins, name, 120, 1, catalog.ResourceRoom, nil, cabinHours)
		if err != nil {
			return err
		}
		roomID, err := insertUnit(name, catalog.ResourceRoom, 2, nil, nil)
		if err != nil {
			return err
		}
		if err := link(svcID, roomID); err != nil {
			return err
		}
	}

	// Massages: provider-bound, two parallel clients per slot when enough
	// masseuses are scheduled.
	specialties := []string{"relaxation", "deep-tissue"}
	masseuseSchedule := catalog.WeeklyHours{}
	for _, day := range []string{"tuesday", "wednesday", "thursday", "friday", "saturday"} {
		masseuseSchedule[day] = []catalog.TimeWindow{{Open: "09:00", Close: "18:00"}}
	}

	var masseuses []uuid.UUID
	for i := 0; i < 4; i++ {
		skills := []string{specialties[i%len(specialties)]}
		if i%3 == 0 {
			skills = specialties
		}
		id, err := insertUnit(gofakeit.Name(), catalog.ResourceProvider, 0, masseuseSchedule, skills)
		if err != nil {
			return err
		}
		masseuses = append(masseuses, id)
	}

	for i, name := range []string{"Relaxation Massage", "Deep Tissue Massage"} {
		specialty := specialties[i]
		svcID, err := insertService(massages, name, 60, 2, catalog.ResourceProvider, &specialty, hoursAllWeek("09:00", "18:00"))
		if err != nil {
			return err
		}
		for _, m := range masseuses {
			if err := link(svcID, m); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("seeded categories, services, rooms and providers")
	return nil
}
