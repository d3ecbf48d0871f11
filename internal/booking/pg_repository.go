package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so the same
// repository code serves plain reads and the allocator's transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgRepository struct {
	pool *pgxpool.Pool
	q    querier
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool, q: pool}
}

func (r *PgRepository) WithTx(ctx context.Context, fn func(Repository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&PgRepository{pool: r.pool, q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Helpers

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var unitID *uuid.UUID

	err := row.Scan(
		&b.ID,
		&b.ServiceID,
		&b.Date,
		&b.Slot,
		&unitID,
		&b.CapacityUnits,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	b.ResourceUnitID = unitID
	return &b, nil
}

func scanDayBlock(row pgx.Row) (*DayBlock, error) {
	var b DayBlock

	err := row.Scan(
		&b.ID,
		&b.ServiceID,
		&b.DateStart,
		&b.DateEnd,
		&b.Reason,
		&b.Active,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDayBlockNotFound
		}
		return nil, err
	}

	return &b, nil
}

func scanSlotBlock(row pgx.Row) (*SlotBlock, error) {
	var b SlotBlock

	err := row.Scan(
		&b.ID,
		&b.ServiceID,
		&b.Date,
		&b.Slot,
		&b.Reason,
		&b.Active,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotBlockNotFound
		}
		return nil, err
	}

	return &b, nil
}

// Interface methods

func (r *PgRepository) ActiveBlockReason(ctx context.Context, serviceID uuid.UUID, date time.Time, slot string) (string, bool, error) {
	var reason string

	err := r.q.QueryRow(ctx, `
		SELECT reason FROM day_blocks
		WHERE service_id = $1 AND active AND date_start <= $2 AND date_end >= $2
		UNION ALL
		SELECT reason FROM slot_blocks
		WHERE service_id = $1 AND active AND date = $2 AND slot = $3
		LIMIT 1
	`, serviceID, date, slot).Scan(&reason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}

	return reason, true, nil
}

func (r *PgRepository) CountConfirmed(ctx context.Context, serviceID uuid.UUID, date time.Time, slot string) (int, error) {
	var count int

	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(capacity_units), 0)
		FROM bookings
		WHERE service_id = $1 AND date = $2 AND slot = $3 AND status = 'confirmed'
	`, serviceID, date, slot).Scan(&count)
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *PgRepository) ConfirmedUnitIDs(ctx context.Context, date time.Time, slot string) ([]uuid.UUID, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT resource_unit_id
		FROM bookings
		WHERE date = $1 AND slot = $2 AND status = 'confirmed'
		  AND resource_unit_id IS NOT NULL
	`, date, slot)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *PgRepository) UnitLoadForDay(ctx context.Context, date time.Time) (map[uuid.UUID]int, error) {
	rows, err := r.q.Query(ctx, `
		SELECT resource_unit_id, COUNT(*)
		FROM bookings
		WHERE date = $1 AND status = 'confirmed' AND resource_unit_id IS NOT NULL
		GROUP BY resource_unit_id
	`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	load := make(map[uuid.UUID]int)
	for rows.Next() {
		var id uuid.UUID
		var count int
		if err := rows.Scan(&id, &count); err != nil {
			return nil, err
		}
		load[id] = count
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return load, nil
}

const bookingColumns = `id, service_id, date, slot, resource_unit_id,
	capacity_units, status, created_at, updated_at`

func (r *PgRepository) CreateBooking(ctx context.Context, b *Booking) (*Booking, error) {
	id := b.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	row := r.q.QueryRow(ctx, `
		INSERT INTO bookings (id, service_id, date, slot, resource_unit_id, capacity_units, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING `+bookingColumns+`
	`, id, b.ServiceID, b.Date, b.Slot, b.ResourceUnitID, b.CapacityUnits, b.Status)

	return scanBooking(row)
}

func (r *PgRepository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.q.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1
	`, id)
	return scanBooking(row)
}

func (r *PgRepository) CancelBooking(ctx context.Context, id uuid.UUID) (*Booking, error) {
	row := r.q.QueryRow(ctx, `
		UPDATE bookings
		SET status = 'cancelled',
		    updated_at = now()
		WHERE id = $1
		  AND status = 'confirmed'
		RETURNING `+bookingColumns+`
	`, id)

	b, err := scanBooking(row)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, ErrBookingNotFound) {
		return nil, err
	}

	// Distinguish a missing row from one that is already cancelled.
	existing, getErr := r.GetBookingByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if existing.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	return nil, err
}

func (r *PgRepository) CreateDayBlock(ctx context.Context, b *DayBlock) (*DayBlock, error) {
	row := r.q.QueryRow(ctx, `
		INSERT INTO day_blocks (id, service_id, date_start, date_end, reason, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, now(), now())
		RETURNING id, service_id, date_start, date_end, reason, active, created_at, updated_at
	`, uuid.New(), b.ServiceID, b.DateStart, b.DateEnd, b.Reason)

	return scanDayBlock(row)
}

func (r *PgRepository) CreateSlotBlock(ctx context.Context, b *SlotBlock) (*SlotBlock, error) {
	row := r.q.QueryRow(ctx, `
		INSERT INTO slot_blocks (id, service_id, date, slot, reason, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, true, now(), now())
		RETURNING id, service_id, date, slot, reason, active, created_at, updated_at
	`, uuid.New(), b.ServiceID, b.Date, b.Slot, b.Reason)

	created, err := scanSlotBlock(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrSlotBlockExists
		}
		return nil, err
	}

	return created, nil
}

func (r *PgRepository) DeactivateDayBlock(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE day_blocks
		SET active = false,
		    updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDayBlockNotFound
	}
	return nil
}

func (r *PgRepository) DeactivateSlotBlock(ctx context.Context, id uuid.UUID) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE slot_blocks
		SET active = false,
		    updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSlotBlockNotFound
	}
	return nil
}
