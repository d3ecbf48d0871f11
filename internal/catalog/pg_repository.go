package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	return &c, nil
}

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	var requiredSpecialty *string
	var hoursRaw []byte

	err := row.Scan(
		&s.ID,
		&s.CategoryID,
		&s.Name,
		&s.DurationMinutes,
		&s.MaxConcurrent,
		&s.ResourceKind,
		&requiredSpecialty,
		&s.ParticipatesInMatrix,
		&hoursRaw,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}

	s.RequiredSpecialty = requiredSpecialty
	if len(hoursRaw) > 0 {
		if err := json.Unmarshal(hoursRaw, &s.Hours); err != nil {
			return nil, fmt.Errorf("decode operating hours for service %s: %w", s.ID, err)
		}
	}
	return &s, nil
}

func scanResourceUnit(row pgx.Row) (*ResourceUnit, error) {
	var u ResourceUnit
	var scheduleRaw []byte

	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Kind,
		&u.RoomCapacity,
		&scheduleRaw,
		&u.Specialties,
		&u.Active,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrResourceUnitNotFound
		}
		return nil, err
	}

	if len(scheduleRaw) > 0 {
		if err := json.Unmarshal(scheduleRaw, &u.Schedule); err != nil {
			return nil, fmt.Errorf("decode schedule for resource unit %s: %w", u.ID, err)
		}
	}
	return &u, nil
}

const serviceColumns = `id, category_id, name, duration_minutes, max_concurrent,
	resource_kind, required_specialty, participates_in_matrix, operating_hours,
	created_at, updated_at`

const unitColumns = `id, name, kind, room_capacity, schedule, specialties,
	active, created_at, updated_at`

// Interface methods

func (r *PgRepository) GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, created_at, updated_at
		FROM categories
		WHERE id = $1
	`, id)
	return scanCategory(row)
}

func (r *PgRepository) GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE id = $1
	`, id)
	return scanService(row)
}

func (r *PgRepository) ListMatrixServices(ctx context.Context, categoryID uuid.UUID) ([]Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+serviceColumns+`
		FROM services
		WHERE category_id = $1
		  AND participates_in_matrix
		ORDER BY name, id
	`, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PgRepository) GetResourceUnitByID(ctx context.Context, id uuid.UUID) (*ResourceUnit, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+unitColumns+`
		FROM resource_units
		WHERE id = $1
	`, id)
	return scanResourceUnit(row)
}

func (r *PgRepository) ListUnitsForService(ctx context.Context, serviceID uuid.UUID) ([]ResourceUnit, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, u.kind, u.room_capacity, u.schedule, u.specialties,
		       u.active, u.created_at, u.updated_at
		FROM resource_units u
		JOIN service_resource_units su ON su.resource_unit_id = u.id
		WHERE su.service_id = $1
		ORDER BY u.id
	`, serviceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ResourceUnit
	for rows.Next() {
		u, err := scanResourceUnit(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
