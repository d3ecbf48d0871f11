package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound     = errors.New("category not found")
	ErrServiceNotFound      = errors.New("service not found")
	ErrResourceUnitNotFound = errors.New("resource unit not found")
)

// Repository is the read-only view of the booking configuration. The engine
// never writes these tables; back-office tooling owns them.
type Repository interface {
	GetCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)
	GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error)

	// ListMatrixServices returns the category's matrix-participating
	// services ordered by name.
	ListMatrixServices(ctx context.Context, categoryID uuid.UUID) ([]Service, error)

	GetResourceUnitByID(ctx context.Context, id uuid.UUID) (*ResourceUnit, error)

	// ListUnitsForService returns the resource units qualified to serve the
	// service, active and inactive alike; callers filter on Active.
	ListUnitsForService(ctx context.Context, serviceID uuid.UUID) ([]ResourceUnit, error)
}
