package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RouterConfig struct {
	Allocator AllocatorService
	Blocks    BlockService
	Matrix    MatrixService
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Env       string
	Version   string
	Logger    *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Availability (read-only, display may be slightly stale)
	r.Get("/availability/matrix", matrixHandler(cfg.Matrix))

	// Bookings
	r.Post("/bookings", allocateBookingHandler(cfg.Allocator))
	r.Get("/bookings/{id}", getBookingHandler(cfg.Allocator))
	r.Post("/bookings/{id}/cancel", cancelBookingHandler(cfg.Allocator))

	// Staff block management
	r.Post("/blocks/day", createDayBlockHandler(cfg.Blocks))
	r.Post("/blocks/day/{id}/deactivate", deactivateDayBlockHandler(cfg.Blocks))
	r.Post("/blocks/slot", createSlotBlockHandler(cfg.Blocks))
	r.Post("/blocks/slot/{id}/deactivate", deactivateSlotBlockHandler(cfg.Blocks))

	return r
}
