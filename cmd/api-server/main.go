package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/termasol/booking-engine/internal/api"
	"github.com/termasol/booking-engine/internal/availability"
	"github.com/termasol/booking-engine/internal/booking"
	"github.com/termasol/booking-engine/internal/catalog"
	"github.com/termasol/booking-engine/internal/config"
	"github.com/termasol/booking-engine/internal/db"
	redisclient "github.com/termasol/booking-engine/internal/redis"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load error: " + err.Error())
	}

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	logger.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	if err := db.Migrate(rootCtx, pgPool); err != nil {
		logger.Fatal("schema migration error", zap.Error(err))
	}

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn("error closing redis", zap.Error(err))
		}
	}()
	logger.Info("connected to Redis")

	catalogRepo := catalog.NewPgRepository(pgPool)
	bookingRepo := booking.NewPgRepository(pgPool)
	locker := redisclient.NewRedisAllocationLocker(rdb, cfg.LockTTL, cfg.LockAcquireTimeout)
	matrixCache := redisclient.NewMatrixCache(rdb, cfg.MatrixCacheTTL, logger)

	allocator := booking.NewAllocator(bookingRepo, catalogRepo, locker, logger)
	blocks := booking.NewBlocks(bookingRepo, logger)
	matrix := availability.NewMatrixBuilder(catalogRepo, bookingRepo, matrixCache, logger)

	router := api.NewRouter(api.RouterConfig{
		Allocator: allocator,
		Blocks:    blocks,
		Matrix:    matrix,
		PgPool:    pgPool,
		Redis:     rdb,
		Env:       cfg.Env,
		Version:   version,
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()

	logger.Info("shutting down api-server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	var logger *zap.Logger
	var err error

	if env == "prod" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return logger
}
