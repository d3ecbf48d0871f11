package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/termasol/booking-engine/internal/availability"
)

// MatrixCache keeps recently built availability matrices for display reads.
// Entries may be stale for up to the TTL; the allocator never reads them.
// Every failure degrades to a cache miss.
type MatrixCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewMatrixCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *MatrixCache {
	return &MatrixCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func matrixKey(categoryID uuid.UUID, date time.Time) string {
	return fmt.Sprintf("matrix:%s:%s", categoryID.String(), date.Format("2006-01-02"))
}

func (c *MatrixCache) GetMatrix(ctx context.Context, categoryID uuid.UUID, date time.Time) (*availability.Matrix, bool) {
	raw, err := c.client.Get(ctx, matrixKey(categoryID, date)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("matrix cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var m availability.Matrix
	if err := json.Unmarshal(raw, &m); err != nil {
		c.logger.Warn("matrix cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return &m, true
}

func (c *MatrixCache) SetMatrix(ctx context.Context, categoryID uuid.UUID, date time.Time, m *availability.Matrix) {
	raw, err := json.Marshal(m)
	if err != nil {
		c.logger.Warn("matrix cache encode failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, matrixKey(categoryID, date), raw, c.ttl).Err(); err != nil {
		c.logger.Warn("matrix cache write failed", zap.Error(err))
	}
}
