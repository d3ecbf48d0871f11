package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Blocks is the staff-facing block management surface. Blocks are consumed
// read-only by capacity resolution; creating or deactivating one is plain
// row-level work with no extra locking, since staff edits are rare and the
// allocator re-reads block state at commit time anyway.
type Blocks struct {
	repo   Repository
	logger *zap.Logger
}

func NewBlocks(repo Repository, logger *zap.Logger) *Blocks {
	return &Blocks{repo: repo, logger: logger}
}

func (s *Blocks) CreateDayBlock(ctx context.Context, serviceID uuid.UUID, dateStart, dateEnd time.Time, reason string) (*DayBlock, error) {
	dateStart = DateOnly(dateStart)
	dateEnd = DateOnly(dateEnd)

	if dateEnd.Before(dateStart) {
		return nil, ErrInvalidDateRange
	}

	created, err := s.repo.CreateDayBlock(ctx, &DayBlock{
		ServiceID: serviceID,
		DateStart: dateStart,
		DateEnd:   dateEnd,
		Reason:    reason,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("day block created",
		zap.String("block_id", created.ID.String()),
		zap.String("service_id", serviceID.String()),
		zap.String("from", dateStart.Format("2006-01-02")),
		zap.String("to", dateEnd.Format("2006-01-02")),
	)

	return created, nil
}

func (s *Blocks) CreateSlotBlock(ctx context.Context, serviceID uuid.UUID, date time.Time, slot, reason string) (*SlotBlock, error) {
	created, err := s.repo.CreateSlotBlock(ctx, &SlotBlock{
		ServiceID: serviceID,
		Date:      DateOnly(date),
		Slot:      slot,
		Reason:    reason,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("slot block created",
		zap.String("block_id", created.ID.String()),
		zap.String("service_id", serviceID.String()),
		zap.String("date", created.Date.Format("2006-01-02")),
		zap.String("slot", slot),
	)

	return created, nil
}

func (s *Blocks) DeactivateDayBlock(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeactivateDayBlock(ctx, id); err != nil {
		return err
	}
	s.logger.Info("day block deactivated", zap.String("block_id", id.String()))
	return nil
}

func (s *Blocks) DeactivateSlotBlock(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeactivateSlotBlock(ctx, id); err != nil {
		return err
	}
	s.logger.Info("slot block deactivated", zap.String("block_id", id.String()))
	return nil
}
