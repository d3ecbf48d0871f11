package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func TestCreateDayBlockInvalidRange(t *testing.T) {
	blocks := NewBlocks(newFakeRepo(), zap.NewNop())

	_, err := blocks.CreateDayBlock(context.Background(), uuid.New(), tuesday, tuesday.AddDate(0, 0, -1), "maintenance")
	if !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("err = %v, want ErrInvalidDateRange", err)
	}
}

func TestCreateDayBlockSingleDay(t *testing.T) {
	blocks := NewBlocks(newFakeRepo(), zap.NewNop())

	// Start equal to end is a one-day block, not an error.
	b, err := blocks.CreateDayBlock(context.Background(), uuid.New(), tuesday, tuesday, "maintenance")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !b.DateStart.Equal(b.DateEnd) || !b.Active {
		t.Fatalf("unexpected block: %+v", b)
	}
}

func TestCreateSlotBlockDuplicate(t *testing.T) {
	blocks := NewBlocks(newFakeRepo(), zap.NewNop())
	serviceID := uuid.New()
	ctx := context.Background()

	if _, err := blocks.CreateSlotBlock(ctx, serviceID, tuesday, "10:00-12:00", "private event"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := blocks.CreateSlotBlock(ctx, serviceID, tuesday, "10:00-12:00", "another reason"); !errors.Is(err, ErrSlotBlockExists) {
		t.Fatalf("err = %v, want ErrSlotBlockExists", err)
	}

	// Another slot on the same day is fine.
	if _, err := blocks.CreateSlotBlock(ctx, serviceID, tuesday, "12:00-14:00", "private event"); err != nil {
		t.Fatalf("create second slot: %v", err)
	}
}

func TestSlotBlockRecreateAfterDeactivation(t *testing.T) {
	blocks := NewBlocks(newFakeRepo(), zap.NewNop())
	serviceID := uuid.New()
	ctx := context.Background()

	first, err := blocks.CreateSlotBlock(ctx, serviceID, tuesday, "10:00-12:00", "private event")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := blocks.DeactivateSlotBlock(ctx, first.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	// Uniqueness only applies to active blocks.
	if _, err := blocks.CreateSlotBlock(ctx, serviceID, tuesday, "10:00-12:00", "private event"); err != nil {
		t.Fatalf("recreate after deactivation: %v", err)
	}
}

func TestDeactivateUnknownBlock(t *testing.T) {
	blocks := NewBlocks(newFakeRepo(), zap.NewNop())
	ctx := context.Background()

	if err := blocks.DeactivateDayBlock(ctx, uuid.New()); !errors.Is(err, ErrDayBlockNotFound) {
		t.Fatalf("err = %v, want ErrDayBlockNotFound", err)
	}
	if err := blocks.DeactivateSlotBlock(ctx, uuid.New()); !errors.Is(err, ErrSlotBlockNotFound) {
		t.Fatalf("err = %v, want ErrSlotBlockNotFound", err)
	}
}
