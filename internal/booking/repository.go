package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrAlreadyCancelled  = errors.New("booking already cancelled")
	ErrDayBlockNotFound  = errors.New("day block not found")
	ErrSlotBlockNotFound = errors.New("slot block not found")
	ErrSlotBlockExists   = errors.New("an active slot block already exists for this slot")
	ErrInvalidDateRange  = errors.New("block date range must have start <= end")

	ErrInvalidSlot         = errors.New("slot is not offered for this service and date")
	ErrCapacityExceeded    = errors.New("slot capacity exhausted")
	ErrNoResourceAvailable = errors.New("no qualifying resource unit is free for this slot")
)

// BlockedError reports that an active block covers the requested key; Reason
// is the staff-entered text, surfaced for user-facing messaging.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("service is blocked: %s", e.Reason)
}

// Repository contains every ledger and block-store interaction. WithTx yields
// a repository bound to one transaction; the allocator runs its whole
// check-and-reserve sequence through it so a failure at any step writes
// nothing.
type Repository interface {
	// WithTx runs fn against a transaction-scoped repository, committing on
	// nil and rolling back on error.
	WithTx(ctx context.Context, fn func(Repository) error) error

	// Reads used by capacity resolution (availability.Ledger).
	ActiveBlockReason(ctx context.Context, serviceID uuid.UUID, date time.Time, slot string) (string, bool, error)
	CountConfirmed(ctx context.Context, serviceID uuid.UUID, date time.Time, slot string) (int, error)
	ConfirmedUnitIDs(ctx context.Context, date time.Time, slot string) ([]uuid.UUID, error)

	// UnitLoadForDay counts confirmed bookings per resource unit on the
	// date, across all services. Drives least-loaded selection.
	UnitLoadForDay(ctx context.Context, date time.Time) (map[uuid.UUID]int, error)

	CreateBooking(ctx context.Context, b *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// CancelBooking flips confirmed -> cancelled in one statement and
	// returns ErrAlreadyCancelled when the row exists but is not confirmed.
	CancelBooking(ctx context.Context, id uuid.UUID) (*Booking, error)

	CreateDayBlock(ctx context.Context, b *DayBlock) (*DayBlock, error)
	CreateSlotBlock(ctx context.Context, b *SlotBlock) (*SlotBlock, error)
	DeactivateDayBlock(ctx context.Context, id uuid.UUID) error
	DeactivateSlotBlock(ctx context.Context, id uuid.UUID) error
}
