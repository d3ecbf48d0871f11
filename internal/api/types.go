package api

import (
	"time"

	"github.com/google/uuid"
)

type AllocateBookingRequest struct {
	ServiceID         string `json:"service_id"`
	Date              string `json:"date"` // YYYY-MM-DD
	Slot              string `json:"slot"` // HH:MM-HH:MM
	RequiredSpecialty string `json:"required_specialty,omitempty"`
	PreferredUnitID   string `json:"preferred_resource_unit_id,omitempty"`
}

type BookingResponse struct {
	ID             uuid.UUID  `json:"id"`
	ServiceID      uuid.UUID  `json:"service_id"`
	Date           string     `json:"date"`
	Slot           string     `json:"slot"`
	ResourceUnitID *uuid.UUID `json:"resource_unit_id,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}

type CreateDayBlockRequest struct {
	ServiceID string `json:"service_id"`
	DateStart string `json:"date_start"`
	DateEnd   string `json:"date_end"`
	Reason    string `json:"reason"`
}

type CreateSlotBlockRequest struct {
	ServiceID string `json:"service_id"`
	Date      string `json:"date"`
	Slot      string `json:"slot"`
	Reason    string `json:"reason"`
}

type DayBlockResponse struct {
	ID        uuid.UUID `json:"id"`
	ServiceID uuid.UUID `json:"service_id"`
	DateStart string    `json:"date_start"`
	DateEnd   string    `json:"date_end"`
	Reason    string    `json:"reason"`
	Active    bool      `json:"active"`
}

type SlotBlockResponse struct {
	ID        uuid.UUID `json:"id"`
	ServiceID uuid.UUID `json:"service_id"`
	Date      string    `json:"date"`
	Slot      string    `json:"slot"`
	Reason    string    `json:"reason"`
	Active    bool      `json:"active"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
