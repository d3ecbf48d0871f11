package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/termasol/booking-engine/internal/availability"
	"github.com/termasol/booking-engine/internal/booking"
	"github.com/termasol/booking-engine/internal/catalog"
	redisclient "github.com/termasol/booking-engine/internal/redis"
)

// AllocatorService is the booking surface the handlers need.
type AllocatorService interface {
	Allocate(ctx context.Context, req booking.AllocationRequest) (*booking.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
}

type BlockService interface {
	CreateDayBlock(ctx context.Context, serviceID uuid.UUID, dateStart, dateEnd time.Time, reason string) (*booking.DayBlock, error)
	CreateSlotBlock(ctx context.Context, serviceID uuid.UUID, date time.Time, slot, reason string) (*booking.SlotBlock, error)
	DeactivateDayBlock(ctx context.Context, id uuid.UUID) error
	DeactivateSlotBlock(ctx context.Context, id uuid.UUID) error
}

type MatrixService interface {
	Build(ctx context.Context, categoryID uuid.UUID, date time.Time) (*availability.Matrix, error)
}

const dateLayout = "2006-01-02"

func bookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:             b.ID,
		ServiceID:      b.ServiceID,
		Date:           b.Date.Format(dateLayout),
		Slot:           b.Slot,
		ResourceUnitID: b.ResourceUnitID,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
	}
}

func matrixHandler(svc MatrixService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID, err := uuid.Parse(r.URL.Query().Get("category_id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_category_id", "category_id must be a valid UUID")
			return
		}

		dateStr := r.URL.Query().Get("date")
		if dateStr == "" {
			dateStr = time.Now().UTC().Format(dateLayout)
		}
		date, err := time.Parse(dateLayout, dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		m, err := svc.Build(r.Context(), categoryID, date)
		if err != nil {
			handleMatrixError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, m)
	}
}

func allocateBookingHandler(svc AllocatorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AllocateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		serviceID, err := uuid.Parse(req.ServiceID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
			return
		}

		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		alloc := booking.AllocationRequest{
			ServiceID:         serviceID,
			Date:              date,
			Slot:              req.Slot,
			RequiredSpecialty: req.RequiredSpecialty,
		}

		if req.PreferredUnitID != "" {
			unitID, err := uuid.Parse(req.PreferredUnitID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_preferred_unit_id", "preferred_resource_unit_id must be a valid UUID")
				return
			}
			alloc.PreferredUnitID = &unitID
		}

		b, err := svc.Allocate(r.Context(), alloc)
		if err != nil {
			handleAllocateError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, bookingResponse(b))
	}
}

func getBookingHandler(svc AllocatorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be a valid UUID")
			return
		}

		b, err := svc.GetBooking(r.Context(), id)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, bookingResponse(b))
	}
}

func cancelBookingHandler(svc AllocatorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be a valid UUID")
			return
		}

		b, err := svc.Cancel(r.Context(), id)
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, bookingResponse(b))
	}
}

func createDayBlockHandler(svc BlockService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateDayBlockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		serviceID, err := uuid.Parse(req.ServiceID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
			return
		}

		start, err := time.Parse(dateLayout, req.DateStart)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date_start must be YYYY-MM-DD")
			return
		}
		end, err := time.Parse(dateLayout, req.DateEnd)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date_end must be YYYY-MM-DD")
			return
		}

		block, err := svc.CreateDayBlock(r.Context(), serviceID, start, end, req.Reason)
		if err != nil {
			handleBlockError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, DayBlockResponse{
			ID:        block.ID,
			ServiceID: block.ServiceID,
			DateStart: block.DateStart.Format(dateLayout),
			DateEnd:   block.DateEnd.Format(dateLayout),
			Reason:    block.Reason,
			Active:    block.Active,
		})
	}
}

func createSlotBlockHandler(svc BlockService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateSlotBlockRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		serviceID, err := uuid.Parse(req.ServiceID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
			return
		}

		date, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		block, err := svc.CreateSlotBlock(r.Context(), serviceID, date, req.Slot, req.Reason)
		if err != nil {
			handleBlockError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, SlotBlockResponse{
			ID:        block.ID,
			ServiceID: block.ServiceID,
			Date:      block.Date.Format(dateLayout),
			Slot:      block.Slot,
			Reason:    block.Reason,
			Active:    block.Active,
		})
	}
}

func deactivateDayBlockHandler(svc BlockService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_block_id", "id must be a valid UUID")
			return
		}

		if err := svc.DeactivateDayBlock(r.Context(), id); err != nil {
			handleBlockError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func deactivateSlotBlockHandler(svc BlockService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_block_id", "id must be a valid UUID")
			return
		}

		if err := svc.DeactivateSlotBlock(r.Context(), id); err != nil {
			handleBlockError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func handleAllocateError(w http.ResponseWriter, err error) {
	var blocked *booking.BlockedError

	switch {
	case errors.Is(err, catalog.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, booking.ErrInvalidSlot):
		writeError(w, http.StatusBadRequest, "invalid_slot", err.Error())
	case errors.As(err, &blocked):
		writeError(w, http.StatusConflict, "service_blocked", blocked.Reason)
	case errors.Is(err, booking.ErrCapacityExceeded):
		writeError(w, http.StatusConflict, "capacity_exceeded", err.Error())
	case errors.Is(err, booking.ErrNoResourceAvailable):
		writeError(w, http.StatusConflict, "no_resource_available", err.Error())
	case errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "slot_contended", "slot is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, booking.ErrAlreadyCancelled):
		writeError(w, http.StatusConflict, "already_cancelled", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleBlockError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, booking.ErrInvalidDateRange):
		writeError(w, http.StatusBadRequest, "invalid_date_range", err.Error())
	case errors.Is(err, booking.ErrSlotBlockExists):
		writeError(w, http.StatusConflict, "slot_block_exists", err.Error())
	case errors.Is(err, booking.ErrDayBlockNotFound), errors.Is(err, booking.ErrSlotBlockNotFound):
		writeError(w, http.StatusNotFound, "block_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleMatrixError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrCategoryNotFound):
		writeError(w, http.StatusNotFound, "category_not_found", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}
