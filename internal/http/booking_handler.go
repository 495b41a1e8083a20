package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/campus-scheduler/internal/application"
	"github.com/example/campus-scheduler/internal/interval"
	"github.com/example/campus-scheduler/internal/persistence"
)

type bookingService interface {
	ProposeBooking(ctx context.Context, input application.BookingInput) (persistence.Booking, error)
	RescheduleBooking(ctx context.Context, id string, input application.BookingInput) (persistence.Booking, error)
	CancelBooking(ctx context.Context, id string) error
	SetBookingStatus(ctx context.Context, id, status string) (persistence.Booking, error)
	ListBookings(ctx context.Context) ([]persistence.Booking, error)
}

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	service   bookingService
	responder responder
	logger    *slog.Logger
}

// NewBookingHandler constructs a handler around the booking service.
func NewBookingHandler(service bookingService, logger *slog.Logger) *BookingHandler {
	base := defaultLogger(logger)
	return &BookingHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *BookingHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "BookingHandler", operation, attrs...)
}

type bookingRequest struct {
	RoomName        string `json:"room_name"`
	EventType       string `json:"event_type"`
	EventName       string `json:"event_name"`
	CourseCode      string `json:"course_code"`
	Faculty         string `json:"faculty"`
	Department      string `json:"department"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	PriorityLevel   string `json:"priority_level"`
	CreatedBy       string `json:"created_by"`
}

func (r bookingRequest) toInput() (application.BookingInput, error) {
	input := application.BookingInput{
		RoomName:        r.RoomName,
		EventType:       r.EventType,
		EventName:       r.EventName,
		CourseCode:      r.CourseCode,
		Faculty:         r.Faculty,
		Department:      r.Department,
		StartTime:       r.StartTime,
		DurationMinutes: r.DurationMinutes,
		PriorityLevel:   r.PriorityLevel,
		CreatedBy:       r.CreatedBy,
	}
	if r.Date != "" {
		date, err := time.ParseInLocation(persistence.DayLayout, r.Date, time.UTC)
		if err != nil {
			return application.BookingInput{}, errInvalidDate
		}
		input.Date = date
	}
	return input, nil
}

type bookingDTO struct {
	ID              string `json:"id"`
	RoomName        string `json:"room_name"`
	EventType       string `json:"event_type"`
	EventName       string `json:"event_name"`
	CourseCode      string `json:"course_code,omitempty"`
	Faculty         string `json:"faculty,omitempty"`
	Department      string `json:"department,omitempty"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	DurationMinutes int    `json:"duration_minutes"`
	PriorityLevel   string `json:"priority_level"`
	Status          string `json:"status"`
	CreatedBy       string `json:"created_by"`
}

func toBookingDTO(booking persistence.Booking) bookingDTO {
	dto := bookingDTO{
		ID:              booking.ID,
		RoomName:        booking.RoomName,
		EventType:       booking.EventType,
		EventName:       booking.EventName,
		CourseCode:      booking.CourseCode,
		Faculty:         booking.Faculty,
		Department:      booking.Department,
		Date:            persistence.DayKey(booking.Date),
		StartTime:       booking.StartTime,
		DurationMinutes: booking.DurationMinutes,
		PriorityLevel:   booking.PriorityLevel,
		Status:          booking.Status,
		CreatedBy:       booking.CreatedBy,
	}
	if iv, err := interval.FromWallClock(booking.StartTime, booking.DurationMinutes); err == nil {
		dto.EndTime = interval.FormatWallClock(iv.End)
	}
	return dto
}

type bookingResponse struct {
	Booking bookingDTO `json:"booking"`
}

type bookingListResponse struct {
	Bookings []bookingDTO `json:"bookings"`
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Create", "room", input.RoomName)

	booking, err := h.service.ProposeBooking(r.Context(), input)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking proposal failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("booking_id", booking.ID).InfoContext(r.Context(), "booking created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, bookingResponse{Booking: toBookingDTO(booking)})
}

// List handles GET /bookings.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListBookings(r.Context())
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "booking list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]bookingDTO, 0, len(bookings))
	for _, booking := range bookings {
		dtos = append(dtos, toBookingDTO(booking))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingListResponse{Bookings: dtos})
}

// Update handles PUT /bookings/{id}, the reschedule operation.
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	var req bookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := h.log(r.Context(), "Update", "booking_id", id)

	booking, err := h.service.RescheduleBooking(r.Context(), id, input)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking reschedule failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking rescheduled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{Booking: toBookingDTO(booking)})
}

// Delete handles DELETE /bookings/{id}, the cancel operation.
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	logger := h.log(r.Context(), "Delete", "booking_id", id)

	if err := h.service.CancelBooking(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "booking cancel failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking cancelled")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetStatus handles PATCH /bookings/{id}/status.
func (h *BookingHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := BookingIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidBookingID)
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := h.log(r.Context(), "SetStatus", "booking_id", id, "status", req.Status)

	booking, err := h.service.SetBookingStatus(r.Context(), id, req.Status)
	if err != nil {
		logger.ErrorContext(r.Context(), "booking status change failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "booking status changed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, bookingResponse{Booking: toBookingDTO(booking)})
}
