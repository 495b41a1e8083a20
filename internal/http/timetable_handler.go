package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/example/campus-scheduler/internal/application"
	"github.com/example/campus-scheduler/internal/scheduler"
)

type assignmentService interface {
	RunAutoAssignment(ctx context.Context, catalogOverride []scheduler.Slot) (application.AssignmentResult, error)
}

// TimetableHandler serves the batch assignment endpoint.
type TimetableHandler struct {
	service   assignmentService
	responder responder
	logger    *slog.Logger
}

// NewTimetableHandler constructs a handler around the assignment service.
func NewTimetableHandler(service assignmentService, logger *slog.Logger) *TimetableHandler {
	base := defaultLogger(logger)
	return &TimetableHandler{service: service, responder: newResponder(base), logger: base}
}

type autoAssignRequest struct {
	Slots []slotDTO `json:"slots"`
}

type slotDTO struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

type unscheduledDTO struct {
	StudentID  string `json:"student_id"`
	CourseCode string `json:"course_code"`
	Reason     string `json:"reason"`
}

type autoAssignResponse struct {
	Created     []bookingDTO     `json:"created"`
	Unscheduled []unscheduledDTO `json:"unscheduled"`
}

// AutoAssign handles POST /timetable/auto. An empty body runs the configured
// slot catalog; a body with slots overrides it for this run.
func (h *TimetableHandler) AutoAssign(w http.ResponseWriter, r *http.Request) {
	var req autoAssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	override := make([]scheduler.Slot, 0, len(req.Slots))
	for _, slot := range req.Slots {
		override = append(override, scheduler.Slot{Day: slot.Day, Time: slot.Time})
	}

	logger := handlerLogger(r.Context(), h.logger, "TimetableHandler", "AutoAssign", "override_slots", len(override))

	result, err := h.service.RunAutoAssignment(r.Context(), override)
	if err != nil {
		logger.ErrorContext(r.Context(), "auto assignment failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := autoAssignResponse{
		Created:     make([]bookingDTO, 0, len(result.Created)),
		Unscheduled: make([]unscheduledDTO, 0, len(result.Unscheduled)),
	}
	for _, booking := range result.Created {
		resp.Created = append(resp.Created, toBookingDTO(booking))
	}
	for _, entry := range result.Unscheduled {
		resp.Unscheduled = append(resp.Unscheduled, unscheduledDTO{
			StudentID:  entry.Enrollment.StudentID,
			CourseCode: entry.Enrollment.CourseCode,
			Reason:     string(entry.Reason),
		})
	}

	logger.InfoContext(r.Context(), "auto assignment complete",
		"created", len(resp.Created), "unscheduled", len(resp.Unscheduled))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}
