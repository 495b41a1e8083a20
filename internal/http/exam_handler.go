package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/campus-scheduler/internal/application"
	"github.com/example/campus-scheduler/internal/persistence"
)

type examService interface {
	CreateExam(ctx context.Context, input application.ExamInput) (persistence.Exam, error)
	RescheduleExam(ctx context.Context, id string, date time.Time, durationMinutes int) (persistence.Exam, error)
	GetExam(ctx context.Context, id string) (persistence.Exam, error)
	ListExams(ctx context.Context) ([]persistence.Exam, error)
	ListExamsForStudent(ctx context.Context, studentID string) ([]persistence.Exam, error)
	DeleteExam(ctx context.Context, id string) error
}

// ExamHandler serves the exam scheduling endpoints.
type ExamHandler struct {
	service   examService
	responder responder
	logger    *slog.Logger
}

// NewExamHandler constructs a handler around the exam service.
func NewExamHandler(service examService, logger *slog.Logger) *ExamHandler {
	base := defaultLogger(logger)
	return &ExamHandler{service: service, responder: newResponder(base), logger: base}
}

type examRequest struct {
	CourseCode      string `json:"course_code"`
	Name            string `json:"name"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (r examRequest) date() (time.Time, error) {
	if r.Date == "" {
		return time.Time{}, nil
	}
	date, err := time.ParseInLocation(persistence.DayLayout, r.Date, time.UTC)
	if err != nil {
		return time.Time{}, errInvalidDate
	}
	return date, nil
}

type examDTO struct {
	ID              string `json:"id"`
	CourseCode      string `json:"course_code"`
	Name            string `json:"name"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
	StudentCount    int    `json:"student_count"`
}

func toExamDTO(exam persistence.Exam) examDTO {
	return examDTO{
		ID:              exam.ID,
		CourseCode:      exam.CourseCode,
		Name:            exam.Name,
		Date:            persistence.DayKey(exam.Date),
		DurationMinutes: exam.DurationMinutes,
		StudentCount:    exam.StudentCount,
	}
}

type examResponse struct {
	Exam examDTO `json:"exam"`
}

type examListResponse struct {
	Exams []examDTO `json:"exams"`
}

// Create handles POST /exams.
func (h *ExamHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req examRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	date, err := req.date()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "ExamHandler", "Create", "course_code", req.CourseCode)

	exam, err := h.service.CreateExam(r.Context(), application.ExamInput{
		CourseCode:      req.CourseCode,
		Name:            req.Name,
		Date:            date,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "exam creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("exam_id", exam.ID).InfoContext(r.Context(), "exam created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, examResponse{Exam: toExamDTO(exam)})
}

// List handles GET /exams.
func (h *ExamHandler) List(w http.ResponseWriter, r *http.Request) {
	exams, err := h.service.ListExams(r.Context())
	if err != nil {
		handlerLogger(r.Context(), h.logger, "ExamHandler", "List").ErrorContext(r.Context(), "exam list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, examListResponse{Exams: toExamDTOs(exams)})
}

// Get handles GET /exams/{id}.
func (h *ExamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := ExamIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidExamID)
		return
	}

	exam, err := h.service.GetExam(r.Context(), id)
	if err != nil {
		handlerLogger(r.Context(), h.logger, "ExamHandler", "Get", "exam_id", id).ErrorContext(r.Context(), "exam lookup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, examResponse{Exam: toExamDTO(exam)})
}

// Update handles PUT /exams/{id}, the reschedule operation.
func (h *ExamHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := ExamIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidExamID)
		return
	}

	var req examRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	date, err := req.date()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "ExamHandler", "Update", "exam_id", id)

	exam, err := h.service.RescheduleExam(r.Context(), id, date, req.DurationMinutes)
	if err != nil {
		logger.ErrorContext(r.Context(), "exam reschedule failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "exam rescheduled")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, examResponse{Exam: toExamDTO(exam)})
}

// Delete handles DELETE /exams/{id}.
func (h *ExamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := ExamIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidExamID)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "ExamHandler", "Delete", "exam_id", id)

	if err := h.service.DeleteExam(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "exam delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "exam deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

// StudentExams handles GET /students/{id}/exams.
func (h *ExamHandler) StudentExams(w http.ResponseWriter, r *http.Request) {
	studentID, ok := StudentIDFromContext(r.Context())
	if !ok || strings.TrimSpace(studentID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidStudentID)
		return
	}

	exams, err := h.service.ListExamsForStudent(r.Context(), studentID)
	if err != nil {
		handlerLogger(r.Context(), h.logger, "ExamHandler", "StudentExams", "student_id", studentID).ErrorContext(r.Context(), "student exam list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, examListResponse{Exams: toExamDTOs(exams)})
}

func toExamDTOs(exams []persistence.Exam) []examDTO {
	dtos := make([]examDTO, 0, len(exams))
	for _, exam := range exams {
		dtos = append(dtos, toExamDTO(exam))
	}
	return dtos
}
