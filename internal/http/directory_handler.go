package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/example/campus-scheduler/internal/application"
	"github.com/example/campus-scheduler/internal/persistence"
)

type directoryService interface {
	CreateLecturer(ctx context.Context, input application.LecturerInput) (persistence.Lecturer, error)
	ListLecturers(ctx context.Context) ([]persistence.Lecturer, error)
	CreateEnrollment(ctx context.Context, input application.EnrollmentInput) (persistence.Enrollment, error)
	ListEnrollments(ctx context.Context) ([]persistence.Enrollment, error)
}

// DirectoryHandler serves the lecturer and enrollment endpoints that feed
// batch assignment.
type DirectoryHandler struct {
	service   directoryService
	responder responder
	logger    *slog.Logger
}

// NewDirectoryHandler constructs a handler around the directory service.
func NewDirectoryHandler(service directoryService, logger *slog.Logger) *DirectoryHandler {
	base := defaultLogger(logger)
	return &DirectoryHandler{service: service, responder: newResponder(base), logger: base}
}

type lecturerRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

type lecturerDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Department string `json:"department,omitempty"`
}

type enrollmentRequest struct {
	StudentID  string `json:"student_id"`
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name"`
}

type enrollmentDTO struct {
	ID         string `json:"id"`
	StudentID  string `json:"student_id"`
	CourseCode string `json:"course_code"`
	CourseName string `json:"course_name,omitempty"`
}

// CreateLecturer handles POST /lecturers.
func (h *DirectoryHandler) CreateLecturer(w http.ResponseWriter, r *http.Request) {
	var req lecturerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "DirectoryHandler", "CreateLecturer")

	lecturer, err := h.service.CreateLecturer(r.Context(), application.LecturerInput{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "lecturer creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, map[string]lecturerDTO{"lecturer": {
		ID: lecturer.ID, Name: lecturer.Name, Email: lecturer.Email, Department: lecturer.Department,
	}})
}

// ListLecturers handles GET /lecturers.
func (h *DirectoryHandler) ListLecturers(w http.ResponseWriter, r *http.Request) {
	lecturers, err := h.service.ListLecturers(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]lecturerDTO, 0, len(lecturers))
	for _, lecturer := range lecturers {
		dtos = append(dtos, lecturerDTO{
			ID: lecturer.ID, Name: lecturer.Name, Email: lecturer.Email, Department: lecturer.Department,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]lecturerDTO{"lecturers": dtos})
}

// CreateEnrollment handles POST /enrollments.
func (h *DirectoryHandler) CreateEnrollment(w http.ResponseWriter, r *http.Request) {
	var req enrollmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "DirectoryHandler", "CreateEnrollment", "course_code", req.CourseCode)

	enrollment, err := h.service.CreateEnrollment(r.Context(), application.EnrollmentInput{
		StudentID:  req.StudentID,
		CourseCode: req.CourseCode,
		CourseName: req.CourseName,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "enrollment creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, map[string]enrollmentDTO{"enrollment": {
		ID: enrollment.ID, StudentID: enrollment.StudentID, CourseCode: enrollment.CourseCode, CourseName: enrollment.CourseName,
	}})
}

// ListEnrollments handles GET /enrollments.
func (h *DirectoryHandler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	enrollments, err := h.service.ListEnrollments(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]enrollmentDTO, 0, len(enrollments))
	for _, enrollment := range enrollments {
		dtos = append(dtos, enrollmentDTO{
			ID: enrollment.ID, StudentID: enrollment.StudentID, CourseCode: enrollment.CourseCode, CourseName: enrollment.CourseName,
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, map[string][]enrollmentDTO{"enrollments": dtos})
}
