package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/example/campus-scheduler/internal/persistence"
)

// DirectoryRepository captures the lecturer and enrollment persistence the
// directory service needs.
type DirectoryRepository interface {
	SaveLecturer(ctx context.Context, lecturer persistence.Lecturer) error
	ListLecturers(ctx context.Context) ([]persistence.Lecturer, error)
	SaveEnrollment(ctx context.Context, enrollment persistence.Enrollment) error
	ListEnrollments(ctx context.Context) ([]persistence.Enrollment, error)
}

// DirectoryService manages the lecturer directory and course enrollments
// that feed batch assignment.
type DirectoryService struct {
	directory   DirectoryRepository
	repoTimeout time.Duration
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewDirectoryService wires dependencies for directory operations.
func NewDirectoryService(directory DirectoryRepository, repoTimeout time.Duration, idGenerator func() string, now func() time.Time, logger *slog.Logger) *DirectoryService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &DirectoryService{
		directory:   directory,
		repoTimeout: repoTimeout,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// CreateLecturer validates and persists a lecturer directory entry.
func (s *DirectoryService) CreateLecturer(ctx context.Context, input LecturerInput) (persistence.Lecturer, error) {
	input.Name = strings.TrimSpace(input.Name)

	vErr := &ValidationError{}
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if vErr.HasErrors() {
		return persistence.Lecturer{}, vErr
	}

	lecturer := persistence.Lecturer{
		ID:         s.idGenerator(),
		Name:       input.Name,
		Email:      strings.TrimSpace(input.Email),
		Department: input.Department,
		CreatedAt:  s.now(),
	}

	rctx, cancel := s.repoCtx(ctx)
	defer cancel()
	if err := s.directory.SaveLecturer(rctx, lecturer); err != nil {
		return persistence.Lecturer{}, mapRepoError(err)
	}
	return lecturer, nil
}

// ListLecturers returns the lecturer directory ordered by name.
func (s *DirectoryService) ListLecturers(ctx context.Context) ([]persistence.Lecturer, error) {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()

	lecturers, err := s.directory.ListLecturers(rctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return lecturers, nil
}

// CreateEnrollment validates and persists an enrollment. Course names are
// stored as given; the allocator decides at run time whether a blank name
// makes the enrollment unschedulable.
func (s *DirectoryService) CreateEnrollment(ctx context.Context, input EnrollmentInput) (persistence.Enrollment, error) {
	input.StudentID = strings.TrimSpace(input.StudentID)
	input.CourseCode = strings.TrimSpace(input.CourseCode)

	vErr := &ValidationError{}
	if input.StudentID == "" {
		vErr.add("student_id", "student id is required")
	}
	if input.CourseCode == "" {
		vErr.add("course_code", "course code is required")
	}
	if vErr.HasErrors() {
		return persistence.Enrollment{}, vErr
	}

	enrollment := persistence.Enrollment{
		ID:         s.idGenerator(),
		StudentID:  input.StudentID,
		CourseCode: input.CourseCode,
		CourseName: input.CourseName,
		CreatedAt:  s.now(),
	}

	rctx, cancel := s.repoCtx(ctx)
	defer cancel()
	if err := s.directory.SaveEnrollment(rctx, enrollment); err != nil {
		return persistence.Enrollment{}, mapRepoError(err)
	}
	return enrollment, nil
}

// ListEnrollments returns all enrollments in creation order.
func (s *DirectoryService) ListEnrollments(ctx context.Context) ([]persistence.Enrollment, error) {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()

	enrollments, err := s.directory.ListEnrollments(rctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return enrollments, nil
}

func (s *DirectoryService) repoCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.repoTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.repoTimeout)
}
