package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/example/campus-scheduler/internal/persistence"
)

// ExamRepository captures the persistence interactions needed by the exam
// service.
type ExamRepository interface {
	SaveExam(ctx context.Context, exam persistence.Exam) error
	GetExam(ctx context.Context, id string) (persistence.Exam, error)
	ListExams(ctx context.Context) ([]persistence.Exam, error)
	ListExamsByCourseCodes(ctx context.Context, courseCodes []string) ([]persistence.Exam, error)
	DeleteExam(ctx context.Context, id string) error
}

// EnrollmentDirectory exposes the enrollment lookups the exam service needs.
type EnrollmentDirectory interface {
	ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]persistence.Enrollment, error)
	CountEnrollmentsByCourseCode(ctx context.Context, courseCode string) (int, error)
}

// ExamService manages scheduled exams. The student count on an exam is
// always derived from enrollments at write time, never accepted from the
// caller.
type ExamService struct {
	exams       ExamRepository
	enrollments EnrollmentDirectory
	repoTimeout time.Duration
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewExamService wires dependencies for exam operations.
func NewExamService(exams ExamRepository, enrollments EnrollmentDirectory, repoTimeout time.Duration, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ExamService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ExamService{
		exams:       exams,
		enrollments: enrollments,
		repoTimeout: repoTimeout,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// CreateExam validates the input, derives the student count from current
// enrollments, and persists the exam.
func (s *ExamService) CreateExam(ctx context.Context, input ExamInput) (persistence.Exam, error) {
	input.CourseCode = strings.TrimSpace(input.CourseCode)
	input.Name = strings.TrimSpace(input.Name)

	vErr := &ValidationError{}
	validateExamInput(input, vErr)
	if vErr.HasErrors() {
		return persistence.Exam{}, vErr
	}

	rctx, cancel := s.repoCtx(ctx)
	count, err := s.enrollments.CountEnrollmentsByCourseCode(rctx, input.CourseCode)
	cancel()
	if err != nil {
		return persistence.Exam{}, mapRepoError(err)
	}

	now := s.now()
	exam := persistence.Exam{
		ID:              s.idGenerator(),
		CourseCode:      input.CourseCode,
		Name:            input.Name,
		Date:            persistence.NormalizeDate(input.Date),
		DurationMinutes: input.DurationMinutes,
		StudentCount:    count,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	rctx, cancel = s.repoCtx(ctx)
	err = s.exams.SaveExam(rctx, exam)
	cancel()
	if err != nil {
		return persistence.Exam{}, mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "exam", "create").Info("exam created",
		"exam_id", exam.ID, "course_code", exam.CourseCode, "students", count)
	return exam, nil
}

// RescheduleExam moves an exam to a new date and duration. The student count
// is re-derived so it reflects current enrollments.
func (s *ExamService) RescheduleExam(ctx context.Context, id string, date time.Time, durationMinutes int) (persistence.Exam, error) {
	vErr := &ValidationError{}
	if date.IsZero() {
		vErr.add("date", "date is required")
	}
	if durationMinutes <= 0 {
		vErr.add("duration_minutes", "duration must be positive")
	}
	if vErr.HasErrors() {
		return persistence.Exam{}, vErr
	}

	rctx, cancel := s.repoCtx(ctx)
	exam, err := s.exams.GetExam(rctx, id)
	cancel()
	if err != nil {
		return persistence.Exam{}, mapRepoError(err)
	}

	rctx, cancel = s.repoCtx(ctx)
	count, err := s.enrollments.CountEnrollmentsByCourseCode(rctx, exam.CourseCode)
	cancel()
	if err != nil {
		return persistence.Exam{}, mapRepoError(err)
	}

	exam.Date = persistence.NormalizeDate(date)
	exam.DurationMinutes = durationMinutes
	exam.StudentCount = count
	exam.UpdatedAt = s.now()

	rctx, cancel = s.repoCtx(ctx)
	err = s.exams.SaveExam(rctx, exam)
	cancel()
	if err != nil {
		return persistence.Exam{}, mapRepoError(err)
	}
	return exam, nil
}

// GetExam retrieves one exam by ID.
func (s *ExamService) GetExam(ctx context.Context, id string) (persistence.Exam, error) {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()

	exam, err := s.exams.GetExam(rctx, id)
	if err != nil {
		return persistence.Exam{}, mapRepoError(err)
	}
	return exam, nil
}

// ListExams returns all exams ordered by date.
func (s *ExamService) ListExams(ctx context.Context) ([]persistence.Exam, error) {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()

	exams, err := s.exams.ListExams(rctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return exams, nil
}

// ListExamsForStudent returns the exams for every course the student is
// enrolled in.
func (s *ExamService) ListExamsForStudent(ctx context.Context, studentID string) ([]persistence.Exam, error) {
	rctx, cancel := s.repoCtx(ctx)
	enrollments, err := s.enrollments.ListEnrollmentsByStudent(rctx, studentID)
	cancel()
	if err != nil {
		return nil, mapRepoError(err)
	}
	if len(enrollments) == 0 {
		return []persistence.Exam{}, nil
	}

	seen := make(map[string]bool, len(enrollments))
	codes := make([]string, 0, len(enrollments))
	for _, enrollment := range enrollments {
		if !seen[enrollment.CourseCode] {
			seen[enrollment.CourseCode] = true
			codes = append(codes, enrollment.CourseCode)
		}
	}

	rctx, cancel = s.repoCtx(ctx)
	defer cancel()
	exams, err := s.exams.ListExamsByCourseCodes(rctx, codes)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return exams, nil
}

// DeleteExam removes an exam by ID.
func (s *ExamService) DeleteExam(ctx context.Context, id string) error {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()

	if err := s.exams.DeleteExam(rctx, id); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func (s *ExamService) repoCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.repoTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.repoTimeout)
}

func validateExamInput(input ExamInput, vErr *ValidationError) {
	if input.CourseCode == "" {
		vErr.add("course_code", "course code is required")
	}
	if input.Name == "" {
		vErr.add("name", "name is required")
	}
	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if input.DurationMinutes <= 0 {
		vErr.add("duration_minutes", "duration must be positive")
	}
}
