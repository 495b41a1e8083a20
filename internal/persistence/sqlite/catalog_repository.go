package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/example/campus-scheduler/internal/persistence"
)

// SaveLecturer upserts a lecturer directory entry.
func (s *Store) SaveLecturer(ctx context.Context, lecturer persistence.Lecturer) error {
	query := `
		INSERT INTO lecturers (id, name, email, department, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			department = excluded.department
	`
	_, err := s.db.ExecContext(ctx, query,
		lecturer.ID,
		lecturer.Name,
		lecturer.Email,
		lecturer.Department,
		lecturer.CreatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// ListLecturers returns all lecturers ordered by name.
func (s *Store) ListLecturers(ctx context.Context) ([]persistence.Lecturer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, department, created_at FROM lecturers ORDER BY name ASC, id ASC`,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var lecturers []persistence.Lecturer
	for rows.Next() {
		var lecturer persistence.Lecturer
		var createdStr string
		if err := rows.Scan(&lecturer.ID, &lecturer.Name, &lecturer.Email, &lecturer.Department, &createdStr); err != nil {
			return nil, mapError(err)
		}
		if lecturer.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
			return nil, fmt.Errorf("sqlite: parse created_at: %w", err)
		}
		lecturers = append(lecturers, lecturer)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return lecturers, nil
}

// SaveEnrollment upserts an enrollment record.
func (s *Store) SaveEnrollment(ctx context.Context, enrollment persistence.Enrollment) error {
	query := `
		INSERT INTO enrollments (id, student_id, course_code, course_name, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			student_id = excluded.student_id,
			course_code = excluded.course_code,
			course_name = excluded.course_name
	`
	_, err := s.db.ExecContext(ctx, query,
		enrollment.ID,
		enrollment.StudentID,
		enrollment.CourseCode,
		enrollment.CourseName,
		enrollment.CreatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// ListEnrollments returns all enrollments in creation order, the input order
// batch assignment runs in.
func (s *Store) ListEnrollments(ctx context.Context) ([]persistence.Enrollment, error) {
	return s.queryEnrollments(ctx,
		`SELECT id, student_id, course_code, course_name, created_at FROM enrollments ORDER BY created_at ASC, id ASC`,
	)
}

// ListEnrollmentsByStudent returns one student's enrollments.
func (s *Store) ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]persistence.Enrollment, error) {
	return s.queryEnrollments(ctx,
		`SELECT id, student_id, course_code, course_name, created_at FROM enrollments WHERE student_id = ? ORDER BY created_at ASC, id ASC`,
		studentID,
	)
}

// CountEnrollmentsByCourseCode counts enrollments for one course.
func (s *Store) CountEnrollmentsByCourseCode(ctx context.Context, courseCode string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE course_code = ?`, courseCode,
	).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

func (s *Store) queryEnrollments(ctx context.Context, query string, args ...any) ([]persistence.Enrollment, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var enrollments []persistence.Enrollment
	for rows.Next() {
		var enrollment persistence.Enrollment
		var createdStr string
		if err := rows.Scan(&enrollment.ID, &enrollment.StudentID, &enrollment.CourseCode, &enrollment.CourseName, &createdStr); err != nil {
			return nil, mapError(err)
		}
		if enrollment.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
			return nil, fmt.Errorf("sqlite: parse created_at: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return enrollments, nil
}
