package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/campus-scheduler/internal/persistence"
)

// SaveExam upserts an exam record.
func (s *Store) SaveExam(ctx context.Context, exam persistence.Exam) error {
	query := `
		INSERT INTO exams (id, course_code, name, date, duration_minutes, student_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			course_code = excluded.course_code,
			name = excluded.name,
			date = excluded.date,
			duration_minutes = excluded.duration_minutes,
			student_count = excluded.student_count,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		exam.ID,
		exam.CourseCode,
		exam.Name,
		persistence.DayKey(exam.Date),
		exam.DurationMinutes,
		exam.StudentCount,
		exam.CreatedAt.UTC().Format(time.RFC3339),
		exam.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetExam retrieves an exam by ID.
func (s *Store) GetExam(ctx context.Context, id string) (persistence.Exam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, course_code, name, date, duration_minutes, student_count, created_at, updated_at FROM exams WHERE id = ?`,
		id,
	)
	return scanExam(row)
}

// ListExams returns all exams ordered by date then ID.
func (s *Store) ListExams(ctx context.Context) ([]persistence.Exam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, course_code, name, date, duration_minutes, student_count, created_at, updated_at FROM exams ORDER BY date ASC, id ASC`,
	)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var exams []persistence.Exam
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return exams, nil
}

// ListExamsByCourseCodes returns exams whose course code appears in
// courseCodes, ordered by date then ID.
func (s *Store) ListExamsByCourseCodes(ctx context.Context, courseCodes []string) ([]persistence.Exam, error) {
	if len(courseCodes) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(courseCodes))
	placeholders = placeholders[:len(placeholders)-1]
	query := `SELECT id, course_code, name, date, duration_minutes, student_count, created_at, updated_at
		FROM exams WHERE course_code IN (` + placeholders + `) ORDER BY date ASC, id ASC`

	args := make([]any, len(courseCodes))
	for i, code := range courseCodes {
		args[i] = code
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var exams []persistence.Exam
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return exams, nil
}

// DeleteExam removes an exam by ID.
func (s *Store) DeleteExam(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM exams WHERE id = ?`, id)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

func scanExam(row rowScanner) (persistence.Exam, error) {
	var exam persistence.Exam
	var dateStr, createdStr, updatedStr string

	err := row.Scan(
		&exam.ID,
		&exam.CourseCode,
		&exam.Name,
		&dateStr,
		&exam.DurationMinutes,
		&exam.StudentCount,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		return persistence.Exam{}, mapError(err)
	}

	if exam.Date, err = time.ParseInLocation(persistence.DayLayout, dateStr, time.UTC); err != nil {
		return persistence.Exam{}, fmt.Errorf("sqlite: parse exam date: %w", err)
	}
	if exam.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return persistence.Exam{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if exam.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return persistence.Exam{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}
	return exam, nil
}
