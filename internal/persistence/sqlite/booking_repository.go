package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/campus-scheduler/internal/persistence"
)

const bookingColumns = `id, room_name, event_type, event_name, course_code, faculty, department,
	date, start_time, duration_minutes, priority_level, status, created_by, created_at, updated_at`

// SaveBooking inserts a booking or updates it when the ID already exists.
// The rowid survives updates, so stored order stays stable.
func (s *Store) SaveBooking(ctx context.Context, booking persistence.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			room_name = excluded.room_name,
			event_type = excluded.event_type,
			event_name = excluded.event_name,
			course_code = excluded.course_code,
			faculty = excluded.faculty,
			department = excluded.department,
			date = excluded.date,
			start_time = excluded.start_time,
			duration_minutes = excluded.duration_minutes,
			priority_level = excluded.priority_level,
			status = excluded.status,
			created_by = excluded.created_by,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		booking.ID,
		booking.RoomName,
		booking.EventType,
		booking.EventName,
		booking.CourseCode,
		booking.Faculty,
		booking.Department,
		persistence.DayKey(booking.Date),
		booking.StartTime,
		booking.DurationMinutes,
		booking.PriorityLevel,
		booking.Status,
		booking.CreatedBy,
		booking.CreatedAt.UTC().Format(time.RFC3339),
		booking.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return mapError(err)
}

// GetBooking retrieves a booking by ID.
func (s *Store) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	return scanBooking(row)
}

// FindByRoomAndDate returns bookings for one room on one calendar day in
// stored (insertion) order.
func (s *Store) FindByRoomAndDate(ctx context.Context, roomName string, date time.Time) ([]persistence.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE room_name = ? AND date = ? ORDER BY rowid ASC`

	rows, err := s.db.QueryContext(ctx, query, roomName, persistence.DayKey(date))
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// ListBookings returns all bookings ordered by date, start time, then ID.
func (s *Store) ListBookings(ctx context.Context) ([]persistence.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY date ASC, start_time ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

// DeleteBooking removes a booking by ID.
func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (persistence.Booking, error) {
	var booking persistence.Booking
	var dateStr, createdStr, updatedStr string

	err := row.Scan(
		&booking.ID,
		&booking.RoomName,
		&booking.EventType,
		&booking.EventName,
		&booking.CourseCode,
		&booking.Faculty,
		&booking.Department,
		&dateStr,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.PriorityLevel,
		&booking.Status,
		&booking.CreatedBy,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		return persistence.Booking{}, mapError(err)
	}

	if booking.Date, err = time.ParseInLocation(persistence.DayLayout, dateStr, time.UTC); err != nil {
		return persistence.Booking{}, fmt.Errorf("sqlite: parse booking date: %w", err)
	}
	if booking.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("sqlite: parse created_at: %w", err)
	}
	if booking.UpdatedAt, err = time.Parse(time.RFC3339, updatedStr); err != nil {
		return persistence.Booking{}, fmt.Errorf("sqlite: parse updated_at: %w", err)
	}

	return booking, nil
}

func collectBookings(rows *sql.Rows) ([]persistence.Booking, error) {
	var bookings []persistence.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return bookings, nil
}
