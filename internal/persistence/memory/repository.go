// Package memory provides a mutex-guarded in-memory implementation of the
// persistence store, used as the default development backend and by tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/campus-scheduler/internal/persistence"
)

// Store keeps every record in maps guarded by a single RWMutex.
type Store struct {
	mu          sync.RWMutex
	bookings    map[string]persistence.Booking
	bookingSeq  map[string]uint64
	seq         uint64
	rooms       map[string]persistence.Room
	lecturers   map[string]persistence.Lecturer
	enrollments map[string]persistence.Enrollment
	exams       map[string]persistence.Exam
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		bookings:    make(map[string]persistence.Booking),
		bookingSeq:  make(map[string]uint64),
		rooms:       make(map[string]persistence.Room),
		lecturers:   make(map[string]persistence.Lecturer),
		enrollments: make(map[string]persistence.Enrollment),
		exams:       make(map[string]persistence.Exam),
	}
}

// Close releases resources held by the store. No-op for the in-memory
// implementation.
func (s *Store) Close() error {
	return nil
}

// --- BookingRepository ---

// SaveBooking inserts or updates a booking. Insertion order is tracked so
// FindByRoomAndDate can return bookings in stored order.
func (s *Store) SaveBooking(ctx context.Context, booking persistence.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookingSeq[booking.ID]; !ok {
		s.seq++
		s.bookingSeq[booking.ID] = s.seq
	}
	s.bookings[booking.ID] = booking
	return nil
}

// GetBooking retrieves a booking by ID.
func (s *Store) GetBooking(ctx context.Context, id string) (persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	return booking, nil
}

// FindByRoomAndDate returns bookings for one room on one calendar day in
// insertion order.
func (s *Store) FindByRoomAndDate(ctx context.Context, roomName string, date time.Time) ([]persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	day := persistence.DayKey(date)
	matched := make([]persistence.Booking, 0)
	for _, booking := range s.bookings {
		if booking.RoomName != roomName || persistence.DayKey(booking.Date) != day {
			continue
		}
		matched = append(matched, booking)
	}

	sort.Slice(matched, func(i, j int) bool {
		return s.bookingSeq[matched[i].ID] < s.bookingSeq[matched[j].ID]
	})

	return matched, nil
}

// ListBookings returns all bookings ordered by date, start time, then ID.
func (s *Store) ListBookings(ctx context.Context) ([]persistence.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bookings := make([]persistence.Booking, 0, len(s.bookings))
	for _, booking := range s.bookings {
		bookings = append(bookings, booking)
	}

	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].Date.Equal(bookings[j].Date) {
			return bookings[i].Date.Before(bookings[j].Date)
		}
		if bookings[i].StartTime != bookings[j].StartTime {
			return bookings[i].StartTime < bookings[j].StartTime
		}
		return bookings[i].ID < bookings[j].ID
	})

	return bookings, nil
}

// DeleteBooking removes a booking by ID.
func (s *Store) DeleteBooking(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.bookings, id)
	delete(s.bookingSeq, id)
	return nil
}

// --- RoomRepository ---

// SaveRoom inserts or updates a room. Room names are unique.
func (s *Store) SaveRoom(ctx context.Context, room persistence.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.rooms {
		if id != room.ID && existing.RoomName == room.RoomName {
			return persistence.ErrDuplicate
		}
	}
	s.rooms[room.ID] = cloneRoom(room)
	return nil
}

// GetRoomByName retrieves a room by its unique name.
func (s *Store) GetRoomByName(ctx context.Context, roomName string) (persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, room := range s.rooms {
		if room.RoomName == roomName {
			return cloneRoom(room), nil
		}
	}
	return persistence.Room{}, persistence.ErrNotFound
}

// ListRooms returns all rooms ordered by name.
func (s *Store) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]persistence.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, cloneRoom(room))
	}

	sort.Slice(rooms, func(i, j int) bool {
		if rooms[i].RoomName == rooms[j].RoomName {
			return rooms[i].ID < rooms[j].ID
		}
		return rooms[i].RoomName < rooms[j].RoomName
	})

	return rooms, nil
}

// DeleteRoom removes a room by ID.
func (s *Store) DeleteRoom(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.rooms, id)
	return nil
}

// --- LecturerRepository ---

// SaveLecturer inserts or updates a lecturer.
func (s *Store) SaveLecturer(ctx context.Context, lecturer persistence.Lecturer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lecturers[lecturer.ID] = lecturer
	return nil
}

// ListLecturers returns all lecturers ordered by name.
func (s *Store) ListLecturers(ctx context.Context) ([]persistence.Lecturer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lecturers := make([]persistence.Lecturer, 0, len(s.lecturers))
	for _, lecturer := range s.lecturers {
		lecturers = append(lecturers, lecturer)
	}

	sort.Slice(lecturers, func(i, j int) bool {
		if lecturers[i].Name == lecturers[j].Name {
			return lecturers[i].ID < lecturers[j].ID
		}
		return lecturers[i].Name < lecturers[j].Name
	})

	return lecturers, nil
}

// --- EnrollmentRepository ---

// SaveEnrollment inserts or updates an enrollment.
func (s *Store) SaveEnrollment(ctx context.Context, enrollment persistence.Enrollment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enrollments[enrollment.ID] = enrollment
	return nil
}

// ListEnrollments returns all enrollments ordered by creation time then ID,
// the input order batch assignment runs in.
func (s *Store) ListEnrollments(ctx context.Context) ([]persistence.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	enrollments := make([]persistence.Enrollment, 0, len(s.enrollments))
	for _, enrollment := range s.enrollments {
		enrollments = append(enrollments, enrollment)
	}

	sortEnrollments(enrollments)
	return enrollments, nil
}

// ListEnrollmentsByStudent returns one student's enrollments.
func (s *Store) ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]persistence.Enrollment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	enrollments := make([]persistence.Enrollment, 0)
	for _, enrollment := range s.enrollments {
		if enrollment.StudentID == studentID {
			enrollments = append(enrollments, enrollment)
		}
	}

	sortEnrollments(enrollments)
	return enrollments, nil
}

// CountEnrollmentsByCourseCode counts enrollments for one course.
func (s *Store) CountEnrollmentsByCourseCode(ctx context.Context, courseCode string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, enrollment := range s.enrollments {
		if enrollment.CourseCode == courseCode {
			count++
		}
	}
	return count, nil
}

// --- ExamRepository ---

// SaveExam inserts or updates an exam.
func (s *Store) SaveExam(ctx context.Context, exam persistence.Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exams[exam.ID] = exam
	return nil
}

// GetExam retrieves an exam by ID.
func (s *Store) GetExam(ctx context.Context, id string) (persistence.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exam, ok := s.exams[id]
	if !ok {
		return persistence.Exam{}, persistence.ErrNotFound
	}
	return exam, nil
}

// ListExams returns all exams ordered by date then ID.
func (s *Store) ListExams(ctx context.Context) ([]persistence.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	exams := make([]persistence.Exam, 0, len(s.exams))
	for _, exam := range s.exams {
		exams = append(exams, exam)
	}

	sort.Slice(exams, func(i, j int) bool {
		if !exams[i].Date.Equal(exams[j].Date) {
			return exams[i].Date.Before(exams[j].Date)
		}
		return exams[i].ID < exams[j].ID
	})

	return exams, nil
}

// ListExamsByCourseCodes returns exams whose course code appears in
// courseCodes, ordered by date then ID.
func (s *Store) ListExamsByCourseCodes(ctx context.Context, courseCodes []string) ([]persistence.Exam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(courseCodes))
	for _, code := range courseCodes {
		wanted[code] = true
	}

	exams := make([]persistence.Exam, 0)
	for _, exam := range s.exams {
		if wanted[exam.CourseCode] {
			exams = append(exams, exam)
		}
	}

	sort.Slice(exams, func(i, j int) bool {
		if !exams[i].Date.Equal(exams[j].Date) {
			return exams[i].Date.Before(exams[j].Date)
		}
		return exams[i].ID < exams[j].ID
	})

	return exams, nil
}

// DeleteExam removes an exam by ID.
func (s *Store) DeleteExam(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.exams[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.exams, id)
	return nil
}

// --- helpers ---

func cloneRoom(room persistence.Room) persistence.Room {
	clone := room
	clone.Equipment = append([]string(nil), room.Equipment...)
	if room.EquipmentQuantity != nil {
		clone.EquipmentQuantity = make(map[string]int, len(room.EquipmentQuantity))
		for name, qty := range room.EquipmentQuantity {
			clone.EquipmentQuantity[name] = qty
		}
	}
	return clone
}

func sortEnrollments(enrollments []persistence.Enrollment) {
	sort.Slice(enrollments, func(i, j int) bool {
		if !enrollments[i].CreatedAt.Equal(enrollments[j].CreatedAt) {
			return enrollments[i].CreatedAt.Before(enrollments[j].CreatedAt)
		}
		return enrollments[i].ID < enrollments[j].ID
	})
}
