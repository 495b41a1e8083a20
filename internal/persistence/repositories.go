package persistence

import (
	"context"
	"time"
)

// BookingRepository stores booking records.
type BookingRepository interface {
	SaveBooking(ctx context.Context, booking Booking) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	// FindByRoomAndDate returns bookings for one room on one calendar day in
	// stored order (creation order), the order conflict checks depend on.
	FindByRoomAndDate(ctx context.Context, roomName string, date time.Time) ([]Booking, error)
	ListBookings(ctx context.Context) ([]Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// RoomRepository stores the lecture room catalog.
type RoomRepository interface {
	SaveRoom(ctx context.Context, room Room) error
	GetRoomByName(ctx context.Context, roomName string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// LecturerRepository stores the lecturer directory.
type LecturerRepository interface {
	SaveLecturer(ctx context.Context, lecturer Lecturer) error
	ListLecturers(ctx context.Context) ([]Lecturer, error)
}

// EnrollmentRepository stores course enrollments.
type EnrollmentRepository interface {
	SaveEnrollment(ctx context.Context, enrollment Enrollment) error
	ListEnrollments(ctx context.Context) ([]Enrollment, error)
	ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]Enrollment, error)
	CountEnrollmentsByCourseCode(ctx context.Context, courseCode string) (int, error)
}

// ExamRepository stores scheduled exams.
type ExamRepository interface {
	SaveExam(ctx context.Context, exam Exam) error
	GetExam(ctx context.Context, id string) (Exam, error)
	ListExams(ctx context.Context) ([]Exam, error)
	ListExamsByCourseCodes(ctx context.Context, courseCodes []string) ([]Exam, error)
	DeleteExam(ctx context.Context, id string) error
}

// Store aggregates the repositories served by one storage backend.
type Store interface {
	BookingRepository
	RoomRepository
	LecturerRepository
	EnrollmentRepository
	ExamRepository
	Close() error
}
