package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/campus-scheduler/internal/persistence"
)

var (
	roomCounter       uint64
	bookingCounter    uint64
	lecturerCounter   uint64
	enrollmentCounter uint64
)

// ReferenceTime is a Tuesday. Fixtures derive dates and timestamps from it
// so weekday-dependent assertions stay stable.
var referenceTime = time.Date(2026, time.September, 1, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// RoomOption configures a generated room fixture.
type RoomOption func(*persistence.Room)

// NewRoomFixture returns a deterministic room record with optional overrides.
func NewRoomFixture(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	room := persistence.Room{
		ID:        fmt.Sprintf("room-%03d", idx),
		RoomName:  fmt.Sprintf("R%03d", idx),
		Capacity:  60,
		Condition: "Good",
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(r *persistence.Room) {
		r.RoomName = name
	}
}

// WithRoomCondition overrides the generated room condition.
func WithRoomCondition(condition string) RoomOption {
	return func(r *persistence.Room) {
		r.Condition = condition
	}
}

// WithRoomEquipment overrides the generated room's equipment list.
func WithRoomEquipment(items ...string) RoomOption {
	return func(r *persistence.Room) {
		r.Equipment = items
	}
}

// BookingOption configures a generated booking fixture.
type BookingOption func(*persistence.Booking)

// NewBookingFixture returns a deterministic booking record with optional
// overrides. Successive fixtures land on distinct start times on the same
// day so they do not overlap unless a test asks them to.
func NewBookingFixture(opts ...BookingOption) persistence.Booking {
	idx := atomic.AddUint64(&bookingCounter, 1)
	booking := persistence.Booking{
		ID:              fmt.Sprintf("booking-%03d", idx),
		RoomName:        "R101",
		EventType:       "Lecture",
		EventName:       fmt.Sprintf("lecture %03d", idx),
		Date:            time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
		StartTime:       fmt.Sprintf("%02d:00", 8+(idx%10)),
		DurationMinutes: 60,
		PriorityLevel:   "Medium",
		Status:          "Pending",
		CreatedBy:       "registrar",
		CreatedAt:       referenceTime,
		UpdatedAt:       referenceTime,
	}
	for _, opt := range opts {
		opt(&booking)
	}
	return booking
}

// WithBookingRoom overrides the generated booking's room name.
func WithBookingRoom(roomName string) BookingOption {
	return func(b *persistence.Booking) {
		b.RoomName = roomName
	}
}

// WithBookingInterval overrides the generated booking's start and duration.
func WithBookingInterval(startTime string, durationMinutes int) BookingOption {
	return func(b *persistence.Booking) {
		b.StartTime = startTime
		b.DurationMinutes = durationMinutes
	}
}

// WithBookingEventType overrides the generated booking's event type.
func WithBookingEventType(eventType string) BookingOption {
	return func(b *persistence.Booking) {
		b.EventType = eventType
	}
}

// WithBookingStatus overrides the generated booking's status.
func WithBookingStatus(status string) BookingOption {
	return func(b *persistence.Booking) {
		b.Status = status
	}
}

// LecturerOption configures a generated lecturer fixture.
type LecturerOption func(*persistence.Lecturer)

// NewLecturerFixture returns a deterministic lecturer record with optional
// overrides.
func NewLecturerFixture(opts ...LecturerOption) persistence.Lecturer {
	idx := atomic.AddUint64(&lecturerCounter, 1)
	lecturer := persistence.Lecturer{
		ID:        fmt.Sprintf("lecturer-%03d", idx),
		Name:      fmt.Sprintf("Lecturer %03d", idx),
		Email:     fmt.Sprintf("lecturer-%03d@example.edu", idx),
		CreatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&lecturer)
	}
	return lecturer
}

// EnrollmentOption configures a generated enrollment fixture.
type EnrollmentOption func(*persistence.Enrollment)

// NewEnrollmentFixture returns a deterministic enrollment record with
// optional overrides. Creation times are staggered so listing order matches
// creation order.
func NewEnrollmentFixture(opts ...EnrollmentOption) persistence.Enrollment {
	idx := atomic.AddUint64(&enrollmentCounter, 1)
	enrollment := persistence.Enrollment{
		ID:         fmt.Sprintf("enrollment-%03d", idx),
		StudentID:  fmt.Sprintf("student-%03d", idx),
		CourseCode: fmt.Sprintf("CS%03d", idx),
		CourseName: fmt.Sprintf("Course %03d", idx),
		CreatedAt:  referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&enrollment)
	}
	return enrollment
}

// WithEnrollmentCourse overrides the generated enrollment's course code and
// name.
func WithEnrollmentCourse(code, name string) EnrollmentOption {
	return func(e *persistence.Enrollment) {
		e.CourseCode = code
		e.CourseName = name
	}
}

// WithEnrollmentStudent overrides the generated enrollment's student id.
func WithEnrollmentStudent(studentID string) EnrollmentOption {
	return func(e *persistence.Enrollment) {
		e.StudentID = studentID
	}
}
