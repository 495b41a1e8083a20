package application

import (
	"time"

	"github.com/example/campus-scheduler/internal/persistence"
	"github.com/example/campus-scheduler/internal/scheduler"
)

// Booking status lifecycle: Pending may become Approved or Rejected;
// Pending and Approved may be cancelled. Cancelled and Rejected are
// terminal.
const (
	StatusPending   = "Pending"
	StatusApproved  = "Approved"
	StatusRejected  = "Rejected"
	StatusCancelled = "Cancelled"
)

const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

const (
	EventTypeLecture = "Lecture"
	EventTypeExam    = "Exam"
	EventTypeEvent   = "Event"
)

// SystemActor is stamped as CreatedBy on bookings created by batch
// assignment.
const SystemActor = "System"

var validPriorities = map[string]bool{
	PriorityLow: true, PriorityMedium: true, PriorityHigh: true,
}

var validEventTypes = map[string]bool{
	EventTypeLecture: true, EventTypeExam: true, EventTypeEvent: true,
}

// BookingInput carries the caller-supplied fields of a proposed booking.
type BookingInput struct {
	RoomName        string
	EventType       string
	EventName       string
	CourseCode      string
	Faculty         string
	Department      string
	Date            time.Time
	StartTime       string
	DurationMinutes int
	PriorityLevel   string
	CreatedBy       string
}

// RoomInput carries the caller-supplied fields of a room catalog entry.
type RoomInput struct {
	RoomName          string
	Capacity          int
	Condition         string
	Equipment         []string
	EquipmentQuantity map[string]int
}

// ExamInput carries the caller-supplied fields of an exam. The student count
// is always derived from enrollments, never accepted from the caller.
type ExamInput struct {
	CourseCode      string
	Name            string
	Date            time.Time
	DurationMinutes int
}

// LecturerInput carries the caller-supplied fields of a lecturer entry.
type LecturerInput struct {
	Name       string
	Email      string
	Department string
}

// EnrollmentInput carries the caller-supplied fields of an enrollment.
type EnrollmentInput struct {
	StudentID  string
	CourseCode string
	CourseName string
}

// AssignmentResult reports one batch assignment run: the bookings that were
// created and the enrollments that could not be placed. Created plus
// Unscheduled always accounts for every input enrollment.
type AssignmentResult struct {
	Created     []persistence.Booking
	Unscheduled []scheduler.Unscheduled
}
