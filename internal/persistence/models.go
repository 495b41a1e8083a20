package persistence

import "time"

// Booking represents one reserved use of a room for a time interval on a
// given calendar day. The end time is always derived from StartTime plus
// DurationMinutes and never stored.
type Booking struct {
	ID              string
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
	Status          string
	CreatedBy       string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Room represents a lecture room catalog entry. RoomName is the unique join
// key used by bookings.
type Room struct {
	ID                string
	RoomName          string
	Capacity          int
	Condition         string
	Equipment         []string
	EquipmentQuantity map[string]int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Lecturer represents a teaching staff directory entry.
type Lecturer struct {
	ID         string
	Name       string
	Email      string
	Department string
	CreatedAt  time.Time
}

// Enrollment records one student enrolled in one course. It is a read-only
// demand signal for batch assignment.
type Enrollment struct {
	ID         string
	StudentID  string
	CourseCode string
	CourseName string
	CreatedAt  time.Time
}

// Exam represents a scheduled examination for a course.
type Exam struct {
	ID              string
	CourseCode      string
	Name            string
	Date            time.Time
	DurationMinutes int
	StudentCount    int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
