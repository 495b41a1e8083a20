package scheduler

import (
	"errors"
	"strings"
)

var (
	// ErrNoAvailableRooms aborts a batch when every room is under maintenance
	// or the room list is empty.
	ErrNoAvailableRooms = errors.New("scheduler: no available rooms")
	// ErrNoAvailableLecturers aborts a batch when no lecturers exist.
	ErrNoAvailableLecturers = errors.New("scheduler: no available lecturers")
	// ErrEmptySlotCatalog aborts a batch when the slot catalog has no entries.
	ErrEmptySlotCatalog = errors.New("scheduler: empty slot catalog")
)

// Slot is one assignable (day-of-week, wall-clock time) pair drawn from the
// configured catalog.
type Slot struct {
	Day  string
	Time string
}

// Lecturer is the directory entry rotated through during batch assignment.
type Lecturer struct {
	ID    string
	Name  string
	Email string
}

// Enrollment is the read-only demand signal for batch assignment.
type Enrollment struct {
	StudentID  string
	CourseCode string
	CourseName string
}

// UnscheduledReason explains why an enrollment produced no placement.
type UnscheduledReason string

const (
	// ReasonNoSlotAvailable means every probed (room, day, time) combination
	// was already claimed in this batch.
	ReasonNoSlotAvailable UnscheduledReason = "no_slot_available"
	// ReasonMissingCourseName means the enrollment carried no course name and
	// therefore no event to place.
	ReasonMissingCourseName UnscheduledReason = "missing_course_name"
)

// Unscheduled records an enrollment the allocator could not place. Callers
// must not infer success from an absent error; every input enrollment appears
// either in Placements or here.
type Unscheduled struct {
	Enrollment Enrollment
	Reason     UnscheduledReason
}

// Placement is one successful assignment of an enrollment to a room, a
// lecturer and a catalog slot.
type Placement struct {
	Enrollment Enrollment
	// EventName is the normalized (trimmed, lowercased) course name.
	EventName string
	Room      Room
	Lecturer  Lecturer
	Slot      Slot
}

// Result pairs the placements of a batch run with the enrollments that could
// not be placed. Partial success is expected; callers decide what to do with
// the unscheduled remainder.
type Result struct {
	Placements  []Placement
	Unscheduled []Unscheduled
}

// ClaimSet tracks which (room, day, time) triples a batch has already
// assigned. It is a plain value owned by the caller so concurrent batches
// over disjoint room pools stay independent.
type ClaimSet struct {
	claimed map[string]struct{}
}

// NewClaimSet returns an empty claim set.
func NewClaimSet() *ClaimSet {
	return &ClaimSet{claimed: make(map[string]struct{})}
}

// Claim marks the triple as taken. It reports false when the triple was
// already claimed, leaving the set unchanged.
func (c *ClaimSet) Claim(roomName, day, timeOfDay string) bool {
	key := slotKey(roomName, day, timeOfDay)
	if _, taken := c.claimed[key]; taken {
		return false
	}
	c.claimed[key] = struct{}{}
	return true
}

// Claimed reports whether the triple has been claimed.
func (c *ClaimSet) Claimed(roomName, day, timeOfDay string) bool {
	_, taken := c.claimed[slotKey(roomName, day, timeOfDay)]
	return taken
}

// Len reports the number of claimed triples.
func (c *ClaimSet) Len() int {
	return len(c.claimed)
}

func slotKey(roomName, day, timeOfDay string) string {
	return roomName + "|" + day + "|" + timeOfDay
}

// AutoAssign places enrollments into rooms and catalog slots round-robin.
//
// The rotation counter advances only when a placement succeeds, so skipped
// enrollments do not rotate the catalog unevenly. When the base slot for an
// enrollment is already claimed, the allocator probes forward: it walks the
// remaining catalog entries for the base room first, then advances to the
// next room, covering at most len(catalog) * len(rooms) combinations before
// recording the enrollment as unscheduled.
//
// The claim set must be supplied by the caller and is mutated in place.
func AutoAssign(enrollments []Enrollment, rooms []Room, lecturers []Lecturer, catalog []Slot, claims *ClaimSet) (Result, error) {
	available := make([]Room, 0, len(rooms))
	for _, room := range rooms {
		if room.Assignable() {
			available = append(available, room)
		}
	}
	if len(available) == 0 {
		return Result{}, ErrNoAvailableRooms
	}
	if len(lecturers) == 0 {
		return Result{}, ErrNoAvailableLecturers
	}
	if len(catalog) == 0 {
		return Result{}, ErrEmptySlotCatalog
	}
	if claims == nil {
		claims = NewClaimSet()
	}

	result := Result{}
	maxAttempts := len(catalog) * len(available)
	i := 0

	for _, enrollment := range enrollments {
		name := strings.TrimSpace(enrollment.CourseName)
		if name == "" {
			result.Unscheduled = append(result.Unscheduled, Unscheduled{
				Enrollment: enrollment,
				Reason:     ReasonMissingCourseName,
			})
			continue
		}

		lecturer := lecturers[i%len(lecturers)]
		placed := false

		for attempt := 0; attempt < maxAttempts; attempt++ {
			room := available[(i+attempt/len(catalog))%len(available)]
			slot := catalog[(i+attempt)%len(catalog)]
			if !claims.Claim(room.RoomName, slot.Day, slot.Time) {
				continue
			}

			result.Placements = append(result.Placements, Placement{
				Enrollment: enrollment,
				EventName:  strings.ToLower(name),
				Room:       room,
				Lecturer:   lecturer,
				Slot:       slot,
			})
			i++
			placed = true
			break
		}

		if !placed {
			result.Unscheduled = append(result.Unscheduled, Unscheduled{
				Enrollment: enrollment,
				Reason:     ReasonNoSlotAvailable,
			})
		}
	}

	return result, nil
}
