package scheduler

import (
	"errors"
	"testing"
)

func twoRooms() []Room {
	return []Room{
		{RoomName: "R1", Capacity: 60, Condition: RoomConditionExcellent},
		{RoomName: "R2", Capacity: 40, Condition: RoomConditionGood},
	}
}

func oneLecturer() []Lecturer {
	return []Lecturer{{ID: "lec-1", Name: "Dr. Silva", Email: "silva@campus.test"}}
}

func TestAutoAssignPreconditions(t *testing.T) {
	enrollments := []Enrollment{{StudentID: "s1", CourseCode: "CS101", CourseName: "Algorithms"}}
	catalog := []Slot{{Day: "Monday", Time: "09:00"}}

	t.Run("no rooms", func(t *testing.T) {
		_, err := AutoAssign(enrollments, nil, oneLecturer(), catalog, NewClaimSet())
		if !errors.Is(err, ErrNoAvailableRooms) {
			t.Fatalf("err = %v, want ErrNoAvailableRooms", err)
		}
	})

	t.Run("all rooms under maintenance", func(t *testing.T) {
		rooms := []Room{{RoomName: "R1", Condition: RoomConditionNeedsRepair}}
		_, err := AutoAssign(enrollments, rooms, oneLecturer(), catalog, NewClaimSet())
		if !errors.Is(err, ErrNoAvailableRooms) {
			t.Fatalf("err = %v, want ErrNoAvailableRooms", err)
		}
	})

	t.Run("no lecturers", func(t *testing.T) {
		_, err := AutoAssign(enrollments, twoRooms(), nil, catalog, NewClaimSet())
		if !errors.Is(err, ErrNoAvailableLecturers) {
			t.Fatalf("err = %v, want ErrNoAvailableLecturers", err)
		}
	})

	t.Run("empty catalog", func(t *testing.T) {
		_, err := AutoAssign(enrollments, twoRooms(), oneLecturer(), nil, NewClaimSet())
		if !errors.Is(err, ErrEmptySlotCatalog) {
			t.Fatalf("err = %v, want ErrEmptySlotCatalog", err)
		}
	})
}

func TestAutoAssignWorkedExample(t *testing.T) {
	// 3 enrollments, 2 rooms, 1 lecturer, 2 catalog slots: the third
	// enrollment lands in R1's next free slot via the probe; with 4 room-slot
	// combinations available, all three are placed without collisions.
	enrollments := []Enrollment{
		{StudentID: "s1", CourseCode: "CS101", CourseName: "Algorithms"},
		{StudentID: "s2", CourseCode: "CS102", CourseName: "Databases"},
		{StudentID: "s3", CourseCode: "CS103", CourseName: "Networks"},
	}
	catalog := []Slot{
		{Day: "Monday", Time: "09:00"},
		{Day: "Monday", Time: "11:00"},
	}

	result, err := AutoAssign(enrollments, twoRooms(), oneLecturer(), catalog, NewClaimSet())
	if err != nil {
		t.Fatalf("AutoAssign: %v", err)
	}
	if len(result.Placements) != 3 || len(result.Unscheduled) != 0 {
		t.Fatalf("placements = %d, unscheduled = %d, want 3 and 0", len(result.Placements), len(result.Unscheduled))
	}

	want := []struct {
		room string
		slot Slot
	}{
		{room: "R1", slot: Slot{Day: "Monday", Time: "09:00"}},
		{room: "R2", slot: Slot{Day: "Monday", Time: "11:00"}},
		{room: "R1", slot: Slot{Day: "Monday", Time: "11:00"}},
	}
	for i, placement := range result.Placements {
		if placement.Room.RoomName != want[i].room || placement.Slot != want[i].slot {
			t.Fatalf("placement %d = %s %v, want %s %v", i, placement.Room.RoomName, placement.Slot, want[i].room, want[i].slot)
		}
	}
}

func TestAutoAssignAccountingLaw(t *testing.T) {
	enrollments := []Enrollment{
		{StudentID: "s1", CourseCode: "CS101", CourseName: "Algorithms"},
		{StudentID: "s2", CourseCode: "CS102", CourseName: ""},
		{StudentID: "s3", CourseCode: "CS103", CourseName: "Networks"},
		{StudentID: "s4", CourseCode: "CS104", CourseName: "  "},
		{StudentID: "s5", CourseCode: "CS105", CourseName: "Compilers"},
		{StudentID: "s6", CourseCode: "CS106", CourseName: "Graphics"},
		{StudentID: "s7", CourseCode: "CS107", CourseName: "Security"},
	}
	rooms := twoRooms()
	catalog := []Slot{
		{Day: "Monday", Time: "09:00"},
		{Day: "Tuesday", Time: "11:00"},
	}

	result, err := AutoAssign(enrollments, rooms, oneLecturer(), catalog, NewClaimSet())
	if err != nil {
		t.Fatalf("AutoAssign: %v", err)
	}

	if got := len(result.Placements) + len(result.Unscheduled); got != len(enrollments) {
		t.Fatalf("placements + unscheduled = %d, want %d", got, len(enrollments))
	}

	blank := 0
	for _, entry := range result.Unscheduled {
		if entry.Reason == ReasonMissingCourseName {
			blank++
		}
	}
	if blank != 2 {
		t.Fatalf("missing-course-name entries = %d, want 2", blank)
	}

	// No two placements may share a (room, day, time) key.
	seen := make(map[string]struct{})
	for _, placement := range result.Placements {
		key := placement.Room.RoomName + "|" + placement.Slot.Day + "|" + placement.Slot.Time
		if _, dup := seen[key]; dup {
			t.Fatalf("duplicate slot key %s", key)
		}
		seen[key] = struct{}{}
	}
}

func TestAutoAssignExhaustionRecordsUnscheduled(t *testing.T) {
	// One room, one slot: the second valid enrollment exhausts every
	// combination and must be recorded, not dropped.
	enrollments := []Enrollment{
		{StudentID: "s1", CourseCode: "CS101", CourseName: "Algorithms"},
		{StudentID: "s2", CourseCode: "CS102", CourseName: "Databases"},
	}
	rooms := []Room{{RoomName: "R1", Condition: RoomConditionGood}}
	catalog := []Slot{{Day: "Monday", Time: "09:00"}}

	result, err := AutoAssign(enrollments, rooms, oneLecturer(), catalog, NewClaimSet())
	if err != nil {
		t.Fatalf("AutoAssign: %v", err)
	}
	if len(result.Placements) != 1 {
		t.Fatalf("placements = %d, want 1", len(result.Placements))
	}
	if len(result.Unscheduled) != 1 || result.Unscheduled[0].Reason != ReasonNoSlotAvailable {
		t.Fatalf("unscheduled = %+v, want one no_slot_available entry", result.Unscheduled)
	}
	if result.Unscheduled[0].Enrollment.StudentID != "s2" {
		t.Fatalf("unscheduled enrollment = %+v, want s2", result.Unscheduled[0].Enrollment)
	}
}

func TestAutoAssignNormalizesEventName(t *testing.T) {
	enrollments := []Enrollment{{StudentID: "s1", CourseCode: "CS101", CourseName: "  Advanced Algorithms  "}}
	catalog := []Slot{{Day: "Monday", Time: "09:00"}}

	result, err := AutoAssign(enrollments, twoRooms(), oneLecturer(), catalog, NewClaimSet())
	if err != nil {
		t.Fatalf("AutoAssign: %v", err)
	}
	if got := result.Placements[0].EventName; got != "advanced algorithms" {
		t.Fatalf("event name = %q, want normalized lowercase", got)
	}
	if got := result.Placements[0].Enrollment.CourseCode; got != "CS101" {
		t.Fatalf("course code = %q, want CS101 propagated", got)
	}
}

func TestAutoAssignSkippedEnrollmentsDoNotRotate(t *testing.T) {
	// A blank enrollment between two valid ones must not advance the
	// rotation: the second valid enrollment still takes the next base slot.
	enrollments := []Enrollment{
		{StudentID: "s1", CourseCode: "CS101", CourseName: "Algorithms"},
		{StudentID: "s2", CourseCode: "CS102", CourseName: ""},
		{StudentID: "s3", CourseCode: "CS103", CourseName: "Networks"},
	}
	catalog := []Slot{
		{Day: "Monday", Time: "09:00"},
		{Day: "Monday", Time: "11:00"},
		{Day: "Monday", Time: "13:00"},
	}

	result, err := AutoAssign(enrollments, twoRooms(), oneLecturer(), catalog, NewClaimSet())
	if err != nil {
		t.Fatalf("AutoAssign: %v", err)
	}
	if len(result.Placements) != 2 {
		t.Fatalf("placements = %d, want 2", len(result.Placements))
	}
	second := result.Placements[1]
	if second.Room.RoomName != "R2" || second.Slot.Time != "11:00" {
		t.Fatalf("second placement = %s %v, want R2 at 11:00", second.Room.RoomName, second.Slot)
	}
}

func TestClaimSetIsCallerOwned(t *testing.T) {
	enrollments := []Enrollment{{StudentID: "s1", CourseCode: "CS101", CourseName: "Algorithms"}}
	catalog := []Slot{{Day: "Monday", Time: "09:00"}}
	rooms := []Room{{RoomName: "R1", Condition: RoomConditionGood}}

	first := NewClaimSet()
	if _, err := AutoAssign(enrollments, rooms, oneLecturer(), catalog, first); err != nil {
		t.Fatalf("AutoAssign: %v", err)
	}
	if !first.Claimed("R1", "Monday", "09:00") {
		t.Fatalf("claim set not updated for caller")
	}

	// An independent claim set sees a clean slate.
	second := NewClaimSet()
	result, err := AutoAssign(enrollments, rooms, oneLecturer(), catalog, second)
	if err != nil {
		t.Fatalf("AutoAssign: %v", err)
	}
	if len(result.Placements) != 1 {
		t.Fatalf("independent batch placements = %d, want 1", len(result.Placements))
	}
}
