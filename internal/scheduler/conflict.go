// Package scheduler holds the room-schedule conflict engine: conflict
// detection for proposed bookings and batch slot assignment.
package scheduler

import "github.com/example/campus-scheduler/internal/interval"

// RoomCondition describes the maintenance state of a lecture room.
type RoomCondition string

const (
	// RoomConditionExcellent marks a room in top shape.
	RoomConditionExcellent RoomCondition = "Excellent"
	// RoomConditionGood marks a usable room with minor wear.
	RoomConditionGood RoomCondition = "Good"
	// RoomConditionNeedsRepair marks a room under maintenance. Such rooms are
	// never assignable.
	RoomConditionNeedsRepair RoomCondition = "Needs Repair"
)

// Room is the slice of the room catalog the engine needs for decisions.
type Room struct {
	RoomName  string
	Capacity  int
	Condition RoomCondition
}

// Assignable reports whether the room may receive bookings.
func (r Room) Assignable() bool {
	return r.Condition != RoomConditionNeedsRepair
}

// Booking is the scheduling view of a persisted booking: where, which day,
// and which minutes of that day.
type Booking struct {
	ID       string
	RoomName string
	// Date is the calendar day key in 2006-01-02 form. Bookings on different
	// days never conflict.
	Date     string
	Interval interval.Interval
}

// Outcome classifies the result of a conflict check.
type Outcome string

const (
	// OutcomeNoConflict means the proposed booking may be persisted.
	OutcomeNoConflict Outcome = "no_conflict"
	// OutcomeConflict means the proposed interval overlaps an existing booking.
	OutcomeConflict Outcome = "conflict"
	// OutcomeRoomUnavailable means the room is under maintenance, independent
	// of any time overlap.
	OutcomeRoomUnavailable Outcome = "room_unavailable"
)

// ConflictResult reports whether a proposed booking collides with existing
// state. WithBookingID identifies the first conflicting booking in stored
// order when Outcome is OutcomeConflict.
type ConflictResult struct {
	Outcome       Outcome
	WithBookingID string
}

// CheckConflict decides whether the proposed booking can coexist with the
// bookings already stored for the same room. The maintenance check runs
// before any interval comparison. Candidates on a different room or calendar
// day are ignored, and the first overlapping booking in stored order wins so
// the result is deterministic.
func CheckConflict(proposed Booking, existing []Booking, room Room) ConflictResult {
	if !room.Assignable() {
		return ConflictResult{Outcome: OutcomeRoomUnavailable}
	}

	for _, candidate := range existing {
		if candidate.ID == proposed.ID {
			continue
		}
		if candidate.RoomName != proposed.RoomName || candidate.Date != proposed.Date {
			continue
		}
		if proposed.Interval.Overlaps(candidate.Interval) {
			return ConflictResult{Outcome: OutcomeConflict, WithBookingID: candidate.ID}
		}
	}

	return ConflictResult{Outcome: OutcomeNoConflict}
}
