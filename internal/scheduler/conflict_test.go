package scheduler

import (
	"testing"

	"github.com/example/campus-scheduler/internal/interval"
)

func mustInterval(t *testing.T, startTime string, duration int) interval.Interval {
	t.Helper()
	iv, err := interval.FromWallClock(startTime, duration)
	if err != nil {
		t.Fatalf("FromWallClock(%q, %d): %v", startTime, duration, err)
	}
	return iv
}

func TestCheckConflict(t *testing.T) {
	roomA := Room{RoomName: "A-101", Capacity: 40, Condition: RoomConditionGood}

	t.Run("overlap in same room and date produces conflict", func(t *testing.T) {
		existing := []Booking{
			{ID: "b-1", RoomName: "A-101", Date: "2026-09-07", Interval: mustInterval(t, "09:30", 60)},
		}
		proposed := Booking{ID: "b-2", RoomName: "A-101", Date: "2026-09-07", Interval: mustInterval(t, "09:00", 60)}

		result := CheckConflict(proposed, existing, roomA)
		if result.Outcome != OutcomeConflict {
			t.Fatalf("outcome = %v, want conflict", result.Outcome)
		}
		if result.WithBookingID != "b-1" {
			t.Fatalf("conflicting booking = %q, want b-1", result.WithBookingID)
		}
	})

	t.Run("first conflicting booking in stored order wins", func(t *testing.T) {
		existing := []Booking{
			{ID: "b-1", RoomName: "A-101", Date: "2026-09-07", Interval: mustInterval(t, "09:15", 30)},
			{ID: "b-2", RoomName: "A-101", Date: "2026-09-07", Interval: mustInterval(t, "09:45", 30)},
		}
		proposed := Booking{ID: "b-3", RoomName: "A-101", Date: "2026-09-07", Interval: mustInterval(t, "09:00", 120)}

		result := CheckConflict(proposed, existing, roomA)
		if result.Outcome != OutcomeConflict || result.WithBookingID != "b-1" {
			t.Fatalf("got %+v, want conflict with b-1", result)
		}
	})

	t.Run("back-to-back bookings do not conflict", func(t *testing.T) {
		existing := []Booking{
			{ID: "b-1", RoomName: "A-101", Date: "2026-09-07", Interval: mustInterval(t, "09:00", 60)},
		}
		proposed := Booking{ID: "b-2", RoomName: "A-101", Date: "2026-09-07", Interval: mustInterval(t, "10:00", 60)}

		result := CheckConflict(proposed, existing, roomA)
		if result.Outcome != OutcomeNoConflict {
			t.Fatalf("got %+v, want no conflict", result)
		}
	})

	t.Run("cross-room and cross-day bookings never conflict", func(t *testing.T) {
		existing := []Booking{
			{ID: "b-1", RoomName: "B-202", Date: "2026-09-07", Interval: mustInterval(t, "09:00", 60)},
			{ID: "b-2", RoomName: "A-101", Date: "2026-09-08", Interval: mustInterval(t, "09:00", 60)},
		}
		proposed := Booking{ID: "b-3", RoomName: "A-101", Date: "2026-09-07", Interval: mustInterval(t, "09:00", 60)}

		result := CheckConflict(proposed, existing, roomA)
		if result.Outcome != OutcomeNoConflict {
			t.Fatalf("got %+v, want no conflict", result)
		}
	})

	t.Run("room under maintenance rejects regardless of time", func(t *testing.T) {
		repair := Room{RoomName: "A-101", Condition: RoomConditionNeedsRepair}
		proposed := Booking{ID: "b-1", RoomName: "A-101", Date: "2026-09-07", Interval: mustInterval(t, "09:00", 60)}

		result := CheckConflict(proposed, nil, repair)
		if result.Outcome != OutcomeRoomUnavailable {
			t.Fatalf("got %+v, want room unavailable", result)
		}
	})

	t.Run("proposed booking does not conflict with itself", func(t *testing.T) {
		existing := []Booking{
			{ID: "b-1", RoomName: "A-101", Date: "2026-09-07", Interval: mustInterval(t, "09:00", 60)},
		}
		proposed := Booking{ID: "b-1", RoomName: "A-101", Date: "2026-09-07", Interval: mustInterval(t, "09:30", 60)}

		result := CheckConflict(proposed, existing, roomA)
		if result.Outcome != OutcomeNoConflict {
			t.Fatalf("got %+v, want no conflict when rescheduling the same booking", result)
		}
	})
}
