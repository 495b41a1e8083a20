package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/campus-scheduler/internal/persistence"
)

func day(dayOfMonth int) time.Time {
	return time.Date(2026, time.September, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func TestFindByRoomAndDateInsertionOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	// Out of start-time order; insertion order must win.
	ids := []struct {
		id, room, start string
	}{
		{"b-late", "R101", "13:00"},
		{"b-early", "R101", "09:00"},
		{"b-other", "R202", "09:00"},
		{"b-mid", "R101", "11:00"},
	}
	for _, b := range ids {
		err := store.SaveBooking(ctx, persistence.Booking{
			ID:        b.id,
			RoomName:  b.room,
			Date:      day(7),
			StartTime: b.start,
		})
		if err != nil {
			t.Fatalf("SaveBooking %s: %v", b.id, err)
		}
	}

	got, err := store.FindByRoomAndDate(ctx, "R101", day(7))
	if err != nil {
		t.Fatalf("FindByRoomAndDate: %v", err)
	}
	want := []string{"b-late", "b-early", "b-mid"}
	if len(got) != len(want) {
		t.Fatalf("got %d bookings, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Fatalf("position %d: got %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestSaveBookingUpdateKeepsOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	store.SaveBooking(ctx, persistence.Booking{ID: "b-1", RoomName: "R101", Date: day(7), StartTime: "09:00"})
	store.SaveBooking(ctx, persistence.Booking{ID: "b-2", RoomName: "R101", Date: day(7), StartTime: "11:00"})

	// Updating b-1 must not move it behind b-2.
	store.SaveBooking(ctx, persistence.Booking{ID: "b-1", RoomName: "R101", Date: day(7), StartTime: "10:00"})

	got, err := store.FindByRoomAndDate(ctx, "R101", day(7))
	if err != nil {
		t.Fatalf("FindByRoomAndDate: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b-1" || got[1].ID != "b-2" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestSaveRoomRejectsDuplicateName(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	if err := store.SaveRoom(ctx, persistence.Room{ID: "r-1", RoomName: "R101", Condition: "Good"}); err != nil {
		t.Fatalf("SaveRoom: %v", err)
	}
	err := store.SaveRoom(ctx, persistence.Room{ID: "r-2", RoomName: "R101", Condition: "Good"})
	if !errors.Is(err, persistence.ErrDuplicate) {
		t.Fatalf("duplicate SaveRoom = %v, want ErrDuplicate", err)
	}

	// Same ID is an update, not a duplicate.
	if err := store.SaveRoom(ctx, persistence.Room{ID: "r-1", RoomName: "R101", Capacity: 50, Condition: "Good"}); err != nil {
		t.Fatalf("update SaveRoom = %v, want nil", err)
	}
}

func TestRoomCloneIsolation(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	room := persistence.Room{
		ID:                "r-1",
		RoomName:          "R101",
		Condition:         "Good",
		Equipment:         []string{"projector"},
		EquipmentQuantity: map[string]int{"projector": 1},
	}
	if err := store.SaveRoom(ctx, room); err != nil {
		t.Fatalf("SaveRoom: %v", err)
	}

	// Mutating the caller's copies must not leak into the store.
	room.Equipment[0] = "changed"
	room.EquipmentQuantity["projector"] = 99

	got, err := store.GetRoomByName(ctx, "R101")
	if err != nil {
		t.Fatalf("GetRoomByName: %v", err)
	}
	if got.Equipment[0] != "projector" || got.EquipmentQuantity["projector"] != 1 {
		t.Fatalf("stored room mutated through caller slice/map: %+v", got)
	}
}

func TestDeleteBookingNotFound(t *testing.T) {
	store := NewStore()
	if err := store.DeleteBooking(context.Background(), "missing"); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("DeleteBooking = %v, want ErrNotFound", err)
	}
}

func TestEnrollmentCreationOrder(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	base := time.Date(2026, time.September, 1, 8, 0, 0, 0, time.UTC)

	store.SaveEnrollment(ctx, persistence.Enrollment{ID: "e-2", StudentID: "s-1", CourseCode: "CS201", CreatedAt: base.Add(time.Minute)})
	store.SaveEnrollment(ctx, persistence.Enrollment{ID: "e-1", StudentID: "s-1", CourseCode: "MA101", CreatedAt: base})

	got, err := store.ListEnrollments(ctx)
	if err != nil {
		t.Fatalf("ListEnrollments: %v", err)
	}
	if len(got) != 2 || got[0].ID != "e-1" || got[1].ID != "e-2" {
		t.Fatalf("unexpected order: %+v", got)
	}
}
