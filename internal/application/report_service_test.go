package application

import (
	"context"
	"testing"
	"time"

	"github.com/example/campus-scheduler/internal/persistence/memory"
	"github.com/example/campus-scheduler/internal/testfixtures"
)

func TestRoomUtilizationEmptyState(t *testing.T) {
	store := memory.NewStore()
	svc := NewReportService(store, store, time.Second, nil)

	report, err := svc.RoomUtilization(context.Background())
	if err != nil {
		t.Fatalf("RoomUtilization: %v", err)
	}

	if report.TotalRooms != 0 || report.UsedRooms != 0 {
		t.Errorf("rooms = %d/%d, want 0/0", report.UsedRooms, report.TotalRooms)
	}
	if report.UtilizationRate != 0 {
		t.Errorf("utilization rate = %v, want 0", report.UtilizationRate)
	}
	if report.MostUsedRoom != "None" || report.LeastUsedRoom != "None" {
		t.Errorf("most/least = %q/%q, want None/None", report.MostUsedRoom, report.LeastUsedRoom)
	}
	if len(report.EventTypeUsage) != 0 || len(report.EquipmentUsage) != 0 {
		t.Errorf("usage maps not empty: %v %v", report.EventTypeUsage, report.EquipmentUsage)
	}
	if report.PeakPercentage != 0 {
		t.Errorf("peak percentage = %v, want 0", report.PeakPercentage)
	}
}

func TestRoomUtilization(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	for _, room := range []struct {
		name      string
		equipment []string
	}{
		{"A1", []string{"projector"}},
		{"A2", []string{"projector", "whiteboard"}},
		{"A3", nil},
	} {
		fixture := testfixtures.NewRoomFixture(
			testfixtures.WithRoomName(room.name),
			testfixtures.WithRoomEquipment(room.equipment...))
		if err := store.SaveRoom(ctx, fixture); err != nil {
			t.Fatalf("SaveRoom %s: %v", room.name, err)
		}
	}

	// A1 carries two bookings, A2 one, A3 none. The 17:30 lecture runs past
	// 18:00 and the 07:00 exam starts before 08:00, so only one booking is
	// fully inside peak hours.
	bookings := []struct {
		room      string
		eventType string
		start     string
		duration  int
	}{
		{"A1", "Lecture", "09:00", 120},
		{"A1", "Lecture", "17:30", 60},
		{"A2", "Exam", "07:00", 60},
	}
	for _, b := range bookings {
		fixture := testfixtures.NewBookingFixture(
			testfixtures.WithBookingRoom(b.room),
			testfixtures.WithBookingEventType(b.eventType),
			testfixtures.WithBookingInterval(b.start, b.duration))
		if err := store.SaveBooking(ctx, fixture); err != nil {
			t.Fatalf("SaveBooking: %v", err)
		}
	}

	svc := NewReportService(store, store, time.Second, nil)
	report, err := svc.RoomUtilization(ctx)
	if err != nil {
		t.Fatalf("RoomUtilization: %v", err)
	}

	if report.TotalRooms != 3 || report.UsedRooms != 2 {
		t.Errorf("rooms = %d/%d, want 2/3", report.UsedRooms, report.TotalRooms)
	}
	if report.UtilizationRate != 66.67 {
		t.Errorf("utilization rate = %v, want 66.67", report.UtilizationRate)
	}
	if report.MostUsedRoom != "A1" {
		t.Errorf("most used = %q, want A1", report.MostUsedRoom)
	}
	if report.LeastUsedRoom != "A2" {
		t.Errorf("least used = %q, want A2", report.LeastUsedRoom)
	}
	if report.EventTypeUsage["Lecture"] != 2 || report.EventTypeUsage["Exam"] != 1 {
		t.Errorf("event type usage = %v, want Lecture:2 Exam:1", report.EventTypeUsage)
	}
	if report.EquipmentUsage["projector"] != 2 || report.EquipmentUsage["whiteboard"] != 1 {
		t.Errorf("equipment usage = %v, want projector:2 whiteboard:1", report.EquipmentUsage)
	}
	if report.PeakBookings != 1 || report.OffPeakBookings != 2 {
		t.Errorf("peak split = %d/%d, want 1 peak / 2 off-peak", report.PeakBookings, report.OffPeakBookings)
	}
	if report.PeakPercentage != 33.33 {
		t.Errorf("peak percentage = %v, want 33.33", report.PeakPercentage)
	}
}

func TestRoomUtilizationTieBreaksAlphabetically(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	for _, name := range []string{"B2", "A1"} {
		if err := store.SaveRoom(ctx, testfixtures.NewRoomFixture(testfixtures.WithRoomName(name))); err != nil {
			t.Fatalf("SaveRoom: %v", err)
		}
		booking := testfixtures.NewBookingFixture(testfixtures.WithBookingRoom(name))
		if err := store.SaveBooking(ctx, booking); err != nil {
			t.Fatalf("SaveBooking: %v", err)
		}
	}

	svc := NewReportService(store, store, time.Second, nil)
	report, err := svc.RoomUtilization(ctx)
	if err != nil {
		t.Fatalf("RoomUtilization: %v", err)
	}

	if report.MostUsedRoom != "A1" || report.LeastUsedRoom != "A1" {
		t.Errorf("tie resolved to %q/%q, want A1/A1", report.MostUsedRoom, report.LeastUsedRoom)
	}
	if report.UtilizationRate != 100 {
		t.Errorf("utilization rate = %v, want 100", report.UtilizationRate)
	}
}

func TestRoomUtilizationUnparsableStartCountsOffPeak(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	if err := store.SaveRoom(ctx, testfixtures.NewRoomFixture(testfixtures.WithRoomName("A1"))); err != nil {
		t.Fatalf("SaveRoom: %v", err)
	}
	booking := testfixtures.NewBookingFixture(
		testfixtures.WithBookingRoom("A1"),
		testfixtures.WithBookingInterval("not-a-time", 60))
	if err := store.SaveBooking(ctx, booking); err != nil {
		t.Fatalf("SaveBooking: %v", err)
	}

	svc := NewReportService(store, store, time.Second, nil)
	report, err := svc.RoomUtilization(ctx)
	if err != nil {
		t.Fatalf("RoomUtilization: %v", err)
	}

	if report.PeakBookings != 0 || report.OffPeakBookings != 1 {
		t.Errorf("peak split = %d/%d, want 0 peak / 1 off-peak", report.PeakBookings, report.OffPeakBookings)
	}
}
