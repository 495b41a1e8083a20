package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/campus-scheduler/internal/interval"
	"github.com/example/campus-scheduler/internal/persistence"
	"github.com/example/campus-scheduler/internal/persistence/memory"
	"github.com/example/campus-scheduler/internal/testfixtures"
)

func newBookingService(t *testing.T, store *memory.Store) *BookingService {
	t.Helper()
	ids := testfixtures.NewIDGenerator("booking")
	clock := testfixtures.NewClock(time.Time{})
	return NewBookingService(store, store, time.Second, ids.NextFunc(), clock.NowFunc(), nil)
}

func seedRoom(t *testing.T, store *memory.Store, opts ...testfixtures.RoomOption) persistence.Room {
	t.Helper()
	room := testfixtures.NewRoomFixture(opts...)
	if err := store.SaveRoom(context.Background(), room); err != nil {
		t.Fatalf("SaveRoom: %v", err)
	}
	return room
}

func bookingInput(roomName, startTime string, durationMinutes int) BookingInput {
	return BookingInput{
		RoomName:        roomName,
		EventType:       EventTypeLecture,
		EventName:       "algorithms",
		Date:            time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC),
		StartTime:       startTime,
		DurationMinutes: durationMinutes,
		PriorityLevel:   PriorityMedium,
		CreatedBy:       "registrar",
	}
}

func TestProposeBookingAccepted(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store)
	svc := newBookingService(t, store)

	booking, err := svc.ProposeBooking(context.Background(), bookingInput(room.RoomName, "09:00", 120))
	if err != nil {
		t.Fatalf("ProposeBooking: %v", err)
	}
	if booking.Status != StatusPending {
		t.Errorf("Status = %q, want Pending", booking.Status)
	}
	if booking.ID == "" {
		t.Error("booking has no ID")
	}

	stored, err := store.GetBooking(context.Background(), booking.ID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if stored.RoomName != room.RoomName || stored.StartTime != "09:00" {
		t.Errorf("stored booking mismatch: %+v", stored)
	}
}

func TestProposeBookingConflict(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store)
	svc := newBookingService(t, store)
	ctx := context.Background()

	first, err := svc.ProposeBooking(ctx, bookingInput(room.RoomName, "09:00", 120))
	if err != nil {
		t.Fatalf("first ProposeBooking: %v", err)
	}

	_, err = svc.ProposeBooking(ctx, bookingInput(room.RoomName, "10:00", 60))
	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("second ProposeBooking = %v, want ConflictError", err)
	}
	if cErr.WithBookingID != first.ID {
		t.Errorf("WithBookingID = %q, want %q", cErr.WithBookingID, first.ID)
	}
}

func TestProposeBackToBackBothAccepted(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store)
	svc := newBookingService(t, store)
	ctx := context.Background()

	if _, err := svc.ProposeBooking(ctx, bookingInput(room.RoomName, "09:00", 120)); err != nil {
		t.Fatalf("first ProposeBooking: %v", err)
	}
	if _, err := svc.ProposeBooking(ctx, bookingInput(room.RoomName, "11:00", 120)); err != nil {
		t.Fatalf("back-to-back ProposeBooking: %v", err)
	}
}

func TestAcceptedBookingsNeverOverlap(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store)
	svc := newBookingService(t, store)
	ctx := context.Background()

	// A mix of accepted and rejected proposals; whatever lands in the store
	// must be pairwise non-overlapping.
	proposals := []struct {
		start    string
		duration int
	}{
		{"09:00", 120},
		{"10:00", 60},
		{"11:00", 60},
		{"11:30", 90},
		{"12:00", 60},
		{"13:00", 120},
	}
	for _, p := range proposals {
		svc.ProposeBooking(ctx, bookingInput(room.RoomName, p.start, p.duration))
	}

	stored, err := store.FindByRoomAndDate(ctx, room.RoomName,
		time.Date(2026, time.September, 7, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("FindByRoomAndDate: %v", err)
	}
	if len(stored) < 2 {
		t.Fatalf("expected several accepted bookings, got %d", len(stored))
	}

	for i := 0; i < len(stored); i++ {
		for j := i + 1; j < len(stored); j++ {
			a, _ := interval.FromWallClock(stored[i].StartTime, stored[i].DurationMinutes)
			b, _ := interval.FromWallClock(stored[j].StartTime, stored[j].DurationMinutes)
			if a.Overlaps(b) {
				t.Errorf("stored bookings %s and %s overlap", stored[i].ID, stored[j].ID)
			}
		}
	}
}

func TestProposeRoomUnderMaintenance(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store, testfixtures.WithRoomCondition("Needs Repair"))
	svc := newBookingService(t, store)

	_, err := svc.ProposeBooking(context.Background(), bookingInput(room.RoomName, "09:00", 60))
	if !errors.Is(err, ErrRoomUnavailable) {
		t.Fatalf("ProposeBooking = %v, want ErrRoomUnavailable", err)
	}
}

func TestProposeUnknownRoom(t *testing.T) {
	store := memory.NewStore()
	svc := newBookingService(t, store)

	_, err := svc.ProposeBooking(context.Background(), bookingInput("nowhere", "09:00", 60))
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("ProposeBooking = %v, want ValidationError", err)
	}
	if _, ok := vErr.FieldErrors["room_name"]; !ok {
		t.Errorf("missing room_name field error: %v", vErr.FieldErrors)
	}
}

func TestProposeValidation(t *testing.T) {
	store := memory.NewStore()
	seedRoom(t, store, testfixtures.WithRoomName("R-valid"))
	svc := newBookingService(t, store)

	cases := []struct {
		name   string
		mutate func(*BookingInput)
		field  string
	}{
		{"blank event name", func(in *BookingInput) { in.EventName = "  " }, "event_name"},
		{"blank room", func(in *BookingInput) { in.RoomName = "" }, "room_name"},
		{"malformed time", func(in *BookingInput) { in.StartTime = "9am" }, "start_time"},
		{"zero duration", func(in *BookingInput) { in.DurationMinutes = 0 }, "start_time"},
		{"past midnight", func(in *BookingInput) { in.StartTime = "23:30"; in.DurationMinutes = 60 }, "start_time"},
		{"zero date", func(in *BookingInput) { in.Date = time.Time{} }, "date"},
		{"bad priority", func(in *BookingInput) { in.PriorityLevel = "Urgent" }, "priority_level"},
		{"bad event type", func(in *BookingInput) { in.EventType = "Party" }, "event_type"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := bookingInput("R-valid", "09:00", 60)
			tc.mutate(&input)

			_, err := svc.ProposeBooking(context.Background(), input)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("ProposeBooking = %v, want ValidationError", err)
			}
			if _, ok := vErr.FieldErrors[tc.field]; !ok {
				t.Errorf("missing %s field error: %v", tc.field, vErr.FieldErrors)
			}
		})
	}
}

func TestRescheduleSkipsOwnBooking(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store)
	svc := newBookingService(t, store)
	ctx := context.Background()

	booking, err := svc.ProposeBooking(ctx, bookingInput(room.RoomName, "09:00", 120))
	if err != nil {
		t.Fatalf("ProposeBooking: %v", err)
	}

	// Shifting within its own old window must not conflict with itself.
	moved, err := svc.RescheduleBooking(ctx, booking.ID, bookingInput(room.RoomName, "10:00", 120))
	if err != nil {
		t.Fatalf("RescheduleBooking: %v", err)
	}
	if moved.StartTime != "10:00" {
		t.Errorf("StartTime = %q, want 10:00", moved.StartTime)
	}
}

func TestRescheduleConflictsWithOthers(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store)
	svc := newBookingService(t, store)
	ctx := context.Background()

	first, err := svc.ProposeBooking(ctx, bookingInput(room.RoomName, "09:00", 60))
	if err != nil {
		t.Fatalf("first ProposeBooking: %v", err)
	}
	second, err := svc.ProposeBooking(ctx, bookingInput(room.RoomName, "11:00", 60))
	if err != nil {
		t.Fatalf("second ProposeBooking: %v", err)
	}

	_, err = svc.RescheduleBooking(ctx, second.ID, bookingInput(room.RoomName, "09:30", 60))
	var cErr *ConflictError
	if !errors.As(err, &cErr) {
		t.Fatalf("RescheduleBooking = %v, want ConflictError", err)
	}
	if cErr.WithBookingID != first.ID {
		t.Errorf("WithBookingID = %q, want %q", cErr.WithBookingID, first.ID)
	}
}

func TestRescheduleTerminalBooking(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store)
	svc := newBookingService(t, store)
	ctx := context.Background()

	for _, status := range []string{StatusCancelled, StatusRejected} {
		booking := testfixtures.NewBookingFixture(
			testfixtures.WithBookingRoom(room.RoomName),
			testfixtures.WithBookingStatus(status),
		)
		if err := store.SaveBooking(ctx, booking); err != nil {
			t.Fatalf("SaveBooking: %v", err)
		}

		_, err := svc.RescheduleBooking(ctx, booking.ID, bookingInput(room.RoomName, "15:00", 60))
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("reschedule %s booking = %v, want ValidationError", status, err)
		}
	}
}

func TestRescheduleMissingBooking(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store)
	svc := newBookingService(t, store)

	_, err := svc.RescheduleBooking(context.Background(), "missing", bookingInput(room.RoomName, "09:00", 60))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("RescheduleBooking = %v, want ErrNotFound", err)
	}
}

func TestCancelBooking(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store)
	svc := newBookingService(t, store)
	ctx := context.Background()

	booking, err := svc.ProposeBooking(ctx, bookingInput(room.RoomName, "09:00", 60))
	if err != nil {
		t.Fatalf("ProposeBooking: %v", err)
	}
	if err := svc.CancelBooking(ctx, booking.ID); err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if _, err := store.GetBooking(ctx, booking.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("booking still stored after cancel: %v", err)
	}

	// Terminal bookings cannot be cancelled.
	rejected := testfixtures.NewBookingFixture(
		testfixtures.WithBookingRoom(room.RoomName),
		testfixtures.WithBookingStatus(StatusRejected),
	)
	store.SaveBooking(ctx, rejected)
	err = svc.CancelBooking(ctx, rejected.ID)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("cancel rejected booking = %v, want ValidationError", err)
	}
}

func TestSetBookingStatus(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store)
	svc := newBookingService(t, store)
	ctx := context.Background()

	booking, err := svc.ProposeBooking(ctx, bookingInput(room.RoomName, "09:00", 60))
	if err != nil {
		t.Fatalf("ProposeBooking: %v", err)
	}

	approved, err := svc.SetBookingStatus(ctx, booking.ID, StatusApproved)
	if err != nil {
		t.Fatalf("SetBookingStatus: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Errorf("Status = %q, want Approved", approved.Status)
	}

	// Approved is no longer Pending; a second transition is rejected.
	_, err = svc.SetBookingStatus(ctx, booking.ID, StatusRejected)
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("second SetBookingStatus = %v, want ValidationError", err)
	}

	// Cancelled is not a valid administrative target.
	_, err = svc.SetBookingStatus(ctx, booking.ID, StatusCancelled)
	if !errors.As(err, &vErr) {
		t.Fatalf("SetBookingStatus(Cancelled) = %v, want ValidationError", err)
	}
}

func TestStatusChangeSerializesWithReschedule(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store)
	svc := newBookingService(t, store)
	ctx := context.Background()

	booking, err := svc.ProposeBooking(ctx, bookingInput(room.RoomName, "09:00", 60))
	if err != nil {
		t.Fatalf("ProposeBooking: %v", err)
	}

	// Approving and rescheduling the same booking concurrently must both
	// land: Approved is not terminal, so either order is valid, and neither
	// write may clobber the other.
	var wg sync.WaitGroup
	var rescheduleErr, statusErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, rescheduleErr = svc.RescheduleBooking(ctx, booking.ID, bookingInput(room.RoomName, "14:00", 60))
	}()
	go func() {
		defer wg.Done()
		_, statusErr = svc.SetBookingStatus(ctx, booking.ID, StatusApproved)
	}()
	wg.Wait()

	if rescheduleErr != nil {
		t.Fatalf("RescheduleBooking: %v", rescheduleErr)
	}
	if statusErr != nil {
		t.Fatalf("SetBookingStatus: %v", statusErr)
	}

	final, err := store.GetBooking(ctx, booking.ID)
	if err != nil {
		t.Fatalf("GetBooking: %v", err)
	}
	if final.StartTime != "14:00" {
		t.Errorf("StartTime = %q, want 14:00", final.StartTime)
	}
	if final.Status != StatusApproved {
		t.Errorf("Status = %q, want Approved", final.Status)
	}
}

type failingBookingRepo struct {
	BookingRepository
}

func (f *failingBookingRepo) SaveBooking(ctx context.Context, booking persistence.Booking) error {
	return errors.New("disk on fire")
}

func TestProposeRepositoryUnavailable(t *testing.T) {
	store := memory.NewStore()
	room := seedRoom(t, store)

	ids := testfixtures.NewIDGenerator("booking")
	svc := NewBookingService(&failingBookingRepo{BookingRepository: store}, store, time.Second, ids.NextFunc(), nil, nil)

	_, err := svc.ProposeBooking(context.Background(), bookingInput(room.RoomName, "09:00", 60))
	if !errors.Is(err, ErrRepositoryUnavailable) {
		t.Fatalf("ProposeBooking = %v, want ErrRepositoryUnavailable", err)
	}
}
