package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/campus-scheduler/internal/interval"
	"github.com/example/campus-scheduler/internal/persistence"
	"github.com/example/campus-scheduler/internal/scheduler"
)

// BookingRepository captures the persistence interactions needed by the
// booking service.
type BookingRepository interface {
	SaveBooking(ctx context.Context, booking persistence.Booking) error
	GetBooking(ctx context.Context, id string) (persistence.Booking, error)
	FindByRoomAndDate(ctx context.Context, roomName string, date time.Time) ([]persistence.Booking, error)
	ListBookings(ctx context.Context) ([]persistence.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// RoomDirectory exposes room lookup operations.
type RoomDirectory interface {
	GetRoomByName(ctx context.Context, roomName string) (persistence.Room, error)
}

// BookingService orchestrates validation, conflict checking and persistence
// for booking operations. Conflict check and write run under a
// per-(room, day) mutex so concurrent proposals for the same room and day
// serialize. Operations on an existing booking additionally hold a
// per-booking mutex, so a status change cannot be lost to a racing
// reschedule. Lock order is always booking first, then room-day.
type BookingService struct {
	bookings    BookingRepository
	rooms       RoomDirectory
	locks       *keyedMutex
	repoTimeout time.Duration
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService wires dependencies for booking operations.
func NewBookingService(bookings BookingRepository, rooms RoomDirectory, repoTimeout time.Duration, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		rooms:       rooms,
		locks:       newKeyedMutex(),
		repoTimeout: repoTimeout,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// ProposeBooking validates the proposal, checks it against existing bookings
// for the same room and day, and persists it with status Pending when no
// conflict is found.
func (s *BookingService) ProposeBooking(ctx context.Context, input BookingInput) (persistence.Booking, error) {
	input = normalizeBookingInput(input)

	vErr := &ValidationError{}
	validateBookingInput(input, vErr)
	if vErr.HasErrors() {
		return persistence.Booking{}, vErr
	}

	date := persistence.NormalizeDate(input.Date)
	key := lockKey(input.RoomName, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if err := s.checkConflict(ctx, input, date, ""); err != nil {
		return persistence.Booking{}, err
	}

	now := s.now()
	booking := persistence.Booking{
		ID:              s.idGenerator(),
		RoomName:        input.RoomName,
		EventType:       input.EventType,
		EventName:       input.EventName,
		CourseCode:      input.CourseCode,
		Faculty:         input.Faculty,
		Department:      input.Department,
		Date:            date,
		StartTime:       input.StartTime,
		DurationMinutes: input.DurationMinutes,
		PriorityLevel:   input.PriorityLevel,
		Status:          StatusPending,
		CreatedBy:       input.CreatedBy,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.saveBooking(ctx, booking); err != nil {
		return persistence.Booking{}, err
	}

	serviceLogger(ctx, s.logger, "booking", "propose").Info("booking created",
		"booking_id", booking.ID, "room", booking.RoomName, "date", persistence.DayKey(date))
	return booking, nil
}

// RescheduleBooking moves an existing booking to new fields, re-running the
// conflict check against the target room and day while skipping the
// booking's own ID. Bookings in a terminal state cannot be rescheduled.
func (s *BookingService) RescheduleBooking(ctx context.Context, id string, input BookingInput) (persistence.Booking, error) {
	bookingKey := bookingLockKey(id)
	s.locks.Lock(bookingKey)
	defer s.locks.Unlock(bookingKey)

	existing, err := s.getBooking(ctx, id)
	if err != nil {
		return persistence.Booking{}, err
	}
	if isTerminalStatus(existing.Status) {
		vErr := &ValidationError{}
		vErr.add("status", fmt.Sprintf("cannot reschedule a %s booking", existing.Status))
		return persistence.Booking{}, vErr
	}

	input = normalizeBookingInput(input)

	vErr := &ValidationError{}
	validateBookingInput(input, vErr)
	if vErr.HasErrors() {
		return persistence.Booking{}, vErr
	}

	date := persistence.NormalizeDate(input.Date)
	key := lockKey(input.RoomName, date)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	if err := s.checkConflict(ctx, input, date, id); err != nil {
		return persistence.Booking{}, err
	}

	updated := existing
	updated.RoomName = input.RoomName
	updated.EventType = input.EventType
	updated.EventName = input.EventName
	updated.CourseCode = input.CourseCode
	updated.Faculty = input.Faculty
	updated.Department = input.Department
	updated.Date = date
	updated.StartTime = input.StartTime
	updated.DurationMinutes = input.DurationMinutes
	updated.PriorityLevel = input.PriorityLevel
	updated.UpdatedAt = s.now()

	if err := s.saveBooking(ctx, updated); err != nil {
		return persistence.Booking{}, err
	}

	serviceLogger(ctx, s.logger, "booking", "reschedule").Info("booking rescheduled",
		"booking_id", updated.ID, "room", updated.RoomName, "date", persistence.DayKey(date))
	return updated, nil
}

// CancelBooking removes a booking. Only Pending and Approved bookings may be
// cancelled.
func (s *BookingService) CancelBooking(ctx context.Context, id string) error {
	bookingKey := bookingLockKey(id)
	s.locks.Lock(bookingKey)
	defer s.locks.Unlock(bookingKey)

	existing, err := s.getBooking(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status != StatusPending && existing.Status != StatusApproved {
		vErr := &ValidationError{}
		vErr.add("status", fmt.Sprintf("cannot cancel a %s booking", existing.Status))
		return vErr
	}

	rctx, cancel := s.repoCtx(ctx)
	defer cancel()
	if err := s.bookings.DeleteBooking(rctx, id); err != nil {
		return mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "booking", "cancel").Info("booking cancelled", "booking_id", id)
	return nil
}

// SetBookingStatus applies the administrative Pending to Approved or
// Rejected transition. Any other transition is a validation error.
func (s *BookingService) SetBookingStatus(ctx context.Context, id, status string) (persistence.Booking, error) {
	if status != StatusApproved && status != StatusRejected {
		vErr := &ValidationError{}
		vErr.add("status", fmt.Sprintf("status must be %s or %s", StatusApproved, StatusRejected))
		return persistence.Booking{}, vErr
	}

	bookingKey := bookingLockKey(id)
	s.locks.Lock(bookingKey)
	defer s.locks.Unlock(bookingKey)

	existing, err := s.getBooking(ctx, id)
	if err != nil {
		return persistence.Booking{}, err
	}
	if existing.Status != StatusPending {
		vErr := &ValidationError{}
		vErr.add("status", fmt.Sprintf("only %s bookings can change status", StatusPending))
		return persistence.Booking{}, vErr
	}

	existing.Status = status
	existing.UpdatedAt = s.now()
	if err := s.saveBooking(ctx, existing); err != nil {
		return persistence.Booking{}, err
	}

	serviceLogger(ctx, s.logger, "booking", "set_status").Info("booking status changed",
		"booking_id", id, "status", status)
	return existing, nil
}

// ListBookings returns all bookings ordered by date, start time, then ID.
func (s *BookingService) ListBookings(ctx context.Context) ([]persistence.Booking, error) {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()

	bookings, err := s.bookings.ListBookings(rctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return bookings, nil
}

// checkConflict loads the target room and the stored bookings for the same
// room and day, then runs the conflict decision. skipID excludes a
// booking's own stored record on reschedule.
func (s *BookingService) checkConflict(ctx context.Context, input BookingInput, date time.Time, skipID string) error {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()

	room, err := s.rooms.GetRoomByName(rctx, input.RoomName)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			vErr := &ValidationError{}
			vErr.add("room_name", "room does not exist")
			return vErr
		}
		return mapRepoError(err)
	}

	stored, err := s.bookings.FindByRoomAndDate(rctx, input.RoomName, date)
	if err != nil {
		return mapRepoError(err)
	}

	proposedInterval, err := interval.FromWallClock(input.StartTime, input.DurationMinutes)
	if err != nil {
		vErr := &ValidationError{}
		vErr.add("start_time", err.Error())
		return vErr
	}

	proposed := scheduler.Booking{
		ID:       skipID,
		RoomName: input.RoomName,
		Date:     persistence.DayKey(date),
		Interval: proposedInterval,
	}

	result := scheduler.CheckConflict(proposed, toSchedulerBookings(stored), scheduler.Room{
		RoomName:  room.RoomName,
		Capacity:  room.Capacity,
		Condition: scheduler.RoomCondition(room.Condition),
	})

	switch result.Outcome {
	case scheduler.OutcomeRoomUnavailable:
		return ErrRoomUnavailable
	case scheduler.OutcomeConflict:
		return &ConflictError{WithBookingID: result.WithBookingID}
	}
	return nil
}

func (s *BookingService) getBooking(ctx context.Context, id string) (persistence.Booking, error) {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()

	booking, err := s.bookings.GetBooking(rctx, id)
	if err != nil {
		return persistence.Booking{}, mapRepoError(err)
	}
	return booking, nil
}

func (s *BookingService) saveBooking(ctx context.Context, booking persistence.Booking) error {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()
	return mapRepoError(s.bookings.SaveBooking(rctx, booking))
}

func (s *BookingService) repoCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.repoTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.repoTimeout)
}

func lockKey(roomName string, date time.Time) string {
	return roomName + "|" + persistence.DayKey(date)
}

// bookingLockKey lives in its own namespace so it can never collide with a
// room-day key.
func bookingLockKey(id string) string {
	return "booking#" + id
}

func isTerminalStatus(status string) bool {
	return status == StatusCancelled || status == StatusRejected
}

func normalizeBookingInput(input BookingInput) BookingInput {
	input.RoomName = strings.TrimSpace(input.RoomName)
	input.EventName = strings.TrimSpace(input.EventName)
	if input.EventType == "" {
		input.EventType = EventTypeLecture
	}
	if input.PriorityLevel == "" {
		input.PriorityLevel = PriorityMedium
	}
	return input
}

func validateBookingInput(input BookingInput, vErr *ValidationError) {
	if input.RoomName == "" {
		vErr.add("room_name", "room name is required")
	}
	if input.EventName == "" {
		vErr.add("event_name", "event name is required")
	}
	if !validEventTypes[input.EventType] {
		vErr.add("event_type", "unknown event type")
	}
	if !validPriorities[input.PriorityLevel] {
		vErr.add("priority_level", "unknown priority level")
	}
	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}
	if _, err := interval.FromWallClock(input.StartTime, input.DurationMinutes); err != nil {
		vErr.add("start_time", err.Error())
	}
}

// toSchedulerBookings projects stored bookings into the scheduling view.
// Stored records were validated on write, so a record that no longer parses
// is skipped rather than failing the whole check.
func toSchedulerBookings(stored []persistence.Booking) []scheduler.Booking {
	bookings := make([]scheduler.Booking, 0, len(stored))
	for _, b := range stored {
		iv, err := interval.FromWallClock(b.StartTime, b.DurationMinutes)
		if err != nil {
			continue
		}
		bookings = append(bookings, scheduler.Booking{
			ID:       b.ID,
			RoomName: b.RoomName,
			Date:     persistence.DayKey(b.Date),
			Interval: iv,
		})
	}
	return bookings
}

// mapRepoError translates persistence sentinels into application errors.
// Anything that is not a not-found is an infrastructure failure.
func mapRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
}
