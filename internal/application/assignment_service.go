package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/example/campus-scheduler/internal/interval"
	"github.com/example/campus-scheduler/internal/persistence"
	"github.com/example/campus-scheduler/internal/scheduler"
)

// RoomLister exposes the room catalog snapshot used by batch assignment.
type RoomLister interface {
	ListRooms(ctx context.Context) ([]persistence.Room, error)
}

// LecturerLister exposes the lecturer directory snapshot.
type LecturerLister interface {
	ListLecturers(ctx context.Context) ([]persistence.Lecturer, error)
}

// EnrollmentLister exposes the enrollment demand snapshot.
type EnrollmentLister interface {
	ListEnrollments(ctx context.Context) ([]persistence.Enrollment, error)
}

// AssignmentDefaults are stamped onto bookings created by batch assignment.
type AssignmentDefaults struct {
	Faculty                string
	Department             string
	LectureDurationMinutes int
}

// AssignmentService runs the batch slot allocator over a snapshot of rooms,
// lecturers and enrollments and persists the resulting bookings. A
// service-level mutex keeps concurrent runs from interleaving.
type AssignmentService struct {
	mu          sync.Mutex
	bookings    BookingRepository
	rooms       RoomLister
	lecturers   LecturerLister
	enrollments EnrollmentLister
	catalog     []scheduler.Slot
	defaults    AssignmentDefaults
	repoTimeout time.Duration
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewAssignmentService wires dependencies for batch assignment.
func NewAssignmentService(bookings BookingRepository, rooms RoomLister, lecturers LecturerLister, enrollments EnrollmentLister, catalog []scheduler.Slot, defaults AssignmentDefaults, repoTimeout time.Duration, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AssignmentService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if defaults.LectureDurationMinutes <= 0 {
		defaults.LectureDurationMinutes = 120
	}
	return &AssignmentService{
		bookings:    bookings,
		rooms:       rooms,
		lecturers:   lecturers,
		enrollments: enrollments,
		catalog:     catalog,
		defaults:    defaults,
		repoTimeout: repoTimeout,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// RunAutoAssignment snapshots rooms, lecturers and enrollments, runs the
// allocator single-threaded over the snapshot, and persists each placement
// as a Pending booking. catalogOverride replaces the configured slot catalog
// for this run when non-empty.
//
// A save failure aborts the run; bookings already saved stay, and the
// partial result is returned alongside the error. An empty enrollment list
// returns an empty result without touching the repository.
func (s *AssignmentService) RunAutoAssignment(ctx context.Context, catalogOverride []scheduler.Slot) (AssignmentResult, error) {
	if err := validateCatalogOverride(catalogOverride); err != nil {
		return AssignmentResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	logger := serviceLogger(ctx, s.logger, "assignment", "auto_assign")

	rctx, cancel := s.repoCtx(ctx)
	enrollments, err := s.enrollments.ListEnrollments(rctx)
	cancel()
	if err != nil {
		return AssignmentResult{}, mapRepoError(err)
	}
	if len(enrollments) == 0 {
		logger.Info("no enrollments, nothing to assign")
		return AssignmentResult{Created: []persistence.Booking{}, Unscheduled: []scheduler.Unscheduled{}}, nil
	}

	rctx, cancel = s.repoCtx(ctx)
	rooms, err := s.rooms.ListRooms(rctx)
	cancel()
	if err != nil {
		return AssignmentResult{}, mapRepoError(err)
	}

	rctx, cancel = s.repoCtx(ctx)
	lecturers, err := s.lecturers.ListLecturers(rctx)
	cancel()
	if err != nil {
		return AssignmentResult{}, mapRepoError(err)
	}

	catalog := s.catalog
	if len(catalogOverride) > 0 {
		catalog = catalogOverride
	}

	claims := scheduler.NewClaimSet()
	planned, err := scheduler.AutoAssign(
		toSchedulerEnrollments(enrollments),
		toSchedulerRooms(rooms),
		toSchedulerLecturers(lecturers),
		catalog,
		claims,
	)
	if err != nil {
		return AssignmentResult{}, err
	}

	result := AssignmentResult{
		Created:     make([]persistence.Booking, 0, len(planned.Placements)),
		Unscheduled: planned.Unscheduled,
	}

	now := s.now()
	for _, placement := range planned.Placements {
		booking := persistence.Booking{
			ID:              s.idGenerator(),
			RoomName:        placement.Room.RoomName,
			EventType:       EventTypeLecture,
			EventName:       placement.EventName,
			CourseCode:      placement.Enrollment.CourseCode,
			Faculty:         s.defaults.Faculty,
			Department:      s.defaults.Department,
			Date:            nextWeekday(now, placement.Slot.Day),
			StartTime:       placement.Slot.Time,
			DurationMinutes: s.defaults.LectureDurationMinutes,
			PriorityLevel:   PriorityMedium,
			Status:          StatusPending,
			CreatedBy:       SystemActor,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		rctx, cancel := s.repoCtx(ctx)
		err := s.bookings.SaveBooking(rctx, booking)
		cancel()
		if err != nil {
			logger.Error("aborting run on save failure",
				"booking_id", booking.ID, "saved", len(result.Created), "error", err)
			return result, mapRepoError(err)
		}
		result.Created = append(result.Created, booking)
	}

	logger.Info("assignment run complete",
		"created", len(result.Created), "unscheduled", len(result.Unscheduled))
	return result, nil
}

func (s *AssignmentService) repoCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.repoTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.repoTimeout)
}

// validateCatalogOverride rejects override slots the configured catalog would
// never have admitted: unknown weekdays and unparsable times. A bad slot must
// not reach the allocator, where it would become a booking whose interval can
// never be constructed.
func validateCatalogOverride(slots []scheduler.Slot) error {
	vErr := &ValidationError{}
	for i, slot := range slots {
		if _, ok := weekdayNames[slot.Day]; !ok {
			vErr.add(fmt.Sprintf("slots[%d].day", i), fmt.Sprintf("unknown weekday %q", slot.Day))
		}
		if _, err := interval.ParseWallClock(slot.Time); err != nil {
			vErr.add(fmt.Sprintf("slots[%d].time", i), err.Error())
		}
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

// nextWeekday resolves a slot's day-of-week to the next occurrence of that
// weekday strictly after ref's calendar day.
func nextWeekday(ref time.Time, day string) time.Time {
	target, ok := weekdayNames[day]
	if !ok {
		target = time.Monday
	}

	date := persistence.NormalizeDate(ref).AddDate(0, 0, 1)
	for date.Weekday() != target {
		date = date.AddDate(0, 0, 1)
	}
	return date
}

func toSchedulerEnrollments(enrollments []persistence.Enrollment) []scheduler.Enrollment {
	out := make([]scheduler.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		out = append(out, scheduler.Enrollment{
			StudentID:  e.StudentID,
			CourseCode: e.CourseCode,
			CourseName: e.CourseName,
		})
	}
	return out
}

func toSchedulerRooms(rooms []persistence.Room) []scheduler.Room {
	out := make([]scheduler.Room, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, scheduler.Room{
			RoomName:  r.RoomName,
			Capacity:  r.Capacity,
			Condition: scheduler.RoomCondition(r.Condition),
		})
	}
	return out
}

func toSchedulerLecturers(lecturers []persistence.Lecturer) []scheduler.Lecturer {
	out := make([]scheduler.Lecturer, 0, len(lecturers))
	for _, l := range lecturers {
		out = append(out, scheduler.Lecturer{
			ID:    l.ID,
			Name:  l.Name,
			Email: l.Email,
		})
	}
	return out
}
