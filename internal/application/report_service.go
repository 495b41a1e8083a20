package application

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/example/campus-scheduler/internal/interval"
	"github.com/example/campus-scheduler/internal/persistence"
)

// Peak hours run 08:00 to 18:00. A booking counts as peak only when it fits
// entirely inside the window.
const (
	peakStartMinutes = 8 * 60
	peakEndMinutes   = 18 * 60
)

// BookingLister exposes the booking snapshot consumed by reporting.
type BookingLister interface {
	ListBookings(ctx context.Context) ([]persistence.Booking, error)
}

// UtilizationReport summarizes how the room catalog is being used by the
// current set of bookings.
type UtilizationReport struct {
	TotalRooms      int
	UsedRooms       int
	UtilizationRate float64
	MostUsedRoom    string
	LeastUsedRoom   string
	EventTypeUsage  map[string]int
	EquipmentUsage  map[string]int
	PeakBookings    int
	OffPeakBookings int
	PeakPercentage  float64
}

// ReportService computes read-only utilization reports over rooms and
// bookings. It never writes.
type ReportService struct {
	rooms       RoomLister
	bookings    BookingLister
	repoTimeout time.Duration
	logger      *slog.Logger
}

// NewReportService wires dependencies for reporting.
func NewReportService(rooms RoomLister, bookings BookingLister, repoTimeout time.Duration, logger *slog.Logger) *ReportService {
	return &ReportService{
		rooms:       rooms,
		bookings:    bookings,
		repoTimeout: repoTimeout,
		logger:      logger,
	}
}

// RoomUtilization reports catalog-wide usage: how many rooms carry at least
// one booking, which rooms are busiest and idlest, usage per event type and
// per equipment item, and how bookings split across peak hours. Ties on the
// most and least used room resolve to the alphabetically first name.
func (s *ReportService) RoomUtilization(ctx context.Context) (UtilizationReport, error) {
	rctx, cancel := s.repoCtx(ctx)
	rooms, err := s.rooms.ListRooms(rctx)
	cancel()
	if err != nil {
		return UtilizationReport{}, mapRepoError(err)
	}

	rctx, cancel = s.repoCtx(ctx)
	bookings, err := s.bookings.ListBookings(rctx)
	cancel()
	if err != nil {
		return UtilizationReport{}, mapRepoError(err)
	}

	report := UtilizationReport{
		TotalRooms:     len(rooms),
		MostUsedRoom:   "None",
		LeastUsedRoom:  "None",
		EventTypeUsage: map[string]int{},
		EquipmentUsage: map[string]int{},
	}

	perRoom := map[string]int{}
	for _, booking := range bookings {
		perRoom[booking.RoomName]++
		report.EventTypeUsage[booking.EventType]++

		if start, err := interval.ParseWallClock(booking.StartTime); err == nil &&
			start >= peakStartMinutes && start+booking.DurationMinutes <= peakEndMinutes {
			report.PeakBookings++
		} else {
			report.OffPeakBookings++
		}
	}
	report.UsedRooms = len(perRoom)

	if report.TotalRooms > 0 {
		report.UtilizationRate = roundRate(float64(report.UsedRooms) / float64(report.TotalRooms) * 100)
	}
	if len(bookings) > 0 {
		report.PeakPercentage = roundRate(float64(report.PeakBookings) / float64(len(bookings)) * 100)
	}

	usedNames := make([]string, 0, len(perRoom))
	for name := range perRoom {
		usedNames = append(usedNames, name)
	}
	sort.Strings(usedNames)
	if len(usedNames) > 0 {
		most, least := usedNames[0], usedNames[0]
		for _, name := range usedNames[1:] {
			if perRoom[name] > perRoom[most] {
				most = name
			}
			if perRoom[name] < perRoom[least] {
				least = name
			}
		}
		report.MostUsedRoom, report.LeastUsedRoom = most, least
	}

	// Equipment usage counts rooms carrying an item, not item quantities.
	for _, room := range rooms {
		for _, item := range room.Equipment {
			report.EquipmentUsage[item]++
		}
	}

	serviceLogger(ctx, s.logger, "report", "room_utilization").Info("utilization report computed",
		"total_rooms", report.TotalRooms, "used_rooms", report.UsedRooms, "bookings", len(bookings))
	return report, nil
}

// roundRate keeps percentages at two decimal places.
func roundRate(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *ReportService) repoCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.repoTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.repoTimeout)
}
