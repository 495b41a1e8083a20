package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/example/campus-scheduler/internal/application"
)

type reportService interface {
	RoomUtilization(ctx context.Context) (application.UtilizationReport, error)
}

// ReportHandler serves the utilization report endpoint.
type ReportHandler struct {
	service   reportService
	responder responder
	logger    *slog.Logger
}

// NewReportHandler constructs a handler around the report service.
func NewReportHandler(service reportService, logger *slog.Logger) *ReportHandler {
	base := defaultLogger(logger)
	return &ReportHandler{service: service, responder: newResponder(base), logger: base}
}

type utilizationReportDTO struct {
	TotalRooms      int            `json:"total_rooms"`
	UsedRooms       int            `json:"used_rooms"`
	UtilizationRate float64        `json:"utilization_rate"`
	MostUsedRoom    string         `json:"most_used_room"`
	LeastUsedRoom   string         `json:"least_used_room"`
	EventTypeUsage  map[string]int `json:"event_type_usage"`
	EquipmentUsage  map[string]int `json:"equipment_usage"`
	PeakBookings    int            `json:"peak_bookings"`
	OffPeakBookings int            `json:"off_peak_bookings"`
	PeakPercentage  float64        `json:"peak_percentage"`
}

// Utilization handles GET /reports/utilization.
func (h *ReportHandler) Utilization(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r.Context(), h.logger, "ReportHandler", "Utilization")

	report, err := h.service.RoomUtilization(r.Context())
	if err != nil {
		logger.ErrorContext(r.Context(), "utilization report failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, utilizationReportDTO{
		TotalRooms:      report.TotalRooms,
		UsedRooms:       report.UsedRooms,
		UtilizationRate: report.UtilizationRate,
		MostUsedRoom:    report.MostUsedRoom,
		LeastUsedRoom:   report.LeastUsedRoom,
		EventTypeUsage:  report.EventTypeUsage,
		EquipmentUsage:  report.EquipmentUsage,
		PeakBookings:    report.PeakBookings,
		OffPeakBookings: report.OffPeakBookings,
		PeakPercentage:  report.PeakPercentage,
	})
}
