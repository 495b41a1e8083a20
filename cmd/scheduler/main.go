package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/example/campus-scheduler/internal/application"
	"github.com/example/campus-scheduler/internal/config"
	httptransport "github.com/example/campus-scheduler/internal/http"
	"github.com/example/campus-scheduler/internal/logging"
	"github.com/example/campus-scheduler/internal/persistence/factory"
	"github.com/example/campus-scheduler/internal/scheduler"
)

func main() {
	configPath := flag.String("config", os.Getenv("CAMPUS_CONFIG"), "path to the configuration file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.New(os.Stdout, "info").Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Logging.Level)

	store, err := factory.Open(ctx, cfg.Storage)
	if err != nil {
		logger.Error("failed to open storage", "error", err, "backend", cfg.Storage.Backend)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	idGenerator := uuid.NewString
	now := time.Now

	catalog := slotCatalog(cfg.Catalog)
	defaults := application.AssignmentDefaults{
		Faculty:                cfg.Defaults.Faculty,
		Department:             cfg.Defaults.Department,
		LectureDurationMinutes: cfg.Defaults.LectureDurationMinutes,
	}

	bookingService := application.NewBookingService(store, store, cfg.Storage.Timeout, idGenerator, now, logger)
	assignmentService := application.NewAssignmentService(store, store, store, store, catalog, defaults, cfg.Storage.Timeout, idGenerator, now, logger)
	roomService := application.NewRoomService(store, cfg.Storage.Timeout, idGenerator, now, logger)
	examService := application.NewExamService(store, store, cfg.Storage.Timeout, idGenerator, now, logger)
	directoryService := application.NewDirectoryService(store, cfg.Storage.Timeout, idGenerator, now, logger)
	reportService := application.NewReportService(store, store, cfg.Storage.Timeout, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Bookings:   httptransport.NewBookingHandler(bookingService, logger),
		Timetable:  httptransport.NewTimetableHandler(assignmentService, logger),
		Rooms:      httptransport.NewRoomHandler(roomService, logger),
		Exams:      httptransport.NewExamHandler(examService, logger),
		Directory:  httptransport.NewDirectoryHandler(directoryService, logger),
		Reports:    httptransport.NewReportHandler(reportService, logger),
		Middleware: []func(http.Handler) http.Handler{httptransport.RequestLogger(logger)},
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("campus scheduler API listening", "addr", server.Addr, "backend", cfg.Storage.Backend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// slotCatalog expands the configured days and times into the weekly slot
// catalog, day-major, matching the order slots are probed in.
func slotCatalog(cfg config.CatalogConfig) []scheduler.Slot {
	catalog := make([]scheduler.Slot, 0, len(cfg.Days)*len(cfg.Times))
	for _, day := range cfg.Days {
		for _, t := range cfg.Times {
			catalog = append(catalog, scheduler.Slot{Day: day, Time: t})
		}
	}
	return catalog
}
