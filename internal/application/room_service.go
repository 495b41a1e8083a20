package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/example/campus-scheduler/internal/persistence"
	"github.com/example/campus-scheduler/internal/scheduler"
)

// RoomRepository captures the persistence interactions needed by the room
// service.
type RoomRepository interface {
	SaveRoom(ctx context.Context, room persistence.Room) error
	GetRoomByName(ctx context.Context, roomName string) (persistence.Room, error)
	ListRooms(ctx context.Context) ([]persistence.Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

var validConditions = map[string]bool{
	string(scheduler.RoomConditionExcellent):   true,
	string(scheduler.RoomConditionGood):        true,
	string(scheduler.RoomConditionNeedsRepair): true,
}

// RoomService manages the lecture room catalog.
type RoomService struct {
	rooms       RoomRepository
	repoTimeout time.Duration
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewRoomService wires dependencies for room catalog operations.
func NewRoomService(rooms RoomRepository, repoTimeout time.Duration, idGenerator func() string, now func() time.Time, logger *slog.Logger) *RoomService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:       rooms,
		repoTimeout: repoTimeout,
		idGenerator: idGenerator,
		now:         now,
		logger:      logger,
	}
}

// CreateRoom validates and persists a room catalog entry. Room names are
// unique.
func (s *RoomService) CreateRoom(ctx context.Context, input RoomInput) (persistence.Room, error) {
	input.RoomName = strings.TrimSpace(input.RoomName)
	if input.Condition == "" {
		input.Condition = string(scheduler.RoomConditionGood)
	}

	vErr := &ValidationError{}
	if input.RoomName == "" {
		vErr.add("room_name", "room name is required")
	}
	if input.Capacity < 0 {
		vErr.add("capacity", "capacity cannot be negative")
	}
	if !validConditions[input.Condition] {
		vErr.add("condition", "unknown room condition")
	}
	if vErr.HasErrors() {
		return persistence.Room{}, vErr
	}

	now := s.now()
	room := persistence.Room{
		ID:                s.idGenerator(),
		RoomName:          input.RoomName,
		Capacity:          input.Capacity,
		Condition:         input.Condition,
		Equipment:         input.Equipment,
		EquipmentQuantity: input.EquipmentQuantity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	rctx, cancel := s.repoCtx(ctx)
	defer cancel()
	if err := s.rooms.SaveRoom(rctx, room); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			dupErr := &ValidationError{}
			dupErr.add("room_name", "room name already exists")
			return persistence.Room{}, dupErr
		}
		return persistence.Room{}, mapRepoError(err)
	}

	serviceLogger(ctx, s.logger, "room", "create").Info("room created",
		"room_id", room.ID, "room_name", room.RoomName)
	return room, nil
}

// ListRooms returns the room catalog ordered by name.
func (s *RoomService) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()

	rooms, err := s.rooms.ListRooms(rctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return rooms, nil
}

// GetRoomByName retrieves one room by its unique name.
func (s *RoomService) GetRoomByName(ctx context.Context, roomName string) (persistence.Room, error) {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()

	room, err := s.rooms.GetRoomByName(rctx, roomName)
	if err != nil {
		return persistence.Room{}, mapRepoError(err)
	}
	return room, nil
}

// DeleteRoom removes a room from the catalog by ID.
func (s *RoomService) DeleteRoom(ctx context.Context, id string) error {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()

	if err := s.rooms.DeleteRoom(rctx, id); err != nil {
		return mapRepoError(err)
	}
	return nil
}

func (s *RoomService) repoCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.repoTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.repoTimeout)
}
