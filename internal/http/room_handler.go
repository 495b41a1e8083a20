package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/campus-scheduler/internal/application"
	"github.com/example/campus-scheduler/internal/persistence"
)

type roomService interface {
	CreateRoom(ctx context.Context, input application.RoomInput) (persistence.Room, error)
	ListRooms(ctx context.Context) ([]persistence.Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// RoomHandler serves the room catalog endpoints.
type RoomHandler struct {
	service   roomService
	responder responder
	logger    *slog.Logger
}

// NewRoomHandler constructs a handler around the room service.
func NewRoomHandler(service roomService, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	return &RoomHandler{service: service, responder: newResponder(base), logger: base}
}

type roomRequest struct {
	RoomName          string         `json:"room_name"`
	Capacity          int            `json:"capacity"`
	Condition         string         `json:"condition"`
	Equipment         []string       `json:"equipment"`
	EquipmentQuantity map[string]int `json:"equipment_quantity"`
}

type roomDTO struct {
	ID                string         `json:"id"`
	RoomName          string         `json:"room_name"`
	Capacity          int            `json:"capacity"`
	Condition         string         `json:"condition"`
	Equipment         []string       `json:"equipment,omitempty"`
	EquipmentQuantity map[string]int `json:"equipment_quantity,omitempty"`
}

func toRoomDTO(room persistence.Room) roomDTO {
	return roomDTO{
		ID:                room.ID,
		RoomName:          room.RoomName,
		Capacity:          room.Capacity,
		Condition:         room.Condition,
		Equipment:         room.Equipment,
		EquipmentQuantity: room.EquipmentQuantity,
	}
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type roomListResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

// Create handles POST /rooms.
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "RoomHandler", "Create", "room_name", req.RoomName)

	room, err := h.service.CreateRoom(r.Context(), application.RoomInput{
		RoomName:          req.RoomName,
		Capacity:          req.Capacity,
		Condition:         req.Condition,
		Equipment:         req.Equipment,
		EquipmentQuantity: req.EquipmentQuantity,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "room creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("room_id", room.ID).InfoContext(r.Context(), "room created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, roomResponse{Room: toRoomDTO(room)})
}

// List handles GET /rooms.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.ListRooms(r.Context())
	if err != nil {
		handlerLogger(r.Context(), h.logger, "RoomHandler", "List").ErrorContext(r.Context(), "room list failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		dtos = append(dtos, toRoomDTO(room))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomListResponse{Rooms: dtos})
}

// Delete handles DELETE /rooms/{id}.
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := RoomIDFromContext(r.Context())
	if !ok || strings.TrimSpace(id) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return
	}

	logger := handlerLogger(r.Context(), h.logger, "RoomHandler", "Delete", "room_id", id)

	if err := h.service.DeleteRoom(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "room delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "room deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}
