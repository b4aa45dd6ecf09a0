package adaptor

import (
	"encoding/json"
	"net/http"

	"room-booking/internal/dto/request"
	"room-booking/internal/usecase"
	"room-booking/pkg/utils"

	"go.uber.org/zap"
)

type RoomHandler struct {
	service      usecase.RoomService
	availability usecase.AvailabilityService
	log          *zap.Logger
}

func NewRoomHandler(service usecase.RoomService, availability usecase.AvailabilityService, log *zap.Logger) *RoomHandler {
	return &RoomHandler{
		service:      service,
		availability: availability,
		log:          log.With(zap.String("handler", "room")),
	}
}

// GetRooms handles GET /api/rooms (public)
func (h *RoomHandler) GetRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.GetRooms(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get rooms")
		return
	}

	utils.ResponseSuccess(w, "success", rooms)
}

// CreateRoom handles POST /api/rooms (admin only)
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	room, err := h.service.CreateRoom(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create room")
		return
	}

	utils.ResponseCreated(w, "success", room)
}

// GetAvailability handles GET /api/rooms/availability?date=YYYY-MM-DD (public)
func (h *RoomHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		utils.ResponseBadRequest(w, "Date parameter is required (format: YYYY-MM-DD)", nil)
		return
	}

	availability, err := h.availability.GetAvailability(r.Context(), date)
	if err != nil {
		handleServiceError(w, h.log, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}
