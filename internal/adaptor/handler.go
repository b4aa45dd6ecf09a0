package adaptor

import (
	"room-booking/internal/broadcast"
	"room-booking/internal/usecase"
	"room-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Room    *RoomHandler
	Booking *BookingHandler
	Stream  *StreamHandler
}

func NewHandler(service *usecase.Service, broadcaster *broadcast.Broadcaster, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Room:    NewRoomHandler(service.Room, service.Availability, log),
		Booking: NewBookingHandler(service.Booking, log),
		Stream:  NewStreamHandler(broadcaster, config.Stream, log),
	}
}
