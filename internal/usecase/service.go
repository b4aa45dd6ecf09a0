package usecase

import (
	"room-booking/internal/broadcast"
	"room-booking/internal/data/repository"
	"room-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth         AuthService
	Room         RoomService
	Availability AvailabilityService
	Booking      BookingService
}

func NewService(repo *repository.Repository, config *utils.Config, broadcaster *broadcast.Broadcaster, log *zap.Logger) *Service {
	conflicts := NewConflictEngine(repo, log)

	return &Service{
		Auth:         NewAuthService(repo, config, log),
		Room:         NewRoomService(repo, log),
		Availability: NewAvailabilityService(repo, log),
		Booking:      NewBookingService(repo, conflicts, broadcaster, log),
	}
}
