package wire

import (
	"room-booking/internal/adaptor"
	"room-booking/internal/data/repository"
	"room-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireRoom(
	r chi.Router,
	roomHandler *adaptor.RoomHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Public routes
	r.Get("/api/rooms", roomHandler.GetRooms)
	r.Get("/api/rooms/availability", roomHandler.GetAvailability)

	// Admin routes
	r.With(
		middleware.AuthSession(repo.Session, repo.User, log),
		middleware.Admin(log),
	).Post("/api/rooms", roomHandler.CreateRoom)
}
