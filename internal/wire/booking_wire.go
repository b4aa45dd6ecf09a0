package wire

import (
	"room-booking/internal/adaptor"
	"room-booking/internal/data/repository"
	"room-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	streamHandler *adaptor.StreamHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// Event stream is public so dashboards can listen without a session
	r.Get("/api/bookings/stream", streamHandler.Stream)

	auth := middleware.AuthSession(repo.Session, repo.User, log)

	// Authenticated routes
	r.With(auth).Post("/api/bookings", bookingHandler.CreateBooking)
	r.With(auth).Get("/api/bookings/me", bookingHandler.GetUserBookings)
	r.With(auth).Patch("/api/bookings/{id}/reschedule", bookingHandler.RescheduleBooking)
	r.With(auth).Patch("/api/bookings/{id}/cancel", bookingHandler.CancelBooking)

	// Admin routes
	r.With(auth, middleware.Admin(log)).Get("/api/admin/bookings", bookingHandler.GetAllBookings)
}
