package wire

import (
	"net/http"

	"room-booking/internal/adaptor"
	"room-booking/internal/broadcast"
	"room-booking/internal/data/repository"
	"room-booking/internal/usecase"
	"room-booking/pkg/middleware"
	"room-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired application dependencies
type App struct {
	Router *chi.Mux
}

// Wiring initializes services, handlers and the router
func Wiring(repo *repository.Repository, config *utils.Config, broadcaster *broadcast.Broadcaster, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, broadcaster, logger)
	handler := adaptor.NewHandler(service, broadcaster, config, logger)

	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	// Apply routes
	wireAuth(r, handler.Auth, repo, logger)
	wireRoom(r, handler.Room, repo, logger)
	wireBooking(r, handler.Booking, handler.Stream, repo, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
