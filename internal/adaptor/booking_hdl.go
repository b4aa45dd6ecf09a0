package adaptor

import (
	"encoding/json"
	"net/http"

	"room-booking/internal/data/entity"
	"room-booking/internal/dto/request"
	"room-booking/internal/usecase"
	"room-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	var req request.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "success", booking)
}

// GetUserBookings handles GET /api/bookings/me
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	bookings, err := h.service.GetUserBookings(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get user bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// RescheduleBooking handles PATCH /api/bookings/{id}/reschedule
func (h *BookingHandler) RescheduleBooking(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requesterFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	bookingID := chi.URLParam(r, "id")

	var req request.RescheduleBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	booking, err := h.service.RescheduleBooking(r.Context(), bookingID, userID, role, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "reschedule booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// CancelBooking handles PATCH /api/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	userID, role, ok := requesterFromContext(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Unauthorized")
		return
	}

	bookingID := chi.URLParam(r, "id")

	booking, err := h.service.CancelBooking(r.Context(), bookingID, userID, role)
	if err != nil {
		handleServiceError(w, h.log, err, "cancel booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// GetAllBookings handles GET /api/admin/bookings (admin only)
func (h *BookingHandler) GetAllBookings(w http.ResponseWriter, r *http.Request) {
	grouped, err := h.service.GetAllBookingsGroupedByRoom(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "get all bookings")
		return
	}

	utils.ResponseSuccess(w, "success", grouped)
}

func requesterFromContext(r *http.Request) (uuid.UUID, entity.UserRole, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}

	role, ok := utils.GetRoleFromContext(r.Context())
	if !ok {
		return uuid.Nil, "", false
	}

	return userID, entity.UserRole(role), true
}
