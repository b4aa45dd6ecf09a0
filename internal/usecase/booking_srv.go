package usecase

import (
	"context"
	"time"

	"room-booking/internal/broadcast"
	"room-booking/internal/data/entity"
	"room-booking/internal/data/repository"
	"room-booking/internal/dto/request"
	"room-booking/internal/dto/response"
	"room-booking/pkg/apperrors"
	"room-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// pastGrace tolerates client clock skew on the start time.
	pastGrace = time.Minute
	// bookingHorizon caps how far ahead a booking may start.
	bookingHorizon = 365 * 24 * time.Hour
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	RescheduleBooking(ctx context.Context, bookingID string, requesterID uuid.UUID, requesterRole entity.UserRole, req *request.RescheduleBookingRequest) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID string, requesterID uuid.UUID, requesterRole entity.UserRole) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID) ([]response.BookingResponse, error)
	GetAllBookingsGroupedByRoom(ctx context.Context) (map[string]response.RoomBookingGroup, error)
}

type bookingService struct {
	repo        *repository.Repository
	conflicts   *ConflictEngine
	broadcaster *broadcast.Broadcaster
	locks       *roomLocks
	log         *zap.Logger

	// now is injectable for tests
	now func() time.Time
}

func NewBookingService(repo *repository.Repository, conflicts *ConflictEngine, broadcaster *broadcast.Broadcaster, log *zap.Logger) BookingService {
	return &bookingService{
		repo:        repo,
		conflicts:   conflicts,
		broadcaster: broadcaster,
		locks:       newRoomLocks(),
		log:         log.With(zap.String("service", "booking")),
		now:         time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// Validate request shape
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, apperrors.Validation("validation failed: " + utils.FormatValidationErrors(errs))
	}

	roomID, err := uuid.Parse(req.RoomID)
	if err != nil {
		return nil, apperrors.Validation("invalid room ID format")
	}

	start, end, err := s.parseAndValidateTimes(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	// Room must exist before any conflict work
	room, err := s.repo.Room.FindByID(ctx, roomID)
	if err != nil {
		s.log.Error("Failed to find room", zap.Error(err), zap.String("room_id", roomID.String()))
		return nil, apperrors.Internal("failed to find room", err)
	}
	if room == nil {
		return nil, apperrors.NotFound("room not found")
	}

	// Serialize conflict check + insert per room so two concurrent
	// creates cannot both pass the check.
	unlock := s.locks.lock(roomID)
	defer unlock()

	conflicts, err := s.conflicts.FindConflicts(ctx, roomID, start, end, nil)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, apperrors.Conflict("this time slot conflicts with existing booking(s)", conflicts)
	}

	now := s.now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		RoomID:    roomID,
		UserID:    userID,
		StartTime: start,
		EndTime:   end,
		Status:    entity.BookingStatusActive,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		s.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("room_id", roomID.String()),
		)
		return nil, apperrors.Internal("failed to create booking", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("room_id", roomID.String()),
		zap.String("user_id", userID.String()),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	userName := s.lookupUserName(ctx, userID)
	s.publish(broadcast.EventBookingCreated, booking, room.Name, userName)

	resp := response.BookingToResponse(booking, room.Name, userName)
	return &resp, nil
}

func (s *bookingService) RescheduleBooking(ctx context.Context, bookingID string, requesterID uuid.UUID, requesterRole entity.UserRole, req *request.RescheduleBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reschedule validation failed", zap.Any("errors", errs))
		return nil, apperrors.Validation("validation failed: " + utils.FormatValidationErrors(errs))
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == entity.BookingStatusCancelled {
		return nil, apperrors.Validation("cannot reschedule a cancelled booking")
	}

	if err := s.authorize(booking, requesterID, requesterRole); err != nil {
		return nil, err
	}

	start, end, err := s.parseAndValidateTimes(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(booking.RoomID)
	defer unlock()

	// Exclude the booking being moved so it cannot conflict with itself
	conflicts, err := s.conflicts.FindConflicts(ctx, booking.RoomID, start, end, &booking.ID)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, apperrors.Conflict("this time slot conflicts with existing booking(s)", conflicts)
	}

	if err := s.repo.Booking.UpdateTimes(ctx, booking.ID, start, end); err != nil {
		s.log.Error("Failed to update booking times",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return nil, apperrors.Internal("failed to reschedule booking", err)
	}

	booking.StartTime = start
	booking.EndTime = end

	s.log.Info("Booking rescheduled",
		zap.String("booking_id", booking.ID.String()),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	roomName := s.lookupRoomName(ctx, booking.RoomID)
	userName := s.lookupUserName(ctx, booking.UserID)
	s.publish(broadcast.EventBookingRescheduled, booking, roomName, userName)

	resp := response.BookingToResponse(booking, roomName, userName)
	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID string, requesterID uuid.UUID, requesterRole entity.UserRole) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status == entity.BookingStatusCancelled {
		return nil, apperrors.Validation("booking is already cancelled")
	}

	if err := s.authorize(booking, requesterID, requesterRole); err != nil {
		return nil, err
	}

	// Cancelling a past booking is allowed, so no time revalidation
	if err := s.repo.Booking.UpdateStatus(ctx, booking.ID, entity.BookingStatusCancelled); err != nil {
		s.log.Error("Failed to cancel booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return nil, apperrors.Internal("failed to cancel booking", err)
	}

	booking.Status = entity.BookingStatusCancelled

	s.log.Info("Booking cancelled",
		zap.String("booking_id", booking.ID.String()),
		zap.String("requester_id", requesterID.String()),
	)

	roomName := s.lookupRoomName(ctx, booking.RoomID)
	userName := s.lookupUserName(ctx, booking.UserID)
	s.publish(broadcast.EventBookingCancelled, booking, roomName, userName)

	resp := response.BookingToResponse(booking, roomName, userName)
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, userID uuid.UUID) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to get user bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, apperrors.Internal("failed to get bookings", err)
	}

	roomNames, err := s.roomNames(ctx)
	if err != nil {
		return nil, err
	}
	userName := s.lookupUserName(ctx, userID)

	responses := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, response.BookingToResponse(b, roomNames[b.RoomID], userName))
	}

	return responses, nil
}

func (s *bookingService) GetAllBookingsGroupedByRoom(ctx context.Context) (map[string]response.RoomBookingGroup, error) {
	bookings, err := s.repo.Booking.FindActiveSorted(ctx)
	if err != nil {
		s.log.Error("Failed to list active bookings", zap.Error(err))
		return nil, apperrors.Internal("failed to list bookings", err)
	}

	roomNames, err := s.roomNames(ctx)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, 0, len(bookings))
	for _, b := range bookings {
		userIDs = append(userIDs, b.UserID)
	}
	userNames, err := s.repo.User.FindNamesByIDs(ctx, userIDs)
	if err != nil {
		s.log.Warn("Failed to resolve booker names", zap.Error(err))
		userNames = map[uuid.UUID]string{}
	}

	// Rooms with no active bookings are omitted; bookings arrive sorted
	// by start time ascending and keep that order within each group.
	grouped := make(map[string]response.RoomBookingGroup)
	for _, b := range bookings {
		key := b.RoomID.String()
		group, ok := grouped[key]
		if !ok {
			group = response.RoomBookingGroup{RoomName: roomNames[b.RoomID]}
		}
		group.Bookings = append(group.Bookings, response.BookingToResponse(b, roomNames[b.RoomID], userNames[b.UserID]))
		grouped[key] = group
	}

	return grouped, nil
}

// ==================== HELPERS ====================

// parseAndValidateTimes parses RFC 3339 inputs and enforces the
// booking time constraints shared by create and reschedule.
func (s *bookingService) parseAndValidateTimes(startStr, endStr string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("invalid start time format, use RFC 3339")
	}

	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.Validation("invalid end time format, use RFC 3339")
	}

	if !start.Before(end) {
		return time.Time{}, time.Time{}, apperrors.Validation("start time must be before end time")
	}

	now := s.now()
	if start.Before(now.Add(-pastGrace)) {
		return time.Time{}, time.Time{}, apperrors.Validation("cannot create booking in the past")
	}
	if start.After(now.Add(bookingHorizon)) {
		return time.Time{}, time.Time{}, apperrors.Validation("cannot book more than 1 year in advance")
	}

	return start, end, nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*entity.Booking, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, apperrors.Validation("invalid booking ID format")
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, apperrors.Internal("failed to find booking", err)
	}
	if booking == nil {
		return nil, apperrors.NotFound("booking not found")
	}

	return booking, nil
}

// authorize enforces the owner-or-admin rule.
func (s *bookingService) authorize(booking *entity.Booking, requesterID uuid.UUID, requesterRole entity.UserRole) error {
	if booking.UserID == requesterID || requesterRole == entity.RoleAdmin {
		return nil
	}

	s.log.Warn("Booking access denied",
		zap.String("booking_id", booking.ID.String()),
		zap.String("requester_id", requesterID.String()),
	)
	return apperrors.Permission("you do not have permission to modify this booking")
}

// publish fans the lifecycle event out. Broadcast failures never affect
// the triggering operation.
func (s *bookingService) publish(kind broadcast.EventKind, booking *entity.Booking, roomName, userName string) {
	s.broadcaster.Publish(kind, broadcast.BookingPayload{
		BookingID: booking.ID.String(),
		RoomID:    booking.RoomID.String(),
		RoomName:  roomName,
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
		UserID:    booking.UserID.String(),
		UserName:  userName,
	})
}

func (s *bookingService) lookupRoomName(ctx context.Context, roomID uuid.UUID) string {
	room, err := s.repo.Room.FindByID(ctx, roomID)
	if err != nil || room == nil {
		return ""
	}
	return room.Name
}

func (s *bookingService) lookupUserName(ctx context.Context, userID uuid.UUID) string {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil || user == nil {
		return ""
	}
	return user.Name
}

func (s *bookingService) roomNames(ctx context.Context) (map[uuid.UUID]string, error) {
	rooms, err := s.repo.Room.FindAllSortedByName(ctx)
	if err != nil {
		s.log.Error("Failed to list rooms", zap.Error(err))
		return nil, apperrors.Internal("failed to list rooms", err)
	}

	names := make(map[uuid.UUID]string, len(rooms))
	for _, room := range rooms {
		names[room.ID] = room.Name
	}
	return names, nil
}
