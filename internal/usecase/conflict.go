package usecase

import (
	"context"
	"time"

	"room-booking/internal/data/repository"
	"room-booking/internal/dto/response"
	"room-booking/pkg/apperrors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConflictEngine answers one question: which active bookings in a room
// overlap a candidate interval. It performs no writes and does not
// re-validate the interval; callers guarantee start < end.
type ConflictEngine struct {
	bookings repository.BookingRepository
	users    repository.UserRepository
	log      *zap.Logger
}

func NewConflictEngine(repo *repository.Repository, log *zap.Logger) *ConflictEngine {
	return &ConflictEngine{
		bookings: repo.Booking,
		users:    repo.User,
		log:      log.With(zap.String("service", "conflict")),
	}
}

// FindConflicts returns the active bookings in the room overlapping
// [start, end), sorted by start time ascending, with booker names
// joined on for display. excludeID skips the booking being rescheduled.
func (e *ConflictEngine) FindConflicts(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]response.ConflictingBooking, error) {
	overlapping, err := e.bookings.FindOverlappingActive(ctx, roomID, start, end, excludeID)
	if err != nil {
		e.log.Error("Failed to query overlapping bookings",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
		)
		return nil, apperrors.Internal("failed to check conflicts", err)
	}

	if len(overlapping) == 0 {
		return nil, nil
	}

	// Join booker names for the conflict payload
	userIDs := make([]uuid.UUID, 0, len(overlapping))
	for _, b := range overlapping {
		userIDs = append(userIDs, b.UserID)
	}

	names, err := e.users.FindNamesByIDs(ctx, userIDs)
	if err != nil {
		// Conflicts are still reportable without names
		e.log.Warn("Failed to resolve booker names for conflicts", zap.Error(err))
		names = map[uuid.UUID]string{}
	}

	conflicts := make([]response.ConflictingBooking, 0, len(overlapping))
	for _, b := range overlapping {
		conflicts = append(conflicts, response.ConflictingBooking{
			ID:        b.ID.String(),
			StartTime: b.StartTime,
			EndTime:   b.EndTime,
			UserName:  names[b.UserID],
		})
	}

	return conflicts, nil
}
