package usecase

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"room-booking/internal/data/repository"
	"room-booking/internal/dto/response"
	"room-booking/pkg/apperrors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Working window for availability, fixed system-wide.
const (
	workingDayStartHour = 8
	workingDayEndHour   = 18
)

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type AvailabilityService interface {
	GetAvailability(ctx context.Context, dateStr string) ([]response.RoomAvailability, error)
}

type availabilityService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAvailabilityService(repo *repository.Repository, log *zap.Logger) AvailabilityService {
	return &availabilityService{
		repo: repo,
		log:  log.With(zap.String("service", "availability")),
	}
}

// GetAvailability computes free slots within the 08:00-18:00 UTC window
// for every room on the given date. Rooms come back sorted by name.
func (s *availabilityService) GetAvailability(ctx context.Context, dateStr string) ([]response.RoomAvailability, error) {
	dayStart, dayEnd, err := parseWorkingWindow(dateStr)
	if err != nil {
		return nil, err
	}

	rooms, err := s.repo.Room.FindAllSortedByName(ctx)
	if err != nil {
		s.log.Error("Failed to list rooms", zap.Error(err))
		return nil, apperrors.Internal("failed to list rooms", err)
	}

	// One range query for all rooms, grouped in memory
	bookings, err := s.repo.Booking.FindActiveInRange(ctx, dayStart, dayEnd)
	if err != nil {
		s.log.Error("Failed to query bookings for availability",
			zap.Error(err),
			zap.String("date", dateStr),
		)
		return nil, apperrors.Internal("failed to query bookings", err)
	}

	busyByRoom := make(map[uuid.UUID][]response.TimeSlot)
	for _, b := range bookings {
		// Clip to the working window
		slot := response.TimeSlot{
			Start: maxTime(b.StartTime, dayStart),
			End:   minTime(b.EndTime, dayEnd),
		}
		busyByRoom[b.RoomID] = append(busyByRoom[b.RoomID], slot)
	}

	availability := make([]response.RoomAvailability, 0, len(rooms))
	for _, room := range rooms {
		busy := busyByRoom[room.ID]
		sort.Slice(busy, func(i, j int) bool {
			return busy[i].Start.Before(busy[j].Start)
		})

		availability = append(availability, response.RoomAvailability{
			RoomID:         room.ID.String(),
			RoomName:       room.Name,
			Capacity:       room.Capacity,
			AvailableSlots: freeSlots(dayStart, dayEnd, busy),
		})
	}

	return availability, nil
}

// parseWorkingWindow validates the YYYY-MM-DD input and returns the
// working window bounds for that date in UTC. Day bounds are checked
// numerically only (1..31); overflow dates like April 31 normalize
// forward, matching how the date is ultimately constructed.
func parseWorkingWindow(dateStr string) (time.Time, time.Time, error) {
	if !dateFormat.MatchString(dateStr) {
		return time.Time{}, time.Time{}, apperrors.Validation("invalid date format, use YYYY-MM-DD")
	}

	parts := strings.Split(dateStr, "-")
	year, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	day, _ := strconv.Atoi(parts[2])

	if year == 0 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, time.Time{}, apperrors.Validation("invalid date")
	}

	dayStart := time.Date(year, time.Month(month), day, workingDayStartHour, 0, 0, 0, time.UTC)
	dayEnd := time.Date(year, time.Month(month), day, workingDayEndHour, 0, 0, 0, time.UTC)
	return dayStart, dayEnd, nil
}

// freeSlots sweeps the window-clipped busy slots (sorted by start) left
// to right and collects the gaps. Zero-width gaps are never emitted.
func freeSlots(dayStart, dayEnd time.Time, busy []response.TimeSlot) []response.TimeSlot {
	free := make([]response.TimeSlot, 0, len(busy)+1)
	cursor := dayStart

	for _, slot := range busy {
		if cursor.Before(slot.Start) {
			free = append(free, response.TimeSlot{Start: cursor, End: slot.Start})
		}
		if slot.End.After(cursor) {
			cursor = slot.End
		}
	}

	if cursor.Before(dayEnd) {
		free = append(free, response.TimeSlot{Start: cursor, End: dayEnd})
	}

	return free
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
