package usecase

import (
	"context"
	"testing"
	"time"

	"room-booking/internal/data/entity"
	"room-booking/internal/dto/response"
	"room-booking/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func dayAt(hour, min int) time.Time {
	return time.Date(2026, 3, 10, hour, min, 0, 0, time.UTC)
}

func TestGetAvailability(t *testing.T) {
	ctx := context.Background()
	const date = "2026-03-10"

	newSvc := func(f *fixture) AvailabilityService {
		return NewAvailabilityService(f.repo, zap.NewNop())
	}

	t.Run("empty room is free for the whole working day", func(t *testing.T) {
		f := newFixture()
		f.addRoom("Boardroom", 20)

		availability, err := newSvc(f).GetAvailability(ctx, date)
		require.NoError(t, err)
		require.Len(t, availability, 1)

		slots := availability[0].AvailableSlots
		require.Len(t, slots, 1)
		assert.True(t, slots[0].Start.Equal(dayAt(8, 0)))
		assert.True(t, slots[0].End.Equal(dayAt(18, 0)))
	})

	t.Run("bookings split the day into gaps", func(t *testing.T) {
		f := newFixture()
		user := f.addUser("User One", "user1@test.com", entity.RoleUser)
		room := f.addRoom("Boardroom", 20)

		f.addBooking(room, user, dayAt(9, 0), dayAt(10, 0), entity.BookingStatusActive)
		f.addBooking(room, user, dayAt(14, 0), dayAt(15, 30), entity.BookingStatusActive)

		availability, err := newSvc(f).GetAvailability(ctx, date)
		require.NoError(t, err)
		require.Len(t, availability, 1)

		slots := availability[0].AvailableSlots
		require.Len(t, slots, 3)
		assert.Equal(t, []response.TimeSlot{
			{Start: dayAt(8, 0), End: dayAt(9, 0)},
			{Start: dayAt(10, 0), End: dayAt(14, 0)},
			{Start: dayAt(15, 30), End: dayAt(18, 0)},
		}, slots)
	})

	t.Run("booking at the window start emits no zero-width gap", func(t *testing.T) {
		f := newFixture()
		user := f.addUser("User One", "user1@test.com", entity.RoleUser)
		room := f.addRoom("Boardroom", 20)

		f.addBooking(room, user, dayAt(8, 0), dayAt(9, 0), entity.BookingStatusActive)

		availability, err := newSvc(f).GetAvailability(ctx, date)
		require.NoError(t, err)

		slots := availability[0].AvailableSlots
		require.Len(t, slots, 1)
		assert.True(t, slots[0].Start.Equal(dayAt(9, 0)))
		assert.True(t, slots[0].End.Equal(dayAt(18, 0)))
	})

	t.Run("bookings spilling past the window are clipped", func(t *testing.T) {
		f := newFixture()
		user := f.addUser("User One", "user1@test.com", entity.RoleUser)
		room := f.addRoom("Boardroom", 20)

		// Starts before 08:00 and ends inside the window
		f.addBooking(room, user, dayAt(7, 0), dayAt(9, 0), entity.BookingStatusActive)
		// Starts inside and ends after 18:00
		f.addBooking(room, user, dayAt(17, 0), dayAt(19, 0), entity.BookingStatusActive)

		availability, err := newSvc(f).GetAvailability(ctx, date)
		require.NoError(t, err)

		slots := availability[0].AvailableSlots
		require.Len(t, slots, 1)
		assert.True(t, slots[0].Start.Equal(dayAt(9, 0)))
		assert.True(t, slots[0].End.Equal(dayAt(17, 0)))
	})

	t.Run("fully booked day has no free slots", func(t *testing.T) {
		f := newFixture()
		user := f.addUser("User One", "user1@test.com", entity.RoleUser)
		room := f.addRoom("Boardroom", 20)

		f.addBooking(room, user, dayAt(8, 0), dayAt(18, 0), entity.BookingStatusActive)

		availability, err := newSvc(f).GetAvailability(ctx, date)
		require.NoError(t, err)
		assert.Empty(t, availability[0].AvailableSlots)
	})

	t.Run("overlapping busy intervals merge in the sweep", func(t *testing.T) {
		f := newFixture()
		user := f.addUser("User One", "user1@test.com", entity.RoleUser)
		room := f.addRoom("Boardroom", 20)

		f.addBooking(room, user, dayAt(9, 0), dayAt(11, 0), entity.BookingStatusActive)
		f.addBooking(room, user, dayAt(10, 0), dayAt(12, 0), entity.BookingStatusActive)

		availability, err := newSvc(f).GetAvailability(ctx, date)
		require.NoError(t, err)

		slots := availability[0].AvailableSlots
		require.Len(t, slots, 2)
		assert.Equal(t, []response.TimeSlot{
			{Start: dayAt(8, 0), End: dayAt(9, 0)},
			{Start: dayAt(12, 0), End: dayAt(18, 0)},
		}, slots)
	})

	t.Run("cancelled bookings do not block availability", func(t *testing.T) {
		f := newFixture()
		user := f.addUser("User One", "user1@test.com", entity.RoleUser)
		room := f.addRoom("Boardroom", 20)

		f.addBooking(room, user, dayAt(9, 0), dayAt(17, 0), entity.BookingStatusCancelled)

		availability, err := newSvc(f).GetAvailability(ctx, date)
		require.NoError(t, err)
		require.Len(t, availability[0].AvailableSlots, 1)
	})

	t.Run("rooms come back sorted by name", func(t *testing.T) {
		f := newFixture()
		f.addRoom("Small Huddle", 4)
		f.addRoom("Boardroom", 20)
		f.addRoom("Conference Room A", 10)

		availability, err := newSvc(f).GetAvailability(ctx, date)
		require.NoError(t, err)
		require.Len(t, availability, 3)
		assert.Equal(t, "Boardroom", availability[0].RoomName)
		assert.Equal(t, "Conference Room A", availability[1].RoomName)
		assert.Equal(t, "Small Huddle", availability[2].RoomName)
	})

	t.Run("free and busy slots never overlap", func(t *testing.T) {
		f := newFixture()
		user := f.addUser("User One", "user1@test.com", entity.RoleUser)
		room := f.addRoom("Boardroom", 20)

		busy := []response.TimeSlot{
			{Start: dayAt(8, 30), End: dayAt(9, 15)},
			{Start: dayAt(9, 15), End: dayAt(10, 0)},
			{Start: dayAt(13, 0), End: dayAt(16, 45)},
		}
		for _, b := range busy {
			f.addBooking(room, user, b.Start, b.End, entity.BookingStatusActive)
		}

		availability, err := newSvc(f).GetAvailability(ctx, date)
		require.NoError(t, err)

		var total time.Duration
		for _, slot := range availability[0].AvailableSlots {
			require.True(t, slot.Start.Before(slot.End), "zero-width or inverted slot")
			total += slot.End.Sub(slot.Start)
			for _, b := range busy {
				overlap := slot.Start.Before(b.End) && slot.End.After(b.Start)
				assert.False(t, overlap, "free slot %v overlaps busy %v", slot, b)
			}
		}

		var busyTotal time.Duration
		for _, b := range busy {
			busyTotal += b.End.Sub(b.Start)
		}
		assert.Equal(t, 10*time.Hour-busyTotal, total)
	})
}

func TestParseWorkingWindow(t *testing.T) {
	t.Run("valid date yields the working window", func(t *testing.T) {
		start, end, err := parseWorkingWindow("2026-03-10")
		require.NoError(t, err)
		assert.True(t, start.Equal(dayAt(8, 0)))
		assert.True(t, end.Equal(dayAt(18, 0)))
	})

	t.Run("overflow day normalizes forward", func(t *testing.T) {
		// April has 30 days; day 31 rolls into May 1
		start, _, err := parseWorkingWindow("2026-04-31")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC), start)
	})

	t.Run("bad inputs are rejected", func(t *testing.T) {
		for _, input := range []string{
			"",
			"2026-3-10",
			"10-03-2026",
			"2026-03-10T00:00:00Z",
			"2026-13-01",
			"2026-00-10",
			"2026-01-32",
			"2026-01-00",
			"not-a-date",
		} {
			_, _, err := parseWorkingWindow(input)
			require.Error(t, err, "input %q", input)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err), "input %q", input)
		}
	})
}
