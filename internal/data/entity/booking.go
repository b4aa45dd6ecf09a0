package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking is a reservation of a room for a half-open interval
// [StartTime, EndTime). Cancelled bookings are kept for history and do
// not participate in conflict checks.
type Booking struct {
	Base
	RoomID    uuid.UUID     `db:"room_id"`
	UserID    uuid.UUID     `db:"user_id"`
	StartTime time.Time     `db:"start_time"`
	EndTime   time.Time     `db:"end_time"`
	Status    BookingStatus `db:"status"`
}
