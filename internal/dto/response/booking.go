package response

import (
	"time"

	"room-booking/internal/data/entity"
)

type BookingResponse struct {
	ID        string               `json:"id"`
	RoomID    string               `json:"room_id"`
	RoomName  string               `json:"room_name,omitempty"`
	UserID    string               `json:"user_id"`
	UserName  string               `json:"user_name,omitempty"`
	StartTime time.Time            `json:"start_time"`
	EndTime   time.Time            `json:"end_time"`
	Status    entity.BookingStatus `json:"status"`
	CreatedAt time.Time            `json:"created_at"`
}

// ConflictingBooking is the subset of a booking returned inside a
// conflict error so the caller can show what is blocking the slot.
type ConflictingBooking struct {
	ID        string    `json:"id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	UserName  string    `json:"user_name,omitempty"`
}

// RoomBookingGroup is one entry of the admin grouped-by-room view.
type RoomBookingGroup struct {
	RoomName string            `json:"room_name"`
	Bookings []BookingResponse `json:"bookings"`
}

// BookingToResponse maps a booking entity onto the response DTO.
// roomName and userName are denormalized display values resolved by the
// service; empty strings are omitted from the JSON.
func BookingToResponse(booking *entity.Booking, roomName, userName string) BookingResponse {
	return BookingResponse{
		ID:        booking.ID.String(),
		RoomID:    booking.RoomID.String(),
		RoomName:  roomName,
		UserID:    booking.UserID.String(),
		UserName:  userName,
		StartTime: booking.StartTime,
		EndTime:   booking.EndTime,
		Status:    booking.Status,
		CreatedAt: booking.CreatedAt,
	}
}
