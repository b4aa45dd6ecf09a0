package response

import "time"

type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type RoomAvailability struct {
	RoomID         string     `json:"room_id"`
	RoomName       string     `json:"room_name"`
	Capacity       int        `json:"capacity"`
	AvailableSlots []TimeSlot `json:"available_slots"`
}
