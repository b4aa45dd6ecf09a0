package response

import (
	"time"

	"room-booking/internal/data/entity"
)

type RoomResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Capacity  int       `json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
}

func RoomToResponse(room *entity.Room) RoomResponse {
	return RoomResponse{
		ID:        room.ID.String(),
		Name:      room.Name,
		Capacity:  room.Capacity,
		CreatedAt: room.CreatedAt,
	}
}
