package request

type CreateRoomRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Capacity int    `json:"capacity" validate:"required,min=1,max=100"`
}
