package request

// Times are RFC 3339 strings; the service parses and validates them so
// malformed input surfaces as a validation error, not a decode failure.
type CreateBookingRequest struct {
	RoomID    string `json:"room_id" validate:"required,uuid"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

type RescheduleBookingRequest struct {
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}
