package repository

import (
	"context"
	"fmt"
	"time"

	"room-booking/internal/data/entity"
	"room-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error)
	UpdateTimes(ctx context.Context, id uuid.UUID, start, end time.Time) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error

	// Business queries
	FindOverlappingActive(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error)
	FindActiveInRange(ctx context.Context, start, end time.Time) ([]*entity.Booking, error)
	FindActiveSorted(ctx context.Context) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, room_id, user_id, start_time, end_time, status, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.UserID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, room_id, user_id, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.UserID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("room_id", booking.RoomID.String()),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY start_time DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to find bookings by user ID",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find bookings by user ID %s: %w", userID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows, r.log)
}

// FindOverlappingActive returns every active booking in the room whose
// half-open interval overlaps [start, end). Touching endpoints do not
// overlap. excludeID skips the booking being rescheduled.
func (r *bookingRepository) FindOverlappingActive(ctx context.Context, roomID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE room_id = $1
		  AND status = 'active'
		  AND start_time < $3
		  AND end_time > $2
	`
	args := []any{roomID, start, end}

	if excludeID != nil {
		query += ` AND id <> $4`
		args = append(args, *excludeID)
	}

	query += ` ORDER BY start_time ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.String("room_id", roomID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find overlapping bookings for room %s: %w", roomID.String(), err)
	}
	defer rows.Close()

	return collectBookings(rows, r.log)
}

func (r *bookingRepository) FindActiveInRange(ctx context.Context, start, end time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'active'
		  AND start_time < $2
		  AND end_time > $1
	`

	rows, err := r.db.Query(ctx, query, start, end)
	if err != nil {
		r.log.Error("Failed to find active bookings in range",
			zap.Error(err),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find active bookings in range: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows, r.log)
}

func (r *bookingRepository) FindActiveSorted(ctx context.Context) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = 'active'
		ORDER BY start_time ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list active bookings", zap.Error(err))
		return nil, fmt.Errorf("list active bookings: %w", err)
	}
	defer rows.Close()

	return collectBookings(rows, r.log)
}

func (r *bookingRepository) UpdateTimes(ctx context.Context, id uuid.UUID, start, end time.Time) error {
	query := `
		UPDATE bookings
		SET start_time = $2, end_time = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, start, end)
	if err != nil {
		r.log.Error("Failed to update booking times",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return fmt.Errorf("update booking %s times: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func collectBookings(rows pgx.Rows, log *zap.Logger) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}
