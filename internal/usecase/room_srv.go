package usecase

import (
	"context"
	"time"

	"room-booking/internal/data/entity"
	"room-booking/internal/data/repository"
	"room-booking/internal/dto/request"
	"room-booking/internal/dto/response"
	"room-booking/pkg/apperrors"
	"room-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RoomService interface {
	CreateRoom(ctx context.Context, req *request.CreateRoomRequest) (*response.RoomResponse, error)
	GetRooms(ctx context.Context) ([]response.RoomResponse, error)
}

type roomService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewRoomService(repo *repository.Repository, log *zap.Logger) RoomService {
	return &roomService{
		repo: repo,
		log:  log.With(zap.String("service", "room")),
	}
}

func (s *roomService) CreateRoom(ctx context.Context, req *request.CreateRoomRequest) (*response.RoomResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create room validation failed", zap.Any("errors", errs))
		return nil, apperrors.Validation("validation failed: " + utils.FormatValidationErrors(errs))
	}

	now := time.Now()
	room := &entity.Room{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:     req.Name,
		Capacity: req.Capacity,
	}

	if err := s.repo.Room.Create(ctx, room); err != nil {
		s.log.Error("Failed to create room", zap.Error(err), zap.String("name", req.Name))
		return nil, apperrors.Internal("failed to create room", err)
	}

	s.log.Info("Room created",
		zap.String("room_id", room.ID.String()),
		zap.String("name", room.Name),
		zap.Int("capacity", room.Capacity),
	)

	resp := response.RoomToResponse(room)
	return &resp, nil
}

func (s *roomService) GetRooms(ctx context.Context) ([]response.RoomResponse, error) {
	rooms, err := s.repo.Room.FindAllSortedByName(ctx)
	if err != nil {
		s.log.Error("Failed to list rooms", zap.Error(err))
		return nil, apperrors.Internal("failed to list rooms", err)
	}

	responses := make([]response.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		responses = append(responses, response.RoomToResponse(room))
	}

	return responses, nil
}
