package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"chat_platform/internal/domain"
	"chat_platform/internal/repository"
	"chat_platform/pkg/logger"

	"github.com/google/uuid"
)

type RoomService interface {
	Create(ctx context.Context, ownerID uuid.UUID, name string, description *string, isPrivate bool) (*domain.Room, error)
	GetByID(ctx context.Context, roomID uuid.UUID) (*domain.Room, error)
	List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Room, error)
	Delete(ctx context.Context, roomID, userID uuid.UUID) error
	Join(ctx context.Context, roomID, userID uuid.UUID) (*domain.RoomMember, error)
	Leave(ctx context.Context, roomID, userID uuid.UUID) error
	GetMembers(ctx context.Context, roomID uuid.UUID) ([]*domain.RoomMember, error)
	IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
}

type roomService struct {
	roomRepo repository.RoomRepository
	log      logger.Logger
}

func NewRoomService(roomRepo repository.RoomRepository, log logger.Logger) RoomService {
	return &roomService{
		roomRepo: roomRepo,
		log:      log,
	}
}

func (s *roomService) Create(ctx context.Context, ownerID uuid.UUID, name string, description *string, isPrivate bool) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("room name is required")
	}
	if len(name) > 100 {
		return nil, errors.New("room name is too long (max 100 characters)")
	}

	room := &domain.Room{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		IsPrivate:   isPrivate,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.roomRepo.Create(ctx, room); err != nil {
		s.log.Error("Failed to create room", "error", err)
		return nil, errors.New("failed to create room")
	}

	// The owner is always a member of their own room
	member := &domain.RoomMember{
		RoomID:   room.ID,
		UserID:   ownerID,
		Role:     domain.RoomRoleOwner,
		JoinedAt: time.Now(),
	}
	if err := s.roomRepo.AddMember(ctx, member); err != nil {
		s.log.Error("Failed to add owner as member", "error", err, "room_id", room.ID)
		return nil, errors.New("failed to create room")
	}

	return room, nil
}

func (s *roomService) GetByID(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	return s.roomRepo.GetByID(ctx, roomID)
}

func (s *roomService) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Room, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	return s.roomRepo.List(ctx, userID, limit, offset)
}

func (s *roomService) Delete(ctx context.Context, roomID, userID uuid.UUID) error {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}

	if room.OwnerID != userID {
		return errors.New("only owner can delete room")
	}

	return s.roomRepo.Delete(ctx, roomID)
}

func (s *roomService) Join(ctx context.Context, roomID, userID uuid.UUID) (*domain.RoomMember, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if room.IsPrivate && room.OwnerID != userID {
		return nil, errors.New("room is private")
	}

	member := &domain.RoomMember{
		RoomID:   roomID,
		UserID:   userID,
		Role:     domain.RoomRoleMember,
		JoinedAt: time.Now(),
	}

	if err := s.roomRepo.AddMember(ctx, member); err != nil {
		return nil, errors.New("failed to join room")
	}

	return member, nil
}

func (s *roomService) Leave(ctx context.Context, roomID, userID uuid.UUID) error {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}

	if room.OwnerID == userID {
		return errors.New("owner cannot leave their own room")
	}

	return s.roomRepo.RemoveMember(ctx, roomID, userID)
}

func (s *roomService) GetMembers(ctx context.Context, roomID uuid.UUID) ([]*domain.RoomMember, error) {
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.roomRepo.GetMembers(ctx, roomID)
}

func (s *roomService) IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error) {
	return s.roomRepo.IsMember(ctx, roomID, userID)
}
