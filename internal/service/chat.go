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

const maxMessageLength = 4000

type ChatService interface {
	SendMessage(ctx context.Context, roomID, senderID uuid.UUID, content string) (*domain.ChatMessage, error)
	GetMessages(ctx context.Context, roomID, userID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	roomRepo repository.RoomRepository
	userRepo repository.UserRepository
	log      logger.Logger
}

func NewChatService(chatRepo repository.ChatRepository, roomRepo repository.RoomRepository, userRepo repository.UserRepository, log logger.Logger) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		roomRepo: roomRepo,
		userRepo: userRepo,
		log:      log,
	}
}

// SendMessage persists the message and returns the stored row. Broadcasting
// to connected sockets happens after this returns, never before.
func (s *chatService) SendMessage(ctx context.Context, roomID, senderID uuid.UUID, content string) (*domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errors.New("message content is required")
	}
	if len(content) > maxMessageLength {
		return nil, errors.New("message is too long")
	}

	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, errors.New("room not found")
	}

	isMember, err := s.roomRepo.IsMember(ctx, roomID, senderID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errors.New("not a room member")
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, errors.New("sender not found")
	}

	message := &domain.ChatMessage{
		RoomID:     roomID,
		SenderID:   senderID,
		SenderName: sender.Username,
		Content:    content,
		CreatedAt:  time.Now(),
	}

	if err := s.chatRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

func (s *chatService) GetMessages(ctx context.Context, roomID, userID uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error) {
	if _, err := s.roomRepo.GetByID(ctx, roomID); err != nil {
		return nil, errors.New("room not found")
	}

	isMember, err := s.roomRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, errors.New("not a room member")
	}

	if limit <= 0 {
		limit = 50
	} else if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	return s.chatRepo.GetMessages(ctx, roomID, limit, offset)
}
