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

type NotificationService interface {
	Notify(ctx context.Context, userID uuid.UUID, ntype string, actorID *uuid.UUID, body string) (*domain.Notification, error)
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	log              logger.Logger
}

func NewNotificationService(notificationRepo repository.NotificationRepository, log logger.Logger) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		log:              log,
	}
}

func (s *notificationService) Notify(ctx context.Context, userID uuid.UUID, ntype string, actorID *uuid.UUID, body string) (*domain.Notification, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("notification body is required")
	}
	if len(body) > 500 {
		return nil, errors.New("notification body is too long")
	}

	switch ntype {
	case domain.NotificationTypeConnectionRequest, domain.NotificationTypeConnectionAccepted,
		domain.NotificationTypeMessage, domain.NotificationTypeSystem:
	default:
		return nil, errors.New("invalid notification type")
	}

	n := &domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      ntype,
		ActorID:   actorID,
		Body:      body,
		IsRead:    false,
		CreatedAt: time.Now(),
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, err
	}

	return n, nil
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 50
	} else if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return s.notificationRepo.ListByUser(ctx, userID, unreadOnly, limit, offset)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}
