package service

import (
	"context"
	"errors"
	"time"

	"chat_platform/internal/domain"
	"chat_platform/internal/repository"
	"chat_platform/pkg/logger"

	"github.com/google/uuid"
)

type PresenceService interface {
	SetStatus(ctx context.Context, userID uuid.UUID, status string) error
	GetStatus(ctx context.Context, userID uuid.UUID) (*domain.Presence, error)
	Heartbeat(ctx context.Context, userID uuid.UUID) error
}

type presenceService struct {
	presenceRepo repository.PresenceRepository
	ttl          time.Duration
	log          logger.Logger
}

func NewPresenceService(presenceRepo repository.PresenceRepository, ttl time.Duration, log logger.Logger) PresenceService {
	return &presenceService{
		presenceRepo: presenceRepo,
		ttl:          ttl,
		log:          log,
	}
}

func (s *presenceService) SetStatus(ctx context.Context, userID uuid.UUID, status string) error {
	if !domain.IsValidStatus(status) {
		return errors.New("invalid status")
	}

	// Offline is represented by key absence, so an explicit offline gets a
	// short grace TTL instead of the full window
	ttl := s.ttl
	if status == domain.StatusOffline {
		ttl = 5 * time.Second
	}

	return s.presenceRepo.Set(ctx, userID, status, ttl)
}

func (s *presenceService) GetStatus(ctx context.Context, userID uuid.UUID) (*domain.Presence, error) {
	return s.presenceRepo.Get(ctx, userID)
}

// Heartbeat re-arms the TTL. If the status already decayed the user is put
// back online.
func (s *presenceService) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	ok, err := s.presenceRepo.Touch(ctx, userID, s.ttl)
	if err != nil {
		return err
	}
	if !ok {
		return s.presenceRepo.Set(ctx, userID, domain.StatusOnline, s.ttl)
	}
	return nil
}
