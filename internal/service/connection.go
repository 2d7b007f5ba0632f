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

type ConnectionService interface {
	Request(ctx context.Context, requesterID, addresseeID uuid.UUID) (*domain.Connection, error)
	Accept(ctx context.Context, connectionID, userID uuid.UUID) (*domain.Connection, error)
	Reject(ctx context.Context, connectionID, userID uuid.UUID) (*domain.Connection, error)
	List(ctx context.Context, userID uuid.UUID, status string) ([]*domain.Connection, error)
}

type connectionService struct {
	connRepo     repository.ConnectionRepository
	userRepo     repository.UserRepository
	notification NotificationService
	log          logger.Logger
}

func NewConnectionService(connRepo repository.ConnectionRepository, userRepo repository.UserRepository, notification NotificationService, log logger.Logger) ConnectionService {
	return &connectionService{
		connRepo:     connRepo,
		userRepo:     userRepo,
		notification: notification,
		log:          log,
	}
}

func (s *connectionService) Request(ctx context.Context, requesterID, addresseeID uuid.UUID) (*domain.Connection, error) {
	if requesterID == addresseeID {
		return nil, errors.New("cannot connect to yourself")
	}

	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, errors.New("requester not found")
	}
	if _, err := s.userRepo.GetByID(ctx, addresseeID); err != nil {
		return nil, errors.New("user not found")
	}

	// One row per pair, in either direction
	existing, err := s.connRepo.GetBetween(ctx, requesterID, addresseeID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case domain.ConnectionStatusPending:
			return nil, errors.New("connection request already pending")
		case domain.ConnectionStatusAccepted:
			return nil, errors.New("connection already exists")
		default:
			return nil, errors.New("connection request was declined")
		}
	}

	conn := &domain.Connection{
		ID:          uuid.New(),
		RequesterID: requesterID,
		AddresseeID: addresseeID,
		Status:      domain.ConnectionStatusPending,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.connRepo.Create(ctx, conn); err != nil {
		return nil, errors.New("failed to create connection")
	}

	if _, err := s.notification.Notify(ctx, addresseeID, domain.NotificationTypeConnectionRequest, &requesterID,
		requester.Username+" sent you a connection request"); err != nil {
		s.log.Warn("Failed to notify addressee", "error", err, "connection_id", conn.ID)
	}

	return conn, nil
}

func (s *connectionService) Accept(ctx context.Context, connectionID, userID uuid.UUID) (*domain.Connection, error) {
	return s.decide(ctx, connectionID, userID, domain.ConnectionStatusAccepted)
}

func (s *connectionService) Reject(ctx context.Context, connectionID, userID uuid.UUID) (*domain.Connection, error) {
	return s.decide(ctx, connectionID, userID, domain.ConnectionStatusRejected)
}

// decide applies the one-shot pending -> accepted/rejected transition. Only
// the addressee may decide, and only while the request is pending.
func (s *connectionService) decide(ctx context.Context, connectionID, userID uuid.UUID, status string) (*domain.Connection, error) {
	conn, err := s.connRepo.GetByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	if conn.AddresseeID != userID {
		return nil, errors.New("only addressee can decide connection request")
	}
	if conn.Status != domain.ConnectionStatusPending {
		return nil, errors.New("connection is not pending")
	}

	if err := s.connRepo.UpdateStatus(ctx, connectionID, status); err != nil {
		return nil, errors.New("failed to update connection")
	}
	conn.Status = status
	conn.UpdatedAt = time.Now()

	if status == domain.ConnectionStatusAccepted {
		addressee, err := s.userRepo.GetByID(ctx, userID)
		if err == nil {
			if _, err := s.notification.Notify(ctx, conn.RequesterID, domain.NotificationTypeConnectionAccepted, &userID,
				addressee.Username+" accepted your connection request"); err != nil {
				s.log.Warn("Failed to notify requester", "error", err, "connection_id", conn.ID)
			}
		}
	}

	return conn, nil
}

func (s *connectionService) List(ctx context.Context, userID uuid.UUID, status string) ([]*domain.Connection, error) {
	switch status {
	case "", domain.ConnectionStatusPending, domain.ConnectionStatusAccepted, domain.ConnectionStatusRejected:
	default:
		return nil, errors.New("invalid connection status")
	}
	return s.connRepo.ListByUser(ctx, userID, status)
}
