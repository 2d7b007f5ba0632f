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

type UserService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, displayName string, avatarURL *string) (*domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      logger.Logger
}

func NewUserService(userRepo repository.UserRepository, log logger.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

func (s *userService) GetMe(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) UpdateMe(ctx context.Context, userID uuid.UUID, displayName string, avatarURL *string) (*domain.User, error) {
	displayName = strings.TrimSpace(displayName)
	if len(displayName) > 100 {
		return nil, errors.New("display name is too long (max 100 characters)")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if displayName != "" {
		user.DisplayName = displayName
	}
	if avatarURL != nil {
		user.AvatarURL = avatarURL
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return sanitizeUser(user), nil
}

// GetByID returns a public profile: the email is blanked along with the hash.
func (s *userService) GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	public := sanitizeUser(user)
	public.Email = ""
	return public, nil
}

func (s *userService) Search(ctx context.Context, query string, limit int) ([]*domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	users, err := s.userRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.User, 0, len(users))
	for _, u := range users {
		public := sanitizeUser(u)
		public.Email = ""
		out = append(out, public)
	}

	return out, nil
}
