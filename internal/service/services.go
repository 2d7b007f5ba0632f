package service

import (
	"chat_platform/internal/config"
	"chat_platform/internal/repository"
	"chat_platform/pkg/logger"
)

type Services struct {
	Auth         AuthService
	User         UserService
	Room         RoomService
	Chat         ChatService
	Connection   ConnectionService
	Notification NotificationService
	Presence     PresenceService
	RateLimit    RateLimitService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, log logger.Logger) *Services {
	notification := NewNotificationService(repos.Notification, log)

	return &Services{
		Auth:         NewAuthService(repos.User, cfg.JWT, log),
		User:         NewUserService(repos.User, log),
		Room:         NewRoomService(repos.Room, log),
		Chat:         NewChatService(repos.Chat, repos.Room, repos.User, log),
		Connection:   NewConnectionService(repos.Connection, repos.User, notification, log),
		Notification: notification,
		Presence:     NewPresenceService(repos.Presence, cfg.Presence.TTL, log),
		RateLimit:    NewRateLimitService(repos.RateLimit, log),
	}
}
