package handler

import (
	"chat_platform/internal/service"
	"chat_platform/internal/ws"
	"chat_platform/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Room         *RoomHandler
	Chat         *ChatHandler
	Connection   *ConnectionHandler
	Notification *NotificationHandler
	Presence     *PresenceHandler
	WebSocket    *WebSocketHandler
	Health       *HealthHandler
}

func NewHandlers(services *service.Services, hub *ws.Hub, db *pgxpool.Pool, redisClient *redis.Client, log logger.Logger) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth, log),
		User:         NewUserHandler(services.User, log),
		Room:         NewRoomHandler(services.Room, log),
		Chat:         NewChatHandler(services.Chat, hub, log),
		Connection:   NewConnectionHandler(services.Connection, log),
		Notification: NewNotificationHandler(services.Notification, log),
		Presence:     NewPresenceHandler(services.Presence, log),
		WebSocket:    NewWebSocketHandler(hub, services.Auth, services.Chat, services.Room, log),
		Health:       NewHealthHandler(db, redisClient, log),
	}
}
