package repository

import (
	"chat_platform/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type Repositories struct {
	User         UserRepository
	Room         RoomRepository
	Chat         ChatRepository
	Connection   ConnectionRepository
	Notification NotificationRepository
	Presence     PresenceRepository
	RateLimit    RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db, log),
		Room:         NewRoomRepository(db, log),
		Chat:         NewChatRepository(db, log),
		Connection:   NewConnectionRepository(db, log),
		Notification: NewNotificationRepository(db, log),
		Presence:     NewPresenceRepository(redis, log),
		RateLimit:    NewRateLimitRepository(redis, log),
	}
}
