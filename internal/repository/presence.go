package repository

import (
	"context"
	"strconv"
	"time"

	"chat_platform/internal/domain"
	"chat_platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type PresenceRepository interface {
	Set(ctx context.Context, userID uuid.UUID, status string, ttl time.Duration) error
	Get(ctx context.Context, userID uuid.UUID) (*domain.Presence, error)
	Touch(ctx context.Context, userID uuid.UUID, ttl time.Duration) (bool, error)
}

type presenceRepository struct {
	redis *redis.Client
	log   logger.Logger
}

func NewPresenceRepository(redis *redis.Client, log logger.Logger) PresenceRepository {
	return &presenceRepository{redis: redis, log: log}
}

func presenceKey(userID uuid.UUID) string {
	return "presence:" + userID.String()
}

func (r *presenceRepository) Set(ctx context.Context, userID uuid.UUID, status string, ttl time.Duration) error {
	key := presenceKey(userID)

	if err := r.redis.HSet(ctx, key, "status", status, "last_seen", time.Now().Unix()).Err(); err != nil {
		r.log.Error("Failed to set presence", "error", err, "user_id", userID)
		return err
	}
	if err := r.redis.Expire(ctx, key, ttl).Err(); err != nil {
		r.log.Error("Failed to set presence TTL", "error", err, "user_id", userID)
		return err
	}

	return nil
}

// Get reads the status for a user. A missing or expired key reads as offline.
func (r *presenceRepository) Get(ctx context.Context, userID uuid.UUID) (*domain.Presence, error) {
	fields, err := r.redis.HGetAll(ctx, presenceKey(userID)).Result()
	if err != nil {
		r.log.Error("Failed to get presence", "error", err, "user_id", userID)
		return nil, err
	}

	presence := &domain.Presence{
		UserID: userID,
		Status: domain.StatusOffline,
	}

	if status, ok := fields["status"]; ok && status != "" {
		presence.Status = status
	}
	if raw, ok := fields["last_seen"]; ok {
		if sec, err := strconv.ParseInt(raw, 10, 64); err == nil {
			presence.LastSeenAt = time.Unix(sec, 0)
		}
	}

	return presence, nil
}

// Touch re-arms the TTL without changing status. Returns false when the key
// no longer exists, meaning the status already decayed.
func (r *presenceRepository) Touch(ctx context.Context, userID uuid.UUID, ttl time.Duration) (bool, error) {
	ok, err := r.redis.Expire(ctx, presenceKey(userID), ttl).Result()
	if err != nil {
		r.log.Error("Failed to touch presence", "error", err, "user_id", userID)
		return false, err
	}
	return ok, nil
}
