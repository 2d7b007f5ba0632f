package handler

import (
	"net/http"
	"time"

	"chat_platform/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type HealthHandler struct {
	db    *pgxpool.Pool
	redis *redis.Client
	log   logger.Logger
}

func NewHealthHandler(db *pgxpool.Pool, redisClient *redis.Client, log logger.Logger) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redisClient,
		log:   log,
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "chat-platform",
		"time":    time.Now().UTC(),
	})
}

// Ready reports whether both backing stores answer.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()

	checks := gin.H{"postgres": "ok", "redis": "ok"}
	healthy := true

	if err := h.db.Ping(ctx); err != nil {
		h.log.Error("Postgres ping failed", "error", err)
		checks["postgres"] = err.Error()
		healthy = false
	}

	if err := h.redis.Ping(ctx).Err(); err != nil {
		h.log.Error("Redis ping failed", "error", err)
		checks["redis"] = err.Error()
		healthy = false
	}

	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"checks": checks})
}
