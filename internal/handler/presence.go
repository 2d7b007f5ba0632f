package handler

import (
	"net/http"

	"chat_platform/internal/service"
	"chat_platform/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PresenceHandler struct {
	presenceService service.PresenceService
	log             logger.Logger
}

func NewPresenceHandler(presenceService service.PresenceService, log logger.Logger) *PresenceHandler {
	return &PresenceHandler{
		presenceService: presenceService,
		log:             log,
	}
}

type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *PresenceHandler) SetStatus(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.presenceService.SetStatus(c.Request.Context(), userID.(uuid.UUID), req.Status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

func (h *PresenceHandler) GetStatus(c *gin.Context) {
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	presence, err := h.presenceService.GetStatus(c.Request.Context(), targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, presence)
}

func (h *PresenceHandler) Heartbeat(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.presenceService.Heartbeat(c.Request.Context(), userID.(uuid.UUID)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}
