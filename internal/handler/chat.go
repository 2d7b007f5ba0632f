package handler

import (
	"net/http"
	"strconv"

	"chat_platform/internal/service"
	"chat_platform/internal/ws"
	"chat_platform/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatHandler struct {
	chatService service.ChatService
	hub         *ws.Hub
	log         logger.Logger
}

func NewChatHandler(chatService service.ChatService, hub *ws.Hub, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		hub:         hub,
		log:         log,
	}
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	messages, err := h.chatService.GetMessages(c.Request.Context(), roomID, userID.(uuid.UUID), limit, offset)
	if err != nil {
		statusCode := http.StatusBadRequest
		switch err.Error() {
		case "room not found":
			statusCode = http.StatusNotFound
		case "not a room member":
			statusCode = http.StatusForbidden
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, messages)
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage is the REST fallback for clients without a socket. It goes
// through the same persist-then-broadcast path as the relay.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	roomID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid room ID"})
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chatService.SendMessage(c.Request.Context(), roomID, userID.(uuid.UUID), req.Content)
	if err != nil {
		statusCode := http.StatusBadRequest
		switch err.Error() {
		case "room not found":
			statusCode = http.StatusNotFound
		case "not a room member":
			statusCode = http.StatusForbidden
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	h.hub.BroadcastChatMessage(message)
	c.JSON(http.StatusCreated, message)
}
