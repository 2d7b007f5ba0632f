package handler

import (
	"net/http"
	"strings"

	"chat_platform/internal/service"
	"chat_platform/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ConnectionHandler struct {
	connectionService service.ConnectionService
	log               logger.Logger
}

func NewConnectionHandler(connectionService service.ConnectionService, log logger.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		connectionService: connectionService,
		log:               log,
	}
}

// Request creates a pending connection to the user named in the path.
func (h *ConnectionHandler) Request(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	addresseeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	conn, err := h.connectionService.Request(c.Request.Context(), userID.(uuid.UUID), addresseeID)
	if err != nil {
		statusCode := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "already") || strings.Contains(err.Error(), "declined") {
			statusCode = http.StatusConflict
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	h.log.Info("Connection requested", "connection_id", conn.ID, "requester_id", conn.RequesterID, "addressee_id", conn.AddresseeID)
	c.JSON(http.StatusCreated, conn)
}

func (h *ConnectionHandler) Accept(c *gin.Context) {
	h.decide(c, true)
}

func (h *ConnectionHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *ConnectionHandler) decide(c *gin.Context, accept bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	connectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid connection ID"})
		return
	}

	var conn interface{}
	if accept {
		conn, err = h.connectionService.Accept(c.Request.Context(), connectionID, userID.(uuid.UUID))
	} else {
		conn, err = h.connectionService.Reject(c.Request.Context(), connectionID, userID.(uuid.UUID))
	}
	if err != nil {
		statusCode := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			statusCode = http.StatusNotFound
		} else if strings.Contains(err.Error(), "only addressee") {
			statusCode = http.StatusForbidden
		} else if strings.Contains(err.Error(), "not pending") {
			statusCode = http.StatusConflict
		}
		c.JSON(statusCode, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, conn)
}

func (h *ConnectionHandler) List(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	connections, err := h.connectionService.List(c.Request.Context(), userID.(uuid.UUID), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, connections)
}
