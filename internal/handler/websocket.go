package handler

import (
	"net/http"
	"strings"

	"chat_platform/internal/service"
	"chat_platform/internal/ws"
	"chat_platform/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from a separate origin in development
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub         *ws.Hub
	authService service.AuthService
	chatService service.ChatService
	roomService service.RoomService
	log         logger.Logger
}

func NewWebSocketHandler(hub *ws.Hub, authService service.AuthService, chatService service.ChatService, roomService service.RoomService, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
		chatService: chatService,
		roomService: roomService,
		log:         log,
	}
}

// Serve authenticates the socket, upgrades it and hands it to the hub.
// Browsers cannot set headers on websocket requests, so the token also
// comes as a query parameter.
func (h *WebSocketHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	user, err := h.authService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Websocket upgrade failed", "error", err, "user_id", user.ID)
		return
	}

	client := ws.NewClient(h.hub, conn, user.ID, user.Username, h.chatService, h.roomService, h.log)
	h.hub.Register(client)

	h.log.Info("Websocket connected", "user_id", user.ID, "username", user.Username)
}
