package ws

import (
	"context"
	"encoding/json"
	"time"

	"chat_platform/internal/domain"
	"chat_platform/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 8192
	sendBufferSize = 256
	opTimeout      = 10 * time.Second
)

// ChatSender persists a chat message. Satisfied by service.ChatService.
type ChatSender interface {
	SendMessage(ctx context.Context, roomID, senderID uuid.UUID, content string) (*domain.ChatMessage, error)
}

// MembershipChecker answers whether a user belongs to a room. Satisfied by
// service.RoomService.
type MembershipChecker interface {
	IsMember(ctx context.Context, roomID, userID uuid.UUID) (bool, error)
}

// conn is the subset of *websocket.Conn the client uses; narrowed so tests
// can run the pumps against a fake.
type conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	Close() error
}

type Client struct {
	hub      *Hub
	conn     conn
	send     chan []byte
	userID   uuid.UUID
	username string

	// rooms the client has joined in this connection; touched only by readPump
	rooms map[uuid.UUID]bool

	chat       ChatSender
	membership MembershipChecker
	log        logger.Logger
}

func NewClient(hub *Hub, c conn, userID uuid.UUID, username string, chat ChatSender, membership MembershipChecker, log logger.Logger) *Client {
	c.SetReadLimit(maxFrameSize)
	return &Client{
		hub:        hub,
		conn:       c,
		send:       make(chan []byte, sendBufferSize),
		userID:     userID,
		username:   username,
		rooms:      make(map[uuid.UUID]bool),
		chat:       chat,
		membership: membership,
		log:        log,
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn("Unexpected websocket close", "error", err, "user_id", c.userID)
			}
			return
		}

		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.queue(errorPayload("bad_payload", "invalid message format"))
			continue
		}

		c.handleEvent(&env)
	}
}

func (c *Client) handleEvent(env *Envelope) {
	switch env.Type {
	case EventJoinRoom:
		c.handleJoin(env.RoomID)
	case EventLeaveRoom:
		c.handleLeave(env.RoomID)
	case EventSendMessage:
		c.handleSend(env.RoomID, env.Content)
	case EventTyping:
		if c.rooms[env.RoomID] {
			c.hub.Broadcast(env.RoomID, typingPayload(env.RoomID, c.userID, c.username))
		}
	default:
		c.queue(errorPayload("unknown_event", "unknown event type: "+env.Type))
	}
}

// handleJoin subscribes the socket to a room after checking membership
// against the database.
func (c *Client) handleJoin(roomID uuid.UUID) {
	if roomID == uuid.Nil {
		c.queue(errorPayload("bad_payload", "room_id is required"))
		return
	}
	if c.rooms[roomID] {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	isMember, err := c.membership.IsMember(ctx, roomID, c.userID)
	if err != nil {
		c.log.Error("Membership check failed", "error", err, "room_id", roomID, "user_id", c.userID)
		c.queue(errorPayload("join_failed", "could not verify room membership"))
		return
	}
	if !isMember {
		c.queue(errorPayload("not_a_member", "join the room before subscribing"))
		return
	}

	c.rooms[roomID] = true
	select {
	case c.hub.join <- subscription{client: c, roomID: roomID}:
	case <-c.hub.ctx.Done():
	}
}

func (c *Client) handleLeave(roomID uuid.UUID) {
	if !c.rooms[roomID] {
		return
	}
	delete(c.rooms, roomID)

	select {
	case c.hub.leave <- subscription{client: c, roomID: roomID}:
	case <-c.hub.ctx.Done():
	}
}

// handleSend persists first and broadcasts only after the insert succeeded.
// A failed insert is reported back to the sender instead of being dropped.
func (c *Client) handleSend(roomID uuid.UUID, content string) {
	if !c.rooms[roomID] {
		c.queue(errorPayload("not_joined", "join the room before sending"))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	msg, err := c.chat.SendMessage(ctx, roomID, c.userID, content)
	if err != nil {
		c.log.Warn("Failed to persist message", "error", err, "room_id", roomID, "user_id", c.userID)
		c.queue(errorPayload("send_failed", err.Error()))
		return
	}

	c.queue(ackPayload(msg.ID))
	c.hub.Broadcast(roomID, chatMessagePayload(msg))
}

// queue puts a payload on the client's own send channel. The hub may close
// the channel concurrently on disconnect, hence the recover.
func (c *Client) queue(payload []byte) {
	defer func() { _ = recover() }()
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
