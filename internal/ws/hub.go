// Package ws is the realtime relay: it tracks connected sockets, room
// subscriptions, and fans persisted chat messages out to room members.
package ws

import (
	"context"
	"time"

	"chat_platform/internal/domain"
	"chat_platform/pkg/logger"

	"github.com/google/uuid"
)

// PresenceSetter is the subset of the presence service the hub needs.
type PresenceSetter interface {
	SetStatus(ctx context.Context, userID uuid.UUID, status string) error
}

type subscription struct {
	client *Client
	roomID uuid.UUID
}

type roomBroadcast struct {
	roomID  uuid.UUID
	payload []byte
}

// Hub is a single-goroutine event loop. All maps are owned by Run; the
// channels are the only way in.
type Hub struct {
	clients   map[*Client]bool
	rooms     map[uuid.UUID]map[*Client]bool
	userConns map[uuid.UUID]int

	register   chan *Client
	unregister chan *Client
	join       chan subscription
	leave      chan subscription
	broadcast  chan roomBroadcast

	presence PresenceSetter
	log      logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewHub(presence PresenceSetter, log logger.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		userConns:  make(map[uuid.UUID]int),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan subscription),
		leave:      make(chan subscription),
		broadcast:  make(chan roomBroadcast, 256),
		presence:   presence,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// Register hands a new authenticated connection to the hub. The hub starts
// the client's pumps.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
		client.conn.Close()
	}
}

// BroadcastChatMessage fans an already-persisted message out to the room.
// Used by both the socket path and the REST send path.
func (h *Hub) BroadcastChatMessage(msg *domain.ChatMessage) {
	h.Broadcast(msg.RoomID, chatMessagePayload(msg))
}

func (h *Hub) Broadcast(roomID uuid.UUID, payload []byte) {
	select {
	case h.broadcast <- roomBroadcast{roomID: roomID, payload: payload}:
	case <-h.ctx.Done():
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.clients[client] = true
			h.userConns[client.userID]++
			if h.userConns[client.userID] == 1 {
				h.setPresence(client.userID, domain.StatusOnline)
			}
			h.log.Info("Client connected", "user_id", client.userID, "total_clients", len(h.clients))

			go client.writePump()
			go client.readPump()

		case client := <-h.unregister:
			h.removeClient(client)

		case sub := <-h.join:
			members := h.rooms[sub.roomID]
			if members == nil {
				members = make(map[*Client]bool)
				h.rooms[sub.roomID] = members
			}
			if members[sub.client] {
				continue
			}
			members[sub.client] = true
			h.deliver(sub.roomID, membershipPayload(EventUserJoined, sub.roomID, sub.client.userID, sub.client.username))

		case sub := <-h.leave:
			if members, ok := h.rooms[sub.roomID]; ok && members[sub.client] {
				delete(members, sub.client)
				if len(members) == 0 {
					delete(h.rooms, sub.roomID)
				}
				h.deliver(sub.roomID, membershipPayload(EventUserLeft, sub.roomID, sub.client.userID, sub.client.username))
			}

		case msg := <-h.broadcast:
			h.deliver(msg.roomID, msg.payload)
		}
	}
}

// deliver writes the payload to every subscriber of the room. A client whose
// send buffer is full is dropped rather than allowed to block the loop.
func (h *Hub) deliver(roomID uuid.UUID, payload []byte) {
	members := h.rooms[roomID]
	if len(members) == 0 {
		return
	}

	var stalled []*Client
	for client := range members {
		select {
		case client.send <- payload:
		default:
			stalled = append(stalled, client)
		}
	}

	for _, client := range stalled {
		h.log.Warn("Dropping slow client", "user_id", client.userID)
		h.removeClient(client)
	}
}

func (h *Hub) removeClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)

	for roomID, members := range h.rooms {
		if members[client] {
			delete(members, client)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			} else {
				h.deliver(roomID, membershipPayload(EventUserLeft, roomID, client.userID, client.username))
			}
		}
	}

	h.userConns[client.userID]--
	if h.userConns[client.userID] <= 0 {
		delete(h.userConns, client.userID)
		h.setPresence(client.userID, domain.StatusOffline)
	}

	close(client.send)
	client.conn.Close()
	h.log.Info("Client disconnected", "user_id", client.userID, "total_clients", len(h.clients))
}

// setPresence is fire and forget; presence is best effort on connect and
// disconnect (the TTL covers crashes anyway).
func (h *Hub) setPresence(userID uuid.UUID, status string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.presence.SetStatus(ctx, userID, status); err != nil {
			h.log.Warn("Failed to update presence", "error", err, "user_id", userID, "status", status)
		}
	}()
}

func (h *Hub) closeAll() {
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
		client.conn.Close()
	}
	h.rooms = make(map[uuid.UUID]map[*Client]bool)
}

// Shutdown stops the event loop and closes every connection.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.cancel()

	select {
	case <-h.done:
		return nil
	case <-time.After(timeout):
		return context.DeadlineExceeded
	}
}
