package ws

import (
	"encoding/json"

	"chat_platform/internal/domain"

	"github.com/google/uuid"
)

// Inbound event types.
const (
	EventJoinRoom    = "join_room"
	EventLeaveRoom   = "leave_room"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
)

// Outbound event types.
const (
	EventChatMessage = "chat_message"
	EventUserJoined  = "user_joined"
	EventUserLeft    = "user_left"
	EventAck         = "ack"
	EventError       = "error"
)

// Envelope is the wire format for client events. Every frame carries a type;
// the remaining fields depend on it.
type Envelope struct {
	Type    string    `json:"type"`
	RoomID  uuid.UUID `json:"room_id,omitempty"`
	Content string    `json:"content,omitempty"`
}

type outboundEvent struct {
	Type      string              `json:"type"`
	RoomID    *uuid.UUID          `json:"room_id,omitempty"`
	UserID    *uuid.UUID          `json:"user_id,omitempty"`
	Username  string              `json:"username,omitempty"`
	Message   *domain.ChatMessage `json:"message,omitempty"`
	MessageID int64               `json:"message_id,omitempty"`
	Code      string              `json:"code,omitempty"`
	Error     string              `json:"error,omitempty"`
}

func chatMessagePayload(msg *domain.ChatMessage) []byte {
	payload, _ := json.Marshal(outboundEvent{Type: EventChatMessage, Message: msg})
	return payload
}

func ackPayload(messageID int64) []byte {
	payload, _ := json.Marshal(outboundEvent{Type: EventAck, MessageID: messageID})
	return payload
}

func errorPayload(code, message string) []byte {
	payload, _ := json.Marshal(outboundEvent{Type: EventError, Code: code, Error: message})
	return payload
}

func membershipPayload(eventType string, roomID, userID uuid.UUID, username string) []byte {
	payload, _ := json.Marshal(outboundEvent{
		Type:     eventType,
		RoomID:   &roomID,
		UserID:   &userID,
		Username: username,
	})
	return payload
}

func typingPayload(roomID, userID uuid.UUID, username string) []byte {
	payload, _ := json.Marshal(outboundEvent{
		Type:     EventTyping,
		RoomID:   &roomID,
		UserID:   &userID,
		Username: username,
	})
	return payload
}
