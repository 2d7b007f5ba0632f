package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Type      string     `json:"type"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Body      string     `json:"body"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`
}

const (
	NotificationTypeConnectionRequest  = "connection_request"
	NotificationTypeConnectionAccepted = "connection_accepted"
	NotificationTypeMessage            = "message"
	NotificationTypeSystem             = "system"
)
