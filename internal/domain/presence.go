package domain

import (
	"time"

	"github.com/google/uuid"
)

// Presence is the ephemeral status record for a user. It lives in Redis with
// a TTL, so a user whose client stops heartbeating decays to offline.
type Presence struct {
	UserID     uuid.UUID `json:"user_id"`
	Status     string    `json:"status"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

const (
	StatusOnline  = "online"
	StatusAway    = "away"
	StatusBusy    = "busy"
	StatusOffline = "offline"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusOnline, StatusAway, StatusBusy, StatusOffline:
		return true
	}
	return false
}
