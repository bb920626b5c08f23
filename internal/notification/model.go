package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification types.
const (
	TypeTeamInvitation = "team_invitation"
)

// Notification represents a row in the notifications table. Data is a JSON
// payload whose shape depends on Type.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Type      string
	Data      InvitePayload
	IsRead    bool
	CreatedAt time.Time
}

// InvitePayload is the Data payload for team_invitation notifications.
type InvitePayload struct {
	TeamID     uuid.UUID `json:"team_id"`
	TeamName   string    `json:"team_name"`
	InviteCode string    `json:"invite_code"`
}
