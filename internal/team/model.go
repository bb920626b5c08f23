package team

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a row in the teams table. OwnerID must reference the one
// member whose is_team_owner flag is set.
type Team struct {
	ID        uuid.UUID
	Name      string
	OwnerID   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Invite represents a pending team invitation. The invite code is carried in
// the invitee's notification payload and consumed on acceptance.
type Invite struct {
	ID         uuid.UUID
	Email      string
	TeamID     uuid.UUID
	InviteCode string
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Expired reports whether the invite's window has passed at the given time.
func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
