package user

import (
	"time"

	"github.com/google/uuid"
)

// Account types a user can hold. A solo user owns only personal content; a
// team member additionally sees every row tagged with their team.
const (
	AccountSingle     = "single"
	AccountTeamMember = "team_member"
)

// User represents a row in the users table.
//
// IsTeamOwner is meaningful only when AccountType is "team_member"; at most
// one user per team carries it. The application, not the database, enforces
// that.
type User struct {
	ID           uuid.UUID
	Email        string
	DisplayName  string
	PasswordHash string
	AccountType  string
	TeamID       *uuid.UUID // nil for solo users
	IsTeamOwner  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Membership is the triple of fields mutated together by every account-type
// transition.
type Membership struct {
	AccountType string
	TeamID      *uuid.UUID
	IsTeamOwner bool
}

// SoloMembership is the reset state applied on downgrade and team deletion.
func SoloMembership() Membership {
	return Membership{AccountType: AccountSingle, TeamID: nil, IsTeamOwner: false}
}
