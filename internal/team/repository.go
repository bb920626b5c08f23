package team

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// ErrInviteNotFound is returned when an invite record is not found.
var ErrInviteNotFound = errors.New("invite not found")

// ErrDuplicateInvite is returned when an invite for the same email and team
// already exists.
var ErrDuplicateInvite = errors.New("invite already pending for this email")

// Repository provides CRUD operations on the teams table.
type Repository interface {
	Create(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	UpdateOwner(ctx context.Context, id, ownerID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InviteRepository provides operations on the team_invites table.
type InviteRepository interface {
	CreateInvite(ctx context.Context, inv *Invite) error
	GetInviteByCode(ctx context.Context, code string) (*Invite, error)
	ListInvitesByTeam(ctx context.Context, teamID uuid.UUID) ([]Invite, error)
	ExtendInvite(ctx context.Context, code string, expiresAt time.Time) error
	DeleteInvite(ctx context.Context, code string) error
	DeleteInvitesByTeam(ctx context.Context, teamID uuid.UUID) error
}
