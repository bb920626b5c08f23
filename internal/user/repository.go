package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when a user with the same email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// Repository provides operations on the users table.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]User, error)
	UpdateMembership(ctx context.Context, id uuid.UUID, m Membership) error
	SetTeamOwner(ctx context.Context, id uuid.UUID, isOwner bool) error
	ResetMembershipByTeam(ctx context.Context, teamID uuid.UUID) error
}
