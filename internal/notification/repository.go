package notification

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a notification record is not found.
var ErrNotFound = errors.New("notification not found")

// Repository provides operations on the notifications table.
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	Delete(ctx context.Context, id, userID uuid.UUID) error
	// DeleteByInviteCode removes the notification that carried a consumed
	// invite. Used for best-effort cleanup after acceptance; a missing row
	// is not an error.
	DeleteByInviteCode(ctx context.Context, userID uuid.UUID, inviteCode string) error
}
