package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool. The Data payload
// is stored in a JSONB column.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new notification record.
func (r *PostgresRepository) Create(ctx context.Context, n *Notification) error {
	payload, err := json.Marshal(n.Data)
	if err != nil {
		return fmt.Errorf("encoding notification payload: %w", err)
	}

	query := `
		INSERT INTO notifications (user_id, type, data, is_read)
		VALUES ($1, $2, $3, FALSE)
		RETURNING id, created_at`

	err = r.pool.QueryRow(ctx, query, n.UserID, n.Type, payload).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's notifications, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Notification, error) {
	query := `
		SELECT id, user_id, type, data, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	defer rows.Close()

	notifications := []Notification{}
	for rows.Next() {
		var n Notification
		var payload []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &payload, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning notification row: %w", err)
		}
		if err := json.Unmarshal(payload, &n.Data); err != nil {
			return nil, fmt.Errorf("decoding notification payload: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notification rows: %w", err)
	}

	return notifications, nil
}

// MarkRead flags a notification as read. Scoped to the recipient so one user
// cannot touch another's inbox.
func (r *PostgresRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("marking notification read: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a single notification, scoped to the recipient.
func (r *PostgresRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting notification: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByInviteCode removes the notification carrying a consumed invite
// code. Zero affected rows is fine; the recipient may have dismissed it.
func (r *PostgresRepository) DeleteByInviteCode(ctx context.Context, userID uuid.UUID, inviteCode string) error {
	query := `
		DELETE FROM notifications
		WHERE user_id = $1 AND type = $2 AND data->>'invite_code' = $3`

	if _, err := r.pool.Exec(ctx, query, userID, TypeTeamInvitation, inviteCode); err != nil {
		return fmt.Errorf("deleting invite notification: %w", err)
	}

	return nil
}
