package team

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository and InviteRepository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new team record.
func (r *PostgresRepository) Create(ctx context.Context, t *Team) error {
	query := `
		INSERT INTO teams (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, t.Name, t.OwnerID).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting team: %w", err)
	}

	return nil
}

// GetByID retrieves a single team by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `
		SELECT id, name, owner_id, created_at, updated_at
		FROM teams
		WHERE id = $1`

	var t Team
	err := r.pool.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.OwnerID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	return &t, nil
}

// UpdateOwner points the team row at a new owning user.
func (r *PostgresRepository) UpdateOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	query := `
		UPDATE teams
		SET owner_id = $2, updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("updating team owner: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	return nil
}

// Delete removes a team by its UUID. Members and content must already be
// detached; a remaining reference fails the FK constraint.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM teams WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrTeamNotFound
	}

	return nil
}

// CreateInvite inserts a new invite record.
func (r *PostgresRepository) CreateInvite(ctx context.Context, inv *Invite) error {
	query := `
		INSERT INTO team_invites (email, team_id, invite_code, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, inv.Email, inv.TeamID, inv.InviteCode, inv.ExpiresAt).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateInvite
		}
		return fmt.Errorf("inserting invite: %w", err)
	}

	return nil
}

// GetInviteByCode retrieves an invite by its code.
func (r *PostgresRepository) GetInviteByCode(ctx context.Context, code string) (*Invite, error) {
	query := `
		SELECT id, email, team_id, invite_code, expires_at, created_at
		FROM team_invites
		WHERE invite_code = $1`

	var inv Invite
	err := r.pool.QueryRow(ctx, query, code).Scan(&inv.ID, &inv.Email, &inv.TeamID, &inv.InviteCode, &inv.ExpiresAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("querying invite: %w", err)
	}

	return &inv, nil
}

// ListInvitesByTeam retrieves all pending invites for a team.
func (r *PostgresRepository) ListInvitesByTeam(ctx context.Context, teamID uuid.UUID) ([]Invite, error) {
	query := `
		SELECT id, email, team_id, invite_code, expires_at, created_at
		FROM team_invites
		WHERE team_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing invites: %w", err)
	}
	defer rows.Close()

	var invites []Invite
	for rows.Next() {
		var inv Invite
		err := rows.Scan(&inv.ID, &inv.Email, &inv.TeamID, &inv.InviteCode, &inv.ExpiresAt, &inv.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning invite row: %w", err)
		}
		invites = append(invites, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invite rows: %w", err)
	}

	if invites == nil {
		invites = []Invite{}
	}

	return invites, nil
}

// ExtendInvite pushes out the expiry window of a pending invite (resend).
func (r *PostgresRepository) ExtendInvite(ctx context.Context, code string, expiresAt time.Time) error {
	query := `
		UPDATE team_invites
		SET expires_at = $2
		WHERE invite_code = $1`

	result, err := r.pool.Exec(ctx, query, code, expiresAt)
	if err != nil {
		return fmt.Errorf("extending invite: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrInviteNotFound
	}

	return nil
}

// DeleteInvite removes a single invite by code.
func (r *PostgresRepository) DeleteInvite(ctx context.Context, code string) error {
	query := `DELETE FROM team_invites WHERE invite_code = $1`

	result, err := r.pool.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("deleting invite: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrInviteNotFound
	}

	return nil
}

// DeleteInvitesByTeam removes every invite for a team. Zero affected rows is
// not an error.
func (r *PostgresRepository) DeleteInvitesByTeam(ctx context.Context, teamID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM team_invites WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("deleting team invites: %w", err)
	}

	return nil
}
