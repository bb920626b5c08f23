package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new user record.
func (r *PostgresRepository) Create(ctx context.Context, u *User) error {
	if u.AccountType == "" {
		u.AccountType = AccountSingle
	}

	query := `
		INSERT INTO users (email, display_name, password_hash, account_type, team_id, is_team_owner)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		u.Email,
		u.DisplayName,
		u.PasswordHash,
		u.AccountType,
		u.TeamID,
		u.IsTeamOwner,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	return nil
}

// GetByID retrieves a single user by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `
		SELECT id, email, display_name, password_hash, account_type, team_id, is_team_owner, created_at, updated_at
		FROM users
		WHERE id = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves a single user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, email, display_name, password_hash, account_type, team_id, is_team_owner, created_at, updated_at
		FROM users
		WHERE email = $1`

	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

// ListByTeam retrieves all members of a team ordered by creation time.
func (r *PostgresRepository) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]User, error) {
	query := `
		SELECT id, email, display_name, password_hash, account_type, team_id, is_team_owner, created_at, updated_at
		FROM users
		WHERE team_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("listing team members: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.AccountType, &u.TeamID, &u.IsTeamOwner, &u.CreatedAt, &u.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	if users == nil {
		users = []User{}
	}

	return users, nil
}

// UpdateMembership sets the account_type/team_id/is_team_owner triple in one statement.
func (r *PostgresRepository) UpdateMembership(ctx context.Context, id uuid.UUID, m Membership) error {
	query := `
		UPDATE users
		SET account_type = $2, team_id = $3, is_team_owner = $4, updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, m.AccountType, m.TeamID, m.IsTeamOwner)
	if err != nil {
		return fmt.Errorf("updating membership: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetTeamOwner flips the is_team_owner flag for a single user.
func (r *PostgresRepository) SetTeamOwner(ctx context.Context, id uuid.UUID, isOwner bool) error {
	query := `
		UPDATE users
		SET is_team_owner = $2, updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, isOwner)
	if err != nil {
		return fmt.Errorf("updating team owner flag: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// ResetMembershipByTeam resets every member of a team to a solo account.
// Zero affected rows is not an error; a team can be emptied before deletion.
func (r *PostgresRepository) ResetMembershipByTeam(ctx context.Context, teamID uuid.UUID) error {
	query := `
		UPDATE users
		SET account_type = $2, team_id = NULL, is_team_owner = FALSE, updated_at = now()
		WHERE team_id = $1`

	if _, err := r.pool.Exec(ctx, query, teamID, AccountSingle); err != nil {
		return fmt.Errorf("resetting team memberships: %w", err)
	}

	return nil
}

func (r *PostgresRepository) scanOne(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.AccountType, &u.TeamID, &u.IsTeamOwner, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("querying user: %w", err)
	}

	return &u, nil
}
