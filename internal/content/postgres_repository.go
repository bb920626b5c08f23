package content

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// psql builds statements with Postgres $N placeholders, so the output feeds
// straight into pgx.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// visibleTo filters top-level content to rows the user can see: their own
// personal rows, plus team rows when a team id is given.
func visibleTo(ownerID uuid.UUID, teamID *uuid.UUID) sq.Sqlizer {
	personal := sq.And{sq.Eq{"owner_id": ownerID}, sq.Eq{"team_id": nil}}
	if teamID == nil {
		return personal
	}
	return sq.Or{personal, sq.Eq{"team_id": *teamID}}
}

// CreateTodoList inserts a new todo list row.
func (r *PostgresRepository) CreateTodoList(ctx context.Context, l *TodoList) error {
	query := `
		INSERT INTO todo_lists (owner_id, team_id, title)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, l.OwnerID, l.TeamID, l.Title).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting todo list: %w", err)
	}

	return nil
}

// GetTodoList retrieves a single todo list by its UUID.
func (r *PostgresRepository) GetTodoList(ctx context.Context, id uuid.UUID) (*TodoList, error) {
	query := `
		SELECT id, owner_id, team_id, title, created_at, updated_at
		FROM todo_lists
		WHERE id = $1`

	var l TodoList
	err := r.pool.QueryRow(ctx, query, id).Scan(&l.ID, &l.OwnerID, &l.TeamID, &l.Title, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying todo list: %w", err)
	}

	return &l, nil
}

// ListTodoLists retrieves the todo lists visible to a user.
func (r *PostgresRepository) ListTodoLists(ctx context.Context, ownerID uuid.UUID, teamID *uuid.UUID) ([]TodoList, error) {
	query, args, err := psql.
		Select("id", "owner_id", "team_id", "title", "created_at", "updated_at").
		From("todo_lists").
		Where(visibleTo(ownerID, teamID)).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building todo list query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing todo lists: %w", err)
	}
	defer rows.Close()

	lists := []TodoList{}
	for rows.Next() {
		var l TodoList
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.TeamID, &l.Title, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning todo list row: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todo list rows: %w", err)
	}

	return lists, nil
}

// UpdateTodoList renames a todo list.
func (r *PostgresRepository) UpdateTodoList(ctx context.Context, id uuid.UUID, title string) error {
	result, err := r.pool.Exec(ctx, `UPDATE todo_lists SET title = $2, updated_at = now() WHERE id = $1`, id, title)
	if err != nil {
		return fmt.Errorf("updating todo list: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTodoList removes a single todo list.
func (r *PostgresRepository) DeleteTodoList(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM todo_lists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting todo list: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearTodoListTeam makes all of a user's todo lists personal. Lists that are
// already personal are untouched.
func (r *PostgresRepository) ClearTodoListTeam(ctx context.Context, ownerID uuid.UUID) error {
	query := `
		UPDATE todo_lists
		SET team_id = NULL, updated_at = now()
		WHERE owner_id = $1 AND team_id IS NOT NULL`

	if _, err := r.pool.Exec(ctx, query, ownerID); err != nil {
		return fmt.Errorf("clearing todo list team: %w", err)
	}

	return nil
}

// DeleteTodoListsByTeam removes every todo list tagged with the team.
func (r *PostgresRepository) DeleteTodoListsByTeam(ctx context.Context, teamID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM todo_lists WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("deleting team todo lists: %w", err)
	}

	return nil
}

// CreateProject inserts a new project row.
func (r *PostgresRepository) CreateProject(ctx context.Context, p *Project) error {
	query := `
		INSERT INTO projects (owner_id, team_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.OwnerID, p.TeamID, p.Name, p.Description).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}

	return nil
}

// GetProject retrieves a single project by its UUID.
func (r *PostgresRepository) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	query := `
		SELECT id, owner_id, team_id, name, description, created_at, updated_at
		FROM projects
		WHERE id = $1`

	var p Project
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.OwnerID, &p.TeamID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying project: %w", err)
	}

	return &p, nil
}

// ListProjects retrieves the projects visible to a user.
func (r *PostgresRepository) ListProjects(ctx context.Context, ownerID uuid.UUID, teamID *uuid.UUID) ([]Project, error) {
	query, args, err := psql.
		Select("id", "owner_id", "team_id", "name", "description", "created_at", "updated_at").
		From("projects").
		Where(visibleTo(ownerID, teamID)).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building project query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.TeamID, &p.Name, &p.Description, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}

	return projects, nil
}

// UpdateProject renames a project and replaces its description.
func (r *PostgresRepository) UpdateProject(ctx context.Context, id uuid.UUID, name, description string) error {
	query := `
		UPDATE projects
		SET name = $2, description = $3, updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, name, description)
	if err != nil {
		return fmt.Errorf("updating project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPersonalProjectIDs collects the ids of a user's personal projects.
func (r *PostgresRepository) ListPersonalProjectIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	return r.collectIDs(ctx, psql.
		Select("id").From("projects").
		Where(sq.And{sq.Eq{"owner_id": ownerID}, sq.Eq{"team_id": nil}}))
}

// ListTeamProjectIDs collects the ids of every project tagged with a team.
func (r *PostgresRepository) ListTeamProjectIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	return r.collectIDs(ctx, psql.
		Select("id").From("projects").
		Where(sq.Eq{"team_id": teamID}))
}

// ListPersonalDocSpaceIDs collects the ids of a user's personal doc spaces.
func (r *PostgresRepository) ListPersonalDocSpaceIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	return r.collectIDs(ctx, psql.
		Select("id").From("doc_spaces").
		Where(sq.And{sq.Eq{"owner_id": ownerID}, sq.Eq{"team_id": nil}}))
}

// ListTeamDocSpaceIDs collects the ids of every doc space tagged with a team.
func (r *PostgresRepository) ListTeamDocSpaceIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	return r.collectIDs(ctx, psql.
		Select("id").From("doc_spaces").
		Where(sq.Eq{"team_id": teamID}))
}

func (r *PostgresRepository) collectIDs(ctx context.Context, builder sq.SelectBuilder) ([]uuid.UUID, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building id query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("collecting ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating id rows: %w", err)
	}

	return ids, nil
}
