package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateDocSpace inserts a new doc space row.
func (r *PostgresRepository) CreateDocSpace(ctx context.Context, s *DocSpace) error {
	query := `
		INSERT INTO doc_spaces (owner_id, team_id, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, s.OwnerID, s.TeamID, s.Name).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting doc space: %w", err)
	}

	return nil
}

// GetDocSpace retrieves a single doc space by its UUID.
func (r *PostgresRepository) GetDocSpace(ctx context.Context, id uuid.UUID) (*DocSpace, error) {
	query := `
		SELECT id, owner_id, team_id, name, created_at, updated_at
		FROM doc_spaces
		WHERE id = $1`

	var s DocSpace
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.OwnerID, &s.TeamID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying doc space: %w", err)
	}

	return &s, nil
}

// ListDocSpaces retrieves the doc spaces visible to a user.
func (r *PostgresRepository) ListDocSpaces(ctx context.Context, ownerID uuid.UUID, teamID *uuid.UUID) ([]DocSpace, error) {
	query, args, err := psql.
		Select("id", "owner_id", "team_id", "name", "created_at", "updated_at").
		From("doc_spaces").
		Where(visibleTo(ownerID, teamID)).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building doc space query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing doc spaces: %w", err)
	}
	defer rows.Close()

	spaces := []DocSpace{}
	for rows.Next() {
		var s DocSpace
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.TeamID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning doc space row: %w", err)
		}
		spaces = append(spaces, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating doc space rows: %w", err)
	}

	return spaces, nil
}

// CreatePage inserts a new page at the end of the space.
func (r *PostgresRepository) CreatePage(ctx context.Context, p *DocPage) error {
	query := `
		INSERT INTO doc_pages (space_id, title, body, position)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position) + 1, 0) FROM doc_pages WHERE space_id = $1))
		RETURNING id, position, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, p.SpaceID, p.Title, p.Body).Scan(&p.ID, &p.Position, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting doc page: %w", err)
	}

	return nil
}

// GetPage retrieves a single page by its UUID.
func (r *PostgresRepository) GetPage(ctx context.Context, id uuid.UUID) (*DocPage, error) {
	query := `
		SELECT id, space_id, title, body, position, created_at, updated_at
		FROM doc_pages
		WHERE id = $1`

	var p DocPage
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.SpaceID, &p.Title, &p.Body, &p.Position, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying doc page: %w", err)
	}

	return &p, nil
}

// ListPages retrieves a space's pages in display order.
func (r *PostgresRepository) ListPages(ctx context.Context, spaceID uuid.UUID) ([]DocPage, error) {
	query := `
		SELECT id, space_id, title, body, position, created_at, updated_at
		FROM doc_pages
		WHERE space_id = $1
		ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query, spaceID)
	if err != nil {
		return nil, fmt.Errorf("listing doc pages: %w", err)
	}
	defer rows.Close()

	pages := []DocPage{}
	for rows.Next() {
		var p DocPage
		if err := rows.Scan(&p.ID, &p.SpaceID, &p.Title, &p.Body, &p.Position, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning doc page row: %w", err)
		}
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating doc page rows: %w", err)
	}

	return pages, nil
}

// UpdatePage rewrites a page's title and body.
func (r *PostgresRepository) UpdatePage(ctx context.Context, id uuid.UUID, title, body string) error {
	query := `
		UPDATE doc_pages
		SET title = $2, body = $3, updated_at = now()
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, title, body)
	if err != nil {
		return fmt.Errorf("updating doc page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePage removes a single doc page.
func (r *PostgresRepository) DeletePage(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM doc_pages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting doc page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
