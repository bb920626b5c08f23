package content

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateBoard inserts a new board row.
func (r *PostgresRepository) CreateBoard(ctx context.Context, b *Board) error {
	query := `
		INSERT INTO boards (project_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, b.ProjectID, b.Name).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting board: %w", err)
	}

	return nil
}

// GetBoard retrieves a single board by its UUID.
func (r *PostgresRepository) GetBoard(ctx context.Context, id uuid.UUID) (*Board, error) {
	query := `
		SELECT id, project_id, name, created_at, updated_at
		FROM boards
		WHERE id = $1`

	var b Board
	err := r.pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.ProjectID, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying board: %w", err)
	}

	return &b, nil
}

// ListBoards retrieves all boards of a project.
func (r *PostgresRepository) ListBoards(ctx context.Context, projectID uuid.UUID) ([]Board, error) {
	query := `
		SELECT id, project_id, name, created_at, updated_at
		FROM boards
		WHERE project_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	defer rows.Close()

	boards := []Board{}
	for rows.Next() {
		var b Board
		if err := rows.Scan(&b.ID, &b.ProjectID, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning board row: %w", err)
		}
		boards = append(boards, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating board rows: %w", err)
	}

	return boards, nil
}

// CreateColumn inserts a new column at the end of the board.
func (r *PostgresRepository) CreateColumn(ctx context.Context, c *BoardColumn) error {
	query := `
		INSERT INTO board_columns (board_id, name, position)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position) + 1, 0) FROM board_columns WHERE board_id = $1))
		RETURNING id, position, created_at`

	err := r.pool.QueryRow(ctx, query, c.BoardID, c.Name).Scan(&c.ID, &c.Position, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting board column: %w", err)
	}

	return nil
}

// GetColumn retrieves a single column by its UUID.
func (r *PostgresRepository) GetColumn(ctx context.Context, id uuid.UUID) (*BoardColumn, error) {
	query := `
		SELECT id, board_id, name, position, created_at
		FROM board_columns
		WHERE id = $1`

	var c BoardColumn
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.BoardID, &c.Name, &c.Position, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying board column: %w", err)
	}

	return &c, nil
}

// ListColumns retrieves a board's columns in display order.
func (r *PostgresRepository) ListColumns(ctx context.Context, boardID uuid.UUID) ([]BoardColumn, error) {
	query := `
		SELECT id, board_id, name, position, created_at
		FROM board_columns
		WHERE board_id = $1
		ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing board columns: %w", err)
	}
	defer rows.Close()

	columns := []BoardColumn{}
	for rows.Next() {
		var c BoardColumn
		if err := rows.Scan(&c.ID, &c.BoardID, &c.Name, &c.Position, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning column row: %w", err)
		}
		columns = append(columns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating column rows: %w", err)
	}

	return columns, nil
}

// CreateItem inserts a new item at the end of the column.
func (r *PostgresRepository) CreateItem(ctx context.Context, it *BoardItem) error {
	query := `
		INSERT INTO board_items (column_id, title, description, position, due_at)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(position) + 1, 0) FROM board_items WHERE column_id = $1), $4)
		RETURNING id, position, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query, it.ColumnID, it.Title, it.Description, it.DueAt).
		Scan(&it.ID, &it.Position, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting board item: %w", err)
	}

	return nil
}

// GetItem retrieves a single item by its UUID.
func (r *PostgresRepository) GetItem(ctx context.Context, id uuid.UUID) (*BoardItem, error) {
	query := `
		SELECT id, column_id, title, description, position, due_at, created_at, updated_at
		FROM board_items
		WHERE id = $1`

	var it BoardItem
	err := r.pool.QueryRow(ctx, query, id).Scan(&it.ID, &it.ColumnID, &it.Title, &it.Description, &it.Position, &it.DueAt, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying board item: %w", err)
	}

	return &it, nil
}

// ListItems retrieves a column's items in display order.
func (r *PostgresRepository) ListItems(ctx context.Context, columnID uuid.UUID) ([]BoardItem, error) {
	query := `
		SELECT id, column_id, title, description, position, due_at, created_at, updated_at
		FROM board_items
		WHERE column_id = $1
		ORDER BY position ASC`

	rows, err := r.pool.Query(ctx, query, columnID)
	if err != nil {
		return nil, fmt.Errorf("listing board items: %w", err)
	}
	defer rows.Close()

	items := []BoardItem{}
	for rows.Next() {
		var it BoardItem
		if err := rows.Scan(&it.ID, &it.ColumnID, &it.Title, &it.Description, &it.Position, &it.DueAt, &it.CreatedAt, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning item row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating item rows: %w", err)
	}

	return items, nil
}

// UpdateItem rewrites an item's fields. When fields.ColumnID is set the item
// moves to the end of the destination column; callers reorder afterwards.
func (r *PostgresRepository) UpdateItem(ctx context.Context, id uuid.UUID, fields ItemUpdate) error {
	builder := psql.Update("board_items").
		Set("title", fields.Title).
		Set("description", fields.Description).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id})

	if fields.ColumnID != nil {
		builder = builder.
			Set("column_id", *fields.ColumnID).
			Set("position", sq.Expr("(SELECT COALESCE(MAX(position) + 1, 0) FROM board_items WHERE column_id = ?)", *fields.ColumnID))
	}
	if fields.SetDueAt {
		builder = builder.Set("due_at", fields.DueAt)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("building item update: %w", err)
	}

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating board item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteItem removes a single board item.
func (r *PostgresRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM board_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting board item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReorderColumns rewrites column positions to the index each id holds in the
// given order. Runs in one transaction so a drag never leaves a board with
// duplicate positions.
func (r *PostgresRepository) ReorderColumns(ctx context.Context, boardID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.reorder(ctx, "board_columns", "board_id", boardID, orderedIDs)
}

// ReorderItems rewrites item positions within a column to the given order.
func (r *PostgresRepository) ReorderItems(ctx context.Context, columnID uuid.UUID, orderedIDs []uuid.UUID) error {
	return r.reorder(ctx, "board_items", "column_id", columnID, orderedIDs)
}

func (r *PostgresRepository) reorder(ctx context.Context, table, parentCol string, parentID uuid.UUID, orderedIDs []uuid.UUID) error {
	if len(orderedIDs) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning reorder: %w", err)
	}
	defer tx.Rollback(ctx)

	for pos, id := range orderedIDs {
		query, args, err := psql.Update(table).
			Set("position", pos).
			Where(sq.Eq{"id": id, parentCol: parentID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("building reorder update: %w", err)
		}

		result, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("reordering %s: %w", table, err)
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing reorder: %w", err)
	}

	return nil
}
