package content

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Cascade deletion walks the dependency graph leaves-first with batched
// IN-list statements: BoardItem -> BoardColumn -> Board -> Project, and
// DocPage -> DocSpace. A relational delete of a parent while children still
// reference it fails the FK constraint, so the order is load-bearing. Every
// level is skipped outright when its parent id list is empty; an IN-list with
// zero elements never reaches the database.
//
// The whole walk runs in one transaction, so a failed level rolls back
// instead of leaving the graph half-deleted.

// DeleteProjectsCascade deletes the given projects and their full board chain.
func (r *PostgresRepository) DeleteProjectsCascade(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning project cascade: %w", err)
	}
	defer tx.Rollback(ctx)

	boardIDs, err := collectIDsTx(ctx, tx, "boards", "project_id", ids)
	if err != nil {
		return err
	}

	var columnIDs []uuid.UUID
	if len(boardIDs) > 0 {
		columnIDs, err = collectIDsTx(ctx, tx, "board_columns", "board_id", boardIDs)
		if err != nil {
			return err
		}
	}

	if err := deleteByParent(ctx, tx, "board_items", "column_id", columnIDs); err != nil {
		return err
	}
	if err := deleteByParent(ctx, tx, "board_columns", "board_id", boardIDs); err != nil {
		return err
	}
	if err := deleteByParent(ctx, tx, "boards", "project_id", ids); err != nil {
		return err
	}
	if err := deleteByParent(ctx, tx, "projects", "id", ids); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing project cascade: %w", err)
	}

	return nil
}

// DeleteDocSpacesCascade deletes the given doc spaces and their pages.
func (r *PostgresRepository) DeleteDocSpacesCascade(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning doc space cascade: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := deleteByParent(ctx, tx, "doc_pages", "space_id", ids); err != nil {
		return err
	}
	if err := deleteByParent(ctx, tx, "doc_spaces", "id", ids); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing doc space cascade: %w", err)
	}

	return nil
}

func collectIDsTx(ctx context.Context, tx pgx.Tx, table, parentCol string, parentIDs []uuid.UUID) ([]uuid.UUID, error) {
	query, args, err := psql.
		Select("id").From(table).
		Where(sq.Eq{parentCol: parentIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building %s id query: %w", table, err)
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("collecting %s ids: %w", table, err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning %s id: %w", table, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s ids: %w", table, err)
	}

	return ids, nil
}

func deleteByParent(ctx context.Context, tx pgx.Tx, table, parentCol string, parentIDs []uuid.UUID) error {
	if len(parentIDs) == 0 {
		return nil
	}

	query, args, err := psql.
		Delete(table).
		Where(sq.Eq{parentCol: parentIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("building %s delete: %w", table, err)
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("deleting from %s: %w", table, err)
	}

	return nil
}
