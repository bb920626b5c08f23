package content

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Summary counts the content a membership transition would touch for one
// user. Todo lists are counted by owner alone: downgrade migration clears
// team_id on every list the user owns, so team-tagged lists belong in the
// count. Projects and doc spaces count only the personal rows. Counts come
// back zero when the user has nothing; an empty result set is never an error.
func (r *PostgresRepository) Summary(ctx context.Context, userID uuid.UUID) (*Summary, error) {
	var s Summary

	if err := r.count(ctx, `SELECT COUNT(*) FROM todo_lists WHERE owner_id = $1`, userID, &s.TodoLists); err != nil {
		return nil, err
	}
	if err := r.count(ctx, `SELECT COUNT(*) FROM projects WHERE owner_id = $1 AND team_id IS NULL`, userID, &s.Projects); err != nil {
		return nil, err
	}
	if err := r.count(ctx, `SELECT COUNT(*) FROM doc_spaces WHERE owner_id = $1 AND team_id IS NULL`, userID, &s.DocSpaces); err != nil {
		return nil, err
	}

	return &s, nil
}

// TeamSummary counts a team's content, for owner-scoped confirmation dialogs.
func (r *PostgresRepository) TeamSummary(ctx context.Context, teamID uuid.UUID) (*TeamSummary, error) {
	var s TeamSummary

	if err := r.count(ctx, `SELECT COUNT(*) FROM projects WHERE team_id = $1`, teamID, &s.Projects); err != nil {
		return nil, err
	}
	if err := r.count(ctx, `SELECT COUNT(*) FROM doc_spaces WHERE team_id = $1`, teamID, &s.DocSpaces); err != nil {
		return nil, err
	}
	if err := r.count(ctx, `SELECT COUNT(*) FROM todo_lists WHERE team_id = $1`, teamID, &s.TodoLists); err != nil {
		return nil, err
	}

	return &s, nil
}

func (r *PostgresRepository) count(ctx context.Context, query string, arg any, dst *int) error {
	if err := r.pool.QueryRow(ctx, query, arg).Scan(dst); err != nil {
		return fmt.Errorf("counting content: %w", err)
	}
	return nil
}
