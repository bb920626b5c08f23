package content

import (
	"time"

	"github.com/google/uuid"
)

// Top-level content rows carry the ownership pair: OwnerID is always the
// creating user, TeamID is set only for team content. A row is personal iff
// TeamID is nil, regardless of the owner's account type. Descendant rows
// (boards, columns, items, pages) carry neither; visibility flows through
// their parent chain.

// TodoList represents a row in the todo_lists table.
type TodoList struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	TeamID    *uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Project represents a row in the projects table.
type Project struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	TeamID      *uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Board represents a row in the boards table.
type Board struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BoardColumn represents a row in the board_columns table. Position is the
// zero-based order within the board.
type BoardColumn struct {
	ID        uuid.UUID
	BoardID   uuid.UUID
	Name      string
	Position  int
	CreatedAt time.Time
}

// BoardItem represents a row in the board_items table. Position is the
// zero-based order within the column.
type BoardItem struct {
	ID          uuid.UUID
	ColumnID    uuid.UUID
	Title       string
	Description string
	Position    int
	DueAt       *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DocSpace represents a row in the doc_spaces table.
type DocSpace struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	TeamID    *uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocPage represents a row in the doc_pages table.
type DocPage struct {
	ID        uuid.UUID
	SpaceID   uuid.UUID
	Title     string
	Body      string
	Position  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Summary holds a user's content counts, shown in confirmation dialogs
// before a membership transition. TodoLists counts every list the user owns;
// Projects and DocSpaces count only personal rows. All counts are zero when
// the user has no content.
type Summary struct {
	TodoLists int
	Projects  int
	DocSpaces int
}

// TeamSummary holds a team's content counts, shown to owners before team
// deletion.
type TeamSummary struct {
	Projects  int
	DocSpaces int
	TodoLists int
}

// Personal reports whether the ownership pair denotes personal content.
func Personal(teamID *uuid.UUID) bool {
	return teamID == nil
}
