package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a content record is not found.
var ErrNotFound = errors.New("content not found")

// TodoListStore provides operations on the todo_lists table.
type TodoListStore interface {
	CreateTodoList(ctx context.Context, l *TodoList) error
	GetTodoList(ctx context.Context, id uuid.UUID) (*TodoList, error)
	ListTodoLists(ctx context.Context, ownerID uuid.UUID, teamID *uuid.UUID) ([]TodoList, error)
	UpdateTodoList(ctx context.Context, id uuid.UUID, title string) error
	DeleteTodoList(ctx context.Context, id uuid.UUID) error
	// ClearTodoListTeam detaches all of a user's todo lists from any team,
	// making them personal. Already-personal lists are a no-op.
	ClearTodoListTeam(ctx context.Context, ownerID uuid.UUID) error
	DeleteTodoListsByTeam(ctx context.Context, teamID uuid.UUID) error
}

// ProjectStore provides operations on the projects table and its board chain.
type ProjectStore interface {
	CreateProject(ctx context.Context, p *Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, ownerID uuid.UUID, teamID *uuid.UUID) ([]Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, name, description string) error
	ListPersonalProjectIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
	ListTeamProjectIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
}

// BoardStore provides operations on boards, columns and items.
type BoardStore interface {
	CreateBoard(ctx context.Context, b *Board) error
	GetBoard(ctx context.Context, id uuid.UUID) (*Board, error)
	ListBoards(ctx context.Context, projectID uuid.UUID) ([]Board, error)
	CreateColumn(ctx context.Context, c *BoardColumn) error
	GetColumn(ctx context.Context, id uuid.UUID) (*BoardColumn, error)
	ListColumns(ctx context.Context, boardID uuid.UUID) ([]BoardColumn, error)
	CreateItem(ctx context.Context, it *BoardItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*BoardItem, error)
	ListItems(ctx context.Context, columnID uuid.UUID) ([]BoardItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, fields ItemUpdate) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	// ReorderColumns rewrites column positions to match the given order.
	// Every column of the board must appear exactly once.
	ReorderColumns(ctx context.Context, boardID uuid.UUID, orderedIDs []uuid.UUID) error
	// ReorderItems rewrites item positions within a column to match the
	// given order.
	ReorderItems(ctx context.Context, columnID uuid.UUID, orderedIDs []uuid.UUID) error
}

// ItemUpdate carries the mutable fields of a board item. A nil ColumnID
// leaves the item in place; moving an item between columns is an update with
// ColumnID set followed by a reorder of the destination column.
type ItemUpdate struct {
	Title       string
	Description string
	ColumnID    *uuid.UUID
	SetDueAt    bool // when true, DueAt replaces the stored value (nil clears)
	DueAt       *time.Time
}

// DocSpaceStore provides operations on doc spaces and pages.
type DocSpaceStore interface {
	CreateDocSpace(ctx context.Context, s *DocSpace) error
	GetDocSpace(ctx context.Context, id uuid.UUID) (*DocSpace, error)
	ListDocSpaces(ctx context.Context, ownerID uuid.UUID, teamID *uuid.UUID) ([]DocSpace, error)
	ListPersonalDocSpaceIDs(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
	ListTeamDocSpaceIDs(ctx context.Context, teamID uuid.UUID) ([]uuid.UUID, error)
	CreatePage(ctx context.Context, p *DocPage) error
	GetPage(ctx context.Context, id uuid.UUID) (*DocPage, error)
	ListPages(ctx context.Context, spaceID uuid.UUID) ([]DocPage, error)
	UpdatePage(ctx context.Context, id uuid.UUID, title, body string) error
	DeletePage(ctx context.Context, id uuid.UUID) error
}

// Cascader deletes top-level entities and every descendant, leaf-first, in
// batched IN-list statements. Levels with an empty parent id list are skipped
// before any statement is issued.
type Cascader interface {
	DeleteProjectsCascade(ctx context.Context, ids []uuid.UUID) error
	DeleteDocSpacesCascade(ctx context.Context, ids []uuid.UUID) error
}

// Counter is the read model behind transition confirmation dialogs.
type Counter interface {
	Summary(ctx context.Context, userID uuid.UUID) (*Summary, error)
	TeamSummary(ctx context.Context, teamID uuid.UUID) (*TeamSummary, error)
}

// Repository is the full content surface.
type Repository interface {
	TodoListStore
	ProjectStore
	BoardStore
	DocSpaceStore
	Cascader
	Counter
}
