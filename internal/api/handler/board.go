package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/swifttasks/swifttasks/internal/api/middleware"
	"github.com/swifttasks/swifttasks/internal/api/response"
	"github.com/swifttasks/swifttasks/internal/api/validation"
	"github.com/swifttasks/swifttasks/internal/auth"
	"github.com/swifttasks/swifttasks/internal/content"
)

type boardRequest struct {
	Name string `json:"name"`
}

type columnRequest struct {
	Name string `json:"name"`
}

type itemRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ColumnID    *string    `json:"columnId"`
	DueAt       *time.Time `json:"dueAt"`
	SetDueAt    bool       `json:"setDueAt"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

type itemResponse struct {
	ID          string     `json:"id"`
	ColumnID    string     `json:"columnId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Position    int        `json:"position"`
	DueAt       *time.Time `json:"dueAt"`
}

type columnResponse struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Position int            `json:"position"`
	Items    []itemResponse `json:"items"`
}

type boardResponse struct {
	ID        string           `json:"id"`
	ProjectID string           `json:"projectId"`
	Name      string           `json:"name"`
	Columns   []columnResponse `json:"columns,omitempty"`
}

func toItemResponse(it *content.BoardItem) itemResponse {
	return itemResponse{
		ID:          it.ID.String(),
		ColumnID:    it.ColumnID.String(),
		Title:       it.Title,
		Description: it.Description,
		Position:    it.Position,
		DueAt:       it.DueAt,
	}
}

// BoardHandler handles kanban board endpoints. Every operation resolves the
// item/column/board ancestry up to the project to apply the visibility rule.
type BoardHandler struct {
	repo content.Repository
}

// NewBoardHandler creates a new BoardHandler.
func NewBoardHandler(repo content.Repository) *BoardHandler {
	return &BoardHandler{repo: repo}
}

// CreateBoard handles POST /projects/{id}/boards.
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	projectID, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req boardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateName(validation.NameRequest{Field: "name", Value: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if !h.projectVisible(w, r, identity, projectID, requestID) {
		return
	}

	b := &content.Board{ProjectID: projectID, Name: req.Name}
	if err := h.repo.CreateBoard(r.Context(), b); err != nil {
		writeContentError(w, err, "Failed to create board", requestID)
		return
	}

	response.Success(w, http.StatusCreated, boardResponse{
		ID:        b.ID.String(),
		ProjectID: b.ProjectID.String(),
		Name:      b.Name,
	}, requestID)
}

// ListBoards handles GET /projects/{id}/boards.
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	projectID, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	if !h.projectVisible(w, r, identity, projectID, requestID) {
		return
	}

	boards, err := h.repo.ListBoards(r.Context(), projectID)
	if err != nil {
		writeContentError(w, err, "Failed to list boards", requestID)
		return
	}

	items := make([]boardResponse, 0, len(boards))
	for i := range boards {
		items = append(items, boardResponse{
			ID:        boards[i].ID.String(),
			ProjectID: boards[i].ProjectID.String(),
			Name:      boards[i].Name,
		})
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// GetBoard handles GET /boards/{id}: the board with its columns and items in
// display order.
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	boardID, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	b, ok := h.visibleBoard(w, r, identity, boardID, requestID)
	if !ok {
		return
	}

	columns, err := h.repo.ListColumns(r.Context(), b.ID)
	if err != nil {
		writeContentError(w, err, "Failed to load board", requestID)
		return
	}

	resp := boardResponse{
		ID:        b.ID.String(),
		ProjectID: b.ProjectID.String(),
		Name:      b.Name,
		Columns:   make([]columnResponse, 0, len(columns)),
	}

	for i := range columns {
		c := &columns[i]
		items, err := h.repo.ListItems(r.Context(), c.ID)
		if err != nil {
			writeContentError(w, err, "Failed to load board", requestID)
			return
		}

		col := columnResponse{
			ID:       c.ID.String(),
			Name:     c.Name,
			Position: c.Position,
			Items:    make([]itemResponse, 0, len(items)),
		}
		for j := range items {
			col.Items = append(col.Items, toItemResponse(&items[j]))
		}
		resp.Columns = append(resp.Columns, col)
	}

	response.Success(w, http.StatusOK, resp, requestID)
}

// CreateColumn handles POST /boards/{id}/columns.
func (h *BoardHandler) CreateColumn(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	boardID, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req columnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateName(validation.NameRequest{Field: "name", Value: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if _, ok := h.visibleBoard(w, r, identity, boardID, requestID); !ok {
		return
	}

	c := &content.BoardColumn{BoardID: boardID, Name: req.Name}
	if err := h.repo.CreateColumn(r.Context(), c); err != nil {
		writeContentError(w, err, "Failed to create column", requestID)
		return
	}

	response.Success(w, http.StatusCreated, columnResponse{
		ID:       c.ID.String(),
		Name:     c.Name,
		Position: c.Position,
		Items:    []itemResponse{},
	}, requestID)
}

// ReorderColumns handles POST /boards/{id}/columns/reorder.
func (h *BoardHandler) ReorderColumns(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	boardID, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	ids, ok := decodeReorder(w, r, requestID)
	if !ok {
		return
	}

	if _, ok := h.visibleBoard(w, r, identity, boardID, requestID); !ok {
		return
	}

	if err := h.repo.ReorderColumns(r.Context(), boardID, ids); err != nil {
		writeContentError(w, err, "Failed to reorder columns", requestID)
		return
	}

	response.NoContent(w)
}

// CreateItem handles POST /columns/{id}/items.
func (h *BoardHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	columnID, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateName(validation.NameRequest{Field: "title", Value: req.Title})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if _, ok := h.visibleColumn(w, r, identity, columnID, requestID); !ok {
		return
	}

	it := &content.BoardItem{
		ColumnID:    columnID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
	}
	if err := h.repo.CreateItem(r.Context(), it); err != nil {
		writeContentError(w, err, "Failed to create item", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toItemResponse(it), requestID)
}

// ReorderItems handles POST /columns/{id}/items/reorder.
func (h *BoardHandler) ReorderItems(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	columnID, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	ids, ok := decodeReorder(w, r, requestID)
	if !ok {
		return
	}

	if _, ok := h.visibleColumn(w, r, identity, columnID, requestID); !ok {
		return
	}

	if err := h.repo.ReorderItems(r.Context(), columnID, ids); err != nil {
		writeContentError(w, err, "Failed to reorder items", requestID)
		return
	}

	response.NoContent(w)
}

// UpdateItem handles PATCH /items/{id}. A columnId in the body moves the item
// to the end of that column.
func (h *BoardHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	itemID, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateName(validation.NameRequest{Field: "title", Value: req.Title})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	it, err := h.repo.GetItem(r.Context(), itemID)
	if err != nil {
		writeContentError(w, err, "Failed to load item", requestID)
		return
	}
	if _, ok := h.visibleColumn(w, r, identity, it.ColumnID, requestID); !ok {
		return
	}

	update := content.ItemUpdate{
		Title:       req.Title,
		Description: req.Description,
		SetDueAt:    req.SetDueAt,
		DueAt:       req.DueAt,
	}
	if req.ColumnID != nil {
		columnID, err := uuid.Parse(*req.ColumnID)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_ID", "columnId must be a valid UUID", requestID)
			return
		}
		if _, ok := h.visibleColumn(w, r, identity, columnID, requestID); !ok {
			return
		}
		update.ColumnID = &columnID
	}

	if err := h.repo.UpdateItem(r.Context(), itemID, update); err != nil {
		writeContentError(w, err, "Failed to update item", requestID)
		return
	}

	response.NoContent(w)
}

// DeleteItem handles DELETE /items/{id}.
func (h *BoardHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	itemID, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	it, err := h.repo.GetItem(r.Context(), itemID)
	if err != nil {
		writeContentError(w, err, "Failed to load item", requestID)
		return
	}
	if _, ok := h.visibleColumn(w, r, identity, it.ColumnID, requestID); !ok {
		return
	}

	if err := h.repo.DeleteItem(r.Context(), itemID); err != nil {
		writeContentError(w, err, "Failed to delete item", requestID)
		return
	}

	response.NoContent(w)
}

func (h *BoardHandler) projectVisible(w http.ResponseWriter, r *http.Request, identity *auth.Identity, projectID uuid.UUID, requestID string) bool {
	p, err := h.repo.GetProject(r.Context(), projectID)
	if err != nil {
		writeContentError(w, err, "Failed to load project", requestID)
		return false
	}
	if !canAccess(identity, p.OwnerID, p.TeamID) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Not found", requestID)
		return false
	}
	return true
}

func (h *BoardHandler) visibleBoard(w http.ResponseWriter, r *http.Request, identity *auth.Identity, boardID uuid.UUID, requestID string) (*content.Board, bool) {
	b, err := h.repo.GetBoard(r.Context(), boardID)
	if err != nil {
		writeContentError(w, err, "Failed to load board", requestID)
		return nil, false
	}
	if !h.projectVisible(w, r, identity, b.ProjectID, requestID) {
		return nil, false
	}
	return b, true
}

func (h *BoardHandler) visibleColumn(w http.ResponseWriter, r *http.Request, identity *auth.Identity, columnID uuid.UUID, requestID string) (*content.BoardColumn, bool) {
	c, err := h.repo.GetColumn(r.Context(), columnID)
	if err != nil {
		writeContentError(w, err, "Failed to load column", requestID)
		return nil, false
	}
	if _, ok := h.visibleBoard(w, r, identity, c.BoardID, requestID); !ok {
		return nil, false
	}
	return c, true
}

func decodeReorder(w http.ResponseWriter, r *http.Request, requestID string) ([]uuid.UUID, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return nil, false
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.Err(w, http.StatusBadRequest, "INVALID_ID", "ids must be valid UUIDs", requestID)
			return nil, false
		}
		ids = append(ids, id)
	}

	return ids, true
}
