package handler

import (
	"encoding/json"
	"net/http"

	"github.com/swifttasks/swifttasks/internal/api/middleware"
	"github.com/swifttasks/swifttasks/internal/api/response"
	"github.com/swifttasks/swifttasks/internal/api/validation"
	"github.com/swifttasks/swifttasks/internal/content"
)

type todoListRequest struct {
	Title  string `json:"title"`
	Shared bool   `json:"shared"`
}

type todoListResponse struct {
	ID        string  `json:"id"`
	OwnerID   string  `json:"ownerId"`
	TeamID    *string `json:"teamId"`
	Title     string  `json:"title"`
	CreatedAt string  `json:"createdAt"`
}

func toTodoListResponse(l *content.TodoList) todoListResponse {
	return todoListResponse{
		ID:        l.ID.String(),
		OwnerID:   l.OwnerID.String(),
		TeamID:    optionalTeamString(l.TeamID),
		Title:     l.Title,
		CreatedAt: l.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// TodoListHandler handles todo list CRUD endpoints.
type TodoListHandler struct {
	repo content.TodoListStore
}

// NewTodoListHandler creates a new TodoListHandler.
func NewTodoListHandler(repo content.TodoListStore) *TodoListHandler {
	return &TodoListHandler{repo: repo}
}

// Create handles POST /todolists.
func (h *TodoListHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req todoListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateName(validation.NameRequest{Field: "title", Value: req.Title})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	l := &content.TodoList{
		OwnerID: identity.UserID,
		TeamID:  contentTeamID(identity, req.Shared),
		Title:   req.Title,
	}
	if err := h.repo.CreateTodoList(r.Context(), l); err != nil {
		writeContentError(w, err, "Failed to create todo list", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toTodoListResponse(l), requestID)
}

// List handles GET /todolists.
func (h *TodoListHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	lists, err := h.repo.ListTodoLists(r.Context(), identity.UserID, identity.TeamID)
	if err != nil {
		writeContentError(w, err, "Failed to list todo lists", requestID)
		return
	}

	items := make([]todoListResponse, 0, len(lists))
	for i := range lists {
		items = append(items, toTodoListResponse(&lists[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Update handles PATCH /todolists/{id}.
func (h *TodoListHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req todoListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateName(validation.NameRequest{Field: "title", Value: req.Title})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	l, err := h.repo.GetTodoList(r.Context(), id)
	if err != nil {
		writeContentError(w, err, "Failed to load todo list", requestID)
		return
	}
	if !canAccess(identity, l.OwnerID, l.TeamID) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Not found", requestID)
		return
	}

	if err := h.repo.UpdateTodoList(r.Context(), id, req.Title); err != nil {
		writeContentError(w, err, "Failed to update todo list", requestID)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /todolists/{id}.
func (h *TodoListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	l, err := h.repo.GetTodoList(r.Context(), id)
	if err != nil {
		writeContentError(w, err, "Failed to load todo list", requestID)
		return
	}
	if !canAccess(identity, l.OwnerID, l.TeamID) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Not found", requestID)
		return
	}

	if err := h.repo.DeleteTodoList(r.Context(), id); err != nil {
		writeContentError(w, err, "Failed to delete todo list", requestID)
		return
	}

	response.NoContent(w)
}
