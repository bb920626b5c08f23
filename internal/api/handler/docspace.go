package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/swifttasks/swifttasks/internal/api/middleware"
	"github.com/swifttasks/swifttasks/internal/api/response"
	"github.com/swifttasks/swifttasks/internal/api/validation"
	"github.com/swifttasks/swifttasks/internal/auth"
	"github.com/swifttasks/swifttasks/internal/content"
)

type docSpaceRequest struct {
	Name   string `json:"name"`
	Shared bool   `json:"shared"`
}

type docPageRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type docPageResponse struct {
	ID       string `json:"id"`
	SpaceID  string `json:"spaceId"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Position int    `json:"position"`
}

type docSpaceResponse struct {
	ID        string            `json:"id"`
	OwnerID   string            `json:"ownerId"`
	TeamID    *string           `json:"teamId"`
	Name      string            `json:"name"`
	CreatedAt string            `json:"createdAt"`
	Pages     []docPageResponse `json:"pages,omitempty"`
}

func toDocSpaceResponse(s *content.DocSpace) docSpaceResponse {
	return docSpaceResponse{
		ID:        s.ID.String(),
		OwnerID:   s.OwnerID.String(),
		TeamID:    optionalTeamString(s.TeamID),
		Name:      s.Name,
		CreatedAt: s.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func toDocPageResponse(p *content.DocPage) docPageResponse {
	return docPageResponse{
		ID:       p.ID.String(),
		SpaceID:  p.SpaceID.String(),
		Title:    p.Title,
		Body:     p.Body,
		Position: p.Position,
	}
}

// DocSpaceHandler handles documentation space endpoints. Deleting a space
// cascades to its pages.
type DocSpaceHandler struct {
	repo content.Repository
}

// NewDocSpaceHandler creates a new DocSpaceHandler.
func NewDocSpaceHandler(repo content.Repository) *DocSpaceHandler {
	return &DocSpaceHandler{repo: repo}
}

// Create handles POST /docspaces.
func (h *DocSpaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req docSpaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateName(validation.NameRequest{Field: "name", Value: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	s := &content.DocSpace{
		OwnerID: identity.UserID,
		TeamID:  contentTeamID(identity, req.Shared),
		Name:    req.Name,
	}
	if err := h.repo.CreateDocSpace(r.Context(), s); err != nil {
		writeContentError(w, err, "Failed to create doc space", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toDocSpaceResponse(s), requestID)
}

// List handles GET /docspaces.
func (h *DocSpaceHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	spaces, err := h.repo.ListDocSpaces(r.Context(), identity.UserID, identity.TeamID)
	if err != nil {
		writeContentError(w, err, "Failed to list doc spaces", requestID)
		return
	}

	items := make([]docSpaceResponse, 0, len(spaces))
	for i := range spaces {
		items = append(items, toDocSpaceResponse(&spaces[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Get handles GET /docspaces/{id}: the space with its pages in order.
func (h *DocSpaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	s, ok := h.visibleSpace(w, r, identity, id, requestID)
	if !ok {
		return
	}

	pages, err := h.repo.ListPages(r.Context(), s.ID)
	if err != nil {
		writeContentError(w, err, "Failed to load doc space", requestID)
		return
	}

	resp := toDocSpaceResponse(s)
	resp.Pages = make([]docPageResponse, 0, len(pages))
	for i := range pages {
		resp.Pages = append(resp.Pages, toDocPageResponse(&pages[i]))
	}

	response.Success(w, http.StatusOK, resp, requestID)
}

// Delete handles DELETE /docspaces/{id}: cascade-deletes the space and its
// pages.
func (h *DocSpaceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	if _, ok := h.visibleSpace(w, r, identity, id, requestID); !ok {
		return
	}

	if err := h.repo.DeleteDocSpacesCascade(r.Context(), []uuid.UUID{id}); err != nil {
		writeContentError(w, err, "Failed to delete doc space", requestID)
		return
	}

	response.NoContent(w)
}

// CreatePage handles POST /docspaces/{id}/pages.
func (h *DocSpaceHandler) CreatePage(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	spaceID, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 4<<20)
	var req docPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateName(validation.NameRequest{Field: "title", Value: req.Title})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if _, ok := h.visibleSpace(w, r, identity, spaceID, requestID); !ok {
		return
	}

	p := &content.DocPage{SpaceID: spaceID, Title: req.Title, Body: req.Body}
	if err := h.repo.CreatePage(r.Context(), p); err != nil {
		writeContentError(w, err, "Failed to create page", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toDocPageResponse(p), requestID)
}

// UpdatePage handles PATCH /pages/{id}.
func (h *DocSpaceHandler) UpdatePage(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	pageID, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 4<<20)
	var req docPageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateName(validation.NameRequest{Field: "title", Value: req.Title})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if _, ok := h.visiblePage(w, r, identity, pageID, requestID); !ok {
		return
	}

	if err := h.repo.UpdatePage(r.Context(), pageID, req.Title, req.Body); err != nil {
		writeContentError(w, err, "Failed to update page", requestID)
		return
	}

	response.NoContent(w)
}

// DeletePage handles DELETE /pages/{id}.
func (h *DocSpaceHandler) DeletePage(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	pageID, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	if _, ok := h.visiblePage(w, r, identity, pageID, requestID); !ok {
		return
	}

	if err := h.repo.DeletePage(r.Context(), pageID); err != nil {
		writeContentError(w, err, "Failed to delete page", requestID)
		return
	}

	response.NoContent(w)
}

func (h *DocSpaceHandler) visibleSpace(w http.ResponseWriter, r *http.Request, identity *auth.Identity, id uuid.UUID, requestID string) (*content.DocSpace, bool) {
	s, err := h.repo.GetDocSpace(r.Context(), id)
	if err != nil {
		writeContentError(w, err, "Failed to load doc space", requestID)
		return nil, false
	}
	if !canAccess(identity, s.OwnerID, s.TeamID) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Not found", requestID)
		return nil, false
	}
	return s, true
}

func (h *DocSpaceHandler) visiblePage(w http.ResponseWriter, r *http.Request, identity *auth.Identity, pageID uuid.UUID, requestID string) (*content.DocPage, bool) {
	p, err := h.repo.GetPage(r.Context(), pageID)
	if err != nil {
		writeContentError(w, err, "Failed to load page", requestID)
		return nil, false
	}
	if _, ok := h.visibleSpace(w, r, identity, p.SpaceID, requestID); !ok {
		return nil, false
	}
	return p, true
}
