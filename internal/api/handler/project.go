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

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Shared      bool   `json:"shared"`
}

type projectResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"ownerId"`
	TeamID      *string `json:"teamId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"createdAt"`
}

func toProjectResponse(p *content.Project) projectResponse {
	return projectResponse{
		ID:          p.ID.String(),
		OwnerID:     p.OwnerID.String(),
		TeamID:      optionalTeamString(p.TeamID),
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// ProjectHandler handles project CRUD endpoints. Deleting a project runs the
// same leaf-first cascade the membership transitions use.
type ProjectHandler struct {
	repo content.Repository
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(repo content.Repository) *ProjectHandler {
	return &ProjectHandler{repo: repo}
}

// Create handles POST /projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateName(validation.NameRequest{Field: "name", Value: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p := &content.Project{
		OwnerID:     identity.UserID,
		TeamID:      contentTeamID(identity, req.Shared),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.repo.CreateProject(r.Context(), p); err != nil {
		writeContentError(w, err, "Failed to create project", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toProjectResponse(p), requestID)
}

// List handles GET /projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	projects, err := h.repo.ListProjects(r.Context(), identity.UserID, identity.TeamID)
	if err != nil {
		writeContentError(w, err, "Failed to list projects", requestID)
		return
	}

	items := make([]projectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, toProjectResponse(&projects[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Get handles GET /projects/{id}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	p, err := h.visibleProject(w, r, identity, id, requestID)
	if err != nil {
		return
	}

	response.Success(w, http.StatusOK, toProjectResponse(p), requestID)
}

// Update handles PATCH /projects/{id}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateName(validation.NameRequest{Field: "name", Value: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if _, err := h.visibleProject(w, r, identity, id, requestID); err != nil {
		return
	}

	if err := h.repo.UpdateProject(r.Context(), id, req.Name, req.Description); err != nil {
		writeContentError(w, err, "Failed to update project", requestID)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /projects/{id}: cascade-deletes the project and its
// full board chain.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	id, ok := pathID(w, r, "id", requestID)
	if !ok {
		return
	}

	if _, err := h.visibleProject(w, r, identity, id, requestID); err != nil {
		return
	}

	if err := h.repo.DeleteProjectsCascade(r.Context(), []uuid.UUID{id}); err != nil {
		writeContentError(w, err, "Failed to delete project", requestID)
		return
	}

	response.NoContent(w)
}

// visibleProject loads a project and enforces the visibility rule, writing
// the error response itself. Invisible rows read as not found.
func (h *ProjectHandler) visibleProject(w http.ResponseWriter, r *http.Request, identity *auth.Identity, id uuid.UUID, requestID string) (*content.Project, error) {
	p, err := h.repo.GetProject(r.Context(), id)
	if err != nil {
		writeContentError(w, err, "Failed to load project", requestID)
		return nil, err
	}
	if !canAccess(identity, p.OwnerID, p.TeamID) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Not found", requestID)
		return nil, content.ErrNotFound
	}
	return p, nil
}
