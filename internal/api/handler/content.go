package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/swifttasks/swifttasks/internal/api/response"
	"github.com/swifttasks/swifttasks/internal/auth"
	"github.com/swifttasks/swifttasks/internal/content"
)

// canAccess applies the visibility rule: personal content belongs to its
// owner only; team content is visible to every member of that team.
func canAccess(identity *auth.Identity, ownerID uuid.UUID, teamID *uuid.UUID) bool {
	if teamID == nil {
		return ownerID == identity.UserID
	}
	return identity.TeamID != nil && *identity.TeamID == *teamID
}

// contentTeamID resolves where new content lands: the user's team when they
// asked for shared content and have one, personal otherwise.
func contentTeamID(identity *auth.Identity, shared bool) *uuid.UUID {
	if shared && identity.TeamID != nil {
		id := *identity.TeamID
		return &id
	}
	return nil
}

// pathID parses a UUID URL parameter, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", name+" must be a valid UUID", requestID)
		return uuid.Nil, false
	}
	return id, true
}

// writeContentError maps content repository errors to HTTP statuses.
func writeContentError(w http.ResponseWriter, err error, fallback, requestID string) {
	if errors.Is(err, content.ErrNotFound) {
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Not found", requestID)
		return
	}
	slog.Error("content operation failed", "error", err)
	response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", fallback, requestID)
}

func optionalTeamString(teamID *uuid.UUID) *string {
	if teamID == nil {
		return nil
	}
	s := teamID.String()
	return &s
}
