package handler

import (
	"net/http"

	"github.com/swifttasks/swifttasks/internal/api/middleware"
	"github.com/swifttasks/swifttasks/internal/api/response"
	"github.com/swifttasks/swifttasks/internal/membership"
)

type meResponse struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName string  `json:"displayName"`
	AccountType string  `json:"accountType"`
	TeamID      *string `json:"teamId"`
	IsTeamOwner bool    `json:"isTeamOwner"`
}

type summaryResponse struct {
	TodoLists int               `json:"todoLists"`
	Projects  int               `json:"projects"`
	DocSpaces int               `json:"docSpaces"`
	Team      *teamCountsSchema `json:"team,omitempty"`
}

type teamCountsSchema struct {
	Projects  int `json:"projects"`
	DocSpaces int `json:"docSpaces"`
	TodoLists int `json:"todoLists"`
}

// MeHandler serves the authenticated user's profile and content summary.
type MeHandler struct {
	service *membership.Service
}

// NewMeHandler creates a new MeHandler.
func NewMeHandler(service *membership.Service) *MeHandler {
	return &MeHandler{service: service}
}

// Me handles GET /me.
func (h *MeHandler) Me(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	resp := meResponse{
		ID:          identity.UserID.String(),
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		AccountType: identity.AccountType,
		IsTeamOwner: identity.IsTeamOwner,
	}
	if identity.TeamID != nil {
		id := identity.TeamID.String()
		resp.TeamID = &id
	}

	response.Success(w, http.StatusOK, resp, requestID)
}

// Summary handles GET /me/summary: the content counts shown in transition
// confirmation dialogs.
func (h *MeHandler) Summary(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	summary, err := h.service.Summary(r.Context(), identity.UserID)
	if err != nil {
		writeMembershipError(w, err, "Failed to load content summary", requestID)
		return
	}

	resp := summaryResponse{
		TodoLists: summary.Personal.TodoLists,
		Projects:  summary.Personal.Projects,
		DocSpaces: summary.Personal.DocSpaces,
	}
	if summary.Team != nil {
		resp.Team = &teamCountsSchema{
			Projects:  summary.Team.Projects,
			DocSpaces: summary.Team.DocSpaces,
			TodoLists: summary.Team.TodoLists,
		}
	}

	response.Success(w, http.StatusOK, resp, requestID)
}
