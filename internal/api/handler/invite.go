package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/swifttasks/swifttasks/internal/api/middleware"
	"github.com/swifttasks/swifttasks/internal/api/response"
	"github.com/swifttasks/swifttasks/internal/api/validation"
	"github.com/swifttasks/swifttasks/internal/membership"
	"github.com/swifttasks/swifttasks/internal/team"
)

type createInviteRequest struct {
	Email string `json:"email"`
}

type inviteResponse struct {
	Email      string `json:"email"`
	TeamID     string `json:"teamId"`
	InviteCode string `json:"inviteCode"`
	ExpiresAt  string `json:"expiresAt"`
	CreatedAt  string `json:"createdAt"`
}

func toInviteResponse(inv *team.Invite) inviteResponse {
	return inviteResponse{
		Email:      inv.Email,
		TeamID:     inv.TeamID.String(),
		InviteCode: inv.InviteCode,
		ExpiresAt:  inv.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"),
		CreatedAt:  inv.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// InviteHandler handles team invitation endpoints.
type InviteHandler struct {
	service *membership.Service
	invites team.InviteRepository
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(service *membership.Service, invites team.InviteRepository) *InviteHandler {
	return &InviteHandler{service: service, invites: invites}
}

// Create handles POST /teams/invites.
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateInviteRequest(validation.InviteRequest{Email: req.Email})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	inv, err := h.service.Invite(r.Context(), identity.UserID, req.Email)
	if err != nil {
		writeMembershipError(w, err, "Failed to create invite", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toInviteResponse(inv), requestID)
}

// List handles GET /teams/invites.
func (h *InviteHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	if !identity.IsTeamOwner || identity.TeamID == nil {
		response.Err(w, http.StatusForbidden, "NOT_TEAM_OWNER", "Only the team owner can do this", requestID)
		return
	}

	invites, err := h.invites.ListInvitesByTeam(r.Context(), *identity.TeamID)
	if err != nil {
		slog.Error("failed to list invites", "error", err, "teamId", *identity.TeamID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list invites", requestID)
		return
	}

	items := make([]inviteResponse, 0, len(invites))
	for i := range invites {
		items = append(items, toInviteResponse(&invites[i]))
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// Resend handles POST /teams/invites/{code}/resend.
func (h *InviteHandler) Resend(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	code := chi.URLParam(r, "code")
	if err := h.service.ResendInvite(r.Context(), identity.UserID, code); err != nil {
		writeMembershipError(w, err, "Failed to resend invite", requestID)
		return
	}

	response.NoContent(w)
}

// Revoke handles DELETE /teams/invites/{code}.
func (h *InviteHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	code := chi.URLParam(r, "code")
	if err := h.service.RevokeInvite(r.Context(), identity.UserID, code); err != nil {
		writeMembershipError(w, err, "Failed to revoke invite", requestID)
		return
	}

	response.NoContent(w)
}

// Accept handles POST /invites/{code}/accept: join the inviting team. The
// invitee's personal projects and doc spaces are deleted; todo lists stay.
func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	code := chi.URLParam(r, "code")
	if err := h.service.AcceptInvite(r.Context(), identity.UserID, code); err != nil {
		writeMembershipError(w, err, "Failed to accept invite", requestID)
		return
	}

	response.NoContent(w)
}
