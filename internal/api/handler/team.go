package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/swifttasks/swifttasks/internal/api/middleware"
	"github.com/swifttasks/swifttasks/internal/api/response"
	"github.com/swifttasks/swifttasks/internal/api/validation"
	"github.com/swifttasks/swifttasks/internal/membership"
	"github.com/swifttasks/swifttasks/internal/team"
	"github.com/swifttasks/swifttasks/internal/user"
)

type createTeamRequest struct {
	Name string `json:"name"`
}

type teamResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	CreatedAt string `json:"createdAt"`
}

func toTeamResponse(t *team.Team) teamResponse {
	return teamResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		OwnerID:   t.OwnerID.String(),
		CreatedAt: t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

type leaveTeamRequest struct {
	MigrateTodoLists bool `json:"migrateTodoLists"`
	KeepProjects     bool `json:"keepProjects"`
	KeepDocSpaces    bool `json:"keepDocSpaces"`
}

type transferRequest struct {
	TargetID      string `json:"targetId"`
	KeepProjects  bool   `json:"keepProjects"`
	KeepDocSpaces bool   `json:"keepDocSpaces"`
}

type deleteTeamRequest struct {
	ConfirmName string `json:"confirmName"`
}

type memberResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	IsTeamOwner bool   `json:"isTeamOwner"`
}

// TeamHandler exposes the account-type transition workflow over HTTP.
type TeamHandler struct {
	service *membership.Service
	users   user.Repository
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(service *membership.Service, users user.Repository) *TeamHandler {
	return &TeamHandler{service: service, users: users}
}

// Create handles POST /teams: upgrade a solo account to a team owner.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	t, err := h.service.Upgrade(r.Context(), identity.UserID, req.Name)
	if err != nil {
		writeMembershipError(w, err, "Failed to create team", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toTeamResponse(t), requestID)
}

// Leave handles POST /teams/leave: downgrade a non-owner member to solo.
func (h *TeamHandler) Leave(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req leaveTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	opts := membership.DowngradeOptions{
		MigrateTodoLists: req.MigrateTodoLists,
		KeepProjects:     req.KeepProjects,
		KeepDocSpaces:    req.KeepDocSpaces,
	}
	if err := h.service.Downgrade(r.Context(), identity.UserID, opts); err != nil {
		writeMembershipError(w, err, "Failed to leave team", requestID)
		return
	}

	response.NoContent(w)
}

// Transfer handles POST /teams/transfer: hand ownership to another member.
func (h *TeamHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateTransferRequest(validation.TransferRequest{TargetID: req.TargetID})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "targetId must be a valid UUID", requestID)
		return
	}

	opts := membership.TransferOptions{
		KeepProjects:  req.KeepProjects,
		KeepDocSpaces: req.KeepDocSpaces,
	}
	if err := h.service.Transfer(r.Context(), identity.UserID, targetID, opts); err != nil {
		writeMembershipError(w, err, "Failed to transfer ownership", requestID)
		return
	}

	response.NoContent(w)
}

// Delete handles DELETE /teams: delete the caller's team and everything it
// owns. The request must carry the team name typed exactly.
func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req deleteTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateDeleteTeamRequest(validation.DeleteTeamRequest{ConfirmName: req.ConfirmName})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	if err := h.service.DeleteTeam(r.Context(), identity.UserID, req.ConfirmName); err != nil {
		writeMembershipError(w, err, "Failed to delete team", requestID)
		return
	}

	response.NoContent(w)
}

// Members handles GET /teams/members.
func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	identity := middleware.GetIdentity(r.Context())

	if identity.TeamID == nil {
		response.Err(w, http.StatusConflict, "NOT_TEAM_MEMBER", "You are not a member of a team", requestID)
		return
	}

	members, err := h.users.ListByTeam(r.Context(), *identity.TeamID)
	if err != nil {
		slog.Error("failed to list team members", "error", err, "teamId", *identity.TeamID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list members", requestID)
		return
	}

	items := make([]memberResponse, 0, len(members))
	for i := range members {
		m := &members[i]
		items = append(items, memberResponse{
			ID:          m.ID.String(),
			Email:       m.Email,
			DisplayName: m.DisplayName,
			IsTeamOwner: m.IsTeamOwner,
		})
	}

	response.Success(w, http.StatusOK, items, requestID)
}

// writeMembershipError maps transition workflow sentinels to HTTP statuses.
// Unknown errors are logged and reported as a generic failure.
func writeMembershipError(w http.ResponseWriter, err error, fallback, requestID string) {
	switch {
	case errors.Is(err, membership.ErrNotSoloAccount), errors.Is(err, membership.ErrAlreadyInTeam):
		response.Err(w, http.StatusConflict, "ALREADY_TEAM_MEMBER", "You already belong to a team", requestID)
	case errors.Is(err, membership.ErrNotTeamMember):
		response.Err(w, http.StatusConflict, "NOT_TEAM_MEMBER", "You are not a member of a team", requestID)
	case errors.Is(err, membership.ErrOwnerMustTransferFirst):
		response.Err(w, http.StatusConflict, "OWNER_MUST_TRANSFER", "Transfer ownership or delete the team before leaving", requestID)
	case errors.Is(err, membership.ErrNotTeamOwner):
		response.Err(w, http.StatusForbidden, "NOT_TEAM_OWNER", "Only the team owner can do this", requestID)
	case errors.Is(err, membership.ErrTargetNotMember):
		response.Err(w, http.StatusConflict, "TARGET_NOT_MEMBER", "Transfer target must be a member of your team", requestID)
	case errors.Is(err, membership.ErrTargetIsOwner):
		response.Err(w, http.StatusConflict, "TARGET_ALREADY_OWNER", "Transfer target already owns the team", requestID)
	case errors.Is(err, membership.ErrConfirmationMismatch):
		response.Err(w, http.StatusBadRequest, "CONFIRMATION_MISMATCH", "Confirmation text does not match the team name", requestID)
	case errors.Is(err, membership.ErrInviteExpired):
		response.Err(w, http.StatusGone, "INVITE_EXPIRED", "This invitation has expired", requestID)
	case errors.Is(err, team.ErrInviteNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Invite not found", requestID)
	case errors.Is(err, team.ErrTeamNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
	case errors.Is(err, team.ErrDuplicateInvite):
		response.Err(w, http.StatusConflict, "DUPLICATE_INVITE", "An invite for this email is already pending", requestID)
	case errors.Is(err, user.ErrUserNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "User not found", requestID)
	default:
		slog.Error("membership operation failed", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", fallback, requestID)
	}
}
