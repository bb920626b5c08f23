package validation

import (
	"net/mail"
	"strings"
)

// CreateTeamRequest mirrors the fields needed for upgrade-to-team validation.
type CreateTeamRequest struct {
	Name string
}

// ValidateCreateTeamRequest validates the fields of an upgrade request.
func ValidateCreateTeamRequest(req CreateTeamRequest) []FieldError {
	var errs []FieldError

	name := strings.TrimSpace(req.Name)
	if name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "team name is required"})
	} else if len(name) > 255 {
		errs = append(errs, FieldError{Field: "name", Message: "team name must be at most 255 characters"})
	}

	return errs
}

// TransferRequest mirrors the fields needed for ownership transfer validation.
type TransferRequest struct {
	TargetID string
}

// ValidateTransferRequest validates the fields of a transfer request.
func ValidateTransferRequest(req TransferRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.TargetID) == "" {
		errs = append(errs, FieldError{Field: "targetId", Message: "transfer target is required"})
	}

	return errs
}

// DeleteTeamRequest mirrors the fields needed for delete-team validation.
// The confirmation is deliberately not trimmed: it must match the team name
// exactly as typed.
type DeleteTeamRequest struct {
	ConfirmName string
}

// ValidateDeleteTeamRequest validates the fields of a delete-team request.
func ValidateDeleteTeamRequest(req DeleteTeamRequest) []FieldError {
	var errs []FieldError

	if req.ConfirmName == "" {
		errs = append(errs, FieldError{Field: "confirmName", Message: "type the team name to confirm deletion"})
	}

	return errs
}

// InviteRequest mirrors the fields needed for invite validation.
type InviteRequest struct {
	Email string
}

// ValidateInviteRequest validates the fields of an invite request.
func ValidateInviteRequest(req InviteRequest) []FieldError {
	var errs []FieldError

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}

	return errs
}
