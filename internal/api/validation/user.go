package validation

import (
	"net/mail"
	"strings"
)

// RegisterRequest mirrors the fields needed for registration validation.
type RegisterRequest struct {
	Email       string
	DisplayName string
	Password    string
}

// ValidateRegisterRequest validates the fields of a registration request.
func ValidateRegisterRequest(req RegisterRequest) []FieldError {
	var errs []FieldError

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, FieldError{Field: "email", Message: "email must be a valid address"})
	}

	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		errs = append(errs, FieldError{Field: "displayName", Message: "display name is required"})
	} else if len(name) > 100 {
		errs = append(errs, FieldError{Field: "displayName", Message: "display name must be at most 100 characters"})
	}

	if len(req.Password) < 8 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at least 8 characters"})
	} else if len(req.Password) > 72 {
		errs = append(errs, FieldError{Field: "password", Message: "password must be at most 72 characters"})
	}

	return errs
}

// LoginRequest mirrors the fields needed for login validation.
type LoginRequest struct {
	Email    string
	Password string
}

// ValidateLoginRequest validates the fields of a login request.
func ValidateLoginRequest(req LoginRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, FieldError{Field: "email", Message: "email is required"})
	}
	if req.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: "password is required"})
	}

	return errs
}
