package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/google/uuid"
	"github.com/swifttasks/swifttasks/internal/user"
)

// ErrInvalidCredentials is returned when email/password verification fails.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Identity is stored in the request context after authentication.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	DisplayName string
	AccountType string
	TeamID      *uuid.UUID // nil for solo users
	IsTeamOwner bool
}

// Service provides registration, login and session verification.
type Service struct {
	users      user.Repository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
}

// NewService creates a new auth Service.
func NewService(users user.Repository, secret string, tokenTTL time.Duration, bcryptCost int) *Service {
	return &Service{
		users:      users,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new solo-account user with a bcrypt password hash.
func (s *Service) Register(ctx context.Context, email, displayName, password string) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &user.User{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		DisplayName:  displayName,
		PasswordHash: string(hash),
		AccountType:  user.AccountSingle,
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Login verifies credentials and mints a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *user.User, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("looking up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := mintToken(s.secret, u.ID, u.Email, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}

	return token, u, nil
}

// Verify resolves a session token to an Identity. Membership fields are
// loaded fresh so a transition in another session is visible immediately.
func (s *Service) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	userID, err := parseToken(s.secret, tokenString)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	return &Identity{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AccountType: u.AccountType,
		TeamID:      u.TeamID,
		IsTeamOwner: u.IsTeamOwner,
	}, nil
}
