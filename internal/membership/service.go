package membership

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swifttasks/swifttasks/internal/content"
	"github.com/swifttasks/swifttasks/internal/notification"
	"github.com/swifttasks/swifttasks/internal/team"
	"github.com/swifttasks/swifttasks/internal/user"
)

// Precondition errors. Every operation re-validates its preconditions here,
// before the first mutation, whatever the UI promised.
var (
	ErrNotSoloAccount         = errors.New("user already belongs to a team")
	ErrNotTeamMember          = errors.New("user is not a team member")
	ErrOwnerMustTransferFirst = errors.New("team owner must transfer ownership or delete the team first")
	ErrNotTeamOwner           = errors.New("user is not the team owner")
	ErrTargetNotMember        = errors.New("transfer target is not a member of this team")
	ErrTargetIsOwner          = errors.New("transfer target already owns the team")
	ErrConfirmationMismatch   = errors.New("confirmation text does not match the team name")
	ErrAlreadyInTeam          = errors.New("user already belongs to a team")
	ErrInviteExpired          = errors.New("invite has expired")
)

// DowngradeOptions are the three independent content choices offered when a
// member leaves their team.
type DowngradeOptions struct {
	MigrateTodoLists bool // detach the user's todo lists from the team
	KeepProjects     bool // keep personal projects instead of deleting them
	KeepDocSpaces    bool // keep personal doc spaces instead of deleting them
}

// TransferOptions control what happens to the outgoing owner. When both are
// true the caller stays on the team as a regular member; otherwise they drop
// to a solo account. No content cascade runs either way.
type TransferOptions struct {
	KeepProjects  bool
	KeepDocSpaces bool
}

// ContentSummary backs the confirmation dialogs shown before a transition.
// Team counts are present only for team owners.
type ContentSummary struct {
	Personal content.Summary
	Team     *content.TeamSummary
}

// Service orchestrates the account-type transition workflow: upgrade to a
// team, downgrade to solo, ownership transfer, team deletion and invite
// acceptance. Each operation is a sequence of independent statements; a
// failure aborts the remaining steps and performs no compensating rollback,
// so callers must tolerate the documented partial states.
type Service struct {
	users         user.Repository
	teams         team.Repository
	invites       team.InviteRepository
	contents      content.Repository
	notifications notification.Repository
	inviteTTL     time.Duration
}

// NewService creates a new membership Service.
func NewService(
	users user.Repository,
	teams team.Repository,
	invites team.InviteRepository,
	contents content.Repository,
	notifications notification.Repository,
	inviteTTL time.Duration,
) *Service {
	return &Service{
		users:         users,
		teams:         teams,
		invites:       invites,
		contents:      contents,
		notifications: notifications,
		inviteTTL:     inviteTTL,
	}
}

// Upgrade converts a solo account into a team owner. The user's personal
// content is left untouched: it stays personal (team_id null) and remains
// visible to them after the upgrade.
//
// If the membership update fails after the team row is created, the team row
// is left behind with no member pointing at it. There is deliberately no
// compensating delete; the failure is logged and surfaced.
func (s *Service) Upgrade(ctx context.Context, userID uuid.UUID, teamName string) (*team.Team, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	if u.AccountType != user.AccountSingle {
		return nil, ErrNotSoloAccount
	}

	t := &team.Team{Name: strings.TrimSpace(teamName), OwnerID: userID}
	if err := s.teams.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("creating team: %w", err)
	}

	m := user.Membership{AccountType: user.AccountTeamMember, TeamID: &t.ID, IsTeamOwner: true}
	if err := s.users.UpdateMembership(ctx, userID, m); err != nil {
		slog.Error("upgrade left an orphaned team row", "teamId", t.ID, "userId", userID, "error", err)
		return nil, fmt.Errorf("updating membership: %w", err)
	}

	return t, nil
}

// Downgrade converts a non-owner team member back to a solo account,
// honoring the caller's three content choices. The membership reset is
// always the last step, so a failure partway through content deletion never
// leaves the user mid-transition with inconsistent flags.
func (s *Service) Downgrade(ctx context.Context, userID uuid.UUID, opts DowngradeOptions) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}
	if u.AccountType != user.AccountTeamMember || u.TeamID == nil {
		return ErrNotTeamMember
	}
	if u.IsTeamOwner {
		return ErrOwnerMustTransferFirst
	}

	if opts.MigrateTodoLists {
		if err := s.contents.ClearTodoListTeam(ctx, userID); err != nil {
			return err
		}
	}

	if !opts.KeepProjects {
		ids, err := s.contents.ListPersonalProjectIDs(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.contents.DeleteProjectsCascade(ctx, ids); err != nil {
			return err
		}
	}

	if !opts.KeepDocSpaces {
		ids, err := s.contents.ListPersonalDocSpaceIDs(ctx, userID)
		if err != nil {
			return err
		}
		if err := s.contents.DeleteDocSpacesCascade(ctx, ids); err != nil {
			return err
		}
	}

	if err := s.users.UpdateMembership(ctx, userID, user.SoloMembership()); err != nil {
		return fmt.Errorf("resetting membership: %w", err)
	}

	return nil
}

// Transfer hands team ownership to another member of the same team. At the
// end exactly one member carries is_team_owner. No content cascade runs: any
// personal content the caller has stays theirs, and team content they owned
// is abandoned to the new owner.
func (s *Service) Transfer(ctx context.Context, callerID, targetID uuid.UUID, opts TransferOptions) error {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return fmt.Errorf("loading caller: %w", err)
	}
	if !caller.IsTeamOwner || caller.TeamID == nil {
		return ErrNotTeamOwner
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrTargetNotMember
		}
		return fmt.Errorf("loading target: %w", err)
	}
	if target.TeamID == nil || *target.TeamID != *caller.TeamID {
		return ErrTargetNotMember
	}
	if target.IsTeamOwner {
		return ErrTargetIsOwner
	}

	if err := s.users.SetTeamOwner(ctx, targetID, true); err != nil {
		return fmt.Errorf("promoting target: %w", err)
	}

	if err := s.teams.UpdateOwner(ctx, *caller.TeamID, targetID); err != nil {
		return fmt.Errorf("updating team owner: %w", err)
	}

	if opts.KeepProjects && opts.KeepDocSpaces {
		if err := s.users.SetTeamOwner(ctx, callerID, false); err != nil {
			return fmt.Errorf("demoting caller: %w", err)
		}
		return nil
	}

	if err := s.users.UpdateMembership(ctx, callerID, user.SoloMembership()); err != nil {
		return fmt.Errorf("resetting caller membership: %w", err)
	}

	return nil
}

// DeleteTeam removes a team and everything it owns. The typed confirmation
// must exactly equal the team's current name (case-sensitive); nothing is
// mutated on a mismatch. Deletion is strictly parent-after-children: board
// chain and doc pages first, then top-level content, then memberships,
// invites and finally the team row.
func (s *Service) DeleteTeam(ctx context.Context, callerID uuid.UUID, confirmName string) error {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return fmt.Errorf("loading caller: %w", err)
	}
	if !caller.IsTeamOwner || caller.TeamID == nil {
		return ErrNotTeamOwner
	}

	teamID := *caller.TeamID
	t, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return fmt.Errorf("loading team: %w", err)
	}
	if confirmName != t.Name {
		return ErrConfirmationMismatch
	}

	projectIDs, err := s.contents.ListTeamProjectIDs(ctx, teamID)
	if err != nil {
		return err
	}
	if err := s.contents.DeleteProjectsCascade(ctx, projectIDs); err != nil {
		return err
	}

	spaceIDs, err := s.contents.ListTeamDocSpaceIDs(ctx, teamID)
	if err != nil {
		return err
	}
	if err := s.contents.DeleteDocSpacesCascade(ctx, spaceIDs); err != nil {
		return err
	}

	if err := s.contents.DeleteTodoListsByTeam(ctx, teamID); err != nil {
		return err
	}

	if err := s.users.ResetMembershipByTeam(ctx, teamID); err != nil {
		return err
	}

	if err := s.invites.DeleteInvitesByTeam(ctx, teamID); err != nil {
		return err
	}

	if err := s.teams.Delete(ctx, teamID); err != nil {
		return err
	}

	return nil
}

// AcceptInvite joins a user to the inviting team. The invitee's personal
// projects and doc spaces are deleted first; todo lists are spared and stay
// personal. Once the membership update commits, the consumed invite and its
// notification are removed best-effort: failures there are logged and
// swallowed, because reverting the committed membership change would be
// worse than leaving a stray row.
func (s *Service) AcceptInvite(ctx context.Context, userID uuid.UUID, inviteCode string) error {
	inv, err := s.invites.GetInviteByCode(ctx, inviteCode)
	if err != nil {
		return err
	}
	if inv.Expired(time.Now()) {
		return ErrInviteExpired
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("loading user: %w", err)
	}
	if u.AccountType == user.AccountTeamMember {
		return ErrAlreadyInTeam
	}

	if _, err := s.teams.GetByID(ctx, inv.TeamID); err != nil {
		return fmt.Errorf("loading inviting team: %w", err)
	}

	projectIDs, err := s.contents.ListPersonalProjectIDs(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.contents.DeleteProjectsCascade(ctx, projectIDs); err != nil {
		return err
	}

	spaceIDs, err := s.contents.ListPersonalDocSpaceIDs(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.contents.DeleteDocSpacesCascade(ctx, spaceIDs); err != nil {
		return err
	}

	m := user.Membership{AccountType: user.AccountTeamMember, TeamID: &inv.TeamID, IsTeamOwner: false}
	if err := s.users.UpdateMembership(ctx, userID, m); err != nil {
		return fmt.Errorf("updating membership: %w", err)
	}

	if err := s.invites.DeleteInvite(ctx, inviteCode); err != nil {
		slog.Warn("failed to delete consumed invite", "inviteCode", inviteCode, "error", err)
	}
	if err := s.notifications.DeleteByInviteCode(ctx, userID, inviteCode); err != nil {
		slog.Warn("failed to delete invite notification", "inviteCode", inviteCode, "error", err)
	}

	return nil
}

// Summary returns the content counts shown before a transition. Team counts
// are included only when the user owns a team.
func (s *Service) Summary(ctx context.Context, userID uuid.UUID) (*ContentSummary, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	personal, err := s.contents.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &ContentSummary{Personal: *personal}

	if u.IsTeamOwner && u.TeamID != nil {
		teamCounts, err := s.contents.TeamSummary(ctx, *u.TeamID)
		if err != nil {
			return nil, err
		}
		summary.Team = teamCounts
	}

	return summary, nil
}

// Invite creates a pending invitation to the caller's team. If the invitee
// already has an account, a team_invitation notification is dropped in their
// inbox; a failure there does not fail the invite.
func (s *Service) Invite(ctx context.Context, callerID uuid.UUID, email string) (*team.Invite, error) {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("loading caller: %w", err)
	}
	if !caller.IsTeamOwner || caller.TeamID == nil {
		return nil, ErrNotTeamOwner
	}

	t, err := s.teams.GetByID(ctx, *caller.TeamID)
	if err != nil {
		return nil, fmt.Errorf("loading team: %w", err)
	}

	code, err := newInviteCode()
	if err != nil {
		return nil, err
	}

	inv := &team.Invite{
		Email:      strings.ToLower(strings.TrimSpace(email)),
		TeamID:     t.ID,
		InviteCode: code,
		ExpiresAt:  time.Now().Add(s.inviteTTL),
	}
	if err := s.invites.CreateInvite(ctx, inv); err != nil {
		return nil, err
	}

	invitee, err := s.users.GetByEmail(ctx, inv.Email)
	if err != nil {
		if !errors.Is(err, user.ErrUserNotFound) {
			slog.Warn("failed to look up invitee", "email", inv.Email, "error", err)
		}
		return inv, nil
	}

	n := &notification.Notification{
		UserID: invitee.ID,
		Type:   notification.TypeTeamInvitation,
		Data: notification.InvitePayload{
			TeamID:     t.ID,
			TeamName:   t.Name,
			InviteCode: inv.InviteCode,
		},
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		slog.Warn("failed to create invite notification", "inviteCode", inv.InviteCode, "error", err)
	}

	return inv, nil
}

// ResendInvite extends a pending invite's expiry window.
func (s *Service) ResendInvite(ctx context.Context, callerID uuid.UUID, inviteCode string) error {
	inv, err := s.inviteForOwner(ctx, callerID, inviteCode)
	if err != nil {
		return err
	}

	return s.invites.ExtendInvite(ctx, inv.InviteCode, time.Now().Add(s.inviteTTL))
}

// RevokeInvite deletes a pending invite.
func (s *Service) RevokeInvite(ctx context.Context, callerID uuid.UUID, inviteCode string) error {
	inv, err := s.inviteForOwner(ctx, callerID, inviteCode)
	if err != nil {
		return err
	}

	return s.invites.DeleteInvite(ctx, inv.InviteCode)
}

// inviteForOwner loads an invite and checks the caller owns its team.
// Invites of other teams are reported as not found, not as forbidden.
func (s *Service) inviteForOwner(ctx context.Context, callerID uuid.UUID, inviteCode string) (*team.Invite, error) {
	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("loading caller: %w", err)
	}
	if !caller.IsTeamOwner || caller.TeamID == nil {
		return nil, ErrNotTeamOwner
	}

	inv, err := s.invites.GetInviteByCode(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	if inv.TeamID != *caller.TeamID {
		return nil, team.ErrInviteNotFound
	}

	return inv, nil
}

// newInviteCode generates a URL-safe random invite code.
func newInviteCode() (string, error) {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating invite code: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
