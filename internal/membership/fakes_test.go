package membership_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/swifttasks/swifttasks/internal/content"
	"github.com/swifttasks/swifttasks/internal/notification"
	"github.com/swifttasks/swifttasks/internal/team"
	"github.com/swifttasks/swifttasks/internal/user"
)

// In-memory fakes for the repositories the membership service orchestrates.
// Each fake records the mutations it receives so tests can assert on order
// and arguments; error fields force a failure on the matching call.

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User

	updateMembershipErr error
	setTeamOwnerErr     error

	resetByTeamCalls []uuid.UUID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (r *fakeUserRepo) add(u *user.User) *user.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.add(u)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) ListByTeam(_ context.Context, teamID uuid.UUID) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		if u.TeamID != nil && *u.TeamID == teamID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateMembership(_ context.Context, id uuid.UUID, m user.Membership) error {
	if r.updateMembershipErr != nil {
		return r.updateMembershipErr
	}
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.AccountType = m.AccountType
	u.TeamID = m.TeamID
	u.IsTeamOwner = m.IsTeamOwner
	return nil
}

func (r *fakeUserRepo) SetTeamOwner(_ context.Context, id uuid.UUID, isOwner bool) error {
	if r.setTeamOwnerErr != nil {
		return r.setTeamOwnerErr
	}
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.IsTeamOwner = isOwner
	return nil
}

func (r *fakeUserRepo) ResetMembershipByTeam(_ context.Context, teamID uuid.UUID) error {
	r.resetByTeamCalls = append(r.resetByTeamCalls, teamID)
	for _, u := range r.users {
		if u.TeamID != nil && *u.TeamID == teamID {
			u.AccountType = user.AccountSingle
			u.TeamID = nil
			u.IsTeamOwner = false
		}
	}
	return nil
}

type fakeTeamRepo struct {
	teams   map[uuid.UUID]*team.Team
	invites map[string]*team.Invite

	createErr       error
	createInviteErr error
	deleteInviteErr error

	deleted             []uuid.UUID
	deletedInvitesTeams []uuid.UUID
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{
		teams:   make(map[uuid.UUID]*team.Team),
		invites: make(map[string]*team.Invite),
	}
}

func (r *fakeTeamRepo) Create(_ context.Context, t *team.Team) error {
	if r.createErr != nil {
		return r.createErr
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.teams[t.ID] = t
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id uuid.UUID) (*team.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, team.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTeamRepo) UpdateOwner(_ context.Context, id, ownerID uuid.UUID) error {
	t, ok := r.teams[id]
	if !ok {
		return team.ErrTeamNotFound
	}
	t.OwnerID = ownerID
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.teams[id]; !ok {
		return team.ErrTeamNotFound
	}
	delete(r.teams, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeTeamRepo) CreateInvite(_ context.Context, inv *team.Invite) error {
	if r.createInviteErr != nil {
		return r.createInviteErr
	}
	for _, existing := range r.invites {
		if existing.Email == inv.Email && existing.TeamID == inv.TeamID {
			return team.ErrDuplicateInvite
		}
	}
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invites[inv.InviteCode] = inv
	return nil
}

func (r *fakeTeamRepo) GetInviteByCode(_ context.Context, code string) (*team.Invite, error) {
	inv, ok := r.invites[code]
	if !ok {
		return nil, team.ErrInviteNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeTeamRepo) ListInvitesByTeam(_ context.Context, teamID uuid.UUID) ([]team.Invite, error) {
	var out []team.Invite
	for _, inv := range r.invites {
		if inv.TeamID == teamID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) ExtendInvite(_ context.Context, code string, expiresAt time.Time) error {
	inv, ok := r.invites[code]
	if !ok {
		return team.ErrInviteNotFound
	}
	inv.ExpiresAt = expiresAt
	return nil
}

func (r *fakeTeamRepo) DeleteInvite(_ context.Context, code string) error {
	if r.deleteInviteErr != nil {
		return r.deleteInviteErr
	}
	if _, ok := r.invites[code]; !ok {
		return team.ErrInviteNotFound
	}
	delete(r.invites, code)
	return nil
}

func (r *fakeTeamRepo) DeleteInvitesByTeam(_ context.Context, teamID uuid.UUID) error {
	r.deletedInvitesTeams = append(r.deletedInvitesTeams, teamID)
	for code, inv := range r.invites {
		if inv.TeamID == teamID {
			delete(r.invites, code)
		}
	}
	return nil
}

// fakeContentRepo satisfies content.Repository via the embedded interface;
// the membership service only touches the methods implemented below, and any
// other call panics on the nil embed, which is exactly what a test wants.
type fakeContentRepo struct {
	content.Repository

	personalProjectIDs  []uuid.UUID
	personalDocSpaceIDs []uuid.UUID
	teamProjectIDs      []uuid.UUID
	teamDocSpaceIDs     []uuid.UUID
	personalSummary     content.Summary
	teamSummary         content.TeamSummary

	projectCascadeErr error

	clearedTodoListOwners []uuid.UUID
	deletedTodoListTeams  []uuid.UUID
	projectCascades       [][]uuid.UUID
	docSpaceCascades      [][]uuid.UUID
}

func (r *fakeContentRepo) ClearTodoListTeam(_ context.Context, ownerID uuid.UUID) error {
	r.clearedTodoListOwners = append(r.clearedTodoListOwners, ownerID)
	return nil
}

func (r *fakeContentRepo) DeleteTodoListsByTeam(_ context.Context, teamID uuid.UUID) error {
	r.deletedTodoListTeams = append(r.deletedTodoListTeams, teamID)
	return nil
}

func (r *fakeContentRepo) ListPersonalProjectIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return r.personalProjectIDs, nil
}

func (r *fakeContentRepo) ListTeamProjectIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return r.teamProjectIDs, nil
}

func (r *fakeContentRepo) ListPersonalDocSpaceIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return r.personalDocSpaceIDs, nil
}

func (r *fakeContentRepo) ListTeamDocSpaceIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return r.teamDocSpaceIDs, nil
}

func (r *fakeContentRepo) DeleteProjectsCascade(_ context.Context, ids []uuid.UUID) error {
	if r.projectCascadeErr != nil {
		return r.projectCascadeErr
	}
	r.projectCascades = append(r.projectCascades, ids)
	return nil
}

func (r *fakeContentRepo) DeleteDocSpacesCascade(_ context.Context, ids []uuid.UUID) error {
	r.docSpaceCascades = append(r.docSpaceCascades, ids)
	return nil
}

func (r *fakeContentRepo) Summary(_ context.Context, _ uuid.UUID) (*content.Summary, error) {
	cp := r.personalSummary
	return &cp, nil
}

func (r *fakeContentRepo) TeamSummary(_ context.Context, _ uuid.UUID) (*content.TeamSummary, error) {
	cp := r.teamSummary
	return &cp, nil
}

type fakeNotificationRepo struct {
	created []notification.Notification

	createErr             error
	deleteByInviteCodeErr error

	deletedByCode []string
}

func (r *fakeNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.created = append(r.created, *n)
	return nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range r.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, _, _ uuid.UUID) error {
	return nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, _, _ uuid.UUID) error {
	return nil
}

func (r *fakeNotificationRepo) DeleteByInviteCode(_ context.Context, _ uuid.UUID, inviteCode string) error {
	if r.deleteByInviteCodeErr != nil {
		return r.deleteByInviteCodeErr
	}
	r.deletedByCode = append(r.deletedByCode, inviteCode)
	return nil
}
