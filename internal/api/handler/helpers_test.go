package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/swifttasks/swifttasks/internal/api/middleware"
	"github.com/swifttasks/swifttasks/internal/auth"
	"github.com/swifttasks/swifttasks/internal/content"
	"github.com/swifttasks/swifttasks/internal/membership"
	"github.com/swifttasks/swifttasks/internal/notification"
	"github.com/swifttasks/swifttasks/internal/team"
	"github.com/swifttasks/swifttasks/internal/user"
)

// envelope mirrors the response wrapper for assertions.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"requestId"`
	} `json:"meta"`
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// authedRequest builds a request whose context carries the given identity,
// as the auth middleware would have left it.
func authedRequest(t *testing.T, method, target string, body any, identity *auth.Identity) *http.Request {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	return req
}

func identityFor(u *user.User) *auth.Identity {
	return &auth.Identity{
		UserID:      u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AccountType: u.AccountType,
		TeamID:      u.TeamID,
		IsTeamOwner: u.IsTeamOwner,
	}
}

// memUserRepo is an in-memory user.Repository.
type memUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (r *memUserRepo) add(u *user.User) *user.User {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return u
}

func (r *memUserRepo) Create(_ context.Context, u *user.User) error {
	r.add(u)
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memUserRepo) ListByTeam(_ context.Context, teamID uuid.UUID) ([]user.User, error) {
	var out []user.User
	for _, u := range r.users {
		if u.TeamID != nil && *u.TeamID == teamID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) UpdateMembership(_ context.Context, id uuid.UUID, m user.Membership) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.AccountType = m.AccountType
	u.TeamID = m.TeamID
	u.IsTeamOwner = m.IsTeamOwner
	return nil
}

func (r *memUserRepo) SetTeamOwner(_ context.Context, id uuid.UUID, isOwner bool) error {
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.IsTeamOwner = isOwner
	return nil
}

func (r *memUserRepo) ResetMembershipByTeam(_ context.Context, teamID uuid.UUID) error {
	for _, u := range r.users {
		if u.TeamID != nil && *u.TeamID == teamID {
			u.AccountType = user.AccountSingle
			u.TeamID = nil
			u.IsTeamOwner = false
		}
	}
	return nil
}

// memTeamRepo is an in-memory team.Repository plus team.InviteRepository.
type memTeamRepo struct {
	teams   map[uuid.UUID]*team.Team
	invites map[string]*team.Invite
}

func newMemTeamRepo() *memTeamRepo {
	return &memTeamRepo{
		teams:   make(map[uuid.UUID]*team.Team),
		invites: make(map[string]*team.Invite),
	}
}

func (r *memTeamRepo) Create(_ context.Context, t *team.Team) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	r.teams[t.ID] = t
	return nil
}

func (r *memTeamRepo) GetByID(_ context.Context, id uuid.UUID) (*team.Team, error) {
	t, ok := r.teams[id]
	if !ok {
		return nil, team.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *memTeamRepo) UpdateOwner(_ context.Context, id, ownerID uuid.UUID) error {
	t, ok := r.teams[id]
	if !ok {
		return team.ErrTeamNotFound
	}
	t.OwnerID = ownerID
	return nil
}

func (r *memTeamRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.teams, id)
	return nil
}

func (r *memTeamRepo) CreateInvite(_ context.Context, inv *team.Invite) error {
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

func (r *memTeamRepo) GetInviteByCode(_ context.Context, code string) (*team.Invite, error) {
	inv, ok := r.invites[code]
	if !ok {
		return nil, team.ErrInviteNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r *memTeamRepo) ListInvitesByTeam(_ context.Context, teamID uuid.UUID) ([]team.Invite, error) {
	var out []team.Invite
	for _, inv := range r.invites {
		if inv.TeamID == teamID {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memTeamRepo) ExtendInvite(_ context.Context, code string, expiresAt time.Time) error {
	inv, ok := r.invites[code]
	if !ok {
		return team.ErrInviteNotFound
	}
	inv.ExpiresAt = expiresAt
	return nil
}

func (r *memTeamRepo) DeleteInvite(_ context.Context, code string) error {
	delete(r.invites, code)
	return nil
}

func (r *memTeamRepo) DeleteInvitesByTeam(_ context.Context, teamID uuid.UUID) error {
	for code, inv := range r.invites {
		if inv.TeamID == teamID {
			delete(r.invites, code)
		}
	}
	return nil
}

// memContentRepo satisfies content.Repository via the embedded interface;
// only the methods the transition workflow touches are implemented, plus the
// id lists handed back to the service.
type memContentRepo struct {
	content.Repository

	personalProjectIDs  []uuid.UUID
	personalDocSpaceIDs []uuid.UUID
	teamProjectIDs      []uuid.UUID
	teamDocSpaceIDs     []uuid.UUID
	personalSummary     content.Summary
	teamSummaryCounts   content.TeamSummary

	projectCascades  [][]uuid.UUID
	docSpaceCascades [][]uuid.UUID
	todoTeamDeletes  []uuid.UUID
	todoTeamClears   []uuid.UUID
}

func (r *memContentRepo) ClearTodoListTeam(_ context.Context, ownerID uuid.UUID) error {
	r.todoTeamClears = append(r.todoTeamClears, ownerID)
	return nil
}

func (r *memContentRepo) DeleteTodoListsByTeam(_ context.Context, teamID uuid.UUID) error {
	r.todoTeamDeletes = append(r.todoTeamDeletes, teamID)
	return nil
}

func (r *memContentRepo) ListPersonalProjectIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return r.personalProjectIDs, nil
}

func (r *memContentRepo) ListTeamProjectIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return r.teamProjectIDs, nil
}

func (r *memContentRepo) ListPersonalDocSpaceIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return r.personalDocSpaceIDs, nil
}

func (r *memContentRepo) ListTeamDocSpaceIDs(_ context.Context, _ uuid.UUID) ([]uuid.UUID, error) {
	return r.teamDocSpaceIDs, nil
}

func (r *memContentRepo) DeleteProjectsCascade(_ context.Context, ids []uuid.UUID) error {
	r.projectCascades = append(r.projectCascades, ids)
	return nil
}

func (r *memContentRepo) DeleteDocSpacesCascade(_ context.Context, ids []uuid.UUID) error {
	r.docSpaceCascades = append(r.docSpaceCascades, ids)
	return nil
}

func (r *memContentRepo) Summary(_ context.Context, _ uuid.UUID) (*content.Summary, error) {
	cp := r.personalSummary
	return &cp, nil
}

func (r *memContentRepo) TeamSummary(_ context.Context, _ uuid.UUID) (*content.TeamSummary, error) {
	cp := r.teamSummaryCounts
	return &cp, nil
}

// memNotificationRepo is an in-memory notification.Repository.
type memNotificationRepo struct {
	items map[uuid.UUID]*notification.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{items: make(map[uuid.UUID]*notification.Notification)}
}

func (r *memNotificationRepo) Create(_ context.Context, n *notification.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now()
	r.items[n.ID] = n
	return nil
}

func (r *memNotificationRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]notification.Notification, error) {
	var out []notification.Notification
	for _, n := range r.items {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(_ context.Context, id, userID uuid.UUID) error {
	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return notification.ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (r *memNotificationRepo) Delete(_ context.Context, id, userID uuid.UUID) error {
	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return notification.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *memNotificationRepo) DeleteByInviteCode(_ context.Context, userID uuid.UUID, inviteCode string) error {
	for id, n := range r.items {
		if n.UserID == userID && n.Data.InviteCode == inviteCode {
			delete(r.items, id)
		}
	}
	return nil
}

// world bundles the fakes and a real membership service wired over them.
type world struct {
	users         *memUserRepo
	teams         *memTeamRepo
	contents      *memContentRepo
	notifications *memNotificationRepo
	service       *membership.Service
}

func newWorld(t *testing.T) *world {
	t.Helper()

	w := &world{
		users:         newMemUserRepo(),
		teams:         newMemTeamRepo(),
		contents:      &memContentRepo{},
		notifications: newMemNotificationRepo(),
	}
	w.service = membership.NewService(w.users, w.teams, w.teams, w.contents, w.notifications, 72*time.Hour)
	return w
}

func (w *world) soloUser(email string) *user.User {
	return w.users.add(&user.User{
		Email:       email,
		DisplayName: "Someone",
		AccountType: user.AccountSingle,
	})
}

func (w *world) teamWithOwner(name, ownerEmail string) (*team.Team, *user.User) {
	owner := w.users.add(&user.User{
		Email:       ownerEmail,
		DisplayName: "Owner",
		AccountType: user.AccountTeamMember,
		IsTeamOwner: true,
	})
	tm := &team.Team{Name: name, OwnerID: owner.ID}
	if err := w.teams.Create(context.Background(), tm); err != nil {
		panic(err)
	}
	owner.TeamID = &tm.ID
	return tm, owner
}

func (w *world) member(tm *team.Team, email string) *user.User {
	return w.users.add(&user.User{
		Email:       email,
		DisplayName: "Member",
		AccountType: user.AccountTeamMember,
		TeamID:      &tm.ID,
	})
}

// pingOK and pingFail back the health endpoint tests.
type pingOK struct{}

func (pingOK) Ping(_ context.Context) error { return nil }

type pingFail struct{}

func (pingFail) Ping(_ context.Context) error { return errors.New("connection refused") }
