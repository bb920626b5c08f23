package membership_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swifttasks/swifttasks/internal/content"
	"github.com/swifttasks/swifttasks/internal/membership"
	"github.com/swifttasks/swifttasks/internal/team"
	"github.com/swifttasks/swifttasks/internal/user"
)

const testInviteTTL = 72 * time.Hour

type fixture struct {
	svc           *membership.Service
	users         *fakeUserRepo
	teams         *fakeTeamRepo
	contents      *fakeContentRepo
	notifications *fakeNotificationRepo
}

func setup(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:         newFakeUserRepo(),
		teams:         newFakeTeamRepo(),
		contents:      &fakeContentRepo{},
		notifications: &fakeNotificationRepo{},
	}
	f.svc = membership.NewService(f.users, f.teams, f.teams, f.contents, f.notifications, testInviteTTL)
	return f
}

func (f *fixture) soloUser(email string) *user.User {
	return f.users.add(&user.User{
		Email:       email,
		DisplayName: "Test User",
		AccountType: user.AccountSingle,
	})
}

func (f *fixture) teamWithOwner(name, ownerEmail string) (*team.Team, *user.User) {
	owner := f.users.add(&user.User{
		Email:       ownerEmail,
		AccountType: user.AccountTeamMember,
		IsTeamOwner: true,
	})
	tm := &team.Team{Name: name, OwnerID: owner.ID}
	_ = f.teams.Create(context.Background(), tm)
	owner.TeamID = &tm.ID
	return tm, owner
}

func (f *fixture) member(tm *team.Team, email string) *user.User {
	return f.users.add(&user.User{
		Email:       email,
		AccountType: user.AccountTeamMember,
		TeamID:      &tm.ID,
	})
}

// --- Upgrade Tests ---

func TestUpgrade_SoloBecomesOwner(t *testing.T) {
	f := setup(t)
	u := f.soloUser("solo@example.com")

	tm, err := f.svc.Upgrade(context.Background(), u.ID, "  Acme  ")
	require.NoError(t, err)

	assert.Equal(t, "Acme", tm.Name)
	assert.Equal(t, u.ID, tm.OwnerID)

	got, err := f.users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, user.AccountTeamMember, got.AccountType)
	require.NotNil(t, got.TeamID)
	assert.Equal(t, tm.ID, *got.TeamID)
	assert.True(t, got.IsTeamOwner)
}

func TestUpgrade_LeavesPersonalContentAlone(t *testing.T) {
	f := setup(t)
	u := f.soloUser("solo@example.com")
	f.contents.personalProjectIDs = []uuid.UUID{uuid.New(), uuid.New()}

	_, err := f.svc.Upgrade(context.Background(), u.ID, "Acme")
	require.NoError(t, err)

	assert.Empty(t, f.contents.projectCascades, "upgrade must not delete any content")
	assert.Empty(t, f.contents.docSpaceCascades)
	assert.Empty(t, f.contents.clearedTodoListOwners, "upgrade must not retag todo lists")
}

func TestUpgrade_RejectsTeamMember(t *testing.T) {
	f := setup(t)
	tm, _ := f.teamWithOwner("Acme", "owner@example.com")
	m := f.member(tm, "member@example.com")

	_, err := f.svc.Upgrade(context.Background(), m.ID, "Another")
	assert.ErrorIs(t, err, membership.ErrNotSoloAccount)
	assert.Len(t, f.teams.teams, 1, "no new team should be created")
}

func TestUpgrade_MembershipFailureLeavesTeamRow(t *testing.T) {
	f := setup(t)
	u := f.soloUser("solo@example.com")
	f.users.updateMembershipErr = errors.New("connection reset")

	_, err := f.svc.Upgrade(context.Background(), u.ID, "Acme")
	require.Error(t, err)

	// The team row survives; the user is still solo.
	assert.Len(t, f.teams.teams, 1)
	got, _ := f.users.GetByID(context.Background(), u.ID)
	assert.Equal(t, user.AccountSingle, got.AccountType)
	assert.Nil(t, got.TeamID)
}

// --- Downgrade Tests ---

func TestDowngrade_HonorsContentChoices(t *testing.T) {
	f := setup(t)
	tm, _ := f.teamWithOwner("Acme", "owner@example.com")
	m := f.member(tm, "member@example.com")

	projectIDs := []uuid.UUID{uuid.New(), uuid.New()}
	spaceIDs := []uuid.UUID{uuid.New()}
	f.contents.personalProjectIDs = projectIDs
	f.contents.personalDocSpaceIDs = spaceIDs

	opts := membership.DowngradeOptions{
		MigrateTodoLists: true,
		KeepProjects:     false,
		KeepDocSpaces:    true,
	}
	require.NoError(t, f.svc.Downgrade(context.Background(), m.ID, opts))

	assert.Equal(t, []uuid.UUID{m.ID}, f.contents.clearedTodoListOwners)
	require.Len(t, f.contents.projectCascades, 1)
	assert.Equal(t, projectIDs, f.contents.projectCascades[0])
	assert.Empty(t, f.contents.docSpaceCascades, "kept doc spaces must not be cascaded")

	got, _ := f.users.GetByID(context.Background(), m.ID)
	assert.Equal(t, user.AccountSingle, got.AccountType)
	assert.Nil(t, got.TeamID)
	assert.False(t, got.IsTeamOwner)
}

func TestDowngrade_KeepEverything(t *testing.T) {
	f := setup(t)
	tm, _ := f.teamWithOwner("Acme", "owner@example.com")
	m := f.member(tm, "member@example.com")
	f.contents.personalProjectIDs = []uuid.UUID{uuid.New()}
	f.contents.personalDocSpaceIDs = []uuid.UUID{uuid.New()}

	opts := membership.DowngradeOptions{KeepProjects: true, KeepDocSpaces: true}
	require.NoError(t, f.svc.Downgrade(context.Background(), m.ID, opts))

	assert.Empty(t, f.contents.projectCascades)
	assert.Empty(t, f.contents.docSpaceCascades)
	assert.Empty(t, f.contents.clearedTodoListOwners)
}

func TestDowngrade_RejectsOwner(t *testing.T) {
	f := setup(t)
	_, owner := f.teamWithOwner("Acme", "owner@example.com")

	err := f.svc.Downgrade(context.Background(), owner.ID, membership.DowngradeOptions{})
	assert.ErrorIs(t, err, membership.ErrOwnerMustTransferFirst)

	got, _ := f.users.GetByID(context.Background(), owner.ID)
	assert.Equal(t, user.AccountTeamMember, got.AccountType)
	assert.True(t, got.IsTeamOwner)
}

func TestDowngrade_RejectsSoloUser(t *testing.T) {
	f := setup(t)
	u := f.soloUser("solo@example.com")

	err := f.svc.Downgrade(context.Background(), u.ID, membership.DowngradeOptions{})
	assert.ErrorIs(t, err, membership.ErrNotTeamMember)
}

func TestDowngrade_CascadeFailureLeavesMembershipIntact(t *testing.T) {
	f := setup(t)
	tm, _ := f.teamWithOwner("Acme", "owner@example.com")
	m := f.member(tm, "member@example.com")
	f.contents.personalProjectIDs = []uuid.UUID{uuid.New()}
	f.contents.projectCascadeErr = errors.New("deadlock detected")

	err := f.svc.Downgrade(context.Background(), m.ID, membership.DowngradeOptions{})
	require.Error(t, err)

	// Membership reset is always the last step, so the member is unchanged.
	got, _ := f.users.GetByID(context.Background(), m.ID)
	assert.Equal(t, user.AccountTeamMember, got.AccountType)
	require.NotNil(t, got.TeamID)
	assert.Equal(t, tm.ID, *got.TeamID)
}

// --- Transfer Tests ---

func TestTransfer_ExactlyOneOwner(t *testing.T) {
	f := setup(t)
	tm, owner := f.teamWithOwner("Acme", "owner@example.com")
	target := f.member(tm, "target@example.com")
	other := f.member(tm, "other@example.com")

	opts := membership.TransferOptions{KeepProjects: true, KeepDocSpaces: true}
	require.NoError(t, f.svc.Transfer(context.Background(), owner.ID, target.ID, opts))

	var owners []uuid.UUID
	for _, u := range []uuid.UUID{owner.ID, target.ID, other.ID} {
		got, _ := f.users.GetByID(context.Background(), u)
		if got.IsTeamOwner {
			owners = append(owners, u)
		}
	}
	require.Len(t, owners, 1)
	assert.Equal(t, target.ID, owners[0])

	gotTeam, _ := f.teams.GetByID(context.Background(), tm.ID)
	assert.Equal(t, target.ID, gotTeam.OwnerID)
}

func TestTransfer_KeepBothStaysOnTeam(t *testing.T) {
	f := setup(t)
	tm, owner := f.teamWithOwner("Acme", "owner@example.com")
	target := f.member(tm, "target@example.com")

	opts := membership.TransferOptions{KeepProjects: true, KeepDocSpaces: true}
	require.NoError(t, f.svc.Transfer(context.Background(), owner.ID, target.ID, opts))

	got, _ := f.users.GetByID(context.Background(), owner.ID)
	assert.Equal(t, user.AccountTeamMember, got.AccountType)
	require.NotNil(t, got.TeamID)
	assert.Equal(t, tm.ID, *got.TeamID)
	assert.False(t, got.IsTeamOwner)
}

func TestTransfer_PartialKeepDropsToSolo(t *testing.T) {
	f := setup(t)
	tm, owner := f.teamWithOwner("Acme", "owner@example.com")
	target := f.member(tm, "target@example.com")

	opts := membership.TransferOptions{KeepProjects: true, KeepDocSpaces: false}
	require.NoError(t, f.svc.Transfer(context.Background(), owner.ID, target.ID, opts))

	got, _ := f.users.GetByID(context.Background(), owner.ID)
	assert.Equal(t, user.AccountSingle, got.AccountType)
	assert.Nil(t, got.TeamID)
	assert.False(t, got.IsTeamOwner)

	// No cascade runs on transfer regardless of the options.
	assert.Empty(t, f.contents.projectCascades)
	assert.Empty(t, f.contents.docSpaceCascades)
}

func TestTransfer_RejectsNonOwnerCaller(t *testing.T) {
	f := setup(t)
	tm, _ := f.teamWithOwner("Acme", "owner@example.com")
	m := f.member(tm, "member@example.com")
	other := f.member(tm, "other@example.com")

	err := f.svc.Transfer(context.Background(), m.ID, other.ID, membership.TransferOptions{})
	assert.ErrorIs(t, err, membership.ErrNotTeamOwner)
}

func TestTransfer_RejectsOutsideTarget(t *testing.T) {
	f := setup(t)
	_, owner := f.teamWithOwner("Acme", "owner@example.com")
	outsider := f.soloUser("outsider@example.com")

	err := f.svc.Transfer(context.Background(), owner.ID, outsider.ID, membership.TransferOptions{})
	assert.ErrorIs(t, err, membership.ErrTargetNotMember)

	err = f.svc.Transfer(context.Background(), owner.ID, uuid.New(), membership.TransferOptions{})
	assert.ErrorIs(t, err, membership.ErrTargetNotMember)
}

func TestTransfer_RejectsSelfTarget(t *testing.T) {
	f := setup(t)
	_, owner := f.teamWithOwner("Acme", "owner@example.com")

	err := f.svc.Transfer(context.Background(), owner.ID, owner.ID, membership.TransferOptions{})
	assert.ErrorIs(t, err, membership.ErrTargetIsOwner)
}

// --- DeleteTeam Tests ---

func TestDeleteTeam_RemovesEverything(t *testing.T) {
	f := setup(t)
	tm, owner := f.teamWithOwner("Acme", "owner@example.com")
	m1 := f.member(tm, "m1@example.com")
	m2 := f.member(tm, "m2@example.com")

	teamProjects := []uuid.UUID{uuid.New(), uuid.New()}
	teamSpaces := []uuid.UUID{uuid.New()}
	f.contents.teamProjectIDs = teamProjects
	f.contents.teamDocSpaceIDs = teamSpaces

	inv := &team.Invite{Email: "pending@example.com", TeamID: tm.ID, InviteCode: "code-1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.teams.CreateInvite(context.Background(), inv))

	require.NoError(t, f.svc.DeleteTeam(context.Background(), owner.ID, "Acme"))

	require.Len(t, f.contents.projectCascades, 1)
	assert.Equal(t, teamProjects, f.contents.projectCascades[0])
	require.Len(t, f.contents.docSpaceCascades, 1)
	assert.Equal(t, teamSpaces, f.contents.docSpaceCascades[0])
	assert.Equal(t, []uuid.UUID{tm.ID}, f.contents.deletedTodoListTeams)

	for _, id := range []uuid.UUID{owner.ID, m1.ID, m2.ID} {
		got, _ := f.users.GetByID(context.Background(), id)
		assert.Equal(t, user.AccountSingle, got.AccountType)
		assert.Nil(t, got.TeamID)
		assert.False(t, got.IsTeamOwner)
	}

	assert.Equal(t, []uuid.UUID{tm.ID}, f.teams.deletedInvitesTeams)
	assert.Empty(t, f.teams.invites)
	assert.Equal(t, []uuid.UUID{tm.ID}, f.teams.deleted)
}

func TestDeleteTeam_ConfirmationMismatchMutatesNothing(t *testing.T) {
	f := setup(t)
	tm, owner := f.teamWithOwner("Acme", "owner@example.com")
	m := f.member(tm, "member@example.com")
	f.contents.teamProjectIDs = []uuid.UUID{uuid.New()}

	for _, confirm := range []string{"acme", "Acme ", " Acme", "Acm", ""} {
		err := f.svc.DeleteTeam(context.Background(), owner.ID, confirm)
		assert.ErrorIs(t, err, membership.ErrConfirmationMismatch, "confirm %q", confirm)
	}

	assert.Empty(t, f.contents.projectCascades)
	assert.Empty(t, f.contents.deletedTodoListTeams)
	assert.Empty(t, f.users.resetByTeamCalls)
	assert.Empty(t, f.teams.deleted)

	got, _ := f.users.GetByID(context.Background(), m.ID)
	assert.Equal(t, user.AccountTeamMember, got.AccountType)
}

func TestDeleteTeam_RejectsNonOwner(t *testing.T) {
	f := setup(t)
	tm, _ := f.teamWithOwner("Acme", "owner@example.com")
	m := f.member(tm, "member@example.com")

	err := f.svc.DeleteTeam(context.Background(), m.ID, "Acme")
	assert.ErrorIs(t, err, membership.ErrNotTeamOwner)
	assert.Len(t, f.teams.teams, 1)
}

func TestDeleteTeam_EmptyTeamStillPassesCascade(t *testing.T) {
	f := setup(t)
	tm, owner := f.teamWithOwner("Empty", "owner@example.com")

	require.NoError(t, f.svc.DeleteTeam(context.Background(), owner.ID, "Empty"))

	// Empty id lists are handed to the cascade, which skips them before
	// issuing any statement.
	require.Len(t, f.contents.projectCascades, 1)
	assert.Empty(t, f.contents.projectCascades[0])
	require.Len(t, f.contents.docSpaceCascades, 1)
	assert.Empty(t, f.contents.docSpaceCascades[0])
	assert.Equal(t, []uuid.UUID{tm.ID}, f.teams.deleted)
}

// --- AcceptInvite Tests ---

func TestAcceptInvite_JoinsTeamAndClearsPersonalProjects(t *testing.T) {
	f := setup(t)
	tm, _ := f.teamWithOwner("Acme", "owner@example.com")
	invitee := f.soloUser("invitee@example.com")

	projectIDs := []uuid.UUID{uuid.New()}
	spaceIDs := []uuid.UUID{uuid.New(), uuid.New()}
	f.contents.personalProjectIDs = projectIDs
	f.contents.personalDocSpaceIDs = spaceIDs

	inv := &team.Invite{Email: invitee.Email, TeamID: tm.ID, InviteCode: "join-me", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.teams.CreateInvite(context.Background(), inv))

	require.NoError(t, f.svc.AcceptInvite(context.Background(), invitee.ID, "join-me"))

	require.Len(t, f.contents.projectCascades, 1)
	assert.Equal(t, projectIDs, f.contents.projectCascades[0])
	require.Len(t, f.contents.docSpaceCascades, 1)
	assert.Equal(t, spaceIDs, f.contents.docSpaceCascades[0])

	// Todo lists are spared: they stay personal, untouched.
	assert.Empty(t, f.contents.clearedTodoListOwners)
	assert.Empty(t, f.contents.deletedTodoListTeams)

	got, _ := f.users.GetByID(context.Background(), invitee.ID)
	assert.Equal(t, user.AccountTeamMember, got.AccountType)
	require.NotNil(t, got.TeamID)
	assert.Equal(t, tm.ID, *got.TeamID)
	assert.False(t, got.IsTeamOwner)

	_, err := f.teams.GetInviteByCode(context.Background(), "join-me")
	assert.ErrorIs(t, err, team.ErrInviteNotFound, "consumed invite should be gone")
	assert.Equal(t, []string{"join-me"}, f.notifications.deletedByCode)
}

func TestAcceptInvite_RejectsExpired(t *testing.T) {
	f := setup(t)
	tm, _ := f.teamWithOwner("Acme", "owner@example.com")
	invitee := f.soloUser("invitee@example.com")

	inv := &team.Invite{Email: invitee.Email, TeamID: tm.ID, InviteCode: "stale", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, f.teams.CreateInvite(context.Background(), inv))

	err := f.svc.AcceptInvite(context.Background(), invitee.ID, "stale")
	assert.ErrorIs(t, err, membership.ErrInviteExpired)

	got, _ := f.users.GetByID(context.Background(), invitee.ID)
	assert.Equal(t, user.AccountSingle, got.AccountType)
	assert.Empty(t, f.contents.projectCascades)
}

func TestAcceptInvite_RejectsExistingTeamMember(t *testing.T) {
	f := setup(t)
	tm, _ := f.teamWithOwner("Acme", "owner@example.com")
	m := f.member(tm, "member@example.com")

	inv := &team.Invite{Email: m.Email, TeamID: tm.ID, InviteCode: "dup", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.teams.CreateInvite(context.Background(), inv))

	err := f.svc.AcceptInvite(context.Background(), m.ID, "dup")
	assert.ErrorIs(t, err, membership.ErrAlreadyInTeam)
}

func TestAcceptInvite_UnknownCode(t *testing.T) {
	f := setup(t)
	invitee := f.soloUser("invitee@example.com")

	err := f.svc.AcceptInvite(context.Background(), invitee.ID, "nope")
	assert.ErrorIs(t, err, team.ErrInviteNotFound)
}

func TestAcceptInvite_CleanupFailuresAreSwallowed(t *testing.T) {
	f := setup(t)
	tm, _ := f.teamWithOwner("Acme", "owner@example.com")
	invitee := f.soloUser("invitee@example.com")

	inv := &team.Invite{Email: invitee.Email, TeamID: tm.ID, InviteCode: "flaky", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, f.teams.CreateInvite(context.Background(), inv))

	f.teams.deleteInviteErr = errors.New("timeout")
	f.notifications.deleteByInviteCodeErr = errors.New("timeout")

	// The membership change has committed; cleanup failures must not undo it.
	require.NoError(t, f.svc.AcceptInvite(context.Background(), invitee.ID, "flaky"))

	got, _ := f.users.GetByID(context.Background(), invitee.ID)
	assert.Equal(t, user.AccountTeamMember, got.AccountType)
}

// --- Summary Tests ---

func TestSummary_SoloUserHasNoTeamCounts(t *testing.T) {
	f := setup(t)
	u := f.soloUser("solo@example.com")
	f.contents.personalSummary = content.Summary{TodoLists: 2, Projects: 1, DocSpaces: 3}

	s, err := f.svc.Summary(context.Background(), u.ID)
	require.NoError(t, err)

	assert.Equal(t, content.Summary{TodoLists: 2, Projects: 1, DocSpaces: 3}, s.Personal)
	assert.Nil(t, s.Team)
}

func TestSummary_OwnerIncludesTeamCounts(t *testing.T) {
	f := setup(t)
	_, owner := f.teamWithOwner("Acme", "owner@example.com")
	f.contents.teamSummary = content.TeamSummary{Projects: 4, DocSpaces: 1, TodoLists: 2}

	s, err := f.svc.Summary(context.Background(), owner.ID)
	require.NoError(t, err)

	require.NotNil(t, s.Team)
	assert.Equal(t, 4, s.Team.Projects)
}

func TestSummary_NonOwnerMemberHasNoTeamCounts(t *testing.T) {
	f := setup(t)
	tm, _ := f.teamWithOwner("Acme", "owner@example.com")
	m := f.member(tm, "member@example.com")

	s, err := f.svc.Summary(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Nil(t, s.Team)
}

// --- Invite Tests ---

func TestInvite_CreatesInviteWithTTL(t *testing.T) {
	f := setup(t)
	tm, owner := f.teamWithOwner("Acme", "owner@example.com")

	before := time.Now()
	inv, err := f.svc.Invite(context.Background(), owner.ID, "  New@Example.COM ")
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", inv.Email)
	assert.Equal(t, tm.ID, inv.TeamID)
	assert.NotEmpty(t, inv.InviteCode)
	assert.WithinDuration(t, before.Add(testInviteTTL), inv.ExpiresAt, time.Minute)
}

func TestInvite_NotifiesExistingUser(t *testing.T) {
	f := setup(t)
	tm, owner := f.teamWithOwner("Acme", "owner@example.com")
	invitee := f.soloUser("invitee@example.com")

	inv, err := f.svc.Invite(context.Background(), owner.ID, invitee.Email)
	require.NoError(t, err)

	require.Len(t, f.notifications.created, 1)
	n := f.notifications.created[0]
	assert.Equal(t, invitee.ID, n.UserID)
	assert.Equal(t, "team_invitation", n.Type)
	assert.Equal(t, tm.ID, n.Data.TeamID)
	assert.Equal(t, "Acme", n.Data.TeamName)
	assert.Equal(t, inv.InviteCode, n.Data.InviteCode)
}

func TestInvite_NotificationFailureDoesNotFailInvite(t *testing.T) {
	f := setup(t)
	_, owner := f.teamWithOwner("Acme", "owner@example.com")
	invitee := f.soloUser("invitee@example.com")
	f.notifications.createErr = errors.New("unavailable")

	inv, err := f.svc.Invite(context.Background(), owner.ID, invitee.Email)
	require.NoError(t, err)
	assert.NotEmpty(t, inv.InviteCode)
}

func TestInvite_UnknownEmailSkipsNotification(t *testing.T) {
	f := setup(t)
	_, owner := f.teamWithOwner("Acme", "owner@example.com")

	_, err := f.svc.Invite(context.Background(), owner.ID, "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, f.notifications.created)
}

func TestInvite_RejectsNonOwner(t *testing.T) {
	f := setup(t)
	tm, _ := f.teamWithOwner("Acme", "owner@example.com")
	m := f.member(tm, "member@example.com")

	_, err := f.svc.Invite(context.Background(), m.ID, "x@example.com")
	assert.ErrorIs(t, err, membership.ErrNotTeamOwner)
}

func TestInvite_DuplicatePending(t *testing.T) {
	f := setup(t)
	_, owner := f.teamWithOwner("Acme", "owner@example.com")

	_, err := f.svc.Invite(context.Background(), owner.ID, "dup@example.com")
	require.NoError(t, err)

	_, err = f.svc.Invite(context.Background(), owner.ID, "dup@example.com")
	assert.ErrorIs(t, err, team.ErrDuplicateInvite)
}

// --- Resend / Revoke Tests ---

func TestResendInvite_ExtendsExpiry(t *testing.T) {
	f := setup(t)
	_, owner := f.teamWithOwner("Acme", "owner@example.com")

	inv, err := f.svc.Invite(context.Background(), owner.ID, "x@example.com")
	require.NoError(t, err)

	require.NoError(t, f.teams.ExtendInvite(context.Background(), inv.InviteCode, time.Now().Add(time.Minute)))

	require.NoError(t, f.svc.ResendInvite(context.Background(), owner.ID, inv.InviteCode))

	got, err := f.teams.GetInviteByCode(context.Background(), inv.InviteCode)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(testInviteTTL), got.ExpiresAt, time.Minute)
}

func TestRevokeInvite_Deletes(t *testing.T) {
	f := setup(t)
	_, owner := f.teamWithOwner("Acme", "owner@example.com")

	inv, err := f.svc.Invite(context.Background(), owner.ID, "x@example.com")
	require.NoError(t, err)

	require.NoError(t, f.svc.RevokeInvite(context.Background(), owner.ID, inv.InviteCode))

	_, err = f.teams.GetInviteByCode(context.Background(), inv.InviteCode)
	assert.ErrorIs(t, err, team.ErrInviteNotFound)
}

func TestRevokeInvite_OtherTeamsInviteReportedNotFound(t *testing.T) {
	f := setup(t)
	_, ownerA := f.teamWithOwner("TeamA", "a@example.com")
	_, ownerB := f.teamWithOwner("TeamB", "b@example.com")

	inv, err := f.svc.Invite(context.Background(), ownerA.ID, "x@example.com")
	require.NoError(t, err)

	err = f.svc.RevokeInvite(context.Background(), ownerB.ID, inv.InviteCode)
	assert.ErrorIs(t, err, team.ErrInviteNotFound)

	_, err = f.teams.GetInviteByCode(context.Background(), inv.InviteCode)
	assert.NoError(t, err, "invite of another team must survive")
}
