package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamly/project-management-api/internal/models"
)

func TestMembershipService_InviteMember(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	employee := createTestUser(t, env.db, "employee@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)
	addOrgMember(t, env.db, org.ID, employee.ID, models.RoleEmployee)

	invite, err := env.membershipService.InviteMember(org.ID, admin.ID, "new@example.com", models.RoleEmployee)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", invite.Email)
	require.NotEmpty(t, invite.Token)
	require.False(t, invite.IsAccepted)

	require.Len(t, env.mailer.sent, 1)
	require.Equal(t, "new@example.com", env.mailer.sent[0].to)
	require.Contains(t, env.mailer.sent[0].body, invite.Token)

	// Only admins may invite.
	_, err = env.membershipService.InviteMember(org.ID, employee.ID, "other@example.com", models.RoleEmployee)
	require.ErrorIs(t, err, ErrPermissionDenied)

	// Unknown roles are rejected.
	_, err = env.membershipService.InviteMember(org.ID, admin.ID, "other@example.com", "owner")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestMembershipService_InviteMember_EmailFailureKeepsInvite(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)

	env.mailer.failNext = errors.New("smtp down")

	invite, err := env.membershipService.InviteMember(org.ID, admin.ID, "new@example.com", models.RoleManager)
	require.ErrorIs(t, err, ErrInviteEmailDelivery)
	require.NotNil(t, invite)

	// The invite row survived the delivery failure.
	var count int64
	require.NoError(t, env.db.Model(&models.OrganizationInvite{}).
		Where("token = ?", invite.Token).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestMembershipService_InviteMember_NotifiesExistingAccount(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	invitee := createTestUser(t, env.db, "invitee@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)

	_, err := env.membershipService.InviteMember(org.ID, admin.ID, invitee.Email, models.RoleEmployee)
	require.NoError(t, err)

	var notifications []models.Notification
	require.NoError(t, env.db.Where("recipient_id = ?", invitee.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	require.Equal(t, models.NotificationOrgInvite, notifications[0].Type)

	pushes := env.broadcaster.pushesFor(invitee.ID)
	require.Len(t, pushes, 1)
	require.Equal(t, "notification", pushes[0].event["type"])
}

func TestMembershipService_AcceptInvite(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	invitee := createTestUser(t, env.db, "invitee@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)

	invite, err := env.membershipService.InviteMember(org.ID, admin.ID, invitee.Email, models.RoleManager)
	require.NoError(t, err)

	membership, err := env.membershipService.AcceptInvite(invite.Token, invitee.ID)
	require.NoError(t, err)
	require.Equal(t, org.ID, membership.OrganizationID)
	require.Equal(t, models.RoleManager, membership.Role)

	// A consumed token cannot be redeemed again, by anyone.
	other := createTestUser(t, env.db, "other@example.com")
	_, err = env.membershipService.AcceptInvite(invite.Token, other.ID)
	require.ErrorIs(t, err, ErrInviteNotFound)
}

func TestMembershipService_AcceptInvite_AlreadyMember(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	member := createTestUser(t, env.db, "member@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)
	addOrgMember(t, env.db, org.ID, member.ID, models.RoleEmployee)

	invite, err := env.membershipService.InviteMember(org.ID, admin.ID, member.Email, models.RoleManager)
	require.NoError(t, err)

	_, err = env.membershipService.AcceptInvite(invite.Token, member.ID)
	require.ErrorIs(t, err, ErrAlreadyMember)

	// The failed accept left the invite pending and the role untouched.
	pending, err := env.orgRepo.FindPendingInviteByToken(invite.Token)
	require.NoError(t, err)
	require.False(t, pending.IsAccepted)

	membership, err := env.orgRepo.FindMembership(org.ID, member.ID)
	require.NoError(t, err)
	require.Equal(t, models.RoleEmployee, membership.Role)
}

func TestMembershipService_UpdateMemberRole(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	manager := createTestUser(t, env.db, "manager@example.com")
	employee := createTestUser(t, env.db, "employee@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)
	addOrgMember(t, env.db, org.ID, manager.ID, models.RoleManager)
	addOrgMember(t, env.db, org.ID, employee.ID, models.RoleEmployee)

	// Managers may view but not mutate memberships.
	_, err := env.membershipService.UpdateMemberRole(org.ID, employee.ID, manager.ID, models.RoleManager)
	require.ErrorIs(t, err, ErrPermissionDenied)

	membership, err := env.membershipService.UpdateMemberRole(org.ID, employee.ID, admin.ID, models.RoleManager)
	require.NoError(t, err)
	require.Equal(t, models.RoleManager, membership.Role)

	_, err = env.membershipService.UpdateMemberRole(org.ID, employee.ID, admin.ID, "superuser")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestMembershipService_RemoveMember_Cascade(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	employee := createTestUser(t, env.db, "employee@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)
	addOrgMember(t, env.db, org.ID, employee.ID, models.RoleEmployee)

	project, err := env.projectService.CreateProject(org.ID, admin.ID, "Board", "")
	require.NoError(t, err)
	addProjectMember(t, env.db, project.ID, employee.ID)

	assigneeID := employee.ID
	task, err := env.taskService.CreateTask(project.ID, admin.ID, TaskCreateInput{
		Title:      "Wire up CI",
		AssigneeID: &assigneeID,
	})
	require.NoError(t, err)

	// The employee also authored a comment that must survive removal.
	comment, err := env.commentService.CreateComment(task.ID, employee.ID, "on it")
	require.NoError(t, err)

	require.NoError(t, env.membershipService.RemoveMember(org.ID, employee.ID, admin.ID))

	// Org membership gone.
	_, err = env.orgRepo.FindMembership(org.ID, employee.ID)
	require.Error(t, err)

	// Project membership gone.
	_, err = env.projectRepo.FindMembership(project.ID, employee.ID)
	require.Error(t, err)

	// Task unassigned but intact.
	reloaded, err := env.taskRepo.FindByID(task.ID)
	require.NoError(t, err)
	require.Nil(t, reloaded.AssigneeID)

	// Authored content untouched.
	var commentCount int64
	require.NoError(t, env.db.Model(&models.Comment{}).
		Where("id = ?", comment.ID).Count(&commentCount).Error)
	require.EqualValues(t, 1, commentCount)
}

func TestMembershipService_RemoveMember_SelfRemovalRejected(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)

	err := env.membershipService.RemoveMember(org.ID, admin.ID, admin.ID)
	require.ErrorIs(t, err, ErrCannotRemoveSelf)

	// Still a member.
	_, err = env.orgRepo.FindMembership(org.ID, admin.ID)
	require.NoError(t, err)
}

func TestMembershipService_ListMembers_Permissions(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	employee := createTestUser(t, env.db, "employee@example.com")
	outsider := createTestUser(t, env.db, "outsider@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)
	addOrgMember(t, env.db, org.ID, employee.ID, models.RoleEmployee)

	members, err := env.membershipService.ListMembers(org.ID, admin.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	_, err = env.membershipService.ListMembers(org.ID, employee.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.membershipService.ListMembers(org.ID, outsider.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)
}
