package services

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamly/project-management-api/internal/models"
)

func TestProjectService_CreateProject_AutoEnrollment(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	manager := createTestUser(t, env.db, "manager@example.com")
	employee := createTestUser(t, env.db, "employee@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)
	addOrgMember(t, env.db, org.ID, manager.ID, models.RoleManager)
	addOrgMember(t, env.db, org.ID, employee.ID, models.RoleEmployee)

	// The manager creates it: every admin/manager plus the creator gets a
	// membership, without duplicating the creator's row.
	project, err := env.projectService.CreateProject(org.ID, manager.ID, "Board", "kanban")
	require.NoError(t, err)

	memberships, err := env.projectRepo.ListMemberships(project.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 2)

	enrolled := map[uint64]bool{}
	for _, m := range memberships {
		enrolled[m.UserID] = true
	}
	require.True(t, enrolled[admin.ID])
	require.True(t, enrolled[manager.ID])
	require.False(t, enrolled[employee.ID])
}

func TestProjectService_EnrollMembers_Idempotent(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)

	project, err := env.projectService.CreateProject(org.ID, admin.ID, "Board", "")
	require.NoError(t, err)

	// Re-running the enrollment for an already-enrolled user is a no-op, not
	// a uniqueness error.
	require.NoError(t, env.projectRepo.EnrollMembers(project.ID, []uint64{admin.ID}))

	memberships, err := env.projectRepo.ListMemberships(project.ID)
	require.NoError(t, err)
	require.Len(t, memberships, 1)
	require.Equal(t, admin.ID, memberships[0].UserID)
}

func TestProjectService_CreateProject_Permissions(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	employee := createTestUser(t, env.db, "employee@example.com")
	outsider := createTestUser(t, env.db, "outsider@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)
	addOrgMember(t, env.db, org.ID, employee.ID, models.RoleEmployee)

	_, err := env.projectService.CreateProject(org.ID, employee.ID, "Board", "")
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.projectService.CreateProject(org.ID, outsider.ID, "Board", "")
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = env.projectService.CreateProject(org.ID, admin.ID, "   ", "")
	require.ErrorIs(t, err, ErrProjectNameRequired)
}

func TestProjectService_ListProjects_Scoping(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	employee := createTestUser(t, env.db, "employee@example.com")
	outsider := createTestUser(t, env.db, "outsider@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)
	addOrgMember(t, env.db, org.ID, employee.ID, models.RoleEmployee)

	visible, err := env.projectService.CreateProject(org.ID, admin.ID, "Visible", "")
	require.NoError(t, err)
	_, err = env.projectService.CreateProject(org.ID, admin.ID, "Hidden", "")
	require.NoError(t, err)
	addProjectMember(t, env.db, visible.ID, employee.ID)

	// Admin sees everything.
	projects, err := env.projectService.ListProjects(org.ID, admin.ID)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	// Employee sees only enrolled projects.
	projects, err = env.projectService.ListProjects(org.ID, employee.ID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "Visible", projects[0].Name)

	// Non-member sees an empty list, not an error.
	projects, err = env.projectService.ListProjects(org.ID, outsider.ID)
	require.NoError(t, err)
	require.Empty(t, projects)
}

func TestProjectService_GetProject_HiddenIsNotFound(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	employee := createTestUser(t, env.db, "employee@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)
	addOrgMember(t, env.db, org.ID, employee.ID, models.RoleEmployee)

	project, err := env.projectService.CreateProject(org.ID, admin.ID, "Board", "")
	require.NoError(t, err)

	// An employee not enrolled in the project cannot even learn it exists.
	_, err = env.projectService.GetProject(project.ID, employee.ID)
	require.ErrorIs(t, err, ErrProjectNotFound)

	addProjectMember(t, env.db, project.ID, employee.ID)
	got, err := env.projectService.GetProject(project.ID, employee.ID)
	require.NoError(t, err)
	require.Equal(t, project.ID, got.ID)
}

func TestProjectService_AssignMember(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	employee := createTestUser(t, env.db, "employee@example.com")
	outsider := createTestUser(t, env.db, "outsider@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)
	addOrgMember(t, env.db, org.ID, employee.ID, models.RoleEmployee)

	project, err := env.projectService.CreateProject(org.ID, admin.ID, "Board", "")
	require.NoError(t, err)

	// Target must belong to the organization first.
	_, err = env.projectService.AssignMember(project.ID, outsider.ID, admin.ID)
	require.ErrorIs(t, err, ErrNotOrganizationMember)

	membership, err := env.projectService.AssignMember(project.ID, employee.ID, admin.ID)
	require.NoError(t, err)
	require.Equal(t, employee.ID, membership.UserID)

	// Assigning twice is a conflict.
	_, err = env.projectService.AssignMember(project.ID, employee.ID, admin.ID)
	require.ErrorIs(t, err, ErrAlreadyProjectMember)

	// Employees cannot manage project members.
	other := createTestUser(t, env.db, "other@example.com")
	addOrgMember(t, env.db, org.ID, other.ID, models.RoleEmployee)
	_, err = env.projectService.AssignMember(project.ID, other.ID, employee.ID)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestProjectService_RemoveMember_ClearsAssignments(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	employee := createTestUser(t, env.db, "employee@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)
	addOrgMember(t, env.db, org.ID, employee.ID, models.RoleEmployee)

	project, err := env.projectService.CreateProject(org.ID, admin.ID, "Board", "")
	require.NoError(t, err)
	otherProject, err := env.projectService.CreateProject(org.ID, admin.ID, "Other", "")
	require.NoError(t, err)
	addProjectMember(t, env.db, project.ID, employee.ID)
	addProjectMember(t, env.db, otherProject.ID, employee.ID)

	assigneeID := employee.ID
	inProject, err := env.taskService.CreateTask(project.ID, admin.ID, TaskCreateInput{
		Title:      "Here",
		AssigneeID: &assigneeID,
	})
	require.NoError(t, err)
	elsewhere, err := env.taskService.CreateTask(otherProject.ID, admin.ID, TaskCreateInput{
		Title:      "Elsewhere",
		AssigneeID: &assigneeID,
	})
	require.NoError(t, err)

	require.NoError(t, env.projectService.RemoveMember(project.ID, employee.ID, admin.ID))

	// Assignment cleared only within the project the member left.
	reloaded, err := env.taskRepo.FindByID(inProject.ID)
	require.NoError(t, err)
	require.Nil(t, reloaded.AssigneeID)

	untouched, err := env.taskRepo.FindByID(elsewhere.ID)
	require.NoError(t, err)
	require.NotNil(t, untouched.AssigneeID)

	// Org membership survives project removal.
	_, err = env.orgRepo.FindMembership(org.ID, employee.ID)
	require.NoError(t, err)

	// Removing again is a not-found.
	err = env.projectService.RemoveMember(project.ID, employee.ID, admin.ID)
	require.ErrorIs(t, err, ErrProjectMemberNotFound)
}

func TestProjectService_UpdateProject_Permissions(t *testing.T) {
	env := setupServiceTestEnv(t)

	admin := createTestUser(t, env.db, "admin@example.com")
	employee := createTestUser(t, env.db, "employee@example.com")
	org := createTestOrg(t, env, "Acme", admin.ID)
	addOrgMember(t, env.db, org.ID, employee.ID, models.RoleEmployee)

	project, err := env.projectService.CreateProject(org.ID, admin.ID, "Board", "")
	require.NoError(t, err)
	addProjectMember(t, env.db, project.ID, employee.ID)

	// A project member without org management rights may view but not edit.
	name := "Renamed"
	_, err = env.projectService.UpdateProject(project.ID, employee.ID, &name, nil)
	require.ErrorIs(t, err, ErrPermissionDenied)

	updated, err := env.projectService.UpdateProject(project.ID, admin.ID, &name, nil)
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Name)
}
