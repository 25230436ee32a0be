package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/teamly/project-management-api/internal/models"
)

// fakeStore is an in-memory MembershipStore.
type fakeStore struct {
	roles   map[[2]uint64]models.OrganizationRole // (userID, orgID) -> role
	members map[[2]uint64]bool                    // (userID, projectID)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		roles:   make(map[[2]uint64]models.OrganizationRole),
		members: make(map[[2]uint64]bool),
	}
}

func (s *fakeStore) GetOrgRole(userID, organizationID uint64) (models.OrganizationRole, error) {
	return s.roles[[2]uint64{userID, organizationID}], nil
}

func (s *fakeStore) IsProjectMember(userID, projectID uint64) (bool, error) {
	return s.members[[2]uint64{userID, projectID}], nil
}

const (
	orgID     = uint64(1)
	projectID = uint64(10)

	adminID    = uint64(100)
	managerID  = uint64(101)
	employeeID = uint64(102) // enrolled in the project
	loneID     = uint64(103) // employee, not enrolled
	outsiderID = uint64(104) // no membership anywhere
)

func setupChecker() *Checker {
	store := newFakeStore()
	store.roles[[2]uint64{adminID, orgID}] = models.RoleAdmin
	store.roles[[2]uint64{managerID, orgID}] = models.RoleManager
	store.roles[[2]uint64{employeeID, orgID}] = models.RoleEmployee
	store.roles[[2]uint64{loneID, orgID}] = models.RoleEmployee
	store.members[[2]uint64{employeeID, projectID}] = true
	return NewChecker(store)
}

func TestChecker_OrganizationRules(t *testing.T) {
	c := setupChecker()

	cases := []struct {
		name  string
		check func(actorID uint64) (bool, error)
		want  map[uint64]bool
	}{
		{
			name:  "manage organization is admin only",
			check: func(id uint64) (bool, error) { return c.CanManageOrganization(id, orgID) },
			want:  map[uint64]bool{adminID: true, managerID: false, employeeID: false, outsiderID: false},
		},
		{
			name:  "member list is admin or manager",
			check: func(id uint64) (bool, error) { return c.CanListMembers(id, orgID) },
			want:  map[uint64]bool{adminID: true, managerID: true, employeeID: false, outsiderID: false},
		},
		{
			name:  "membership mutation is admin only",
			check: func(id uint64) (bool, error) { return c.CanMutateMembership(id, orgID) },
			want:  map[uint64]bool{adminID: true, managerID: false, employeeID: false, outsiderID: false},
		},
		{
			name:  "invites are admin only",
			check: func(id uint64) (bool, error) { return c.CanInvite(id, orgID) },
			want:  map[uint64]bool{adminID: true, managerID: false, employeeID: false, outsiderID: false},
		},
		{
			name:  "project creation is admin or manager",
			check: func(id uint64) (bool, error) { return c.CanCreateProject(id, orgID) },
			want:  map[uint64]bool{adminID: true, managerID: true, employeeID: false, outsiderID: false},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for actorID, want := range tc.want {
				got, err := tc.check(actorID)
				require.NoError(t, err)
				require.Equal(t, want, got, "actor %d", actorID)
			}
		})
	}
}

func TestChecker_ProjectVisibility(t *testing.T) {
	c := setupChecker()

	for actorID, want := range map[uint64]bool{
		adminID:    true,
		managerID:  true,
		employeeID: true,  // via project membership
		loneID:     false, // org member, not enrolled
		outsiderID: false,
	} {
		got, err := c.CanViewProject(actorID, orgID, projectID)
		require.NoError(t, err)
		require.Equal(t, want, got, "actor %d", actorID)
	}
}

func TestChecker_TaskStatusUpdate(t *testing.T) {
	c := setupChecker()

	assignee := employeeID

	// The assignee may always move their task, regardless of role.
	ok, err := c.CanUpdateTaskStatus(employeeID, orgID, &assignee)
	require.NoError(t, err)
	require.True(t, ok)

	// Another employee may not.
	ok, err = c.CanUpdateTaskStatus(loneID, orgID, &assignee)
	require.NoError(t, err)
	require.False(t, ok)

	// Admins and managers may, assigned or not.
	ok, err = c.CanUpdateTaskStatus(managerID, orgID, &assignee)
	require.NoError(t, err)
	require.True(t, ok)

	// Unassigned task: only admin/manager.
	ok, err = c.CanUpdateTaskStatus(employeeID, orgID, nil)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestChecker_CommentRules(t *testing.T) {
	c := setupChecker()

	// Commenting: admin/manager anywhere in the org, employee only when enrolled.
	for actorID, want := range map[uint64]bool{
		adminID:    true,
		managerID:  true,
		employeeID: true,
		loneID:     false,
		outsiderID: false,
	} {
		got, err := c.CanCommentOnTask(actorID, orgID, projectID)
		require.NoError(t, err)
		require.Equal(t, want, got, "actor %d", actorID)
	}

	// Editing: admin/manager may edit anyone's; an employee only their own.
	ok, err := c.CanEditComment(managerID, orgID, projectID, employeeID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.CanEditComment(employeeID, orgID, projectID, employeeID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.CanEditComment(employeeID, orgID, projectID, adminID)
	require.NoError(t, err)
	require.False(t, ok)

	// An author who lost project membership loses edit rights with it.
	ok, err = c.CanEditComment(loneID, orgID, projectID, loneID)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestChecker_DeniesByDefault(t *testing.T) {
	c := setupChecker()

	// An actor with no membership record is granted nothing.
	ok, err := c.IsOrgMember(outsiderID, orgID)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = c.CanViewComments(outsiderID, orgID, projectID)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = c.CanUpdateTaskStatus(outsiderID, orgID, nil)
	require.NoError(t, err)
	require.False(t, ok)
}
