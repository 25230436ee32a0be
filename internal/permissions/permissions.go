package permissions

import (
	"github.com/teamly/project-management-api/internal/models"
)

// MembershipStore is the read-only source of truth for every authorization
// decision. Role is always derived from the organization membership, never
// cached on the project membership, so an org role change takes effect
// immediately everywhere.
type MembershipStore interface {
	// GetOrgRole returns the user's role in the organization, or the empty
	// string when no membership exists.
	GetOrgRole(userID, organizationID uint64) (models.OrganizationRole, error)

	// IsProjectMember reports whether the user holds a project membership.
	IsProjectMember(userID, projectID uint64) (bool, error)
}

// Checker evaluates authorization rules. Every rule is a pure function of
// (actor, resource) over the membership store and denies by default: an actor
// with no membership record is never granted anything.
type Checker struct {
	store MembershipStore
}

func NewChecker(store MembershipStore) *Checker {
	return &Checker{store: store}
}

// OrgRole returns the actor's role in the organization, or the empty string
// for a non-member.
func (c *Checker) OrgRole(actorID, organizationID uint64) (models.OrganizationRole, error) {
	return c.store.GetOrgRole(actorID, organizationID)
}

// IsOrgMember reports whether the actor holds any role in the organization.
func (c *Checker) IsOrgMember(actorID, organizationID uint64) (bool, error) {
	role, err := c.store.GetOrgRole(actorID, organizationID)
	if err != nil {
		return false, err
	}
	return role != "", nil
}

// IsOrgAdminOrManager reports whether the actor is an admin or manager of the
// organization.
func (c *Checker) IsOrgAdminOrManager(actorID, organizationID uint64) (bool, error) {
	role, err := c.store.GetOrgRole(actorID, organizationID)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin || role == models.RoleManager, nil
}

// CanManageOrganization allows organization update and delete: admin only.
func (c *Checker) CanManageOrganization(actorID, organizationID uint64) (bool, error) {
	role, err := c.store.GetOrgRole(actorID, organizationID)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

// CanListMembers allows listing an organization's members: admin or manager.
func (c *Checker) CanListMembers(actorID, organizationID uint64) (bool, error) {
	return c.IsOrgAdminOrManager(actorID, organizationID)
}

// CanViewMembership allows retrieving a membership object: admin or manager.
func (c *Checker) CanViewMembership(actorID, organizationID uint64) (bool, error) {
	return c.IsOrgAdminOrManager(actorID, organizationID)
}

// CanMutateMembership allows updating or deleting a membership object: admin only.
func (c *Checker) CanMutateMembership(actorID, organizationID uint64) (bool, error) {
	role, err := c.store.GetOrgRole(actorID, organizationID)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

// CanInvite allows creating an organization invite: admin only.
func (c *Checker) CanInvite(actorID, organizationID uint64) (bool, error) {
	role, err := c.store.GetOrgRole(actorID, organizationID)
	if err != nil {
		return false, err
	}
	return role == models.RoleAdmin, nil
}

// CanCreateProject allows creating a project in the organization: admin or manager.
func (c *Checker) CanCreateProject(actorID, organizationID uint64) (bool, error) {
	return c.IsOrgAdminOrManager(actorID, organizationID)
}

// CanViewProject allows reading a project: org admin/manager, or a member of
// the project itself.
func (c *Checker) CanViewProject(actorID, organizationID, projectID uint64) (bool, error) {
	ok, err := c.IsOrgAdminOrManager(actorID, organizationID)
	if err != nil || ok {
		return ok, err
	}
	return c.store.IsProjectMember(actorID, projectID)
}

// CanManageProject allows updating or deleting a project: admin or manager.
func (c *Checker) CanManageProject(actorID, organizationID uint64) (bool, error) {
	return c.IsOrgAdminOrManager(actorID, organizationID)
}

// CanManageProjectMembers allows assigning and removing project members:
// admin or manager of the owning organization.
func (c *Checker) CanManageProjectMembers(actorID, organizationID uint64) (bool, error) {
	return c.IsOrgAdminOrManager(actorID, organizationID)
}

// CanManageTasks allows creating, updating and deleting tasks in a project:
// admin or manager of the owning organization.
func (c *Checker) CanManageTasks(actorID, organizationID uint64) (bool, error) {
	return c.IsOrgAdminOrManager(actorID, organizationID)
}

// CanUpdateTaskStatus allows the dedicated status update: the current
// assignee, or an org admin/manager.
func (c *Checker) CanUpdateTaskStatus(actorID, organizationID uint64, assigneeID *uint64) (bool, error) {
	if assigneeID != nil && *assigneeID == actorID {
		return true, nil
	}
	return c.IsOrgAdminOrManager(actorID, organizationID)
}

// CanCommentOnTask allows creating a comment: org admin/manager on any task in
// their org, or an employee who is a member of the task's project.
func (c *Checker) CanCommentOnTask(actorID, organizationID, projectID uint64) (bool, error) {
	role, err := c.store.GetOrgRole(actorID, organizationID)
	if err != nil {
		return false, err
	}
	switch role {
	case models.RoleAdmin, models.RoleManager:
		return true, nil
	case models.RoleEmployee:
		return c.store.IsProjectMember(actorID, projectID)
	}
	return false, nil
}

// CanViewComments allows reading comments on a task: org admin/manager, or
// any org member who is also a member of the task's project.
func (c *Checker) CanViewComments(actorID, organizationID, projectID uint64) (bool, error) {
	role, err := c.store.GetOrgRole(actorID, organizationID)
	if err != nil {
		return false, err
	}
	if role == models.RoleAdmin || role == models.RoleManager {
		return true, nil
	}
	if role == "" {
		return false, nil
	}
	return c.store.IsProjectMember(actorID, projectID)
}

// CanEditComment allows updating or deleting a comment: admin/manager on any
// comment in their org; an employee only on their own comments and only while
// still a member of the task's project.
func (c *Checker) CanEditComment(actorID, organizationID, projectID, authorID uint64) (bool, error) {
	role, err := c.store.GetOrgRole(actorID, organizationID)
	if err != nil {
		return false, err
	}
	switch role {
	case models.RoleAdmin, models.RoleManager:
		return true, nil
	case models.RoleEmployee:
		if authorID != actorID {
			return false, nil
		}
		return c.store.IsProjectMember(actorID, projectID)
	}
	return false, nil
}
