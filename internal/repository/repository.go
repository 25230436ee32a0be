package repository

import (
	"github.com/teamly/project-management-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// OrganizationRepository defines the interface for organization and
// organization-membership data access. Membership rows are keyed uniquely by
// (organization, user), so the lookup methods never see role ambiguity.
type OrganizationRepository interface {
	// CreateWithAdmin creates an organization and its creator's admin
	// membership within a single transaction.
	CreateWithAdmin(org *models.Organization, membership *models.OrganizationMembership) error

	// FindByID finds an organization by ID
	FindByID(id uint64) (*models.Organization, error)

	// Update updates an organization
	Update(org *models.Organization) error

	// Delete deletes an organization and all dependent rows in a transaction
	Delete(id uint64) error

	// FindMembership finds a specific organization membership
	FindMembership(organizationID, userID uint64) (*models.OrganizationMembership, error)

	// UpdateMembership persists role changes on a membership
	UpdateMembership(membership *models.OrganizationMembership) error

	// ListMemberships lists all members of an organization
	ListMemberships(organizationID uint64) ([]models.OrganizationMembership, error)

	// ListMembershipsByUserID lists all organizations a user is a member of
	ListMembershipsByUserID(userID uint64) ([]models.OrganizationMembership, error)

	// ListAdminManagerIDs returns the user IDs of all admins and managers
	// of an organization.
	ListAdminManagerIDs(organizationID uint64) ([]uint64, error)

	// RemoveMembershipCascade removes a member from an organization and, in
	// the same transaction, deletes their project memberships across the
	// organization and clears their task assignments within it.
	RemoveMembershipCascade(organizationID, userID uint64) error

	// CreateInvite persists a new organization invite
	CreateInvite(invite *models.OrganizationInvite) error

	// FindPendingInviteByToken finds an invite by token that has not been
	// accepted yet.
	FindPendingInviteByToken(token string) (*models.OrganizationInvite, error)

	// AcceptInvite creates the membership and flips the invite's accepted
	// flag within a single transaction.
	AcceptInvite(invite *models.OrganizationInvite, membership *models.OrganizationMembership) error
}

// ProjectRepository defines the interface for project and project-membership
// data access.
type ProjectRepository interface {
	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID
	FindByID(id uint64, preload ...string) (*models.Project, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete deletes a project and its dependent rows in a transaction
	Delete(id uint64) error

	// ListByOrganization lists every project of an organization
	ListByOrganization(organizationID uint64) ([]models.Project, error)

	// ListByOrganizationForMember lists the organization's projects the user
	// holds a project membership for.
	ListByOrganizationForMember(organizationID, userID uint64) ([]models.Project, error)

	// EnrollMembers bulk-creates project memberships, ignoring rows that
	// already exist.
	EnrollMembers(projectID uint64, userIDs []uint64) error

	// AddMember adds a single project membership
	AddMember(membership *models.ProjectMembership) error

	// FindMembership finds a specific project membership
	FindMembership(projectID, userID uint64) (*models.ProjectMembership, error)

	// ListMemberships lists all members of a project
	ListMemberships(projectID uint64) ([]models.ProjectMembership, error)

	// RemoveMembershipCascade removes a project member and, in the same
	// transaction, clears their task assignments within the project.
	RemoveMembershipCascade(projectID, userID uint64) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Task, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task
	Delete(id uint64) error

	// ClearAssignee sets a task's assignee to null
	ClearAssignee(id uint64) error

	// ListByProject lists tasks of a single project
	ListByProject(projectID uint64) ([]models.Task, error)

	// ListVisible lists tasks in organizations where the user is an
	// admin/manager plus tasks in projects where the user holds a
	// membership, deduplicated.
	ListVisible(userID uint64) ([]models.Task, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	// Create creates a new comment
	Create(comment *models.Comment) error

	// FindByID finds a comment by ID with its task and project preloaded
	FindByID(id uint64) (*models.Comment, error)

	// Update updates a comment
	Update(comment *models.Comment) error

	// Delete soft deletes a comment
	Delete(id uint64) error

	// ListVisible lists comments visible to the user, optionally filtered
	// by task: comments on tasks in organizations where the user is an
	// admin/manager plus comments on tasks in projects where the user holds
	// a membership.
	ListVisible(userID uint64, taskID *uint64) ([]models.Comment, error)

	// ListCommenterIDs returns the distinct author IDs of comments on a
	// task, excluding the given user.
	ListCommenterIDs(taskID, excludeUserID uint64) ([]uint64, error)
}

// NotificationRepository defines the interface for notification data access
type NotificationRepository interface {
	// Create persists a notification
	Create(notification *models.Notification) error

	// ListByRecipient lists a user's notifications, newest first
	ListByRecipient(recipientID uint64, offset, limit int) ([]models.Notification, int64, error)

	// UnreadCount returns the number of unread notifications for a user
	UnreadCount(recipientID uint64) (int64, error)

	// MarkRead marks one of the recipient's notifications as read
	MarkRead(id, recipientID uint64) error

	// MarkAllRead marks all of the recipient's notifications as read
	MarkAllRead(recipientID uint64) error
}
