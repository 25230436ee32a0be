package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/teamly/project-management-api/internal/models"
	"github.com/teamly/project-management-api/internal/permissions"
	"github.com/teamly/project-management-api/internal/repository"
)

var (
	// ErrProjectNotFound is returned when a project does not exist or is not
	// visible to the actor.
	ErrProjectNotFound = errors.New("project not found")
	// ErrProjectNameRequired is returned when the project name is empty.
	ErrProjectNameRequired = errors.New("project name is required")
	// ErrNotOrganizationMember is returned when assigning a project member
	// who does not belong to the owning organization.
	ErrNotOrganizationMember = errors.New("user is not a member of the organization")
	// ErrAlreadyProjectMember is returned when assigning a user who already
	// holds a membership in the project.
	ErrAlreadyProjectMember = errors.New("user is already a member of the project")
	// ErrProjectMemberNotFound is returned when the target holds no
	// membership in the project.
	ErrProjectMemberNotFound = errors.New("project membership not found")
)

// ProjectService handles project CRUD and project membership.
type ProjectService struct {
	projectRepo repository.ProjectRepository
	orgRepo     repository.OrganizationRepository
	userRepo    repository.UserRepository
	checker     *permissions.Checker
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projectRepo repository.ProjectRepository,
	orgRepo repository.OrganizationRepository,
	userRepo repository.UserRepository,
	checker *permissions.Checker,
) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		orgRepo:     orgRepo,
		userRepo:    userRepo,
		checker:     checker,
	}
}

// CreateProject creates a project in an organization. Admins and managers
// only. Every admin and manager of the organization plus the creator is
// auto-enrolled as a project member, idempotently: enrolling an existing
// member is a no-op, not an error.
func (s *ProjectService) CreateProject(orgID, creatorID uint64, name, description string) (*models.Project, error) {
	if _, err := s.orgRepo.FindByID(orgID); err != nil {
		if isNotFound(err) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to find organization: %w", err)
	}

	allowed, err := s.checker.CanCreateProject(creatorID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	creator := creatorID
	project := &models.Project{
		Name:           name,
		Description:    description,
		OrganizationID: orgID,
		CreatorID:      &creator,
	}
	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	enrollIDs, err := s.orgRepo.ListAdminManagerIDs(orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins and managers: %w", err)
	}
	enrollIDs = append(enrollIDs, creatorID)
	if err := s.projectRepo.EnrollMembers(project.ID, enrollIDs); err != nil {
		return nil, fmt.Errorf("failed to enroll members: %w", err)
	}

	return project, nil
}

// ListProjects returns the organization's projects visible to the actor: all
// of them for an admin or manager, only those the actor is enrolled in for an
// employee, and none at all for a non-member.
func (s *ProjectService) ListProjects(orgID, actorID uint64) ([]models.Project, error) {
	role, err := s.checker.OrgRole(actorID, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}

	switch role {
	case models.RoleAdmin, models.RoleManager:
		projects, err := s.projectRepo.ListByOrganization(orgID)
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}
		return projects, nil
	case models.RoleEmployee:
		projects, err := s.projectRepo.ListByOrganizationForMember(orgID, actorID)
		if err != nil {
			return nil, fmt.Errorf("failed to list projects: %w", err)
		}
		return projects, nil
	}
	return []models.Project{}, nil
}

// GetProject returns a project visible to the actor. Hidden projects produce
// a not-found, never a permission error.
func (s *ProjectService) GetProject(projectID, actorID uint64) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	visible, err := s.checker.CanViewProject(actorID, project.OrganizationID, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}
	if !visible {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

// UpdateProject changes a project's name and description. Admins and managers
// of the owning organization only.
func (s *ProjectService) UpdateProject(projectID, actorID uint64, name, description *string) (*models.Project, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManage(project, actorID); err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, ErrProjectNameRequired
		}
		project.Name = trimmed
	}
	if description != nil {
		project.Description = *description
	}

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// DeleteProject deletes a project with its memberships, tasks and comments.
// Admins and managers of the owning organization only.
func (s *ProjectService) DeleteProject(projectID, actorID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}
	if err := s.requireManage(project, actorID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// AssignMember enrolls an organization member into a project. Admins and
// managers only. The target must already belong to the owning organization
// and must not already be enrolled.
func (s *ProjectService) AssignMember(projectID, targetUserID, actorID uint64) (*models.ProjectMembership, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.checker.CanManageProjectMembers(actorID, project.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}

	if _, err := s.userRepo.FindByID(targetUserID); err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	targetRole, err := s.checker.OrgRole(targetUserID, project.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if targetRole == "" {
		return nil, ErrNotOrganizationMember
	}

	if _, err := s.projectRepo.FindMembership(projectID, targetUserID); err == nil {
		return nil, ErrAlreadyProjectMember
	} else if !isNotFound(err) {
		return nil, fmt.Errorf("failed to check project membership: %w", err)
	}

	membership := &models.ProjectMembership{
		ProjectID: projectID,
		UserID:    targetUserID,
	}
	if err := s.projectRepo.AddMember(membership); err != nil {
		return nil, fmt.Errorf("failed to add project member: %w", err)
	}
	return membership, nil
}

// RemoveMember removes a project membership. Admins and managers only. In the
// same transaction, the member's task assignments within the project are
// cleared. Their authored tasks and comments are left untouched.
func (s *ProjectService) RemoveMember(projectID, targetUserID, actorID uint64) error {
	project, err := s.findProject(projectID)
	if err != nil {
		return err
	}

	allowed, err := s.checker.CanManageProjectMembers(actorID, project.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to check permission: %w", err)
	}
	if !allowed {
		return ErrPermissionDenied
	}

	if _, err := s.projectRepo.FindMembership(projectID, targetUserID); err != nil {
		if isNotFound(err) {
			return ErrProjectMemberNotFound
		}
		return fmt.Errorf("failed to find project membership: %w", err)
	}

	if err := s.projectRepo.RemoveMembershipCascade(projectID, targetUserID); err != nil {
		return fmt.Errorf("failed to remove project member: %w", err)
	}
	return nil
}

// ListMembers returns a project's memberships for actors who can view the
// project. Everyone else gets an empty list.
func (s *ProjectService) ListMembers(projectID, actorID uint64) ([]models.ProjectMembership, error) {
	project, err := s.findProject(projectID)
	if err != nil {
		return nil, err
	}

	visible, err := s.checker.CanViewProject(actorID, project.OrganizationID, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check permission: %w", err)
	}
	if !visible {
		return []models.ProjectMembership{}, nil
	}

	memberships, err := s.projectRepo.ListMemberships(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	return memberships, nil
}

func (s *ProjectService) findProject(projectID uint64) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(projectID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

// requireManage hides the project from actors who cannot even view it and
// denies viewers who cannot manage it.
func (s *ProjectService) requireManage(project *models.Project, actorID uint64) error {
	allowed, err := s.checker.CanManageProject(actorID, project.OrganizationID)
	if err != nil {
		return fmt.Errorf("failed to check permission: %w", err)
	}
	if allowed {
		return nil
	}

	visible, err := s.checker.CanViewProject(actorID, project.OrganizationID, project.ID)
	if err != nil {
		return fmt.Errorf("failed to check permission: %w", err)
	}
	if !visible {
		return ErrProjectNotFound
	}
	return ErrPermissionDenied
}
